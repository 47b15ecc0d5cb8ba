// corpusctl is a standalone demo harness for the in-memory engine: it
// seeds a small corpus, runs a handful of searches and matches against
// it, then exercises the paginator, request queue, and duplicate sweep
// on top of the results. It has no server, no Redis, no Kafka — those
// live in cmd/server.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/arjun-iyer/corpusengine/internal/dedup"
	"github.com/arjun-iyer/corpusengine/internal/engine"
	"github.com/arjun-iyer/corpusengine/internal/paginator"
	"github.com/arjun-iyer/corpusengine/internal/requestqueue"
)

func main() {
	stopWords := flag.String("stopwords", "and in on", "space-separated stop words")
	pageSize := flag.Int("page-size", 2, "result page size for the paginator demo")
	flag.Parse()

	server, err := engine.NewFromString(*stopWords)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to construct engine: %v\n", err)
		os.Exit(1)
	}

	addDocument(server, 1, "fluffy cat fluffy tail", engine.StatusActual, []int{7, 2, 7})
	addDocument(server, 2, "fluffy dog and fashion collar", engine.StatusActual, []int{1, 2})
	addDocument(server, 3, "big dog bird john", engine.StatusActual, []int{1, 3, 2})
	addDocument(server, 4, "big dog bird john", engine.StatusActual, []int{1, 1, 1})
	addDocument(server, -1, "fluffy dog and fashion collar", engine.StatusActual, []int{1, 2})

	queue := requestqueue.New()
	runSearch(server, queue, "fluffy -dog")
	runSearch(server, queue, "fluffy --cat")
	runSearch(server, queue, "fluffy -")

	matchDocuments(server, "fluffy dog")
	matchDocuments(server, "fashion -cat")

	fmt.Printf("no-result requests in the last window: %d/%d\n", queue.NoResultCount(), queue.Len())

	removed := dedup.Sweep(server)
	fmt.Printf("duplicate sweep removed ids: %v\n", removed)

	fmt.Println("paginated remaining ids:")
	ids := server.Ids()
	for _, page := range paginator.Paginate(ids, *pageSize) {
		fmt.Printf("  page %d: %v\n", page.Index, page.Items)
	}
}

func addDocument(server *engine.Engine, id int, content string, status engine.Status, ratings []int) {
	if err := server.Add(id, content, status, ratings); err != nil {
		fmt.Printf("error adding document %d: %v\n", id, err)
	}
}

func runSearch(server *engine.Engine, queue *requestqueue.Queue, query string) {
	fmt.Printf("search results: %s\n", query)
	docs, err := server.FindTop(query, nil)
	if err != nil {
		fmt.Printf("  search error: %v\n", err)
		return
	}
	queue.Record(len(docs))
	for _, d := range docs {
		fmt.Printf("  { document_id = %d, relevance = %v, rating = %d }\n", d.ID, d.Relevance, d.Rating)
	}
}

func matchDocuments(server *engine.Engine, query string) {
	fmt.Printf("document match by query: %s\n", query)
	ctx := context.Background()
	for _, id := range server.Ids() {
		words, status, err := server.MatchParallel(ctx, query, id)
		if err != nil {
			fmt.Printf("  match error for document %d: %v\n", id, err)
			continue
		}
		fmt.Printf("  { document_id = %d, status = %s, words = %v }\n", id, status, words)
	}
}
