// Package paginator splits a slice of results into fixed-size pages, for
// callers (such as the corpusctl CLI) that want to present FindTop/FindTopParallel
// output — or any other slice, such as a live-id listing — a page at a time
// rather than all at once.
package paginator

// Page is a contiguous, non-overlapping slice of the original items.
type Page[T any] struct {
	Items []T
	Index int
}

// Paginate splits items into pages of pageSize, in order. The final page
// holds the remainder and may be shorter than pageSize. A non-positive
// pageSize or an empty items slice yields no pages.
func Paginate[T any](items []T, pageSize int) []Page[T] {
	if pageSize <= 0 || len(items) == 0 {
		return nil
	}
	pages := make([]Page[T], 0, (len(items)+pageSize-1)/pageSize)
	for start := 0; start < len(items); start += pageSize {
		end := start + pageSize
		if end > len(items) {
			end = len(items)
		}
		pages = append(pages, Page[T]{
			Items: items[start:end],
			Index: len(pages),
		})
	}
	return pages
}
