// Package dedup sweeps an engine for documents whose non-stop-word sets are
// identical and removes the higher-id duplicate, mirroring
// RemoveDuplicates from the original course project.
package dedup

import (
	"sort"
	"strings"

	"github.com/arjun-iyer/corpusengine/internal/engine"
)

// Sweep removes every document whose word set duplicates an
// earlier-encountered document's word set, scanning live ids in ascending
// order so "earlier" means "lower id". It returns the removed ids, also in
// ascending order.
//
// The live-id list is snapshotted up front via e.Ids(), so removing a
// duplicate mid-sweep never perturbs the remaining iteration — e.Ids()
// itself is not consulted again until the sweep completes.
func Sweep(e *engine.Engine) []int {
	ids := e.Ids()
	seen := make(map[string]struct{}, len(ids))
	var duplicates []int

	for _, id := range ids {
		key := wordSetKey(e.WordFrequencies(id))
		if _, ok := seen[key]; ok {
			duplicates = append(duplicates, id)
			continue
		}
		seen[key] = struct{}{}
	}

	sort.Ints(duplicates)
	for _, id := range duplicates {
		e.Remove(id)
	}
	return duplicates
}

// wordSetKey returns a canonical representation of freqs' key set, suitable
// for equality comparison between documents — term frequencies themselves
// are irrelevant to duplicate detection, only which terms are present.
func wordSetKey(freqs map[string]float64) string {
	words := make([]string, 0, len(freqs))
	for w := range freqs {
		words = append(words, w)
	}
	sort.Strings(words)
	return strings.Join(words, "\x00")
}
