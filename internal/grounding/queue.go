package grounding

import (
	"sort"

	"github.com/jburnford/philosophical-transactions-ocr-1665-1869/internal/corpus"
)

// WorkQueue returns the identities whose exact name is not in existing,
// ordered by descending article count with ties broken by name. A positive
// limit caps the result after filtering.
func WorkQueue(identities []corpus.Identity, existing map[string]struct{}, limit int) []corpus.Identity {
	queue := make([]corpus.Identity, 0, len(identities))
	for _, id := range identities {
		if _, done := existing[id.Name]; done {
			continue
		}
		queue = append(queue, id)
	}
	sort.SliceStable(queue, func(i, j int) bool {
		if queue[i].ArticleCount != queue[j].ArticleCount {
			return queue[i].ArticleCount > queue[j].ArticleCount
		}
		return queue[i].Name < queue[j].Name
	})
	if limit > 0 && len(queue) > limit {
		queue = queue[:limit]
	}
	return queue
}
