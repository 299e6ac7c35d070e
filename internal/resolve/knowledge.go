package resolve

import (
	"context"

	"github.com/yardpilot/yardpilot/internal/match"
	"github.com/yardpilot/yardpilot/internal/store"
)

// searchKnowledge resolves a query against the question/answer notes. Unlike
// the record searches this keeps only the single best entry, and only when
// it clears the knowledge threshold.
func (o *Orchestrator) searchKnowledge(ctx context.Context, query string) string {
	return o.cached(ctx, "knowledge", query, func() string {
		entries, err := o.store.ListKnowledge(ctx)
		if err != nil {
			return ""
		}
		return bestKnowledgeAnswer(query, entries, o.knowledgeThreshold)
	})
}

func bestKnowledgeAnswer(query string, entries []*store.KnowledgeEntry, threshold float64) string {
	records := make([]match.Record, len(entries))
	for i, e := range entries {
		records[i] = match.Record{Primary: e.Question, Extra: []string{e.Answer}}
	}
	idx, _ := match.Best(query, records, threshold, match.Options{})
	if idx < 0 {
		return ""
	}
	return entries[idx].Answer
}
