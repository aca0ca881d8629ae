// Package nlu provides the natural-language understanding capability used by
// the query planner for complex queries. The planner treats every failure
// here as soft: it falls back to heuristic enhancement instead of failing
// the search.
package nlu

import "context"

// Service analyzes a prompt and returns freeform model output. Callers must
// defensively extract structured data from the response; the model is not
// guaranteed to return clean JSON.
type Service interface {
	Analyze(ctx context.Context, prompt string) (string, error)
}
