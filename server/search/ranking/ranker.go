// Package ranking merges per-strategy match candidates into a single ordered
// result list with one score and one dominant strategy tag per record.
package ranking

import (
	"sort"

	"github.com/lifeinbox/lifeinbox/store"
)

// Strategy identifies which matching strategy produced a candidate.
type Strategy string

const (
	StrategySemantic Strategy = "semantic"
	StrategyLexical  Strategy = "lexical"
	StrategyPhonetic Strategy = "phonetic"
)

// strategyPriority breaks exact score ties between strategies. Higher wins.
// Data-driven on purpose: adding a strategy without a priority entry is
// caught by the exhaustiveness test, not by silent fallthrough.
var strategyPriority = map[Strategy]int{
	StrategySemantic: 3,
	StrategyLexical:  2,
	StrategyPhonetic: 1,
}

// Priority returns the tie-break priority of a strategy (0 for unknown).
func (s Strategy) Priority() int {
	return strategyPriority[s]
}

// Description returns the human-readable label for a strategy.
func (s Strategy) Description() string {
	if d, ok := strategyDescriptions[s]; ok {
		return d
	}
	return "match"
}

var strategyDescriptions = map[Strategy]string{
	StrategySemantic: "similar meaning",
	StrategyLexical:  "text match",
	StrategyPhonetic: "sounds like",
}

// MatchCandidate is one record scored by exactly one strategy during a single
// query evaluation. Never persisted. Highlight optionally names the token the
// strategy matched on, for rendering.
type MatchCandidate struct {
	Record    *store.Record
	Score     float64
	Strategy  Strategy
	Highlight string
}

// RankedResult is the merged, per-record outcome: the maximum candidate score
// and the strategy that produced it.
type RankedResult struct {
	Record    *store.Record
	Score     float64
	Strategy  Strategy
	Highlight string
}

// Merge groups candidates by record identity, keeps the maximum score per
// record (ties broken by strategy priority), and returns results sorted by
// score descending. Equal scores keep discovery order so repeated renders of
// the same list are deterministic.
func Merge(groups ...[]MatchCandidate) []RankedResult {
	byRecord := make(map[int32]*RankedResult)
	order := []int32{}

	for _, candidates := range groups {
		for _, c := range candidates {
			if c.Record == nil {
				continue
			}
			existing, ok := byRecord[c.Record.ID]
			if !ok {
				result := RankedResult{Record: c.Record, Score: c.Score, Strategy: c.Strategy, Highlight: c.Highlight}
				byRecord[c.Record.ID] = &result
				order = append(order, c.Record.ID)
				continue
			}
			if c.Score > existing.Score ||
				(c.Score == existing.Score && c.Strategy.Priority() > existing.Strategy.Priority()) {
				existing.Score = c.Score
				existing.Strategy = c.Strategy
				existing.Highlight = c.Highlight
			}
		}
	}

	results := make([]RankedResult, 0, len(order))
	for _, id := range order {
		results = append(results, *byRecord[id])
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	return results
}
