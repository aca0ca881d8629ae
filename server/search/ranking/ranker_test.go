package ranking

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lifeinbox/lifeinbox/store"
)

func TestMergeKeepsMaxScorePerRecord(t *testing.T) {
	r1 := &store.Record{ID: 1, Content: "electricity bill"}
	r2 := &store.Record{ID: 2, Content: "dentist appointment"}

	lexical := []MatchCandidate{
		{Record: r1, Score: 0.8, Strategy: StrategyLexical, Highlight: "electricity"},
		{Record: r2, Score: 0.4, Strategy: StrategyLexical, Highlight: "dentist"},
	}
	semantic := []MatchCandidate{
		{Record: r1, Score: 0.6, Strategy: StrategySemantic},
		{Record: r2, Score: 0.9, Strategy: StrategySemantic},
	}

	results := Merge(lexical, semantic)
	require.Len(t, results, 2)

	// Sorted descending by score. The highlight follows the winning candidate.
	require.Equal(t, int32(2), results[0].Record.ID)
	require.Equal(t, 0.9, results[0].Score)
	require.Equal(t, StrategySemantic, results[0].Strategy)
	require.Empty(t, results[0].Highlight)

	require.Equal(t, int32(1), results[1].Record.ID)
	require.Equal(t, 0.8, results[1].Score)
	require.Equal(t, StrategyLexical, results[1].Strategy)
	require.Equal(t, "electricity", results[1].Highlight)
}

func TestMergeScoreNeverBelowAnyInput(t *testing.T) {
	r := &store.Record{ID: 7}
	inputs := []MatchCandidate{
		{Record: r, Score: 0.35, Strategy: StrategyLexical},
		{Record: r, Score: 0.6, Strategy: StrategyPhonetic},
		{Record: r, Score: 0.52, Strategy: StrategySemantic},
	}

	results := Merge(inputs)
	require.Len(t, results, 1)
	for _, in := range inputs {
		require.GreaterOrEqual(t, results[0].Score, in.Score)
	}
	require.Equal(t, StrategyPhonetic, results[0].Strategy)
}

func TestMergeTieBreaksByStrategyPriority(t *testing.T) {
	r := &store.Record{ID: 3}

	results := Merge([]MatchCandidate{
		{Record: r, Score: 0.7, Strategy: StrategyPhonetic},
		{Record: r, Score: 0.7, Strategy: StrategyLexical},
		{Record: r, Score: 0.7, Strategy: StrategySemantic},
	})
	require.Len(t, results, 1)
	require.Equal(t, StrategySemantic, results[0].Strategy)

	// Order of arrival must not change the winner.
	results = Merge([]MatchCandidate{
		{Record: r, Score: 0.7, Strategy: StrategySemantic},
		{Record: r, Score: 0.7, Strategy: StrategyPhonetic},
	})
	require.Equal(t, StrategySemantic, results[0].Strategy)
}

func TestMergeStableOrderOnEqualScores(t *testing.T) {
	a := &store.Record{ID: 1}
	b := &store.Record{ID: 2}

	results := Merge([]MatchCandidate{
		{Record: a, Score: 0.5, Strategy: StrategyLexical},
		{Record: b, Score: 0.5, Strategy: StrategyLexical},
	})
	require.Len(t, results, 2)
	require.Equal(t, int32(1), results[0].Record.ID)
	require.Equal(t, int32(2), results[1].Record.ID)
}

func TestMergeSkipsNilRecords(t *testing.T) {
	results := Merge([]MatchCandidate{
		{Record: nil, Score: 0.9, Strategy: StrategyLexical},
	})
	require.Empty(t, results)
}

func TestStrategyPriorityCoversAllStrategies(t *testing.T) {
	for _, s := range []Strategy{StrategySemantic, StrategyLexical, StrategyPhonetic} {
		require.Positive(t, s.Priority(), "strategy %q has no priority", s)
		require.NotEqual(t, "match", s.Description())
	}
	require.Zero(t, Strategy("unknown").Priority())
	require.Equal(t, "match", Strategy("unknown").Description())
}
