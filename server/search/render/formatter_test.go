package render

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/lifeinbox/lifeinbox/server/search/ranking"
	"github.com/lifeinbox/lifeinbox/store"
)

var renderNow = time.Date(2024, 12, 4, 12, 0, 0, 0, time.UTC)

func testFormatter() *Formatter {
	return NewFormatter().WithClock(func() time.Time { return renderNow })
}

func result(id int32, content, category string, created time.Time, score float64, strategy ranking.Strategy) ranking.RankedResult {
	return ranking.RankedResult{
		Record: &store.Record{
			ID:        id,
			Content:   content,
			Category:  category,
			CreatedTs: created.Unix(),
		},
		Score:    score,
		Strategy: strategy,
	}
}

func TestRenderPageWithContinuation(t *testing.T) {
	f := testFormatter()
	page := Page{
		Query: "bills",
		Results: []ranking.RankedResult{
			result(1, "electricity bill due December 1st", "bills", renderNow.AddDate(0, 0, -2), 0.82, ranking.StrategyLexical),
			result(2, "water bill receipt", "unknown-cat", renderNow, 0.61, ranking.StrategySemantic),
		},
		Offset:  0,
		Total:   12,
		HasMore: true,
	}

	out := f.RenderPage(page, ChannelTelegram)

	require.Contains(t, out, `Found 12 results for "bills" (showing 1-2)`)
	require.Contains(t, out, "electricity bill due December 1st")
	require.Contains(t, out, "🧾")
	require.Contains(t, out, defaultIcon) // unmapped category falls back
	require.Contains(t, out, "2 days ago")
	require.Contains(t, out, "today")
	require.Contains(t, out, "82%")
	require.Contains(t, out, "text match")
	require.Contains(t, out, "similar meaning")
	require.Contains(t, out, "Send /more for the next page.")
}

func TestRenderPageLastPageOmitsHint(t *testing.T) {
	f := testFormatter()
	page := Page{
		Query: "bills",
		Results: []ranking.RankedResult{
			result(11, "gas bill", "bills", renderNow, 0.5, ranking.StrategyLexical),
			result(12, "phone bill", "bills", renderNow, 0.4, ranking.StrategyLexical),
		},
		Offset:  10,
		Total:   12,
		HasMore: false,
	}

	out := f.RenderPage(page, ChannelTelegram)
	require.Contains(t, out, "(showing 11-12)")
	require.NotContains(t, out, "/more")
}

func TestRenderPageRespectsBudget(t *testing.T) {
	f := testFormatter()

	long := strings.Repeat("electricity bill reminder ", 20)
	var results []ranking.RankedResult
	for i := int32(1); i <= 50; i++ {
		results = append(results, result(i, long, "bills", renderNow, 0.9, ranking.StrategyLexical))
	}
	page := Page{Query: "bills", Results: results, Total: 100, HasMore: true}

	out := f.RenderPage(page, ChannelTelegram)
	require.LessOrEqual(t, len(out), channelProfiles[ChannelTelegram].messageBudget)
	require.Contains(t, out, "…") // long snippets are truncated
	require.Contains(t, out, "Send /more for the next page.")
}

func TestRenderPageUnknownChannelUsesTightestProfile(t *testing.T) {
	f := testFormatter()
	page := Page{
		Query:   "bills",
		Results: []ranking.RankedResult{result(1, "gas bill", "bills", renderNow, 0.5, ranking.StrategyLexical)},
		Total:   1,
	}

	require.Equal(t, f.RenderPage(page, Channel("sms")), f.RenderPage(page, ChannelTelegram))
}

func TestRenderEmptyNamesQuery(t *testing.T) {
	f := testFormatter()

	out := f.RenderPage(Page{Query: "unicorn sightings"}, ChannelTelegram)
	require.Contains(t, out, "unicorn sightings")
	require.Contains(t, out, "No results")
}

func TestRenderStatusMessages(t *testing.T) {
	f := testFormatter()
	require.Contains(t, f.RenderEndOfResults(ChannelTelegram), "no more results")
	require.Contains(t, f.RenderSessionExpired(ChannelTelegram), "expired")
	require.Contains(t, f.RenderNoSession(ChannelTelegram), "new query")
}

func TestRelativeDate(t *testing.T) {
	f := testFormatter()
	require.Equal(t, "today", f.relativeDate(renderNow.Unix()))
	require.Equal(t, "yesterday", f.relativeDate(renderNow.AddDate(0, 0, -1).Unix()))
	require.Equal(t, "3 days ago", f.relativeDate(renderNow.AddDate(0, 0, -3).Unix()))
	require.Equal(t, "Jun 15", f.relativeDate(time.Date(2024, 6, 15, 8, 0, 0, 0, time.UTC).Unix()))
	require.Equal(t, "Jun 15, 2023", f.relativeDate(time.Date(2023, 6, 15, 8, 0, 0, 0, time.UTC).Unix()))
}

func TestRenderItemShowsMatchedToken(t *testing.T) {
	f := testFormatter()
	page := Page{
		Query: "elektrisity",
		Results: []ranking.RankedResult{{
			Record: &store.Record{
				ID:        1,
				Content:   "electricity bill due December 1st",
				Category:  "bills",
				CreatedTs: renderNow.Unix(),
			},
			Score:     0.82,
			Strategy:  ranking.StrategyLexical,
			Highlight: "electricity",
		}},
		Total: 1,
	}

	out := f.RenderPage(page, ChannelTelegram)
	require.Contains(t, out, `text match "electricity"`)
}

func TestRenderItemPrefersSummary(t *testing.T) {
	f := testFormatter()
	page := Page{
		Query: "bill",
		Results: []ranking.RankedResult{{
			Record: &store.Record{
				ID:        1,
				Content:   "voice-note-2024.ogg",
				Summary:   "reminder about the electricity bill",
				CreatedTs: renderNow.Unix(),
			},
			Score:    0.7,
			Strategy: ranking.StrategyLexical,
		}},
		Total: 1,
	}

	out := f.RenderPage(page, ChannelTelegram)
	require.Contains(t, out, "reminder about the electricity bill")
	require.NotContains(t, out, "voice-note-2024.ogg")
}
