package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/lifeinbox/lifeinbox/server/search/ranking"
)

// Page is one window into a ranked result list, ready to render.
type Page struct {
	Query   string
	Results []ranking.RankedResult
	// Offset is the zero-based index of the first result within the full
	// list; Total is the full list's length.
	Offset int
	Total  int
	// HasMore reports whether another page follows this one.
	HasMore bool
}

// Formatter renders pages for a channel. The clock is injectable so relative
// dates are stable in tests.
type Formatter struct {
	now func() time.Time
}

func NewFormatter() *Formatter {
	return &Formatter{now: time.Now}
}

// WithClock replaces the formatter's clock.
func (f *Formatter) WithClock(now func() time.Time) *Formatter {
	f.now = now
	return f
}

// RenderPage renders one result page for the channel, staying within the
// channel's message budget.
func (f *Formatter) RenderPage(page Page, ch Channel) string {
	if len(page.Results) == 0 {
		return f.RenderEmpty(page.Query, ch)
	}

	profile := profileFor(ch)
	var sb strings.Builder

	fmt.Fprintf(&sb, "Found %d results for \"%s\" (showing %d-%d):\n",
		page.Total, page.Query, page.Offset+1, page.Offset+len(page.Results))

	for i, result := range page.Results {
		line := f.renderItem(page.Offset+i+1, result, profile)
		// Keep room for the continuation hint before committing the line.
		if sb.Len()+len(line)+len(profile.moreHint)+2 > profile.messageBudget {
			break
		}
		sb.WriteString(line)
	}

	if page.HasMore {
		sb.WriteString("\n")
		sb.WriteString(profile.moreHint)
	}

	return sb.String()
}

func (f *Formatter) renderItem(position int, result ranking.RankedResult, profile channelProfile) string {
	record := result.Record

	text := record.Content
	if record.Summary != "" {
		text = record.Summary
	}
	text = truncate(strings.Join(strings.Fields(text), " "), profile.snippetBudget)

	match := result.Strategy.Description()
	if result.Highlight != "" {
		match = fmt.Sprintf("%s \"%s\"", match, result.Highlight)
	}

	return fmt.Sprintf("%d. %s %s\n   %s · %s · %d%%\n",
		position,
		iconFor(record.Category),
		text,
		f.relativeDate(record.CreatedTs),
		match,
		int(result.Score*100),
	)
}

// RenderEmpty is the zero-result message. It always names the query so the
// user can see what was actually searched.
func (f *Formatter) RenderEmpty(query string, ch Channel) string {
	return fmt.Sprintf("No results for \"%s\". Try different words or fewer filters.", query)
}

// RenderEndOfResults marks an exhausted pagination session.
func (f *Formatter) RenderEndOfResults(ch Channel) string {
	return "That's everything, no more results."
}

// RenderSessionExpired tells the user their pagination session timed out.
func (f *Formatter) RenderSessionExpired(ch Channel) string {
	return "That search has expired. Start a new one."
}

// RenderNoSession covers a continuation request with nothing to continue.
func (f *Formatter) RenderNoSession(ch Channel) string {
	return "There's no search to continue. Send a new query first."
}

func (f *Formatter) relativeDate(ts int64) string {
	now := f.now()
	created := time.Unix(ts, 0).In(now.Location())

	days := int(startOfDay(now).Sub(startOfDay(created)).Hours() / 24)
	switch {
	case days <= 0:
		return "today"
	case days == 1:
		return "yesterday"
	case days < 7:
		return fmt.Sprintf("%d days ago", days)
	case created.Year() == now.Year():
		return created.Format("Jan 2")
	default:
		return created.Format("Jan 2, 2006")
	}
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return strings.TrimSpace(string(runes[:limit-1])) + "…"
}
