// Package queryengine turns raw user queries into retrieval plans: an
// enhanced query string plus structured filters. Short keyword queries are
// planned heuristically; complex natural-language queries are delegated to
// the language model, with the heuristic path as a silent fallback.
package queryengine

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/lifeinbox/lifeinbox/plugin/ai/nlu"
	"github.com/lifeinbox/lifeinbox/server/search/lexical"
	"github.com/lifeinbox/lifeinbox/store"
)

// simpleTokenLimit is the largest token count still considered a simple
// keyword query when no complexity marker is present.
const simpleTokenLimit = 3

// Filters narrows the candidate pool before matching.
type Filters struct {
	Dates       DateRange
	ContentType store.ContentType
	Category    string
}

// Plan is the planner's output. EnhancedQuery is what the matchers run
// against; Filters constrain the pool.
type Plan struct {
	EnhancedQuery string
	Intents       []string
	Filters       Filters
	Complex       bool
}

// PlanContext carries per-user signals the planner may use.
type PlanContext struct {
	RecentCategories []string
}

// Planner routes queries between the heuristic and the language-model path.
// Planning never fails: every input yields a usable Plan.
type Planner struct {
	nlu     nlu.Service
	now     func() time.Time
	timeout time.Duration
	logger  *slog.Logger
}

// NewPlanner creates a planner. A nil nlu service disables the complex path
// entirely; every query then takes the heuristic path.
func NewPlanner(nluService nlu.Service) *Planner {
	return &Planner{
		nlu:     nluService,
		now:     time.Now,
		timeout: nlu.DefaultAnalyzeTimeout,
		logger:  slog.Default(),
	}
}

// WithClock replaces the planner's clock. Used to anchor relative dates in
// tests.
func (p *Planner) WithClock(now func() time.Time) *Planner {
	p.now = now
	return p
}

// IsSimple reports whether the query can be planned without the language
// model: at most three tokens and none of them a complexity marker.
func IsSimple(query string) bool {
	tokens := lexical.Tokenize(query)
	if len(tokens) > simpleTokenLimit {
		return false
	}
	for _, t := range tokens {
		if isComplexityMarker(t) {
			return false
		}
	}
	return true
}

// Plan produces a retrieval plan for the query.
func (p *Planner) Plan(ctx context.Context, query string, pctx PlanContext) Plan {
	if IsSimple(query) || p.nlu == nil {
		return p.simplePlan(query, pctx)
	}

	plan, err := p.complexPlan(ctx, query, pctx)
	if err != nil {
		p.logger.Warn("query analysis failed, falling back to heuristics",
			"error", err)
		return p.simplePlan(query, pctx)
	}
	return plan
}

func (p *Planner) simplePlan(query string, pctx PlanContext) Plan {
	plan := Plan{Intents: []string{"search"}}

	dates, stripped := resolveRelativeDates(query, p.now())
	plan.Filters.Dates = dates
	plan.EnhancedQuery = stripped

	for _, token := range lexical.Tokenize(stripped) {
		if plan.Filters.ContentType == "" {
			if ct, ok := contentTypeKeywords[token]; ok {
				plan.Filters.ContentType = ct
			}
		}
		if plan.Filters.Category == "" {
			for _, cat := range pctx.RecentCategories {
				if strings.EqualFold(cat, token) {
					plan.Filters.Category = cat
					break
				}
			}
		}
	}

	return plan
}

// llmPlan mirrors the JSON object the analysis prompt asks the model for.
type llmPlan struct {
	EnhancedQuery string   `json:"enhanced_query"`
	Intents       []string `json:"intents"`
	Filters       struct {
		DateFrom    string `json:"date_from"`
		DateTo      string `json:"date_to"`
		ContentType string `json:"content_type"`
		Category    string `json:"category"`
	} `json:"filters"`
}

func (p *Planner) complexPlan(ctx context.Context, query string, pctx PlanContext) (Plan, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	prompt := p.buildPrompt(query, pctx)
	raw, err := p.nlu.Analyze(ctx, prompt)
	if err != nil {
		return Plan{}, fmt.Errorf("analyze query: %w", err)
	}

	object, err := nlu.ExtractJSONObject(raw)
	if err != nil {
		return Plan{}, fmt.Errorf("extract analysis object: %w", err)
	}

	var parsed llmPlan
	if err := json.Unmarshal([]byte(object), &parsed); err != nil {
		return Plan{}, fmt.Errorf("decode analysis object: %w", err)
	}

	plan := Plan{
		EnhancedQuery: strings.TrimSpace(parsed.EnhancedQuery),
		Intents:       parsed.Intents,
		Complex:       true,
	}
	if plan.EnhancedQuery == "" {
		plan.EnhancedQuery = query
	}
	if len(plan.Intents) == 0 {
		plan.Intents = []string{"search"}
	}

	if from, err := time.ParseInLocation(time.DateOnly, parsed.Filters.DateFrom, p.now().Location()); err == nil {
		plan.Filters.Dates.From = from.Unix()
	}
	if to, err := time.ParseInLocation(time.DateOnly, parsed.Filters.DateTo, p.now().Location()); err == nil {
		// The model reports an inclusive end date; the range is half-open.
		plan.Filters.Dates.To = to.AddDate(0, 0, 1).Unix()
	}
	if ct := store.ContentType(parsed.Filters.ContentType); isKnownContentType(ct) {
		plan.Filters.ContentType = ct
	}
	plan.Filters.Category = strings.TrimSpace(parsed.Filters.Category)

	return plan, nil
}

func (p *Planner) buildPrompt(query string, pctx PlanContext) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Today is %s.\n", p.now().Format(time.DateOnly))
	if len(pctx.RecentCategories) > 0 {
		fmt.Fprintf(&sb, "The user's recent categories: %s.\n",
			strings.Join(pctx.RecentCategories, ", "))
	}
	fmt.Fprintf(&sb, "Query: %s", query)
	return sb.String()
}

func isKnownContentType(ct store.ContentType) bool {
	switch ct {
	case store.ContentTypeText, store.ContentTypeVoice,
		store.ContentTypeImage, store.ContentTypeEmail:
		return true
	}
	return false
}
