// Package search orchestrates a query end to end: planning, parallel lexical
// and semantic retrieval, merging, pagination, and rendering.
package search

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/lifeinbox/lifeinbox/server/internal/observability"
	"github.com/lifeinbox/lifeinbox/server/queryengine"
	"github.com/lifeinbox/lifeinbox/server/search/embedindex"
	"github.com/lifeinbox/lifeinbox/server/search/lexical"
	"github.com/lifeinbox/lifeinbox/server/search/ranking"
	"github.com/lifeinbox/lifeinbox/server/search/render"
	"github.com/lifeinbox/lifeinbox/server/search/session"
	"github.com/lifeinbox/lifeinbox/store"
)

const (
	// candidatePoolLimit caps how many records the lexical scan loads.
	candidatePoolLimit = 500
	// vectorTopK is how many neighbors the vector leg asks the store for.
	vectorTopK = 20
	// minLexicalScore drops weak fuzzy matches. Unrelated words still reach
	// ~0.45 under normalized edit distance, so this sits well above that.
	minLexicalScore = 0.5
	// minSemanticScore drops vector neighbors that are close only because
	// the pool is small.
	minSemanticScore = 0.35
	// recentCategoryLimit bounds the category list handed to the planner.
	recentCategoryLimit = 10
)

// Status discriminates what kind of page a reply carries, so transports can
// react without parsing the rendered text.
type Status string

const (
	StatusResults   Status = "results"
	StatusEmpty     Status = "empty"
	StatusNoSession Status = "no_session"
	StatusExpired   Status = "expired"
	StatusEnd       Status = "end_of_results"
)

// Reply is a rendered page plus its status discriminator.
type Reply struct {
	Status  Status
	Message string
}

// Service answers search and continuation requests for one datastore.
type Service struct {
	store     *store.Store
	matcher   *lexical.Matcher
	index     *embedindex.Index
	planner   *queryengine.Planner
	formatter *render.Formatter
	sessions  *session.Manager
	logger    *slog.Logger
}

// NewService wires the retrieval pipeline. The index may be nil when no
// embedding backend is configured; searches then run lexical-only.
func NewService(
	st *store.Store,
	index *embedindex.Index,
	planner *queryengine.Planner,
	sessions *session.Manager,
) *Service {
	return &Service{
		store:     st,
		matcher:   lexical.NewMatcher(minLexicalScore),
		index:     index,
		planner:   planner,
		formatter: render.NewFormatter(),
		sessions:  sessions,
		logger:    slog.Default(),
	}
}

// Formatter exposes the renderer, mainly so callers can reuse its status
// messages.
func (s *Service) Formatter() *render.Formatter {
	return s.formatter
}

// requestLogger returns the request-scoped logger when the transport put one
// on the context, so pipeline logs carry the request ID.
func (s *Service) requestLogger(ctx context.Context) *slog.Logger {
	if rc, ok := observability.FromContext(ctx); ok {
		return rc.Logger.With(slog.String(observability.LogFieldRequestID, rc.RequestID))
	}
	return s.logger
}

// Search runs a full query for the user and returns the rendered first page.
func (s *Service) Search(ctx context.Context, userID int32, query, channel string) (*Reply, error) {
	ch := render.Channel(channel)

	query = strings.TrimSpace(query)
	if len(lexical.Tokenize(query)) == 0 {
		return &Reply{Status: StatusEmpty, Message: s.formatter.RenderEmpty(query, ch)}, nil
	}

	categories, err := s.store.ListRecentCategories(ctx, userID, recentCategoryLimit)
	if err != nil {
		return nil, fmt.Errorf("list recent categories: %w", err)
	}

	plan := s.planner.Plan(ctx, query, queryengine.PlanContext{RecentCategories: categories})

	var lexicalCandidates, semanticCandidates []ranking.MatchCandidate
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		lexicalCandidates, err = s.lexicalLeg(gctx, userID, plan)
		return err
	})
	g.Go(func() error {
		var err error
		semanticCandidates, err = s.semanticLeg(gctx, userID, plan)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := ranking.Merge(lexicalCandidates, semanticCandidates)
	s.requestLogger(ctx).Debug("search completed",
		"user_id", userID,
		"complex_plan", plan.Complex,
		"lexical", len(lexicalCandidates),
		"semantic", len(semanticCandidates),
		"merged", len(merged))

	window, err := s.sessions.Begin(ctx, userID, query, channel, merged)
	if err != nil {
		return nil, err
	}

	status := StatusResults
	if len(merged) == 0 {
		status = StatusEmpty
	}
	return &Reply{Status: status, Message: s.renderWindow(window, ch)}, nil
}

// More serves the next page of the user's current session. Absent, expired,
// and exhausted sessions each get their own non-error rendering.
func (s *Service) More(ctx context.Context, userID int32, channel string) (*Reply, error) {
	ch := render.Channel(channel)

	window, err := s.sessions.Advance(ctx, userID)
	switch {
	case errors.Is(err, session.ErrNotFound):
		return &Reply{Status: StatusNoSession, Message: s.formatter.RenderNoSession(ch)}, nil
	case errors.Is(err, session.ErrExpired):
		return &Reply{Status: StatusExpired, Message: s.formatter.RenderSessionExpired(ch)}, nil
	case errors.Is(err, session.ErrExhausted):
		return &Reply{Status: StatusEnd, Message: s.formatter.RenderEndOfResults(ch)}, nil
	case err != nil:
		return nil, err
	}

	if window.Channel != "" {
		ch = render.Channel(window.Channel)
	}
	return &Reply{Status: StatusResults, Message: s.renderWindow(window, ch)}, nil
}

func (s *Service) renderWindow(window session.Window, ch render.Channel) string {
	return s.formatter.RenderPage(render.Page{
		Query:   window.Query,
		Results: window.Results,
		Offset:  window.Offset,
		Total:   window.Total,
		HasMore: window.HasMore,
	}, ch)
}

// lexicalLeg loads the filtered candidate pool and fuzzy-matches it.
func (s *Service) lexicalLeg(ctx context.Context, userID int32, plan queryengine.Plan) ([]ranking.MatchCandidate, error) {
	find := &store.FindRecord{CreatorID: &userID}
	limit := candidatePoolLimit
	find.Limit = &limit
	if plan.Filters.Category != "" {
		find.Category = &plan.Filters.Category
	}
	if plan.Filters.ContentType != "" {
		ct := plan.Filters.ContentType
		find.ContentType = &ct
	}
	if plan.Filters.Dates.From != 0 {
		find.CreatedTsAfter = &plan.Filters.Dates.From
	}
	if plan.Filters.Dates.To != 0 {
		find.CreatedTsBefore = &plan.Filters.Dates.To
	}

	pool, err := s.store.ListRecords(ctx, find)
	if err != nil {
		return nil, fmt.Errorf("list candidate pool: %w", err)
	}
	return s.matcher.Search(plan.EnhancedQuery, pool), nil
}

// semanticLeg embeds the query and asks the store for nearest neighbors.
// An unavailable embedding backend degrades to an empty leg; a datastore
// failure is fatal.
func (s *Service) semanticLeg(ctx context.Context, userID int32, plan queryengine.Plan) ([]ranking.MatchCandidate, error) {
	if s.index == nil {
		return nil, nil
	}

	vector, err := s.index.Embed(ctx, plan.EnhancedQuery)
	if err != nil {
		if errors.Is(err, embedindex.ErrEmbeddingUnavailable) {
			s.requestLogger(ctx).Warn("semantic leg degraded", "error", err)
			return nil, nil
		}
		return nil, fmt.Errorf("embed query: %w", err)
	}

	neighbors, err := s.store.VectorSearch(ctx, &store.VectorSearchOptions{
		CreatorID: userID,
		Vector:    vector,
		Model:     s.index.Model(),
		Limit:     vectorTopK,
	})
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}

	candidates := make([]ranking.MatchCandidate, 0, len(neighbors))
	for _, n := range neighbors {
		if n.Record == nil || float64(n.Score) < minSemanticScore {
			continue
		}
		if !matchesFilters(n.Record, plan.Filters) {
			continue
		}
		candidates = append(candidates, ranking.MatchCandidate{
			Record:   n.Record,
			Score:    float64(n.Score),
			Strategy: ranking.StrategySemantic,
		})
	}
	return candidates, nil
}

// matchesFilters applies plan filters to vector results in-process; the
// vector query itself only filters by creator and model.
func matchesFilters(record *store.Record, filters queryengine.Filters) bool {
	if filters.Category != "" && !strings.EqualFold(record.Category, filters.Category) {
		return false
	}
	if filters.ContentType != "" && record.ContentType != filters.ContentType {
		return false
	}
	if filters.Dates.From != 0 && record.CreatedTs < filters.Dates.From {
		return false
	}
	if filters.Dates.To != 0 && record.CreatedTs >= filters.Dates.To {
		return false
	}
	return true
}
