package v1

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/lifeinbox/lifeinbox/server/internal/observability"
	"github.com/lifeinbox/lifeinbox/server/search"
)

type searchRequest struct {
	UserID int32  `json:"userId"`
	Query  string `json:"query"`
}

type moreRequest struct {
	UserID int32 `json:"userId"`
}

type searchResponse struct {
	Status  search.Status `json:"status"`
	Message string        `json:"message"`
}

// Search runs a full query and returns the rendered first page.
func (s *APIV1Service) Search(c echo.Context) error {
	var req searchRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
	}
	if req.UserID <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "userId is required")
	}

	if !s.limiter.Allow(fmt.Sprintf("search:%d", req.UserID)) {
		return echo.NewHTTPError(http.StatusTooManyRequests, "too many searches, slow down")
	}

	channel := channelOf(c)
	rc := observability.NewRequestContext(nil, channel, req.UserID)
	ctx := observability.WithRequestContext(c.Request().Context(), rc)

	reply, err := s.SearchService.Search(ctx, req.UserID, req.Query, channel)
	if err != nil {
		rc.Error("search failed", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "search failed")
	}
	rc.Info("search served",
		slog.String("status", string(reply.Status)),
		slog.Int64(observability.LogFieldDuration, rc.DurationMs()))

	return c.JSON(http.StatusOK, searchResponse{Status: reply.Status, Message: reply.Message})
}

// More serves the next page of the user's current pagination session.
func (s *APIV1Service) More(c echo.Context) error {
	var req moreRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
	}
	if req.UserID <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "userId is required")
	}

	channel := channelOf(c)
	rc := observability.NewRequestContext(nil, channel, req.UserID)
	ctx := observability.WithRequestContext(c.Request().Context(), rc)

	reply, err := s.SearchService.More(ctx, req.UserID, channel)
	if err != nil {
		rc.Error("continuation failed", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "continuation failed")
	}

	return c.JSON(http.StatusOK, searchResponse{Status: reply.Status, Message: reply.Message})
}
