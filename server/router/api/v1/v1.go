// Package v1 exposes the HTTP API: record ingestion plus search and
// continuation endpoints that chat frontends call on behalf of a user.
package v1

import (
	"time"

	"github.com/labstack/echo/v4"

	"github.com/lifeinbox/lifeinbox/internal/profile"
	"github.com/lifeinbox/lifeinbox/server/middleware"
	"github.com/lifeinbox/lifeinbox/server/search"
	"github.com/lifeinbox/lifeinbox/store"
)

// channelHeader carries the delivery surface the caller renders for.
const channelHeader = "X-Channel"

// defaultChannel is assumed when the header is missing. Telegram has the
// tightest rendering budget, so the default never overflows any channel.
const defaultChannel = "telegram"

// APIV1Service wires the HTTP handlers to the search pipeline.
type APIV1Service struct {
	Profile       *profile.Profile
	Store         *store.Store
	SearchService *search.Service

	limiter *middleware.RateLimiter
}

// NewAPIV1Service creates the v1 API surface.
func NewAPIV1Service(profile *profile.Profile, st *store.Store, searchService *search.Service) *APIV1Service {
	return &APIV1Service{
		Profile:       profile,
		Store:         st,
		SearchService: searchService,
		// One search per second sustained, short bursts allowed.
		limiter: middleware.NewRateLimiter(time.Second, 5),
	}
}

// Register mounts the v1 routes on the echo instance.
func (s *APIV1Service) Register(e *echo.Echo) {
	g := e.Group("/api/v1")
	g.POST("/records", s.CreateRecord)
	g.POST("/search", s.Search)
	g.POST("/more", s.More)
}

func channelOf(c echo.Context) string {
	if ch := c.Request().Header.Get(channelHeader); ch != "" {
		return ch
	}
	return defaultChannel
}
