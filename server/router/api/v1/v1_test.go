package v1

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/lifeinbox/lifeinbox/internal/profile"
	"github.com/lifeinbox/lifeinbox/server/queryengine"
	"github.com/lifeinbox/lifeinbox/server/search"
	"github.com/lifeinbox/lifeinbox/server/search/session"
	"github.com/lifeinbox/lifeinbox/store"
	"github.com/lifeinbox/lifeinbox/store/db/sqlite"
)

func newTestAPI(t *testing.T) (*echo.Echo, *store.Store) {
	t.Helper()

	driver, err := sqlite.NewDB(&profile.Profile{Mode: "dev", Driver: "sqlite", DSN: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = driver.Close() })

	p := &profile.Profile{Mode: "dev"}
	st := store.New(driver, p)
	svc := search.NewService(st, nil, queryengine.NewPlanner(nil),
		session.NewManager(session.NewMemoryStore(), 5, time.Minute))

	e := echo.New()
	NewAPIV1Service(p, st, svc).Register(e)
	return e, st
}

func doJSON(t *testing.T, e *echo.Echo, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	var decoded map[string]any
	if rec.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	}
	return rec, decoded
}

func TestCreateRecordAndSearch(t *testing.T) {
	e, _ := newTestAPI(t)

	rec, body := doJSON(t, e, "/api/v1/records",
		`{"userId": 1, "content": "electricity bill due December 1st", "category": "Bills"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotEmpty(t, body["uid"])
	require.Equal(t, "bills", body["category"])
	require.Equal(t, "text", body["contentType"])

	rec, body = doJSON(t, e, "/api/v1/search", `{"userId": 1, "query": "elektrisity bil"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "results", body["status"])
	require.Contains(t, body["message"], "electricity bill due December 1st")
}

func TestSearchValidation(t *testing.T) {
	e, _ := newTestAPI(t)

	rec, _ := doJSON(t, e, "/api/v1/search", `{"query": "bills"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = doJSON(t, e, "/api/v1/search", `not json`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateRecordValidation(t *testing.T) {
	e, _ := newTestAPI(t)

	rec, _ := doJSON(t, e, "/api/v1/records", `{"userId": 1, "content": "   "}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = doJSON(t, e, "/api/v1/records", `{"userId": 1, "content": "x", "contentType": "video"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMoreWithoutSessionReturnsNoSessionStatus(t *testing.T) {
	e, _ := newTestAPI(t)

	rec, body := doJSON(t, e, "/api/v1/more", `{"userId": 1}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "no_session", body["status"])
}

func TestSearchRateLimited(t *testing.T) {
	e, st := newTestAPI(t)

	_, err := st.CreateRecord(context.Background(), &store.Record{
		UID: "r1", CreatorID: 7, Content: "electricity bill", ContentType: store.ContentTypeText,
		CreatedTs: time.Now().Unix(),
	})
	require.NoError(t, err)

	limited := false
	for i := 0; i < 10; i++ {
		rec, _ := doJSON(t, e, "/api/v1/search", fmt.Sprintf(`{"userId": 7, "query": "bill %d"}`, i))
		if rec.Code == http.StatusTooManyRequests {
			limited = true
			break
		}
		require.Equal(t, http.StatusOK, rec.Code)
	}
	require.True(t, limited, "burst of searches should hit the rate limit")
}
