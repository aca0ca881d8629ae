package v1

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/lithammer/shortuuid/v4"

	"github.com/lifeinbox/lifeinbox/store"
)

type createRecordRequest struct {
	UserID      int32  `json:"userId"`
	Content     string `json:"content"`
	Summary     string `json:"summary"`
	Category    string `json:"category"`
	ContentType string `json:"contentType"`
}

type recordResponse struct {
	UID         string `json:"uid"`
	Content     string `json:"content"`
	Summary     string `json:"summary"`
	Category    string `json:"category"`
	ContentType string `json:"contentType"`
	CreatedTs   int64  `json:"createdTs"`
}

// CreateRecord stores a new inbox record. The embedding is filled in later by
// the backfill runner; the record is lexically searchable immediately.
func (s *APIV1Service) CreateRecord(c echo.Context) error {
	var req createRecordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
	}
	if req.UserID <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "userId is required")
	}
	if strings.TrimSpace(req.Content) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "content is required")
	}

	contentType := store.ContentType(req.ContentType)
	if req.ContentType == "" {
		contentType = store.ContentTypeText
	}
	switch contentType {
	case store.ContentTypeText, store.ContentTypeVoice, store.ContentTypeImage, store.ContentTypeEmail:
	default:
		return echo.NewHTTPError(http.StatusBadRequest, "unknown content type")
	}

	record, err := s.Store.CreateRecord(c.Request().Context(), &store.Record{
		UID:         shortuuid.New(),
		CreatorID:   req.UserID,
		Content:     req.Content,
		Summary:     req.Summary,
		Category:    strings.ToLower(strings.TrimSpace(req.Category)),
		ContentType: contentType,
		CreatedTs:   time.Now().Unix(),
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to store record")
	}

	return c.JSON(http.StatusOK, recordResponse{
		UID:         record.UID,
		Content:     record.Content,
		Summary:     record.Summary,
		Category:    record.Category,
		ContentType: string(record.ContentType),
		CreatedTs:   record.CreatedTs,
	})
}
