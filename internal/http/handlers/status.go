package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/learnpath/core-service/internal/apperr"
	"github.com/learnpath/core-service/internal/http/response"
)

// respondDomainError translates core failure sentinels into API status codes.
func respondDomainError(c *gin.Context, err error) {
	var apiErr *apperr.Error
	if errors.As(err, &apiErr) && apiErr.Status != 0 {
		response.RespondError(c, apiErr.Status, apiErr.Code, apiErr)
		return
	}
	switch {
	case errors.Is(err, apperr.ErrMissingTopic):
		response.RespondError(c, http.StatusBadRequest, "missing_topic", err)
	case errors.Is(err, apperr.ErrInvalidArgument):
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
	case errors.Is(err, apperr.ErrNotFound):
		response.RespondError(c, http.StatusNotFound, "not_found", err)
	case errors.Is(err, apperr.ErrExtraction):
		response.RespondError(c, http.StatusUnprocessableEntity, "extraction_failed", err)
	case errors.Is(err, apperr.ErrCorruptGraph):
		response.RespondError(c, http.StatusInternalServerError, "corrupt_graph", err)
	case errors.Is(err, apperr.ErrStorage):
		response.RespondError(c, http.StatusInternalServerError, "storage_failure", err)
	default:
		response.RespondError(c, http.StatusInternalServerError, "internal_error", err)
	}
}

// requestUserID pulls the acting user's external id. Authentication is the
// gateway's concern; this service only needs a stable identity.
func requestUserID(c *gin.Context) string {
	return c.GetHeader("X-User-Id")
}
