package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/finbooks/finbooks_backend/internal/apperrors"
	"github.com/gin-gonic/gin"
)

const defaultPageLimit = 20
const maxPageLimit = 100

// respondServiceError translates a service error into an HTTP response. The
// fallback message is used for unexpected errors so internal details never
// leak to the client.
func respondServiceError(c *gin.Context, logger *slog.Logger, err error, fallback string) {
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		logger.Warn("Validation error", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrNotFound):
		logger.Warn("Resource not found", slog.String("error", err.Error()))
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrForbidden):
		logger.Warn("Forbidden", slog.String("error", err.Error()))
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
	case errors.Is(err, apperrors.ErrConflict), errors.Is(err, apperrors.ErrDuplicate):
		logger.Warn("Conflict", slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrConsistency):
		logger.Error("Consistency violation", slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		logger.Error(fallback, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}

// paginationParams extracts limit and nextToken query parameters.
func paginationParams(c *gin.Context) (int, *string) {
	limit := defaultPageLimit
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	var nextToken *string
	if raw := c.Query("nextToken"); raw != "" {
		nextToken = &raw
	}
	return limit, nextToken
}

// dateQueryParam parses an RFC3339 or date-only query parameter, defaulting
// to now when absent. The bool result reports whether the value was valid.
func dateQueryParam(c *gin.Context, name string) (time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return time.Now().UTC(), true
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.DateOnly, raw); err == nil {
		return t, true
	}
	return time.Time{}, false
}
