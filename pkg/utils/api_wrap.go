package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type APIResponse struct {
	Status  string      `json:"status"`
	Code    int         `json:"code"`
	Message string      `json:"message,omitempty"`
	TraceID string      `json:"trace_id,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func traceID(c *gin.Context) string {
	return c.GetString("trace_id")
}

func RespondSuccess(c *gin.Context, data interface{}, message string) {
	c.JSON(http.StatusOK, APIResponse{
		Status:  "success",
		Code:    http.StatusOK,
		Message: message,
		TraceID: traceID(c),
		Data:    data,
	})
}

func RespondError(c *gin.Context, code int, message string) {
	c.JSON(code, APIResponse{
		Status:  "error",
		Code:    code,
		Message: message,
		TraceID: traceID(c),
	})
}

func HandleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrEmptyQuery):
		RespondError(c, http.StatusBadRequest, "Query is required")
	case errors.Is(err, ErrInvalidLimit):
		RespondError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrParkNotFound):
		RespondError(c, http.StatusNotFound, "Park not found")
	case errors.Is(err, ErrSearchUnavailable):
		log.Error().Str("trace_id", traceID(c)).Err(err).Msg("search failed")
		RespondError(c, http.StatusInternalServerError, "Search failed")
	case errors.Is(err, ErrDatabaseError):
		log.Error().Str("trace_id", traceID(c)).Err(err).Msg("database error")
		RespondError(c, http.StatusInternalServerError, "Internal server error")
	default:
		log.Error().Str("trace_id", traceID(c)).Err(err).Msg("unknown error")
		RespondError(c, http.StatusInternalServerError, "Internal server error")
	}
}
