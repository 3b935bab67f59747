package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/fjod/go_cart/bookstore-service/internal/service"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// responder writes JSON bodies and logs what could not be written.
type responder struct {
	logger *zap.Logger
}

func newResponder(log *zap.Logger) responder {
	if log == nil {
		log = zap.NewNop()
	}
	return responder{logger: log}
}

func (rs responder) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		rs.logger.Warn("failed to encode response", zap.Error(err))
	}
}

func (rs responder) respondError(w http.ResponseWriter, status int, code, message string) {
	rs.respondJSON(w, status, ErrorResponse{
		Error:   message,
		Code:    code,
		Details: "",
	})
}

func (rs responder) handleServiceError(w http.ResponseWriter, err error) {
	var svcErr *service.Error
	if !errors.As(err, &svcErr) {
		rs.respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}

	var httpStatus int
	var code string

	switch svcErr.Kind {
	case service.KindInvalidParameter:
		httpStatus = http.StatusBadRequest
		code = "invalid_parameter"
	case service.KindNotFound:
		httpStatus = http.StatusNotFound
		code = "not_found"
	case service.KindRollbackFailed:
		httpStatus = http.StatusInternalServerError
		code = "rollback_failed"
	default:
		httpStatus = http.StatusInternalServerError
		code = "internal_error"
	}

	rs.respondJSON(w, httpStatus, ErrorResponse{
		Error:   svcErr.Message,
		Code:    code,
		Details: svcErr.Field,
	})
}

// pathID parses a positive integer URL parameter.
func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// queryLimit reads ?limit=N. A missing limit is 0.
func queryLimit(r *http.Request) (int, bool) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0, true
	}
	limit, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return limit, true
}
