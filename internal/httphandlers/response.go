package httphandlers

import (
	"domainkeeper/internal/service"
	"domainkeeper/internal/types"
	"domainkeeper/logger"
	"encoding/json"
	"errors"
	"fmt"
	"go.uber.org/zap"
	"io"
	"net/http"
)

const (
	authorizationHeader = "X-Access-Token"
)

type (
	response struct {
		Error   bool        `json:"error"`
		Message string      `json:"message"`
		Data    interface{} `json:"data"`
		Meta    interface{} `json:"meta,omitempty"`
	}

	validationResponse struct {
		Error   bool                `json:"error"`
		Message string              `json:"message"`
		Errors  map[string][]string `json:"errors"`
	}

	pagination struct {
		Total       int64 `json:"total"`
		CurrentPage int   `json:"current_page"`
		PerPage     int   `json:"per_page"`
		LastPage    int   `json:"last_page"`
	}
)

func badRequest(w http.ResponseWriter, err error) {
	writeError(w, http.StatusBadRequest, err)
}

func serverError(w http.ResponseWriter, err error) {
	writeError(w, http.StatusInternalServerError, err)
}

func unauthorized(w http.ResponseWriter, err error) {
	writeError(w, http.StatusUnauthorized, err)
}

func notFound(w http.ResponseWriter, err error) {
	writeError(w, http.StatusNotFound, err)
}

func ok(w http.ResponseWriter, message string, data interface{}) {
	writeJSON(w, http.StatusOK, response{Message: message, Data: data})
}

func okWithMeta(w http.ResponseWriter, message string, data, meta interface{}) {
	writeJSON(w, http.StatusOK, response{Message: message, Data: data, Meta: meta})
}

func accepted(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusAccepted, response{Message: message})
}

func noContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

func unprocessable(w http.ResponseWriter, verr *service.ValidationError) {
	writeJSON(w, http.StatusUnprocessableEntity, validationResponse{
		Error:   true,
		Message: verr.Message(),
		Errors:  verr.Fields,
	})
}

func writeError(w http.ResponseWriter, errorCode int, err error) {
	errmsg := ""
	if err != nil {
		errmsg = err.Error()
	}
	writeJSON(w, errorCode, response{Error: true, Message: errmsg})
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		logger.Error("failed to encode response", zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(data)
}

// handleError maps service errors to their status codes
func handleError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		unprocessable(w, verr)
	case errors.Is(err, service.ErrDomainNotDisabled):
		unprocessable(w, service.NewValidationError("domain", err.Error()))
	case errors.Is(err, service.ErrNotFound), errors.Is(err, service.ErrNoWhois):
		notFound(w, err)
	default:
		logger.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err))
		serverError(w, errors.New("internal server error"))
	}
}

// download streams f as an attachment
func download(w http.ResponseWriter, f *types.File) {
	defer func() {
		_ = f.Content.Close()
	}()

	if f.Stat.Size > 0 {
		w.Header().Add("Content-Length", fmt.Sprintf("%d", f.Stat.Size))
	}
	w.Header().Add("Content-Type", f.GetContentType())
	w.Header().Add("Content-Disposition", fmt.Sprintf("attachment; filename=%s", f.Stat.Name))
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, f.Content); err != nil {
		logger.Warn("failed to stream file",
			zap.String("name", f.Stat.Name),
			zap.Error(err))
	}
}

func pageMeta(p *types.Page) pagination {
	return pagination{
		Total:       p.Total,
		CurrentPage: p.CurrentPage,
		PerPage:     p.PerPage,
		LastPage:    p.LastPage,
	}
}
