// Package api exposes the comparison engine as a JSON HTTP API. Routes and
// payload shapes follow the contract of the existing web frontend.
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/openpitwall/telemetry-compare-go/log"
	"github.com/openpitwall/telemetry-compare-go/pkg/colors"
	"github.com/openpitwall/telemetry-compare-go/pkg/service"
	"github.com/openpitwall/telemetry-compare-go/pkg/store"
)

type Server struct {
	l        *log.Logger
	store    *store.FileStore
	compare  *service.CompareService
	registry *colors.Registry
	validate *validator.Validate
}

type Option func(*Server)

func WithLogger(l *log.Logger) Option {
	return func(s *Server) {
		s.l = l
	}
}

func NewServer(
	st *store.FileStore,
	compare *service.CompareService,
	registry *colors.Registry,
	opts ...Option,
) *Server {
	ret := &Server{
		l:        log.Default().Named("api"),
		store:    st,
		compare:  compare,
		registry: registry,
		validate: validator.New(),
	}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

// Handler returns the route multiplexer wrapped with request logging.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/comparison", s.handleComparison)
	mux.HandleFunc("GET /api/v1/comparison/chart", s.handleComparisonChart)
	mux.HandleFunc("GET /api/v1/circuit-domination", s.handleDomination)
	mux.HandleFunc("GET /api/v1/circuit-domination/chart", s.handleDominationChart)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	return s.withRequestLog(mux)
}

func (s *Server) withRequestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := uuid.NewString()
		w.Header().Set("X-Request-Id", reqID)
		reqLogger := s.l.Named("request")
		reqLogger.Debug("request",
			log.String("id", reqID),
			log.String("method", r.Method),
			log.String("path", r.URL.Path),
			log.String("query", r.URL.RawQuery))
		next.ServeHTTP(w, r.WithContext(log.NewContext(r.Context(), reqLogger)))
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.l.Error("encoding response", log.ErrorField(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, store.ErrLapNotFound), errors.Is(err, service.ErrNoData):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrMissingChannel),
		errors.Is(err, service.ErrNoDrivers),
		errors.Is(err, service.ErrColorMapping),
		isValidationError(err):
		status = http.StatusBadRequest
	}
	if status == http.StatusInternalServerError {
		log.GetFromContext(r.Context()).Error("request failed", log.ErrorField(err))
	}
	s.writeJSON(w, status, map[string]string{"detail": err.Error()})
}

func isValidationError(err error) bool {
	var verr validator.ValidationErrors
	var perr *paramError
	return errors.As(err, &verr) || errors.As(err, &perr)
}

// paramError marks malformed query parameters (non-numeric laps etc.).
type paramError struct {
	msg string
}

func (e *paramError) Error() string { return e.msg }

func badParam(msg string) error { return &paramError{msg: msg} }
