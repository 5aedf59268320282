// Package api exposes the profiling pipeline as a JSON API and streams
// stage progress to dashboard sessions.
package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"csvlens/app"
	"csvlens/domain/chart"
	"csvlens/internal"
	"csvlens/internal/errors"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Config holds JSON API settings
type Config struct {
	MaxUploadBytes int64
	RequestTimeout time.Duration
}

// Server serves the JSON API
type Server struct {
	router  *chi.Mux
	service *app.ProfileService
	config  Config
	logger  *internal.Logger
}

// NewServer creates the API router over a profiling service
func NewServer(service *app.ProfileService, config Config, logger *internal.Logger) *Server {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	s := &Server{
		router:  chi.NewRouter(),
		service: service,
		config:  config,
		logger:  logger.With("API"),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// setupMiddleware configures HTTP middleware
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	if s.config.RequestTimeout > 0 {
		s.router.Use(middleware.Timeout(s.config.RequestTimeout))
	}
}

// setupRoutes configures the API routes
func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealth)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Get("/chart-kinds", s.handleChartKinds)
		r.Post("/profile", s.handleProfile)
		r.Post("/charts/{kind}", s.handleChart)
		r.Post("/charts/{kind}/svg", s.handleChartSVG)
		r.Post("/report", s.handleReport)
		r.Post("/export", s.handleExport)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleChartKinds(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"kinds": chart.Labels()})
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	req, err := ParseProfileRequest(w, r, s.config.MaxUploadBytes)
	if err != nil {
		s.writeError(w, err)
		return
	}
	res, err := s.service.Run(r.Context(), req)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	req, err := ParseProfileRequest(w, r, s.config.MaxUploadBytes)
	if err != nil {
		s.writeError(w, err)
		return
	}
	c, err := s.service.Chart(r.Context(), req, chi.URLParam(r, "kind"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) handleChartSVG(w http.ResponseWriter, r *http.Request) {
	req, err := ParseProfileRequest(w, r, s.config.MaxUploadBytes)
	if err != nil {
		s.writeError(w, err)
		return
	}
	// Rendered to a buffer so a failure can still produce a JSON error
	var buf bytes.Buffer
	if err := s.service.RenderSVG(r.Context(), req, chi.URLParam(r, "kind"), &buf); err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	req, err := ParseProfileRequest(w, r, s.config.MaxUploadBytes)
	if err != nil {
		s.writeError(w, err)
		return
	}
	md, err := s.service.Report(r.Context(), req)
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(md))
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	req, err := ParseProfileRequest(w, r, s.config.MaxUploadBytes)
	if err != nil {
		s.writeError(w, err)
		return
	}
	var buf bytes.Buffer
	if err := s.service.ExportWorkbook(r.Context(), req, &buf); err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", XLSXContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+ExportFilename(req.Upload.Filename)+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// errorBody is the JSON error envelope
type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	appErr := errors.FromDomain(err)
	status := errors.HTTPStatus(appErr.Code)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed: %v", err)
	} else {
		s.logger.Debug("request rejected: %v", err)
	}
	var body errorBody
	body.Error.Code = appErr.Code
	body.Error.Message = appErr.Message
	writeJSON(w, status, body)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		internal.DefaultLogger.Warn("failed to encode response: %v", err)
	}
}
