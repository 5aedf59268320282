// Package ui serves the single-page profiling dashboard.
package ui

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"

	"csvlens/app"
	"csvlens/internal"
	"csvlens/internal/api"

	"github.com/gin-gonic/gin"
)

// Assets holds the page templates and static files
//
//go:embed templates/*.html templates/fragments/*.html static/*
var Assets embed.FS

// Config holds dashboard settings
type Config struct {
	MaxUploadBytes int64
}

// Server represents the web server for the dashboard
type Server struct {
	router        *gin.Engine
	service       *app.ProfileService
	hub           *api.SSEHub
	templates     *template.Template
	embeddedFiles fs.FS
	config        Config
	logger        *internal.Logger
}

// NewServer creates a new web server instance. embeddedFiles must contain
// templates/ and static/, as Assets does.
func NewServer(embeddedFiles fs.FS, service *app.ProfileService, hub *api.SSEHub, config Config, logger *internal.Logger) *Server {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	return &Server{
		router:        router,
		service:       service,
		hub:           hub,
		embeddedFiles: embeddedFiles,
		config:        config,
		logger:        logger.With("Dashboard"),
	}
}

// Initialize parses templates and registers routes
func (s *Server) Initialize() error {
	templatesFS, err := fs.Sub(s.embeddedFiles, "templates")
	if err != nil {
		return fmt.Errorf("failed to create templates filesystem: %w", err)
	}
	s.templates, err = parseTemplates(templatesFS)
	if err != nil {
		return err
	}

	if err := s.setupMiddleware(); err != nil {
		return err
	}
	s.setupRoutes()
	return nil
}

// setupRoutes configures the application routes
func (s *Server) setupRoutes() {
	s.router.GET("/", s.handleIndex)
	s.router.GET("/healthz", s.handleHealth)

	profile := s.router.Group("/profile")
	profile.POST("", s.handleProfile)
	profile.POST("/report", s.handleReport)
	profile.POST("/report.md", s.handleReportMarkdown)
	profile.POST("/export.xlsx", s.handleExport)
	profile.POST("/chart.svg", s.handleChartSVG)

	if s.hub != nil {
		s.router.GET("/events", s.hub.HandleSSE)
	}
}

// Handler returns the HTTP handler for use in an http.Server
func (s *Server) Handler() http.Handler {
	return s.router
}
