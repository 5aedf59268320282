package container

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/http/pprof"
	"time"

	"csvlens/app"
	"csvlens/internal"
	"csvlens/internal/api"
	"csvlens/internal/config"
	"csvlens/ui"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config *config.Config
	Logger *internal.Logger

	SSEHub         *api.SSEHub
	ProfileService *app.ProfileService
	Dashboard      *ui.Server
	API            *api.Server
}

// New creates a new dependency injection container
func New(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	logger := internal.NewLogger(internal.ParseLogLevel(cfg.Logging.Level))
	hub := api.NewSSEHub()
	c := &Container{
		Config: cfg,
		Logger: logger,
		SSEHub: hub,
		ProfileService: app.NewProfileService(
			app.WithLogger(logger),
			app.WithPreviewRows(cfg.Upload.PreviewRows),
			app.WithEvents(hub),
		),
	}

	gin.SetMode(cfg.Server.GinMode)
	c.Dashboard = ui.NewServer(ui.Assets, c.ProfileService, hub, ui.Config{
		MaxUploadBytes: cfg.Upload.MaxBytes(),
	}, logger)
	if err := c.Dashboard.Initialize(); err != nil {
		hub.Close()
		return nil, fmt.Errorf("failed to initialize dashboard: %w", err)
	}

	c.API = api.NewServer(c.ProfileService, api.Config{
		MaxUploadBytes: cfg.Upload.MaxBytes(),
		RequestTimeout: cfg.API.RequestTimeout,
	}, logger)

	return c, nil
}

// Servers lists the HTTP servers this process should run. The JSON API and
// pprof are added only when configured.
func (c *Container) Servers(withDashboard bool) []*http.Server {
	var servers []*http.Server
	if withDashboard {
		servers = append(servers, c.newHTTPServer(c.Config.Server.Port, c.Dashboard.Handler()))
	}
	if c.Config.API.Port != "" {
		servers = append(servers, c.newHTTPServer(c.Config.API.Port, c.API))
	}
	if c.Config.Profiling.Enabled {
		servers = append(servers, c.newHTTPServer(c.Config.Profiling.Port, pprofHandler()))
	}
	return servers
}

// Serve runs the given servers until ctx is cancelled or one of them fails,
// then shuts all of them down within the configured timeout
func (c *Container) Serve(ctx context.Context, servers ...*http.Server) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, srv := range servers {
		srv := srv
		g.Go(func() error {
			c.Logger.Info("listening on %s", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("server %s failed: %w", srv.Addr, err)
			}
			return nil
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		// Event streams never finish on their own
		c.SSEHub.Close()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), c.Config.Server.ShutdownTimeout)
		defer cancel()
		for _, srv := range servers {
			if err := srv.Shutdown(shutdownCtx); err != nil {
				c.Logger.Warn("shutdown of %s: %v", srv.Addr, err)
			}
		}
		return nil
	})
	return g.Wait()
}

// Shutdown gracefully shuts down all components
func (c *Container) Shutdown(ctx context.Context) error {
	if c.SSEHub != nil {
		c.SSEHub.Close()
	}
	return nil
}

func (c *Container) newHTTPServer(port string, h http.Handler) *http.Server {
	return &http.Server{
		Addr:              net.JoinHostPort("", port),
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// pprofHandler serves the runtime profiles on a private mux
func pprofHandler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	return mux
}
