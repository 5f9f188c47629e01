package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	slogecho "github.com/samber/slog-echo"

	"github.com/microtodo/webapp/internal/config"
	"github.com/microtodo/webapp/internal/handlers"
	"github.com/microtodo/webapp/internal/httpserver"
	"github.com/microtodo/webapp/internal/middleware"
	"github.com/microtodo/webapp/internal/oauth"
	"github.com/microtodo/webapp/internal/render"
	"github.com/microtodo/webapp/internal/session"
	"github.com/microtodo/webapp/web"
)

// publicPathPatterns lists routes reachable without a live session. Glob
// patterns follow the matcher in internal/middleware: `*` stays within a
// path segment, `**` crosses segments.
var publicPathPatterns = []string{
	"/",
	"/favicon.ico",
	"/healthz",
	"/login**",
	"/static/**",
}

// Run bootstraps the todo web application.
func Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("expected command: serve")
	}

	switch args[0] {
	case "serve":
		return serve(ctx)
	default:
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func serve(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel(cfg.LogLevel)}))
	slog.SetDefault(logger)

	endpoints, err := resolveEndpoints(ctx, cfg, logger)
	if err != nil {
		return err
	}
	if cfg.AuthServerHost == "" {
		cfg.AuthServerHost = hostOf(endpoints.AuthorizeURL)
	}

	store, redisClient, err := connectSessionStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer redisClient.Close()

	client, deps := buildDependencies(cfg, endpoints)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Renderer = render.NewRenderer(web.Templates(), false)

	e.Use(echomw.Recover())
	e.Use(slogecho.New(logger))
	e.Use(middleware.RequestLogger(logger))
	e.Use(middleware.HTMXRedirect(cfg.AuthServerHost))
	e.Use(session.Middleware(store, cfg.SessionTTL))
	e.Use(middleware.AuthGuard(client, deps.CallbackURL, middleware.NewPublicPaths(publicPathPatterns)))

	e.StaticFS("/static", web.Static())
	e.FileFS("/favicon.ico", "favicon.ico", web.Static())

	loginLimiter := middleware.NewIPRateLimiter(10, time.Minute, 5, 10*time.Minute)
	handlers.RegisterRoutes(e, deps, loginLimiter)

	srv := httpserver.New(cfg.AppPort, e)

	logger.Info("starting http server", "port", cfg.AppPort)

	srvErr := make(chan error, 1)
	go func() {
		srvErr <- srv.Start()
	}()

	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-ctx.Done():
		logger.Info("context canceled, shutting down server")
	case sig := <-signalCh:
		logger.Info("received signal, shutting down", "signal", sig.String())
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), httpserver.ShutdownTimeout)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}

// resolveEndpoints prefers statically configured provider endpoints and
// falls back to the OIDC discovery document.
func resolveEndpoints(ctx context.Context, cfg config.Config, logger *slog.Logger) (oauth.Endpoints, error) {
	if cfg.AuthorizeURL != "" && cfg.TokenURL != "" {
		return oauth.Endpoints{
			AuthorizeURL: cfg.AuthorizeURL,
			TokenURL:     cfg.TokenURL,
			JWKSURL:      cfg.JWKSURL,
		}, nil
	}

	endpoints, err := oauth.Discover(ctx, oauth.DiscoveryHTTPClient(logger), cfg.MetadataURL)
	if err != nil {
		return oauth.Endpoints{}, fmt.Errorf("discover oauth endpoints: %w", err)
	}
	if cfg.AuthorizeURL != "" {
		endpoints.AuthorizeURL = cfg.AuthorizeURL
	}
	if cfg.TokenURL != "" {
		endpoints.TokenURL = cfg.TokenURL
	}
	if cfg.JWKSURL != "" {
		endpoints.JWKSURL = cfg.JWKSURL
	}
	return endpoints, nil
}

func logLevel(name string) slog.Level {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func hostOf(rawURL string) string {
	if i := strings.Index(rawURL, "://"); i >= 0 {
		rest := rawURL[i+3:]
		if j := strings.IndexByte(rest, '/'); j >= 0 {
			return rest[:j]
		}
		return rest
	}
	return ""
}
