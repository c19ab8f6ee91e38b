package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/spf13/cobra"
	"github.com/terraincognita07/registro/internal/api"
	"github.com/terraincognita07/registro/internal/cli"
	"github.com/terraincognita07/registro/internal/config"
	"github.com/terraincognita07/registro/internal/i18n"
	applog "github.com/terraincognita07/registro/internal/logger"
)

const (
	csrfCookieName = "registro_csrf"
	csrfHeaderName = "X-CSRF-Token"
	csrfFormField  = "csrf_token"

	shutdownTimeout = 10 * time.Second
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func runServer() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := applog.Init(cfg.IsDevelopment(), cfg.SentryDSN)
	time.Local = cfg.Location

	lifecycleCtx, cancelLifecycle := context.WithCancel(context.Background())
	defer cancelLifecycle()

	runtime, err := cli.OpenRuntime(lifecycleCtx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := runtime.Close(); err != nil {
			log.Error("runtime close failed", "error", err)
		}
	}()
	if err := runtime.Dispatcher.Start(lifecycleCtx); err != nil {
		return fmt.Errorf("realtime forwarder failed: %w", err)
	}

	i18nManager, err := i18n.NewEmbeddedManager(cfg.DefaultLanguage)
	if err != nil {
		return fmt.Errorf("i18n init failed: %w", err)
	}

	handler, err := api.NewHandler(api.HandlerDeps{
		Days:          runtime.Days,
		Exports:       runtime.Exports,
		Samples:       runtime.Samples,
		Auth:          runtime.Auth,
		I18n:          i18nManager,
		CookieSecure:  cfg.CookieSecure,
		StreamContext: lifecycleCtx,
		Log:           log,
	})
	if err != nil {
		return fmt.Errorf("handler init failed: %w", err)
	}

	app := newApp(handler, cfg.CookieSecure)

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	go func() {
		<-sigCtx.Done()
		cancelLifecycle()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			log.Error("server shutdown failed", "error", err)
		}
	}()

	log.Info("registro listening",
		"addr", "http://0.0.0.0:"+cfg.Port,
		"store", cfg.StoreDriver,
		"tz", cfg.Location.String(),
		"realtime_bus", cfg.RedisAddr != "",
		"export_archive", cfg.ArchiveEnabled(),
	)
	if err := app.Listen(":" + cfg.Port); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("server exited: %w", err)
	}
	return nil
}

func newApp(handler *api.Handler, cookieSecure bool) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "Registro",
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(compress.New(compress.Config{
		Next: isStreamRequest,
	}))
	app.Use(handler.LanguageMiddleware)
	app.Use(csrf.New(csrfMiddlewareConfig(cookieSecure)))

	api.RegisterRoutes(app, handler)
	return app
}

func isStreamRequest(c *fiber.Ctx) bool {
	return strings.HasSuffix(c.Path(), "/stream")
}

func csrfMiddlewareConfig(cookieSecure bool) csrf.Config {
	return csrf.Config{
		Extractor:      csrfTokenExtractor,
		CookieName:     csrfCookieName,
		CookieSameSite: "Lax",
		CookieHTTPOnly: true,
		CookieSecure:   cookieSecure,
		ContextKey:     "csrf",
	}
}

// csrfTokenExtractor accepts the token from the JSON clients' header or from
// the page forms.
func csrfTokenExtractor(c *fiber.Ctx) (string, error) {
	if token, err := csrf.CsrfFromHeader(csrfHeaderName)(c); err == nil {
		return token, nil
	}
	return csrf.CsrfFromForm(csrfFormField)(c)
}
