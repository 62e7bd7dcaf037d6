package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"path"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/goliatone/go-formsession/internal/config"
	"github.com/goliatone/go-formsession/internal/logging"
	"github.com/goliatone/go-formsession/internal/server"
	"github.com/goliatone/go-formsession/pkg/model"
	"github.com/goliatone/go-formsession/pkg/openapi"
	"github.com/goliatone/go-formsession/pkg/render"
	"github.com/goliatone/go-formsession/pkg/renderers/bootstrap"
	"github.com/goliatone/go-formsession/pkg/renderers/tui"
	"github.com/goliatone/go-formsession/pkg/session"
	"github.com/goliatone/go-formsession/pkg/validation"
)

var version = "dev"

func main() {
	configPath := flag.String("config", "", "YAML configuration file (defaults when empty or missing)")
	mode := flag.String("mode", "serve", "serve, prompt, render or openapi")
	addr := flag.String("addr", "", "listen address, overrides the configuration")
	output := flag.String("output", "", "output file for render/openapi/prompt (stdout if empty)")
	format := flag.String("format", string(tui.OutputFormatJSON), "prompt output format: json, form or pretty")
	templatesDir := flag.String("templates", "", "directory overlaying the bundled HTML templates")
	flag.Parse()

	cfg, err := config.LoadWithFallback(*configPath)
	if err != nil {
		reportConfigError(os.Stderr, *configPath, err)
		os.Exit(1)
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}

	logger := logging.New(cfg.Logging, os.Stderr)
	form := cfg.FormModel()
	ctx := context.Background()

	switch *mode {
	case "serve":
		err = serve(cfg, form, logger, *templatesDir)
	case "prompt":
		err = prompt(ctx, form, logger, tui.OutputFormat(*format), *output)
	case "render":
		err = renderPage(ctx, form, *templatesDir, *output)
	case "openapi":
		err = writeOpenAPI(ctx, form, *output)
	default:
		err = fmt.Errorf("unknown mode %q", *mode)
	}
	if err != nil {
		logger.Fatal().Err(err).Str("mode", *mode).Msg("formsession failed")
	}
}

// reportConfigError logs a config failure with the default logger, since the
// configured one does not exist yet.
func reportConfigError(out io.Writer, path string, err error) {
	logger := logging.New(config.Default().Logging, out)
	logger.WithLevel(zerolog.FatalLevel).
		Err(err).
		Str("config", path).
		Msg("failed to load config")
}

func serve(cfg *config.Config, form model.FormModel, logger zerolog.Logger, templatesDir string) error {
	html, err := bootstrap.New(
		bootstrap.WithTemplatesDir(templatesDir),
		bootstrap.WithStylesheets(bootstrap.BootstrapCDN, path.Join("/assets", bootstrap.StylesheetName)),
	)
	if err != nil {
		return err
	}

	opts := []server.Option{
		server.WithLogger(logger),
		server.WithRenderer(html),
		server.WithVersion(version),
	}
	if cfg.Metrics.Enabled {
		opts = append(opts, server.WithMetrics(server.NewMetrics(), cfg.Metrics.Path))
	}

	srv, err := server.New(form, opts...)
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      srv.Handler(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", httpServer.Addr).Msg("starting http server")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case sig := <-quit:
		logger.Info().Str("signal", sig.String()).Msg("shutting down")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	logger.Info().Msg("shutdown complete")
	return nil
}

func newSession(form model.FormModel, opts ...session.Option) (*session.Session, error) {
	schema, err := validation.FromForm(form)
	if err != nil {
		return nil, err
	}
	return session.New(form, schema, opts...), nil
}

func renderers(format tui.OutputFormat) (*render.Registry, error) {
	registry := render.NewRegistry()

	html, err := bootstrap.New()
	if err != nil {
		return nil, err
	}
	terminal, err := tui.New(tui.WithOutputFormat(format))
	if err != nil {
		return nil, err
	}
	for _, renderer := range []render.Renderer{html, terminal} {
		if err := registry.Register(renderer); err != nil {
			return nil, err
		}
	}
	return registry, nil
}

func prompt(ctx context.Context, form model.FormModel, logger zerolog.Logger, format tui.OutputFormat, output string) error {
	registry, err := renderers(format)
	if err != nil {
		return err
	}
	renderer, err := registry.Get("tui")
	if err != nil {
		return err
	}

	sess, err := newSession(form, session.WithSink(logging.SubmissionSink(logger, form)))
	if err != nil {
		return err
	}
	out, err := renderer.Render(ctx, sess, render.RenderOptions{})
	if err != nil {
		return err
	}
	return write(output, out)
}

func renderPage(ctx context.Context, form model.FormModel, templatesDir, output string) error {
	html, err := bootstrap.New(bootstrap.WithTemplatesDir(templatesDir))
	if err != nil {
		return err
	}
	sess, err := newSession(form)
	if err != nil {
		return err
	}
	out, err := html.RenderPage(ctx, sess, render.RenderOptions{})
	if err != nil {
		return err
	}
	return write(output, out)
}

func writeOpenAPI(ctx context.Context, form model.FormModel, output string) error {
	out, err := openapi.MarshalJSON(ctx, openapi.Describe(form, openapi.Info{Version: version}))
	if err != nil {
		return err
	}
	return write(output, out)
}

func write(output string, data []byte) error {
	if output == "" {
		fmt.Println(string(data))
		return nil
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	fmt.Printf("Written to %s\n", output)
	return nil
}
