package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"bfsiocr/analysis"
	"bfsiocr/auth"
	"bfsiocr/config"
	"bfsiocr/encryption"
	"bfsiocr/handlers"
	"bfsiocr/logger"
	"bfsiocr/marketdata"
	"bfsiocr/messages"
	"bfsiocr/ocr"
	"bfsiocr/ocr/tesseract"
	"bfsiocr/session"
	"bfsiocr/views"
)

const shutdownTimeout = 10 * time.Second

type serveFlags struct {
	configPath string
	addr       string
	ocr        string
	debug      bool
}

func serveCmd() *cobra.Command {
	var f serveFlags

	c := &cobra.Command{
		Use:   "serve",
		Short: "Run the web application",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(f.configPath)
			if err != nil {
				return err
			}
			f.apply(&cfg)
			if err := cfg.Validate(); err != nil {
				return err
			}

			log, cleanup, err := logger.Setup(logger.Config{Level: cfg.Log.Level, File: cfg.Log.File})
			if err != nil {
				return err
			}
			defer func() { _ = cleanup() }()

			app, err := buildApp(cfg, log)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg.Server.Addr, handlers.Routes(app), log)
		},
	}

	c.Flags().StringVarP(&f.configPath, "config", "c", "", "YAML config file (optional; defaults apply when omitted)")
	c.Flags().StringVar(&f.addr, "addr", "", "listen address, overrides server.addr")
	c.Flags().StringVar(&f.ocr, "ocr", "", "OCR engine: tesseract or static, overrides ocr.engine")
	c.Flags().BoolVar(&f.debug, "debug", false, "enable debug logging")
	return c
}

// apply lets command line flags win over the config file.
func (f serveFlags) apply(cfg *config.Config) {
	if f.addr != "" {
		cfg.Server.Addr = f.addr
	}
	if f.ocr != "" {
		cfg.OCR.Engine = f.ocr
	}
	if f.debug {
		cfg.Log.Level = "debug"
	}
}

// buildApp wires the process-scoped state. Nothing here outlives the process.
func buildApp(cfg config.Config, log *slog.Logger) (*handlers.App, error) {
	secret := cfg.Session.Secret
	if secret == "" {
		var err error
		if secret, err = encryption.RandomSecret(32); err != nil {
			return nil, err
		}
		log.Warn("session.secret_random", "msg", "session.secret not set; sessions end when the process restarts")
	}
	hashKey, blockKey, err := encryption.SessionKeys(secret)
	if err != nil {
		return nil, err
	}

	catalog, err := messages.Load(cfg.Locale.Default)
	if err != nil {
		return nil, err
	}
	renderer, err := views.New()
	if err != nil {
		return nil, err
	}

	var engine ocr.Engine
	switch cfg.OCR.Engine {
	case "static":
		engine = ocr.StaticEngine{Err: errors.New("ocr engine disabled by configuration")}
	default:
		engine = tesseract.New()
	}

	clientCfg := marketdata.DefaultClientConfig()
	clientCfg.Timeout = cfg.MarketData.Timeout
	market := marketdata.NewYahoo(cfg.MarketData.BaseURL, marketdata.NewHTTPClient(clientCfg))

	users := auth.NewStore()
	sessions := session.NewManager(session.Options{
		HashKey:  hashKey,
		BlockKey: blockKey,
		MaxAge:   int(cfg.Session.MaxAge / time.Second),
		Secure:   cfg.Session.Secure,
	}, users, log)

	log.Info("app.configured",
		"ocr_engine", engine.Name(),
		"ocr_language", cfg.OCR.Language,
		"market_data", cfg.MarketData.BaseURL,
		"locale", cfg.Locale.Default,
	)

	return &handlers.App{
		Users:          users,
		Sessions:       sessions,
		Messages:       catalog,
		Views:          renderer,
		Analysis:       analysis.NewDispatcher(engine, market, []string{cfg.OCR.Language}, log),
		MaxUploadBytes: cfg.Server.MaxUploadBytes,
		Log:            log,
		Stats:          handlers.NewStats(),
	}, nil
}

// serve runs the server until ctx is cancelled, then drains connections.
func serve(ctx context.Context, addr string, h http.Handler, log *slog.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server.starting", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen %s: %w", addr, err)
	case <-ctx.Done():
	}

	log.Info("server.stopping")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
