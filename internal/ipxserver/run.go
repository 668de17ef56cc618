package ipxserver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"

	"github.com/r9s-ai/ipx/pkg/config"
	"github.com/r9s-ai/ipx/pkg/logx"
)

// Run loads configuration at cfgPath, builds the server, and blocks
// serving until the process receives an interrupt signal.
func Run(cfgPath string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	registry := buildRegistry(cfg)
	decoder := buildDecoder(cfg)
	backend, err := BuildCache(cfg)
	if err != nil {
		return fmt.Errorf("init cache: %w", err)
	}

	st := newState(cfg, registry, decoder, backend)

	autoReloadClose, err := installConfigAutoReload(cfgPath, st, 500*time.Millisecond)
	if err != nil {
		return fmt.Errorf("init config auto reload: %w", err)
	}
	if autoReloadClose != nil {
		defer func() { _ = autoReloadClose.Close() }()
	}

	accessLogger, accessClose, accessColor, err := openAccessLogger(cfg, &st.counters)
	if err != nil {
		return fmt.Errorf("init access log: %w", err)
	}
	if accessClose != nil {
		defer func() { _ = accessClose.Close() }()
	}

	accessFormat, err := logx.ResolveAccessLogFormat(cfg.Logging.AccessLogFormat, cfg.Logging.AccessLogFormatPreset)
	if err != nil {
		return fmt.Errorf("resolve access_log_format: %w", err)
	}
	accessFormatter, err := logx.CompileAccessLogFormat(accessFormat)
	if err != nil {
		return fmt.Errorf("compile access_log_format: %w", err)
	}

	router := NewRouter(st, cfg, accessLogger, accessColor, accessFormatter)

	srv := &http.Server{
		Addr:         cfg.Server.Listen,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutMs) * time.Millisecond,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeoutMs) * time.Millisecond,
	}

	adminSrv := &http.Server{
		Addr:    cfg.Server.AdminListen,
		Handler: NewAdminRouter(st),
	}

	appLogger := logx.New(cfg.Logging.Level)
	appLogger.Info().Str("listen", cfg.Server.Listen).Str("admin_listen", cfg.Server.AdminListen).Msg("ipx listening")

	errCh := make(chan error, 1)
	go func() {
		if serveErr := srv.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			errCh <- serveErr
			return
		}
		errCh <- nil
	}()
	go func() {
		if serveErr := adminSrv.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			appLogger.Error().Err(serveErr).Msg("admin listener failed")
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case <-sigCh:
		appLogger.Info().Msg("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = adminSrv.Shutdown(ctx)
		return srv.Shutdown(ctx)
	}
}

// openAccessLogger opens the configured access log destination. When
// rotation is enabled, counters.recordLogRotation is wired as the
// rotate writer's OnRotate hook so the admin dashboard can show how
// often the access log has rolled over.
func openAccessLogger(cfg *config.Config, counters *adminCounters) (*log.Logger, io.Closer, bool, error) {
	if cfg == nil || !cfg.Logging.AccessLog {
		return nil, nil, false, nil
	}

	path := strings.TrimSpace(cfg.Logging.AccessLogPath)
	if path == "" {
		return log.New(os.Stdout, "", 0), nil, isatty.IsTerminal(os.Stdout.Fd()), nil
	}

	if cfg.Logging.AccessLogRotate.Enabled {
		w, err := logx.NewAccessRotateWriter(logx.RotateOptions{
			Path:       path,
			MaxSizeMB:  cfg.Logging.AccessLogRotate.MaxSizeMB,
			MaxBackups: cfg.Logging.AccessLogRotate.MaxBackups,
			MaxAgeDays: cfg.Logging.AccessLogRotate.MaxAgeDays,
			Compress:   cfg.Logging.AccessLogRotate.Compress,
			OnRotate:   func(logx.RotateEvent) { counters.recordLogRotation() },
		})
		if err != nil {
			return nil, nil, false, err
		}
		return log.New(w, "", 0), w, false, nil
	}

	dir := filepath.Dir(path)
	if strings.TrimSpace(dir) != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, nil, false, err
		}
	}
	// #nosec G304 -- access_log_path comes from trusted config/env.
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, nil, false, err
	}
	return log.New(f, "", 0), f, false, nil
}
