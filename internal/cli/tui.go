package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/streakone/internal/logger"
	"github.com/julianstephens/streakone/internal/tui"
)

type TuiCmd struct {
	MetricsAddr string `help:"Serve Prometheus metrics on this address (e.g. 127.0.0.1:9464) while the TUI runs."`
}

func (c *TuiCmd) Run(ctx *Context) error {
	if err := ctx.requireStore(); err != nil {
		return err
	}

	// Perform automatic backup on TUI startup (after successful load)
	ctx.PerformAutomaticBackup()

	if c.MetricsAddr != "" {
		stop, err := serveMetrics(ctx, c.MetricsAddr)
		if err != nil {
			return err
		}
		defer stop()
	}

	model := tui.NewModel(ctx.Repo, ctx.Reminders, tui.Options{
		Now:          ctx.Now,
		ReminderTime: ctx.reminderTime(),
	})
	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("alas, there's been an error: %w", err)
	}
	return nil
}

// serveMetrics exposes ctx.Metrics on addr until the returned stop is called.
func serveMetrics(ctx *Context, addr string) (func(), error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", ctx.Metrics.Handler())
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Metrics server stopped", "error", err)
		}
	}()
	logger.Info("Serving metrics", "addr", ln.Addr().String())

	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("Failed to stop metrics server", "error", err)
		}
	}, nil
}
