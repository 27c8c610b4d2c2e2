package app

import (
	"context"
	"fmt"
	"io"

	"metabohunter/internal/config"
	"metabohunter/internal/identify"
	"metabohunter/internal/logger"
	"metabohunter/internal/settings"
	apihttp "metabohunter/internal/transport/http/api"

	"golang.org/x/sync/errgroup"
)

// App wires configuration, the identification service, the parameter panel
// and the HTTP server.
type App struct {
	cfg     *config.Config
	service *identify.Service
	panel   *settings.Panel
	http    *apihttp.Server
	Summary *StartupSummary
}

// NewApp builds the application from cfg without starting anything.
func NewApp(cfg *config.Config, opts ...AppBuilderOption) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("nil config")
	}
	logger.SetLevel(cfg.App.LogLevel)
	return buildAppWithWire(context.Background(), cfg, opts...)
}

// Service returns the identification service.
func (a *App) Service() *identify.Service {
	if a == nil {
		return nil
	}
	return a.service
}

// Panel returns the live parameter selection.
func (a *App) Panel() *settings.Panel {
	if a == nil {
		return nil
	}
	return a.panel
}

// Follow keeps the panel defaults and log level in step with w.
func (a *App) Follow(w *config.Watcher) {
	if a == nil || w == nil {
		return
	}
	w.Subscribe(func(cfg *config.Config) {
		logger.SetLevel(cfg.App.LogLevel)
		if err := a.panel.Reset(cfg.Defaults); err != nil {
			logger.Warnf("reloaded defaults rejected: %v", err)
			return
		}
		logger.Infof("parameter defaults reloaded")
	})
}

// Run serves HTTP until ctx is cancelled.
func (a *App) Run(ctx context.Context, summary io.Writer) error {
	if a == nil || a.cfg == nil {
		return fmt.Errorf("app not initialized")
	}
	if a.Summary != nil && summary != nil {
		a.Summary.Print(summary)
	}
	if a.http == nil {
		return fmt.Errorf("http server not initialized")
	}
	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		if err := a.http.Start(ctx); err != nil {
			return fmt.Errorf("api http server error: %w", err)
		}
		return nil
	})
	return group.Wait()
}
