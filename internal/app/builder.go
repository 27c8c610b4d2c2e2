package app

import (
	"context"
	"fmt"

	"metabohunter/internal/config"
	"metabohunter/internal/gateway/metabohunter"
	"metabohunter/internal/identify"
	"metabohunter/internal/settings"
	apihttp "metabohunter/internal/transport/http/api"
)

type AppBuilder struct {
	cfg *config.Config

	transportFn func(config.ServiceConfig) (identify.Transport, error)
	httpFn      func(config.AppConfig, apihttp.Identifier, *settings.Panel) (*apihttp.Server, error)
}

type AppBuilderOption func(*AppBuilder)

// WithTransport replaces the MetaboHunter client, e.g. with a fake in tests.
func WithTransport(t identify.Transport) AppBuilderOption {
	return func(b *AppBuilder) {
		b.transportFn = func(config.ServiceConfig) (identify.Transport, error) { return t, nil }
	}
}

func NewAppBuilder(cfg *config.Config, opts ...AppBuilderOption) *AppBuilder {
	b := &AppBuilder{
		cfg:         cfg,
		transportFn: buildTransport,
		httpFn:      buildHTTPServer,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(b)
		}
	}
	return b
}

func (b *AppBuilder) Build(ctx context.Context) (*App, error) {
	if b.cfg == nil {
		return nil, fmt.Errorf("nil config")
	}
	panel, err := settings.NewPanel(b.cfg.Defaults)
	if err != nil {
		return nil, fmt.Errorf("defaults: %w", err)
	}
	transport, err := b.transportFn(b.cfg.Service)
	if err != nil {
		return nil, fmt.Errorf("metabohunter client: %w", err)
	}
	service := identify.NewService(transport, panel)
	server, err := b.httpFn(b.cfg.App, service, panel)
	if err != nil {
		return nil, fmt.Errorf("api http server: %w", err)
	}
	return &App{
		cfg:     b.cfg,
		service: service,
		panel:   panel,
		http:    server,
		Summary: newStartupSummary(b.cfg),
	}, nil
}

func buildTransport(cfg config.ServiceConfig) (identify.Transport, error) {
	client, err := metabohunter.NewClient(cfg)
	if err != nil {
		return nil, err
	}
	return client, nil
}

func buildHTTPServer(cfg config.AppConfig, identifier apihttp.Identifier, panel *settings.Panel) (*apihttp.Server, error) {
	return apihttp.NewServer(apihttp.ServerConfig{
		Addr:       cfg.HTTPAddr,
		Identifier: identifier,
		Panel:      panel,
	})
}
