package app

import (
	"fmt"
	"io"
	"strings"

	"metabohunter/internal/catalog"
	"metabohunter/internal/config"
)

type StartupSummary struct {
	Env        string
	HTTPAddr   string
	ServiceURL string
	Timeout    int
	Defaults   catalog.Parameters
}

func newStartupSummary(cfg *config.Config) *StartupSummary {
	return &StartupSummary{
		Env:        cfg.App.Env,
		HTTPAddr:   cfg.App.HTTPAddr,
		ServiceURL: cfg.Service.BaseURL,
		Timeout:    cfg.Service.TimeoutSeconds,
		Defaults:   cfg.Defaults,
	}
}

func (s *StartupSummary) Print(w io.Writer) {
	fmt.Fprintln(w, strings.Repeat("=", 60))
	fmt.Fprintln(w, "STARTUP SUMMARY")
	fmt.Fprintln(w, strings.Repeat("=", 60))
	fmt.Fprintf(w, "  env:      %s\n", orDash(s.Env))
	fmt.Fprintf(w, "  listen:   %s\n", orDash(s.HTTPAddr))
	fmt.Fprintf(w, "  service:  %s (timeout %ds)\n", orDash(s.ServiceURL), s.Timeout)
	fmt.Fprintln(w, "[DEFAULT PARAMETERS]")
	for _, dim := range catalog.Dimensions() {
		v, _ := s.Defaults.Get(dim)
		fmt.Fprintf(w, "  %-11s %v\n", dim+":", v)
	}
	fmt.Fprintln(w, strings.Repeat("=", 60))
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
