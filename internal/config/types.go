package config

import (
	"strings"

	"metabohunter/internal/catalog"
)

// Config is the top-level configuration of the metabohunter tools.
type Config struct {
	App      AppConfig          `toml:"app"`
	Service  ServiceConfig      `toml:"service"`
	Defaults catalog.Parameters `toml:"defaults"`
	Batch    BatchConfig        `toml:"batch"`
}

type AppConfig struct {
	Env         string `toml:"env"`
	LogLevel    string `toml:"log_level"`
	LogFormat   string `toml:"log_format"`
	LogPath     string `toml:"log_path"`
	DumpPath    string `toml:"dump_path"`
	DumpPayload bool   `toml:"dump_payload"`
	HTTPAddr    string `toml:"http_addr"`
}

// ServiceConfig describes how to reach the MetaboHunter web service.
type ServiceConfig struct {
	BaseURL            string `toml:"base_url"`
	TimeoutSeconds     int    `toml:"timeout_seconds"`
	UserAgent          string `toml:"user_agent"`
	InsecureSkipVerify bool   `toml:"insecure_skip_verify"`
	MaxResponseBytes   int64  `toml:"max_response_bytes"`
}

// BatchConfig bounds how many peak lists the CLI identifies at once.
type BatchConfig struct {
	Concurrency int `toml:"concurrency"`
}

// keySet tracks the field paths set explicitly in configuration files.
type keySet map[string]struct{}

func (k keySet) mark(path string) {
	path = strings.ToLower(strings.TrimSpace(path))
	if path == "" {
		return
	}
	k[path] = struct{}{}
}

func (k keySet) isSet(path string) bool {
	if len(k) == 0 {
		return false
	}
	path = strings.ToLower(strings.TrimSpace(path))
	if path == "" {
		return false
	}
	_, ok := k[path]
	return ok
}

// fieldDefault describes how one field receives its default.
type fieldDefault struct {
	key   string
	need  func() bool
	apply func()
}
