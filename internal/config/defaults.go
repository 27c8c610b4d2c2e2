package config

import (
	"strings"

	"metabohunter/internal/catalog"
)

const (
	defaultAppEnv           = "dev"
	defaultAppLogLevel      = "info"
	defaultAppLogFormat     = "text"
	defaultAppHTTPAddr      = ":9992"
	defaultServiceBaseURL   = "http://www.nrcbioinformatics.ca/metabohunter/"
	defaultServiceTimeout   = 120
	defaultServiceUserAgent = "metabohunter-go/0.1"
	defaultMaxResponseBytes = 8 << 20
	defaultBatchConcurrency = 2
)

// Default returns the built-in configuration used when no file is given.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults(nil)
	return cfg
}

func (c *Config) applyDefaults(keys keySet) {
	c.App.applyDefaults(keys)
	c.Service.applyDefaults(keys)
	applyParameterDefaults(&c.Defaults, keys)
	c.Batch.applyDefaults(keys)
}

func (a *AppConfig) applyDefaults(keys keySet) {
	if a == nil {
		return
	}
	applyFieldDefaults(keys,
		stringFieldDefault("app.env", &a.Env, defaultAppEnv),
		stringFieldDefault("app.log_level", &a.LogLevel, defaultAppLogLevel),
		stringFieldDefault("app.log_format", &a.LogFormat, defaultAppLogFormat),
		stringFieldDefault("app.http_addr", &a.HTTPAddr, defaultAppHTTPAddr),
	)
}

func (s *ServiceConfig) applyDefaults(keys keySet) {
	if s == nil {
		return
	}
	applyFieldDefaults(keys,
		stringFieldDefault("service.base_url", &s.BaseURL, defaultServiceBaseURL),
		stringFieldDefault("service.user_agent", &s.UserAgent, defaultServiceUserAgent),
		fieldDefault{
			key:   "service.timeout_seconds",
			need:  func() bool { return s.TimeoutSeconds <= 0 },
			apply: func() { s.TimeoutSeconds = defaultServiceTimeout },
		},
		fieldDefault{
			key:   "service.max_response_bytes",
			need:  func() bool { return s.MaxResponseBytes <= 0 },
			apply: func() { s.MaxResponseBytes = defaultMaxResponseBytes },
		},
	)
}

func (b *BatchConfig) applyDefaults(keys keySet) {
	if b == nil {
		return
	}
	applyFieldDefaults(keys,
		fieldDefault{
			key:   "batch.concurrency",
			need:  func() bool { return b.Concurrency <= 0 },
			apply: func() { b.Concurrency = defaultBatchConcurrency },
		},
	)
}

// applyParameterDefaults fills request parameters the file leaves unset.
// Thresholds given explicitly, including 0, are kept.
func applyParameterDefaults(p *catalog.Parameters, keys keySet) {
	def := catalog.Defaults()
	applyFieldDefaults(keys,
		stringFieldDefault("defaults.metabotype", &p.Metabotype, def.Metabotype),
		stringFieldDefault("defaults.database", &p.Database, def.Database),
		stringFieldDefault("defaults.ph", &p.PH, def.PH),
		stringFieldDefault("defaults.solvent", &p.Solvent, def.Solvent),
		stringFieldDefault("defaults.frequency", &p.Frequency, def.Frequency),
		stringFieldDefault("defaults.method", &p.Method, def.Method),
		floatFieldDefault("defaults.noise", &p.Noise, def.Noise),
		floatFieldDefault("defaults.confidence", &p.Confidence, def.Confidence),
		floatFieldDefault("defaults.tolerance", &p.Tolerance, def.Tolerance),
	)
}

func applyFieldDefaults(keys keySet, defs ...fieldDefault) {
	for _, def := range defs {
		if def.apply == nil {
			continue
		}
		if def.key != "" && keys.isSet(def.key) {
			continue
		}
		if def.need != nil && !def.need() {
			continue
		}
		def.apply()
	}
}

func stringFieldDefault(key string, target *string, def string) fieldDefault {
	return fieldDefault{
		key: key,
		need: func() bool {
			return target != nil && strings.TrimSpace(*target) == ""
		},
		apply: func() {
			if target != nil {
				*target = def
			}
		},
	}
}

func floatFieldDefault(key string, target *float64, def float64) fieldDefault {
	return fieldDefault{
		key:  key,
		need: func() bool { return target != nil },
		apply: func() {
			if target != nil {
				*target = def
			}
		},
	}
}
