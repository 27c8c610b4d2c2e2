package config

import (
	"fmt"
	"net/url"
	"strings"
)

func validate(c *Config) error {
	if err := c.Service.validate(); err != nil {
		return err
	}
	if err := c.Defaults.Validate(); err != nil {
		return fmt.Errorf("defaults: %w", err)
	}
	if c.Batch.Concurrency < 1 {
		return fmt.Errorf("batch.concurrency must be >= 1")
	}
	if strings.TrimSpace(c.App.HTTPAddr) == "" {
		return fmt.Errorf("app.http_addr cannot be empty")
	}
	return nil
}

func (s *ServiceConfig) validate() error {
	raw := strings.TrimSpace(s.BaseURL)
	if raw == "" {
		return fmt.Errorf("service.base_url cannot be empty")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("service.base_url invalid: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("service.base_url must be http or https, got %q", u.Scheme)
	}
	if s.TimeoutSeconds < 0 {
		return fmt.Errorf("service.timeout_seconds must be >= 0")
	}
	if s.MaxResponseBytes <= 0 {
		return fmt.Errorf("service.max_response_bytes must be > 0")
	}
	return nil
}
