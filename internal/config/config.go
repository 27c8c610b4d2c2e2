package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// Load reads path (following its include list), applies defaults and validates.
// Included files are merged first, in list order, so the including file wins.
func Load(path string) (*Config, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("config path cannot be empty")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	r := includeResolver{seen: make(map[string]bool), open: make(map[string]bool)}
	if err := r.visit(abs); err != nil {
		return nil, err
	}
	v := viper.New()
	for _, layer := range r.layers {
		if err := v.MergeConfigMap(layer.settings); err != nil {
			return nil, fmt.Errorf("merging config file failed (%s): %w", layer.path, err)
		}
	}
	return decode(v)
}

// LoadOrDefault behaves like Load but falls back to Default when path does
// not exist and was not required by the caller.
func LoadOrDefault(path string, required bool) (*Config, error) {
	if strings.TrimSpace(path) == "" {
		return Default(), nil
	}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) && !required {
		return Default(), nil
	}
	return Load(path)
}

const includeKey = "include"

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg, func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "toml"
		dc.WeaklyTypedInput = true
	}); err != nil {
		return nil, fmt.Errorf("parsing config failed: %w", err)
	}
	setKeys := make(keySet)
	collectSettingsKeys("", v.AllSettings(), setKeys)
	cfg.applyDefaults(setKeys)
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type configLayer struct {
	path     string
	settings map[string]any
}

// includeResolver reads every file once and orders them depth first.
type includeResolver struct {
	seen   map[string]bool
	open   map[string]bool
	layers []configLayer
}

func (r *includeResolver) visit(path string) error {
	path = filepath.Clean(path)
	if r.open[path] {
		return fmt.Errorf("include cycle detected: %s", path)
	}
	if r.seen[path] {
		return nil
	}
	r.open[path] = true
	defer delete(r.open, path)

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("reading config file failed (%s): %w", path, err)
	}
	for _, inc := range v.GetStringSlice(includeKey) {
		if inc = strings.TrimSpace(inc); inc == "" {
			continue
		}
		if !filepath.IsAbs(inc) {
			inc = filepath.Join(filepath.Dir(path), inc)
		}
		if err := r.visit(inc); err != nil {
			return err
		}
	}
	settings := v.AllSettings()
	delete(settings, includeKey)
	r.seen[path] = true
	r.layers = append(r.layers, configLayer{path: path, settings: settings})
	return nil
}

// collectSettingsKeys marks every leaf path present in settings, so defaults
// never overwrite a value the file set explicitly, zero included.
func collectSettingsKeys(prefix string, settings map[string]any, dest keySet) {
	for k, v := range settings {
		key := strings.ToLower(k)
		if prefix != "" {
			key = prefix + "." + key
		}
		if nested, ok := v.(map[string]any); ok {
			collectSettingsKeys(key, nested, dest)
			continue
		}
		dest.mark(key)
	}
}
