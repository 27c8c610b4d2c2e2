// Command metabohunter identifies metabolites in NMR peak lists using the
// MetaboHunter web service.
package main

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"metabohunter/internal/config"
	"metabohunter/internal/logger"

	"github.com/spf13/cobra"
)

const defaultConfigPath = "configs/metabohunter.yaml"

var (
	configPath string
	logLevel   string
	closers    []io.Closer
)

var rootCmd = &cobra.Command{
	Use:           "metabohunter",
	Short:         "Identify metabolites in NMR peak lists via MetaboHunter",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default $METABOHUNTER_CONFIG or "+defaultConfigPath+")")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override app.log_level")

	rootCmd.AddCommand(identifyCmd)
	rootCmd.AddCommand(paramsCmd)
	rootCmd.AddCommand(serveCmd)

	err := rootCmd.Execute()
	for _, c := range closers {
		_ = c.Close()
	}
	if err != nil {
		log.Printf("metabohunter: %v", err)
		os.Exit(1)
	}
}

// loadConfig reads the configuration named by --config or the environment.
// Without either, a missing default file falls back to built-in defaults.
func loadConfig() (*config.Config, error) {
	path, required := resolveConfigPath()
	cfg, err := config.LoadOrDefault(path, required)
	if err != nil {
		return nil, err
	}
	if logLevel != "" {
		cfg.App.LogLevel = logLevel
	}
	if err := setupLogging(cfg.App); err != nil {
		return nil, err
	}
	logger.Debugf("config loaded (env=%s, path=%s)", cfg.App.Env, path)
	return cfg, nil
}

func resolveConfigPath() (string, bool) {
	if configPath != "" {
		return configPath, true
	}
	if env := os.Getenv("METABOHUNTER_CONFIG"); env != "" {
		return env, true
	}
	return defaultConfigPath, false
}

func setupLogging(cfg config.AppConfig) error {
	logger.SetFormat(cfg.LogFormat)
	logger.SetLevel(cfg.LogLevel)
	if f, err := openAppend(cfg.LogPath); err != nil {
		return err
	} else if f != nil {
		closers = append(closers, f)
		mw := io.MultiWriter(os.Stderr, f)
		log.SetOutput(mw)
		logger.SetOutput(mw)
	}
	logger.SetDumpWriter(nil)
	if cfg.DumpPayload {
		f, err := openAppend(cfg.DumpPath)
		if err != nil {
			return err
		}
		if f != nil {
			closers = append(closers, f)
			logger.SetDumpWriter(f)
		}
	}
	return nil
}

func openAppend(path string) (*os.File, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return nil, nil
	}
	dir := filepath.Dir(trimmed)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	return os.OpenFile(trimmed, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
}
