package main

import (
	"os"
	"os/signal"
	"syscall"

	"metabohunter/internal/app"
	"metabohunter/internal/config"
	"metabohunter/internal/logger"

	"github.com/spf13/cobra"
)

var serveOpts struct {
	addr  string
	watch bool
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the identification API over HTTP",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if serveOpts.addr != "" {
			cfg.App.HTTPAddr = serveOpts.addr
		}
		application, err := app.NewApp(cfg)
		if err != nil {
			return err
		}
		if serveOpts.watch {
			path, _ := resolveConfigPath()
			watcher, err := config.NewWatcher(path)
			if err != nil {
				return err
			}
			application.Follow(watcher)
			logger.Infof("watching %s for parameter default changes", path)
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return application.Run(ctx, cmd.ErrOrStderr())
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveOpts.addr, "addr", "", "listen address (overrides app.http_addr)")
	serveCmd.Flags().BoolVar(&serveOpts.watch, "watch", false, "reload parameter defaults when the config file changes")
}
