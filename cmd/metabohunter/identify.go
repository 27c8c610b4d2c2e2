package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"metabohunter/internal/app"
	"metabohunter/internal/identify"
	"metabohunter/internal/logger"
	"metabohunter/internal/peaks"
	"metabohunter/internal/report"
	"metabohunter/internal/settings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var identifyOpts struct {
	output string
	sets   []string
	chart  string
}

var identifyCmd = &cobra.Command{
	Use:   "identify <peak-file>...",
	Short: "Identify metabolites for one or more peak list files",
	Long: `Each file holds one peak per line: chemical shift and intensity separated
by whitespace or a comma. Lines starting with # are ignored.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIdentify,
}

func init() {
	identifyCmd.Flags().StringVarP(&identifyOpts.output, "output", "o", formatTable, "output format: table, json or yaml")
	identifyCmd.Flags().StringArrayVar(&identifyOpts.sets, "set", nil, "override a parameter, e.g. --set database=HMDB --set noise=0.5")
	identifyCmd.Flags().StringVar(&identifyOpts.chart, "chart", "", "write an HTML chart of the result (single input file only)")
}

func runIdentify(cmd *cobra.Command, args []string) error {
	if err := checkFormat(identifyOpts.output); err != nil {
		return err
	}
	if identifyOpts.chart != "" && len(args) != 1 {
		return errors.New("--chart needs exactly one input file")
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	overrides, err := settings.ParseAssignments(identifyOpts.sets)
	if err != nil {
		return err
	}
	application, err := app.NewApp(cfg)
	if err != nil {
		return err
	}
	if err := application.Panel().Apply(overrides); err != nil {
		return err
	}

	lists := make([]peaks.List, len(args))
	for i, path := range args {
		if lists[i], err = peaks.ReadFile(path); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	results, err := identifyAll(ctx, application.Service(), args, lists, cfg.Batch.Concurrency)
	if err != nil {
		return err
	}

	out := make([]fileResult, len(args))
	for i, path := range args {
		out[i] = fileResult{File: path, Matched: results[i].MatchedCount(), Matches: results[i]}
	}
	if err := writeResults(cmd.OutOrStdout(), identifyOpts.output, out); err != nil {
		return err
	}
	if identifyOpts.chart != "" {
		return writeChart(identifyOpts.chart, results[0])
	}
	return nil
}

func identifyAll(ctx context.Context, svc *identify.Service, names []string, lists []peaks.List, concurrency int) ([]identify.Result, error) {
	results := make([]identify.Result, len(lists))
	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(max(concurrency, 1))
	for i, list := range lists {
		group.Go(func() error {
			res, err := svc.IdentifyPeaks(ctx, list)
			if err != nil {
				return fmt.Errorf("%s: %w", names[i], err)
			}
			results[i] = res
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func writeChart(path string, result identify.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := report.Render(f, result); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	logger.Infof("chart written to %s", path)
	return nil
}
