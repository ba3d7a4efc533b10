package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tracemetro/tracemetro/pkg/diagram"
	"github.com/tracemetro/tracemetro/pkg/pipeline"
	"github.com/tracemetro/tracemetro/pkg/trace"
)

// newLayoutCmd creates the layout command for computing metro layouts.
func newLayoutCmd() *cobra.Command {
	var (
		output     string
		configPath string
		noCache    bool
	)

	cmd := &cobra.Command{
		Use:   "layout [trace.json]",
		Short: "Compute a positioned metro layout from an execution trace",
		Long: `Compute a positioned metro layout from an execution trace.

The layout command takes a trace.json file (the ordered step stream plus the
agent display-name table) and folds it into a metro-map layout: containers,
stops, lanes, tracks and branch points with absolute coordinates. The output
is a layout.json file ready for direct rendering.

Results are cached locally by trace content hash for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLayout(cmd.Context(), args[0], output, configPath, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json)")
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "TOML config file")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// runLayout loads the trace, computes the layout, and writes output.
func runLayout(ctx context.Context, input, output, configPath string, noCache bool) error {
	logger := loggerFromContext(ctx)

	doc, err := trace.ReadDocumentFile(input)
	if err != nil {
		return fmt.Errorf("load trace %s: %w", input, err)
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	c, err := openCache(ctx, cfg, noCache)
	if err != nil {
		return fmt.Errorf("initialize cache: %w", err)
	}
	defer c.Close()

	runner := pipeline.NewRunner(c, nil, logger)

	p := newProgress(logger)
	result, err := runner.Execute(ctx, doc, pipeline.Options{NoCache: noCache, Logger: logger})
	if err != nil {
		return fmt.Errorf("compute layout: %w", err)
	}
	p.done(fmt.Sprintf("Laid out %d steps", result.Stats.StepCount))

	outputPath := output
	if outputPath == "" {
		base := strings.TrimSuffix(input, filepath.Ext(input))
		outputPath = base + ".layout.json"
	}
	if err := diagram.WriteLayoutFile(result.Layout, outputPath); err != nil {
		return fmt.Errorf("write layout %s: %w", outputPath, err)
	}

	fmt.Print(layoutSummary(result.Layout))
	logger.Info("wrote layout", "path", outputPath, "cached", result.CacheInfo.LayoutHit)
	return nil
}
