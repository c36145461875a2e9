package cmd

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/appaudit/playmeta/internal/catalog"
	"github.com/appaudit/playmeta/internal/clock/system"
	"github.com/appaudit/playmeta/internal/id/uuid"
	"github.com/appaudit/playmeta/internal/logging"
	"github.com/appaudit/playmeta/internal/sheet"
	"github.com/appaudit/playmeta/internal/store"
)

// newFetchCmd creates the 'fetch' subcommand, the main entry point of the
// metadata pipeline.
func newFetchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fetch <input-file> [<row-limit>]",
		Short: "Resolve application names and fetch their catalog metadata",
		Long: `Reads application names from the first column of a headerless CSV
file, resolves each to a canonical store identifier, fetches the detail page,
and writes the enriched rows to a date-stamped CSV in the output directory.
An optional row limit caps how many input rows are processed.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: runFetch,
	}
	return cmd
}

func runFetch(cmd *cobra.Command, args []string) error {
	// Past argument validation, errors are operational; repeating the
	// usage text would only bury them.
	cmd.SilenceUsage = true

	inputPath := args[0]
	limit := 0
	if len(args) == 2 {
		n, err := strconv.Atoi(args[1])
		if err != nil || n < 1 {
			return fmt.Errorf("row limit must be a positive integer, got %q", args[1])
		}
		limit = n
	}

	cfg, err := catalog.LoadConfig(viper.GetViper())
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := logging.New(viper.GetBool("logging.development"))
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync() //nolint:errcheck // best-effort flush

	names, err := sheet.Load(inputPath, limit)
	if err != nil {
		return err
	}
	if len(names) == 0 {
		return fmt.Errorf("no application names in %s", inputPath)
	}

	fetcher, err := catalog.NewCollyFetcher(cfg, logger)
	if err != nil {
		return fmt.Errorf("init fetcher: %w", err)
	}
	resolver := catalog.NewResolver(fetcher, cfg, logger)
	extractor := catalog.NewExtractor(fetcher, cfg, logger)
	pipeline := catalog.NewPipeline(resolver, extractor, cfg.Concurrency, logger)

	clk := system.New()
	startedAt := clk.Now()
	results, summary := pipeline.Run(cmd.Context(), names)

	writer, err := sheet.NewWriter(cfg.OutputDir, clk, logger)
	if err != nil {
		return err
	}
	outputPath, err := writer.Write(results)
	if err != nil {
		return err
	}

	if cfg.StorePath != "" {
		run := store.Run{
			StartedAt:  startedAt,
			InputPath:  inputPath,
			OutputPath: outputPath,
			Total:      summary.Total,
			Fetched:    summary.Fetched,
			NotFound:   summary.NotFound,
			Skipped:    summary.Skipped,
		}
		saveHistory(cmd.Context(), cfg.StorePath, run, results, logger)
	}

	cmd.Println(renderSummary(summary, outputPath))
	return nil
}

// saveHistory records the run in the history store. Persistence is
// auxiliary: a failure is logged but never fails the run itself.
func saveHistory(
	ctx context.Context,
	path string,
	run store.Run,
	results []catalog.Result,
	logger *zap.Logger,
) {
	id, err := uuid.NewGenerator().NewID()
	if err != nil {
		logger.Warn("generate run id failed", zap.Error(err))
		return
	}
	run.ID = id

	st, err := store.Open(path)
	if err != nil {
		logger.Warn("open history store failed", zap.String("path", path), zap.Error(err))
		return
	}
	defer st.Close() //nolint:errcheck // read-only close

	if err := st.SaveRun(ctx, run, results); err != nil {
		logger.Warn("save run history failed", zap.String("run_id", id), zap.Error(err))
		return
	}
	logger.Info("run history saved", zap.String("run_id", id), zap.String("path", path))
}

func renderSummary(summary catalog.Summary, outputPath string) string {
	return renderTable(
		[]string{"Total", "Fetched", "Not Found", "Skipped", "Elapsed", "Output"},
		[][]string{{
			strconv.Itoa(summary.Total),
			strconv.Itoa(summary.Fetched),
			strconv.Itoa(summary.NotFound),
			strconv.Itoa(summary.Skipped),
			summary.Elapsed.Round(time.Millisecond).String(),
			outputPath,
		}},
	)
}
