package cmd

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/appaudit/playmeta/internal/store"
)

// newRunsCmd creates the 'runs' subcommand, which lists stored run history.
func newRunsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List recorded fetch runs",
		Long: `Lists the runs recorded in the history store, newest first.
Requires store.path to be configured; the fetch command records history
there after each run.`,
		Args: cobra.NoArgs,
		RunE: runRuns,
	}
	return cmd
}

func runRuns(cmd *cobra.Command, _ []string) error {
	cmd.SilenceUsage = true

	path := viper.GetString("store.path")
	if path == "" {
		return fmt.Errorf("store.path is not configured; no run history is kept")
	}

	st, err := store.Open(path)
	if err != nil {
		return fmt.Errorf("open history store: %w", err)
	}
	defer st.Close() //nolint:errcheck // read-only close

	runs, err := st.ListRuns(cmd.Context())
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		cmd.Println("no runs recorded")
		return nil
	}

	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		rows = append(rows, []string{
			run.ID,
			run.StartedAt.Format(time.RFC3339),
			run.InputPath,
			strconv.Itoa(run.Total),
			strconv.Itoa(run.Fetched),
			strconv.Itoa(run.NotFound),
			strconv.Itoa(run.Skipped),
		})
	}
	cmd.Println(renderTable(
		[]string{"Run", "Started", "Input", "Total", "Fetched", "Not Found", "Skipped"},
		rows,
	))
	return nil
}
