// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/eventcsv/internal/runstore"
	"github.com/pdiddy/eventcsv/pkg/types"
)

// addRunsFlags registers the flags that list the run history given by --db
// (or the "db" config key), newest first, with row and drop counts.
func addRunsFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("list-runs", false, "list recorded runs from --db instead of converting")
	cmd.Flags().Int("runs-limit", runstore.DefaultLimit, "maximum number of runs to list")
	cmd.Flags().Bool("runs-json", false, "list runs as JSON")
}

func runRuns(cmd *cobra.Command, v *viper.Viper) error {
	dbPath := v.GetString("db")
	if dbPath == "" {
		return fmt.Errorf("no run history configured: pass --db or set db in eventcsv.yaml")
	}
	if _, err := os.Stat(dbPath); err != nil {
		return fmt.Errorf("run history %s: %w", dbPath, err)
	}

	store, err := runstore.Open(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	limit, _ := cmd.Flags().GetInt("runs-limit")
	runs, err := store.Runs(cmd.Context(), limit)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("runs-json")
	return formatRuns(cmd.OutOrStdout(), runs, jsonOutput)
}

func formatRuns(w io.Writer, runs []types.Run, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(runs)
	}

	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs recorded.")
		return nil
	}

	fmt.Fprintf(w, "%-5s  %-16s  %10s  %10s  %10s  %s\n",
		"ID", "Started", "Read", "Written", "Dropped", "Files")
	fmt.Fprintln(w, strings.Repeat("-", 90))

	for _, r := range runs {
		fmt.Fprintf(w, "%-5d  %-16s  %10s  %10s  %10s  %s -> %s\n",
			r.ID,
			humanize.Time(r.StartedAt),
			humanize.Comma(int64(r.Report.LinesRead)),
			humanize.Comma(int64(r.Written)),
			humanize.Comma(int64(r.Report.DroppedEventsCounts)),
			r.JSONPath, r.CSVPath)
	}

	fmt.Fprintf(w, "\n%d runs\n", len(runs))
	return nil
}
