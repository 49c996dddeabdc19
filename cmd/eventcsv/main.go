// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the eventcsv CLI, which converts a
// newline-delimited JSON file of document-activity events into a CSV file
// and prints a summary of what was kept and dropped.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/eventcsv/internal/convert"
	"github.com/pdiddy/eventcsv/internal/log"
	"github.com/pdiddy/eventcsv/internal/pathcheck"
	"github.com/pdiddy/eventcsv/internal/runstore"
	"github.com/pdiddy/eventcsv/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// errArgCount is returned for any invocation without exactly two paths.
var errArgCount = errors.New("We currently only expect 2 arguments! A path to a JSON file to read, and a path for a CSV file to write.")

// exactPaths accepts exactly the JSON and CSV path arguments, or none at
// all when --list-runs is given.
func exactPaths(cmd *cobra.Command, args []string) error {
	if listRuns, _ := cmd.Flags().GetBool("list-runs"); listRuns {
		if len(args) != 0 {
			return errors.New("--list-runs takes no path arguments")
		}
		return nil
	}
	if len(args) != 2 {
		return errArgCount
	}
	return nil
}

func newRootCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "eventcsv [flags] [--] <json-file-path> <csv-file-path>",
		Short: "Convert a JSON event log into a CSV activity report",
		Long: `eventcsv reads a newline-delimited JSON file of document activity events
and writes a CSV file with one row per accepted event: Timestamp, Action,
User, Folder, File Name and IP.

Events with a repeated eventId are dropped as duplicates, and events whose
activity has no action mapping are dropped as unmapped. A summary of the
run is printed to stdout when the conversion finishes.

Every positional argument is a path. Put -- before the paths when the JSON
file name starts with a dash: eventcsv -- -events.json out.csv

With --list-runs and --db, no paths are taken and the recorded run history
is listed instead.`,
		Version:       version,
		Args:          exactPaths,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return loadConfig(cmd, v)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if listRuns, _ := cmd.Flags().GetBool("list-runs"); listRuns {
				return runRuns(cmd, v)
			}
			return runConvert(cmd, v, args)
		},
	}

	// Positional arguments are paths only. Without subcommands cobra adds no
	// help command, and the completion command stays off.
	cmd.CompletionOptions.DisableDefaultCmd = true
	cmd.SetVersionTemplate("eventcsv {{.Version}}\n")

	cmd.Flags().String("config", "", "config file (default: ./eventcsv.yaml or ~/.config/eventcsv/eventcsv.yaml)")
	cmd.Flags().String("db", "", "SQLite run history; events recorded by earlier runs are dropped as duplicates")
	cmd.Flags().String("stats-format", string(types.StatsJSON), "report format: json or yaml")
	cmd.Flags().Bool("no-stats", false, "do not print the run report")
	addRunsFlags(cmd)

	_ = v.BindPFlag("db", cmd.Flags().Lookup("db"))
	_ = v.BindPFlag("stats_format", cmd.Flags().Lookup("stats-format"))
	_ = v.BindPFlag("no_stats", cmd.Flags().Lookup("no-stats"))
	return cmd
}

// loadConfig reads the config file and environment into v.
func loadConfig(cmd *cobra.Command, v *viper.Viper) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("eventcsv")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "eventcsv"))
		}
	}

	v.SetEnvPrefix("EVENTCSV")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	d := types.DefaultConvertConfig()
	v.SetDefault("actions.add", d.Actions.Add)
	v.SetDefault("actions.remove", d.Actions.Remove)
	v.SetDefault("actions.accessed", d.Actions.Accessed)
	v.SetDefault("timestamp_layout", d.TimestampLayout)
	v.SetDefault("default_offset", d.DefaultOffset)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("reading config: %w", err)
		}
		return nil
	}
	log.Infof("using config file %s", v.ConfigFileUsed())
	return nil
}

// convertConfig decodes the merged settings into a ConvertConfig.
func convertConfig(v *viper.Viper) (types.ConvertConfig, error) {
	var cfg types.ConvertConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decoding config: %w", err)
	}
	cfg = cfg.WithDefaults()
	if err := convert.CheckStatsFormat(cfg.StatsFormat); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func runConvert(cmd *cobra.Command, v *viper.Viper, args []string) error {
	cfg, err := convertConfig(v)
	if err != nil {
		return err
	}

	paths, err := pathcheck.Validate(args[0], args[1])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Reading file [%s], and writing to file [%s].\n", paths.JSON, paths.CSV)

	opts := []convert.Option{convert.WithStatus(cmd.ErrOrStderr())}
	if cfg.DB != "" {
		store, err := runstore.Open(cfg.DB)
		if err != nil {
			return err
		}
		defer store.Close()
		opts = append(opts, convert.WithRecorder(store))
	}

	result, err := convert.New(cfg, opts...).ConvertFile(cmd.Context(), paths.JSON, paths.CSV)
	if err != nil {
		return err
	}
	log.Debugf("conversion finished: written=%d unreadable=%d run=%d",
		result.Written, result.Unreadable, result.RunID)

	if cfg.NoStats {
		return nil
	}
	return convert.PrintReport(out, result.Report, cfg.StatsFormat)
}

// run executes the command tree with args and returns the exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	log.InitWriter(stderr, os.Getenv(log.EnvVar))
	log.Debugf("args captured: args=%v", args)

	if args == nil {
		args = []string{}
	}

	cmd := newRootCmd(viper.New())
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(stderr, err)
		log.WithError(err).Debug("command failed")
		return 1
	}
	return 0
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
