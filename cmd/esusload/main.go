package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"esusload/db"
	"esusload/internal/canon"
	"esusload/internal/config"
	"esusload/internal/loader"
	"esusload/internal/snapshot"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "esusload",
		Short:         "Load the e-SUS Notifica case snapshot into PostgreSQL",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(loadCmd())
	rootCmd.AddCommand(inspectCmd())
	rootCmd.AddCommand(convertCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newLogger(cfg *config.Config) zerolog.Logger {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if cfg.ConsoleLogs() {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.TimeOnly}).With().Timestamp().Logger()
	}
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.LogLevel))
	if err != nil || cfg.LogLevel == "" {
		level = zerolog.InfoLevel
	}
	return logger.Level(level)
}

// setup loads config and opens the pool. The caller closes the pool.
func setup(ctx context.Context) (*config.Config, zerolog.Logger, *pgxpool.Pool, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, zerolog.Nop(), nil, err
	}
	logger := newLogger(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, logger, nil, fmt.Errorf("config: %w", err)
	}
	pool, err := db.NewPool(ctx, cfg.DSN(), cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		return nil, logger, nil, err
	}
	logger.Info().Msg("connected to database")
	return cfg, logger, pool, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the normalized schema (idempotent)",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext()
			defer cancel()

			_, logger, pool, err := setup(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()

			if err := db.InitSchema(ctx, pool); err != nil {
				return err
			}
			logger.Info().Msg("schema applied")
			return nil
		},
	}
}

func loadCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "load",
		Short: "Load the snapshot: domain, core and facts phases",
		RunE: func(cmd *cobra.Command, args []string) error {
			phaseArg, _ := cmd.Flags().GetString("phase")
			pause, _ := cmd.Flags().GetBool("pause")
			file, _ := cmd.Flags().GetString("file")

			phases, err := loader.ParsePhases(phaseArg)
			if err != nil {
				return err
			}
			if err := canon.Validate(); err != nil {
				return fmt.Errorf("lookup tables: %w", err)
			}

			ctx, cancel := signalContext()
			defer cancel()

			cfg, logger, pool, err := setup(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()

			if file == "" {
				file = cfg.SnapshotPath
			}
			start := time.Now()
			data, err := snapshot.Load(file)
			if err != nil {
				return err
			}
			logger.Info().Str("file", file).Int("rows", data.Len()).Dur("elapsed", time.Since(start)).Msg("snapshot loaded")

			if err := db.InitSchema(ctx, pool); err != nil {
				return err
			}

			var pauseFn loader.PauseFunc
			if pause {
				pauseFn = confirmNext(os.Stdin)
			}
			l := loader.New(pool, data, logger, loader.WithBatchSize(cfg.BatchSize))
			stats, err := l.Run(ctx, phases, pauseFn)

			fmt.Println()
			fmt.Printf("Done in %s\n", time.Since(start).Round(time.Millisecond))
			for _, s := range stats {
				fmt.Printf("  %s\n", s)
			}
			return err
		},
	}
	cmd.Flags().String("phase", "all", "Phase to run: domain, core, facts or all")
	cmd.Flags().Bool("pause", false, "Wait for Enter before each phase after the first")
	cmd.Flags().String("file", "", "Snapshot Parquet file (default: SNAPSHOT_PATH)")
	return cmd
}

// confirmNext waits for a line on in before the next phase.
func confirmNext(in io.Reader) loader.PauseFunc {
	reader := bufio.NewReader(in)
	return func(next loader.Phase) error {
		fmt.Printf("\nPress Enter to run the %s phase (Ctrl+C to stop)... ", next)
		if _, err := reader.ReadString('\n'); err != nil {
			return fmt.Errorf("waiting for confirmation: %w", err)
		}
		return nil
	}
}

func inspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Validate a snapshot file and print its shape",
		RunE: func(cmd *cobra.Command, args []string) error {
			file, _ := cmd.Flags().GetString("file")
			if file == "" {
				return fmt.Errorf("--file is required")
			}
			info, err := snapshot.Inspect(file)
			fmt.Printf("Input:   %s\n", info.Path)
			fmt.Printf("Size:    %.1f MB\n", float64(info.Size)/1024/1024)
			fmt.Printf("Rows:    %d\n", info.Rows)
			fmt.Printf("Columns: %d\n", len(info.Columns))
			return err
		},
	}
	cmd.Flags().String("file", "", "Snapshot Parquet file")
	return cmd
}

func convertCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert a delimited e-SUS CSV export into the snapshot format",
		RunE: func(cmd *cobra.Command, args []string) error {
			file, _ := cmd.Flags().GetString("file")
			out, _ := cmd.Flags().GetString("out")
			delim, _ := cmd.Flags().GetString("delimiter")
			batch, _ := cmd.Flags().GetInt("batch")
			if file == "" {
				return fmt.Errorf("--file is required")
			}
			if out == "" {
				base := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
				out = base + ".parquet"
			}
			if len([]rune(delim)) != 1 {
				return fmt.Errorf("--delimiter must be a single character, got %q", delim)
			}

			start := time.Now()
			fmt.Printf("Input:   %s\n", file)
			fmt.Printf("Output:  %s\n", out)
			written, invalid, err := snapshot.Convert(file, out, []rune(delim)[0], batch)
			if err != nil {
				return err
			}
			elapsed := time.Since(start)
			fmt.Printf("Done in %s\n", elapsed.Round(time.Millisecond))
			fmt.Printf("  Rows:          %d\n", written)
			fmt.Printf("  Invalid cells: %d\n", invalid)
			fmt.Printf("  Throughput:    %.0f rows/s\n", float64(written)/elapsed.Seconds())
			return nil
		},
	}
	cmd.Flags().String("file", "", "Input CSV file")
	cmd.Flags().String("out", "", "Output Parquet file (default: <input>.parquet)")
	cmd.Flags().String("delimiter", ";", "CSV field delimiter")
	cmd.Flags().Int("batch", 10000, "Rows per write batch")
	return cmd
}
