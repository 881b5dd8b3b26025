package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"db-compare/core/config"
	"db-compare/core/database"
	"db-compare/core/differ"
	"db-compare/core/logger"
	"db-compare/core/metrics"
	"db-compare/core/output"
	"db-compare/core/reconcile"
	"db-compare/core/storage"
	"db-compare/feature/jobs"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/vbauerster/mpb/v8"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// runFlags maps run command flags to configuration keys.
var runFlags = map[string]string{
	"db1":               "primary.dsn",
	"db2":               "secondary.dsn",
	"limit":             "compare.limit",
	"by-id-sample-size": "compare.by_id_sample_size",
	"tables":            "compare.tables",
	"jobs":              "compare.jobs",
	"tm-cutoff":         "compare.tm_cutoff",
	"differ":            "compare.differ",
	"color":             "compare.color",
	"fetch-timeout":     "compare.fetch_timeout_seconds",
	"progress":          "compare.progress",
	"output-folder":     "output.folder",
	"console":           "output.console",
}

// runCmd compares the two configured databases.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Compare the primary database with the secondary",
	Long: `Runs the configured comparison jobs and writes every difference to a diff file.

Jobs: counters, updated_ats, created_ats, by_id, by_id_excluding_replica_updated_ats,
sequences, updated_ats_until. Without --jobs the run does counters, updated_ats,
created_ats, by_id and sequences.

Examples:
  # Compare two databases with defaults
  db-compare run --db1 postgres://app@master/app --db2 postgres://app@replica/app

  # Sample 10000 ids per table, compare only users and orders
  db-compare run --jobs by_id --by-id-sample-size 10000 --tables users,orders`,
	RunE: runCompare,
}

func init() {
	f := runCmd.Flags()
	f.String("config", "", "Path to a YAML config file")
	f.String("db1", "", "Primary database DSN")
	f.String("db2", "", "Secondary database DSN")
	f.Int("limit", 100, "Rows per window (id span for id scans)")
	f.Int64("by-id-sample-size", 0, "Stop id scans after this many ids (0 scans everything)")
	f.Bool("no-tls", false, "Disable TLS for both connections")
	f.StringSlice("tables", nil, "Only compare these tables")
	f.StringSlice("jobs", nil, "Jobs to run, in order")
	f.String("tm-cutoff", "", "Upper timestamp for timestamp jobs (default now)")
	f.String("differ", differ.NameChar, "Row differ: char or line")
	f.Bool("color", false, "Color the diff output")
	f.Int("fetch-timeout", 60, "Seconds allowed for each fetch (0 disables)")
	f.Bool("progress", false, "Show progress bars for id scans")
	f.String("output-folder", "./diffs", "Folder for the diff file (empty disables it)")
	f.Bool("console", false, "Also print diffs to stdout")

	RootCmd.AddCommand(runCmd)
}

func runCompare(cmd *cobra.Command, args []string) error {
	cfg, err := loadRunConfig(cmd)
	if err != nil {
		return err
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logg.Sync()

	runID := uuid.NewString()
	logg = logger.WithRun(logg, runID)

	jobList, err := reconcile.ParseJobs(cfg.Compare.Jobs)
	if err != nil {
		return err
	}
	started := time.Now()
	cutoff, err := cfg.Compare.ParseCutoff(started)
	if err != nil {
		return err
	}
	rowDiffer, err := differ.New(cfg.Compare.Differ, cfg.Compare.Color)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	primaryDB, secondaryDB, err := connectBoth(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeDB(primaryDB)
	defer closeDB(secondaryDB)
	logg.Info("Connected to both databases")

	sink, file, err := openSinks(cfg, runID, started)
	if err != nil {
		return err
	}

	tables := cfg.Compare.TableList()
	rec := metrics.New()
	router := &jobs.Router{
		Sources: reconcile.Sources{
			Primary:   database.NewEndpoint(primaryDB, reconcile.Primary, tables),
			Secondary: database.NewEndpoint(secondaryDB, reconcile.Secondary, tables),
			Timeout:   cfg.Compare.FetchTimeout(),
		},
		Sink:       sink,
		RowDiffer:  rowDiffer,
		ListDiffer: differ.NewLine(cfg.Compare.Color),
		Limit:      cfg.Compare.Limit,
		SampleCap:  cfg.Compare.SampleSize,
		Cutoff:     cutoff,
		Logger:     logg,
		Metrics:    rec,
	}

	var progress *mpb.Progress
	if cfg.Compare.Progress {
		progress = mpb.NewWithContext(ctx, mpb.WithOutput(os.Stderr))
		router.Progress = progress
	}

	logg.Info("Comparison started",
		zap.Strings("jobs", jobNames(jobList)),
		zap.Int("limit", cfg.Compare.Limit),
		zap.Time("cutoff", cutoff),
	)
	failures := router.Run(ctx, jobList)

	if progress != nil {
		progress.Wait()
	}
	if err := sink.Close(); err != nil {
		logg.Error("Failed to close diff output", zap.Error(err))
	}

	if file != nil {
		logg.Info("Diff written", zap.String("path", file.Path()))
		if cfg.Storage.Enabled {
			publish(ctx, logg, cfg.Storage, runID, file.Path())
		}
	}

	if err := rec.WriteTextfile(cfg.Metrics.Textfile); err != nil {
		logg.Warn("Failed to write metrics", zap.Error(err))
	}

	logg.Info("Comparison finished",
		zap.Int("failures", len(failures)),
		zap.Duration("elapsed", time.Since(started)),
	)
	if len(failures) > 0 {
		for _, f := range failures {
			logg.Error("Comparison failed", zap.String("job", f.Job.String()), zap.String("table", f.Table), zap.Error(f.Err))
		}
		return fmt.Errorf("%d comparisons failed", len(failures))
	}
	return nil
}

// loadRunConfig layers flags over the config file, .env and environment.
func loadRunConfig(cmd *cobra.Command) (*config.Config, error) {
	file, _ := cmd.Flags().GetString("config")
	v, err := config.NewViper(".", file)
	if err != nil {
		return nil, err
	}
	if err := bindRunFlags(cmd, v); err != nil {
		return nil, err
	}

	cfg, err := config.Unmarshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func bindRunFlags(cmd *cobra.Command, v *viper.Viper) error {
	for name, key := range runFlags {
		if !cmd.Flags().Changed(name) {
			continue
		}
		if err := v.BindPFlag(key, cmd.Flags().Lookup(name)); err != nil {
			return err
		}
	}
	if noTLS, _ := cmd.Flags().GetBool("no-tls"); noTLS {
		v.Set("primary.tls", false)
		v.Set("secondary.tls", false)
	}
	return nil
}

// connectBoth opens both databases concurrently. Either failure aborts the run.
func connectBoth(ctx context.Context, cfg *config.Config) (*gorm.DB, *gorm.DB, error) {
	var primary, secondary *gorm.DB
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		primary, err = database.Connect(gctx, reconcile.Primary, cfg.Primary)
		return err
	})
	g.Go(func() error {
		var err error
		secondary, err = database.Connect(gctx, reconcile.Secondary, cfg.Secondary)
		return err
	})
	if err := g.Wait(); err != nil {
		closeDB(primary)
		closeDB(secondary)
		return nil, nil, err
	}
	return primary, secondary, nil
}

func closeDB(db *gorm.DB) {
	if db == nil {
		return
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

// openSinks builds the file and console sinks the configuration asks for.
func openSinks(cfg *config.Config, runID string, started time.Time) (output.Sink, *output.File, error) {
	var (
		sinks output.Tee
		file  *output.File
	)
	if cfg.Output.Folder != "" {
		f, err := output.NewFile(cfg.Output.Folder, runID, started)
		if err != nil {
			return nil, nil, err
		}
		file = f
		sinks = append(sinks, f)
	}
	if cfg.Output.Console || len(sinks) == 0 {
		sinks = append(sinks, output.NewConsole(os.Stdout))
	}
	if len(sinks) == 1 {
		return sinks[0], file, nil
	}
	return sinks, file, nil
}

func publish(ctx context.Context, logg *zap.Logger, cfg storage.Config, runID, path string) {
	client, err := storage.NewClient(cfg)
	if err != nil {
		logg.Error("Failed to create storage client", zap.Error(err))
		return
	}
	key, err := storage.UploadFile(ctx, client, cfg, runID, path)
	if err != nil {
		logg.Error("Failed to upload diff", zap.Error(err))
		return
	}
	logg.Info("Diff uploaded", zap.String("bucket", cfg.Bucket), zap.String("key", key))
}

func jobNames(list []reconcile.Job) []string {
	names := make([]string, len(list))
	for i, j := range list {
		names[i] = j.String()
	}
	return names
}
