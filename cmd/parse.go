package main

import (
	"context"
	"os/signal"
	"slices"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/accident-cli/internal/config"
	"github.com/sells-group/accident-cli/internal/export"
	"github.com/sells-group/accident-cli/internal/metrics"
	"github.com/sells-group/accident-cli/internal/parser"
	"github.com/sells-group/accident-cli/internal/rowsource"
	"github.com/sells-group/accident-cli/internal/store"
)

var (
	parseVerify      bool
	parseFormat      string
	parseOut         string
	parseStore       bool
	parseEncoding    string
	parseConcurrency int
)

var parseCmd = &cobra.Command{
	Use:   "parse [files...]",
	Short: "Parse accident exports into cases",
	Long:  "Parses each file with its own parser, writes one export per file and, with --store, saves the cases to the configured database.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		opts := parseOptionsFrom(cmd, cfg)
		if !slices.Contains(config.ExportFormats, opts.Format) {
			return eris.Errorf("parse: unknown format %q", opts.Format)
		}

		rec := metrics.New()
		opts.Metrics = rec

		if parseStore {
			st, err := store.Open(ctx, cfg.Store)
			if err != nil {
				return eris.Wrap(err, "parse: open store")
			}
			defer st.Close() //nolint:errcheck
			if err := st.Migrate(ctx); err != nil {
				return err
			}
			opts.Store = st
			opts.StoreDriver = cfg.Store.Driver
		}

		sum, err := runParse(ctx, args, opts)

		if cfg.Metrics.PushURL != "" {
			pushCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if pErr := rec.Push(pushCtx, cfg.Metrics.PushURL, cfg.Metrics.Job); pErr != nil {
				zap.L().Warn("parse: metrics push failed", zap.Error(pErr))
			}
		}

		zap.L().Info("parse: done",
			zap.Int("files", len(args)),
			zap.Int64("parsed", sum.Parsed),
			zap.Int64("failed", sum.Failed),
			zap.Int64("cases", sum.Cases),
			zap.Int64("saved", sum.Saved),
		)
		return err
	},
}

func init() {
	f := parseCmd.Flags()
	f.BoolVar(&parseVerify, "verify", false, "run the strict cross-field checks")
	f.StringVar(&parseFormat, "format", "csv", "export format (csv|json)")
	f.StringVar(&parseOut, "out", "out", "directory for the exports")
	f.BoolVar(&parseStore, "store", false, "save cases to the configured store")
	f.StringVar(&parseEncoding, "encoding", "utf-8", "input encoding label, e.g. big5")
	f.IntVar(&parseConcurrency, "concurrency", 4, "files parsed at once")
	rootCmd.AddCommand(parseCmd)
}

type parseOptions struct {
	Verify      bool
	Encoding    string
	Format      string
	OutDir      string
	MaxParties  int
	Concurrency int

	Store       store.Store
	StoreDriver string
	Metrics     *metrics.Recorder
}

// parseOptionsFrom starts from the config file and applies the flags the
// user set explicitly.
func parseOptionsFrom(cmd *cobra.Command, c *config.Config) parseOptions {
	opts := parseOptions{
		Verify:      c.Parse.Verify,
		Encoding:    c.Parse.Encoding,
		Format:      c.Export.Format,
		OutDir:      c.Export.Dir,
		MaxParties:  c.Export.MaxParties,
		Concurrency: c.Parse.Concurrency,
	}
	flags := cmd.Flags()
	if flags.Changed("verify") {
		opts.Verify = parseVerify
	}
	if flags.Changed("encoding") {
		opts.Encoding = parseEncoding
	}
	if flags.Changed("format") {
		opts.Format = parseFormat
	}
	if flags.Changed("out") {
		opts.OutDir = parseOut
	}
	if flags.Changed("concurrency") {
		opts.Concurrency = parseConcurrency
	}
	return opts
}

type parseSummary struct {
	Parsed int64
	Failed int64
	Cases  int64
	Saved  int64
}

// runParse parses files concurrently, one parser per file. A failing file
// is logged and counted; the others still run.
func runParse(ctx context.Context, files []string, opts parseOptions) (parseSummary, error) {
	if opts.Concurrency <= 0 {
		opts.Concurrency = 1
	}
	if err := checkOutputs(files, opts); err != nil {
		return parseSummary{}, err
	}

	var parsed, failed, cases, saved atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Concurrency)

	for _, file := range files {
		g.Go(func() error {
			log := zap.L().With(zap.String("file", file))

			n, s, err := parseFile(gctx, file, opts)
			if err != nil {
				failed.Add(1)
				log.Error("parse: file failed", zap.Error(err))
				return nil
			}

			parsed.Add(1)
			cases.Add(int64(n))
			saved.Add(s)
			return nil
		})
	}
	_ = g.Wait()

	sum := parseSummary{
		Parsed: parsed.Load(),
		Failed: failed.Load(),
		Cases:  cases.Load(),
		Saved:  saved.Load(),
	}
	if sum.Failed > 0 {
		return sum, eris.Errorf("parse: %d of %d files failed", sum.Failed, len(files))
	}
	if err := ctx.Err(); err != nil {
		return sum, eris.Wrap(err, "parse: interrupted")
	}
	return sum, nil
}

// checkOutputs rejects runs where two inputs would export to the same file.
func checkOutputs(files []string, opts parseOptions) error {
	seen := make(map[string]string, len(files))
	for _, file := range files {
		out := export.OutputPath(opts.OutDir, file, opts.Format)
		if prev, ok := seen[out]; ok {
			return eris.Errorf("parse: %s and %s both export to %s", prev, file, out)
		}
		seen[out] = file
	}
	return nil
}

func parseFile(ctx context.Context, file string, opts parseOptions) (int, int64, error) {
	p := parser.New(parser.Options{
		Verify:  opts.Verify,
		Source:  rowsource.Options{Encoding: opts.Encoding},
		Metrics: opts.Metrics,
	})

	cases, err := p.Parse(ctx, file)
	if err != nil {
		return 0, 0, err
	}

	out := export.OutputPath(opts.OutDir, file, opts.Format)
	if err := export.Export(out, opts.Format, cases, opts.MaxParties); err != nil {
		return 0, 0, err
	}

	var saved int64
	if opts.Store != nil {
		saved, err = opts.Store.SaveCases(ctx, file, cases)
		if err != nil {
			return 0, 0, eris.Wrapf(err, "parse: save %s", file)
		}
		opts.Metrics.Saved(opts.StoreDriver, saved)
	}
	return len(cases), saved, nil
}
