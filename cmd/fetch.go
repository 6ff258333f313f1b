package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/accident-cli/internal/config"
	"github.com/sells-group/accident-cli/internal/fetcher"
)

var (
	fetchSources []string
	fetchDir     string
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download the configured exports",
	Long:  "Downloads each configured source into the fetch directory and unpacks zipped releases. Each ready file is logged.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		sources, err := fetcher.Select(cfg.Fetch.Sources, fetchSources)
		if err != nil {
			return err
		}
		if len(sources) == 0 {
			zap.L().Info("fetch: no sources configured")
			return nil
		}

		dir := cfg.Fetch.TempDir
		if fetchDir != "" {
			dir = fetchDir
		}

		f := fetcher.NewHTTPFetcher(fetcher.OptionsFromConfig(cfg.Fetch))
		_, err = runFetch(ctx, f, sources, dir)
		return err
	},
}

func init() {
	fetchCmd.Flags().StringSliceVar(&fetchSources, "source", nil, "source names to fetch (default all)")
	fetchCmd.Flags().StringVar(&fetchDir, "dir", "", "download directory (default fetch.temp_dir)")
	rootCmd.AddCommand(fetchCmd)
}

// runFetch downloads sources one by one and returns the CSV files they
// produced. It stops at the first failure.
func runFetch(ctx context.Context, f fetcher.Fetcher, sources []config.Source, dir string) ([]string, error) {
	var files []string
	for _, src := range sources {
		got, err := fetcher.FetchSource(ctx, f, src, dir)
		if err != nil {
			return files, eris.Wrapf(err, "fetch: source %s", src.Name)
		}
		for _, p := range got {
			zap.L().Info("fetch: ready", zap.String("source", src.Name), zap.String("path", p))
		}
		files = append(files, got...)
	}
	return files, nil
}
