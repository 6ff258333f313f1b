// Package fetcher downloads the published accident exports and unpacks
// zipped releases.
package fetcher

import (
	"context"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/accident-cli/internal/config"
)

// Fetcher defines the interface for downloading remote data.
type Fetcher interface {
	// DownloadToFile fetches the URL and writes it to the given path. Returns bytes written.
	DownloadToFile(ctx context.Context, url string, path string) (int64, error)
}

// FetchSource downloads src into dir and returns the CSV files it yields,
// sorted. A .zip download is extracted into dir/<name>/.
func FetchSource(ctx context.Context, f Fetcher, src config.Source, dir string) ([]string, error) {
	u, err := url.Parse(src.URL)
	if err != nil {
		return nil, eris.Wrapf(err, "fetch: parse url of %s", src.Name)
	}
	ext := strings.ToLower(path.Ext(u.Path))
	if ext == "" {
		ext = ".csv"
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, eris.Wrapf(err, "fetch: create %s", dir)
	}
	dest := filepath.Join(dir, src.Name+ext)
	if _, err := f.DownloadToFile(ctx, src.URL, dest); err != nil {
		return nil, err
	}

	if ext != ".zip" {
		return []string{dest}, nil
	}

	extracted, err := ExtractZIP(dest, filepath.Join(dir, src.Name))
	if err != nil {
		return nil, eris.Wrapf(err, "fetch: extract %s", dest)
	}

	var csvs []string
	for _, p := range extracted {
		if strings.EqualFold(filepath.Ext(p), ".csv") {
			csvs = append(csvs, p)
		}
	}
	slices.Sort(csvs)
	return csvs, nil
}

// Select returns the configured sources named in names, or all of them when
// names is empty.
func Select(sources []config.Source, names []string) ([]config.Source, error) {
	if len(names) == 0 {
		return sources, nil
	}
	var out []config.Source
	for _, name := range names {
		i := slices.IndexFunc(sources, func(s config.Source) bool { return s.Name == name })
		if i < 0 {
			return nil, eris.Errorf("fetch: unknown source %q", name)
		}
		out = append(out, sources[i])
	}
	return out, nil
}
