package fetcher

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"os"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/accident-cli/internal/config"
	"github.com/sells-group/accident-cli/internal/resilience"
)

// HTTPOptions configures the HTTP fetcher.
type HTTPOptions struct {
	UserAgent string
	Timeout   time.Duration
	Retry     resilience.RetryConfig

	// RateLimit and Burst apply per host.
	RateLimit rate.Limit
	Burst     int
}

// OptionsFromConfig maps the fetch section of the config file.
func OptionsFromConfig(cfg config.FetchConfig) HTTPOptions {
	return HTTPOptions{
		UserAgent: cfg.UserAgent,
		Timeout:   time.Duration(cfg.TimeoutSecs) * time.Second,
		Retry:     resilience.WithAttempts(cfg.MaxRetries),
	}
}

// HTTPFetcher downloads over net/http with a per-host rate limit and
// retries on transient failures.
type HTTPFetcher struct {
	client *http.Client
	opts   HTTPOptions

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

// NewHTTPFetcher creates a new HTTPFetcher with the given options.
func NewHTTPFetcher(opts HTTPOptions) *HTTPFetcher {
	if opts.Timeout == 0 {
		opts.Timeout = 60 * time.Second
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "accident-cli"
	}
	if opts.RateLimit == 0 {
		opts.RateLimit = 2
	}
	if opts.Burst == 0 {
		opts.Burst = 2
	}
	return &HTTPFetcher{
		client: &http.Client{
			Timeout: opts.Timeout,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 4,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		opts:     opts,
		limiters: make(map[string]*rate.Limiter),
	}
}

func (f *HTTPFetcher) limiterFor(host string) *rate.Limiter {
	f.mu.Lock()
	defer f.mu.Unlock()
	lim, ok := f.limiters[host]
	if !ok {
		lim = rate.NewLimiter(f.opts.RateLimit, f.opts.Burst)
		f.limiters[host] = lim
	}
	return lim
}

// DownloadToFile fetches rawURL into path and returns the bytes written.
// The body is written next to path and renamed into place once complete.
func (f *HTTPFetcher) DownloadToFile(ctx context.Context, rawURL, path string) (int64, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return 0, eris.Wrapf(err, "fetch: parse url %q", rawURL)
	}

	retry := f.opts.Retry
	if retry.OnRetry == nil {
		retry.OnRetry = resilience.RetryLogger(rawURL)
	}

	n, err := resilience.DoVal(ctx, retry, func(ctx context.Context) (int64, error) {
		return f.downloadOnce(ctx, u, path)
	})
	if err != nil {
		return 0, eris.Wrapf(err, "fetch: download %s", rawURL)
	}

	zap.L().Info("fetch: downloaded",
		zap.String("url", rawURL),
		zap.String("path", path),
		zap.Int64("bytes", n),
	)
	return n, nil
}

func (f *HTTPFetcher) downloadOnce(ctx context.Context, u *url.URL, path string) (int64, error) {
	if err := f.limiterFor(u.Host).Wait(ctx); err != nil {
		return 0, eris.Wrap(err, "rate limiter wait")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return 0, eris.Wrap(err, "create request")
	}
	req.Header.Set("User-Agent", f.opts.UserAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		statusErr := eris.Errorf("unexpected status %d", resp.StatusCode)
		if resilience.IsTransientHTTPStatus(resp.StatusCode) {
			return 0, resilience.NewTransientError(statusErr, resp.StatusCode)
		}
		return 0, statusErr
	}

	part := path + ".part"
	file, err := os.Create(part)
	if err != nil {
		return 0, eris.Wrap(err, "create file")
	}

	n, err := io.Copy(file, resp.Body)
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(part) //nolint:errcheck
		return 0, resilience.NewTransientError(eris.Wrap(err, "write body"), 0)
	}

	if err := os.Rename(part, path); err != nil {
		os.Remove(part) //nolint:errcheck
		return 0, eris.Wrap(err, "rename download")
	}
	return n, nil
}
