package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/specialistvlad/solforge/internal/abiutil"
	"github.com/specialistvlad/solforge/internal/artifact"
	"github.com/specialistvlad/solforge/internal/config"
	"github.com/specialistvlad/solforge/internal/ctxlog"
	"golang.org/x/sync/errgroup"
)

// ErrStatus marks a response with a non-2xx status code.
var ErrStatus = errors.New("unexpected HTTP status")

// StatusError carries the offending URL and status.
type StatusError struct {
	URL    string
	Status string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: %s", e.URL, e.Status)
}

func (e *StatusError) Unwrap() error {
	return ErrStatus
}

// Fetcher downloads external contracts into an artifact.Writer.
type Fetcher struct {
	client   *http.Client
	writer   *artifact.Writer
	settings config.FetchSettings
}

// New creates a Fetcher. A nil client gets NewClient(settings).
func New(client *http.Client, writer *artifact.Writer, settings config.FetchSettings) *Fetcher {
	if client == nil {
		client = NewClient(settings)
	}
	if settings.Attempts < 1 {
		settings.Attempts = 1
	}
	if settings.Concurrency < 1 {
		settings.Concurrency = 1
	}
	return &Fetcher{client: client, writer: writer, settings: settings}
}

// Fetch downloads every descriptor's ABI then bytecode and writes them out.
// With the default concurrency of 1 descriptors are processed strictly in
// order. The first failure cancels the remaining downloads.
func (f *Fetcher) Fetch(ctx context.Context, contracts []config.ExternalContract) error {
	logger := ctxlog.FromContext(ctx)
	if len(contracts) == 0 {
		logger.Debug("No external contracts configured.")
		return nil
	}
	logger.Info("Downloading external contracts.", "count", len(contracts), "concurrency", f.settings.Concurrency)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(f.settings.Concurrency)
	for _, ec := range contracts {
		g.Go(func() error {
			return f.fetchOne(gctx, ec)
		})
	}
	return g.Wait()
}

func (f *Fetcher) fetchOne(ctx context.Context, ec config.ExternalContract) error {
	logger := ctxlog.FromContext(ctx).With("contract", ec.Name)

	abiBody, err := f.get(ctx, ec.ABIURL)
	if err != nil {
		return fmt.Errorf("fetching ABI of %s: %w", ec.Name, err)
	}
	summary, err := abiutil.Parse(abiBody)
	if err != nil {
		return fmt.Errorf("fetching ABI of %s from %s: %w", ec.Name, ec.ABIURL, err)
	}

	binBody, err := f.get(ctx, ec.BinURL)
	if err != nil {
		return fmt.Errorf("fetching bytecode of %s: %w", ec.Name, err)
	}

	if err := f.writer.WriteExternal(ctx, ec.Name, abiBody, binBody); err != nil {
		return err
	}
	logger.Info("External contract written.", "methods", len(summary.Methods), "bytecode_bytes", len(binBody))
	return nil
}

// get performs a GET with the configured attempts, backoff and timeout.
func (f *Fetcher) get(ctx context.Context, url string) ([]byte, error) {
	logger := ctxlog.FromContext(ctx)

	var lastErr error
	for attempt := 1; attempt <= f.settings.Attempts; attempt++ {
		if attempt > 1 {
			logger.Warn("Retrying download.", "url", url, "attempt", attempt, "error", lastErr)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(f.settings.Backoff):
			}
		}

		body, err := f.getOnce(ctx, url)
		if err == nil {
			return body, nil
		}
		if ctx.Err() != nil {
			return nil, err
		}
		lastErr = err
	}
	return nil, lastErr
}

func (f *Fetcher) getOnce(ctx context.Context, url string) ([]byte, error) {
	if f.settings.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.settings.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	ctxlog.FromContext(ctx).Debug("Making HTTP request", "method", req.Method, "url", url)
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{URL: url, Status: resp.Status}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return body, nil
}
