package cli

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"

	"wikiquery/internal/config"
	"wikiquery/internal/models"
	"wikiquery/internal/storage"
	"wikiquery/pkg/wikiquery"
)

// Sink names accepted by --sink.
const (
	sinkStdout   = "stdout"
	sinkS3       = "s3"
	sinkPostgres = "postgres"
)

// newClient builds a query client from the loaded configuration. metrics
// may be nil.
func newClient(opts *RootOptions, metrics *wikiquery.Metrics) *wikiquery.Client {
	cfg := opts.Config.API
	return wikiquery.NewClient(
		wikiquery.WithEndpoint(cfg.Endpoint),
		wikiquery.WithUserAgent(cfg.UserAgent),
		wikiquery.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
		wikiquery.WithRateLimit(cfg.RateLimit, 1),
		wikiquery.WithMetrics(metrics),
		wikiquery.WithLogger(opts.Logger),
	)
}

func newMetrics() (*prometheus.Registry, *wikiquery.Metrics) {
	reg := prometheus.NewRegistry()
	return reg, wikiquery.NewMetrics(reg)
}

// openSink returns the named sink and a func releasing it.
func openSink(ctx context.Context, name string, cfg *config.Config, f *OutputFormatter) (storage.Sink, func(), error) {
	switch name {
	case sinkStdout:
		return stdoutSink(f), func() {}, nil
	case sinkS3:
		s3, err := storage.NewS3Sink(cfg)
		if err != nil {
			return nil, nil, err
		}
		if err := s3.EnsureBucket(ctx, ""); err != nil {
			return nil, nil, err
		}
		return s3, func() {}, nil
	case sinkPostgres:
		if cfg.Archive.DatabaseURL == "" {
			return nil, nil, fmt.Errorf("environment variable DATABASE_URL not set")
		}
		pg, err := storage.NewPostgresSink(ctx, cfg.Archive.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		return pg, pg.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown sink %q: must be one of stdout, s3, postgres", name)
	}
}

func stdoutSink(f *OutputFormatter) storage.Sink {
	return storage.SinkFunc(func(_ context.Context, a models.Article) error {
		return f.Line(a, func(w io.Writer) error {
			_, err := fmt.Fprintf(w, "%d\t%s\t%s\n", a.PageID, a.Title, a.Description)
			return err
		})
	})
}
