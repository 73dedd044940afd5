package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"wikiquery/internal/crawl"
	"wikiquery/internal/models"
	"wikiquery/internal/service"
	"wikiquery/pkg/graceful"
	"wikiquery/pkg/kafkaclient"
)

// NewCrawlCommand creates the crawl command.
func NewCrawlCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		depth   int
		sink    string
		workers int
	)
	cmd := &cobra.Command{
		Use:   "crawl <category>",
		Short: "Crawl a category tree and store every article",
		Long: `Crawl lists a category, descends into subcategories up to --depth
levels and fetches description, extract and page info for every article.

Articles are written to stdout, an S3 bucket or a PostgreSQL table.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := graceful.Context(cmd.Context(), rootOpts.Logger)
			defer cancel()

			job := models.CrawlJob{Category: service.CategoryTitle(args[0]), Depth: depth}
			f := newFormatter(rootOpts, cmd.OutOrStdout())
			s, closeSink, err := openSink(ctx, sink, rootOpts.Config, f)
			if err != nil {
				return err
			}
			defer closeSink()

			if workers < 1 {
				workers = rootOpts.Config.Archive.Workers
			}
			client := newClient(rootOpts, nil)
			crawler := crawl.NewCrawler(client, crawl.WithLogger(rootOpts.Logger))
			start := time.Now()
			if err := service.NewCrawlHandler(crawler, s, workers, rootOpts.Logger).Handle(ctx, job); err != nil {
				return err
			}
			rootOpts.Logger.Info("crawl complete", "category", job.Category, "elapsed", time.Since(start))
			return nil
		},
	}
	cmd.Flags().IntVar(&depth, "depth", 1, "levels of subcategories to descend into")
	cmd.Flags().StringVar(&sink, "sink", sinkStdout, "where to store articles (stdout|s3|postgres)")
	cmd.Flags().IntVar(&workers, "workers", 0, "concurrent stores (0 uses CRAWL_WORKERS)")
	return cmd
}

// NewEnqueueCommand creates the enqueue command.
func NewEnqueueCommand(rootOpts *RootOptions) *cobra.Command {
	var depth int
	cmd := &cobra.Command{
		Use:   "enqueue <category>",
		Short: "Publish a crawl job to the Kafka job topic",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := rootOpts.Config
			if cfg.Kafka.Broker == "" || cfg.Kafka.Topic == "" {
				return errors.New("KAFKA_BROKER and KAFKA_TOPIC must be set")
			}
			job := models.CrawlJob{Category: service.CategoryTitle(args[0]), Depth: depth}
			payload, err := service.EncodeJob(job)
			if err != nil {
				return err
			}

			producer, err := kafkaclient.NewProducer([]string{cfg.Kafka.Broker}, cfg.Kafka.Topic)
			if err != nil {
				return err
			}
			defer producer.Close()
			if err := producer.Publish(cmd.Context(), []byte(job.Category), payload); err != nil {
				return err
			}

			f := newFormatter(rootOpts, cmd.OutOrStdout())
			return f.Print(job, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "enqueued %s (depth %d) on %s\n", job.Category, job.Depth, cfg.Kafka.Topic)
				return err
			})
		},
	}
	cmd.Flags().IntVar(&depth, "depth", 1, "levels of subcategories to descend into")
	return cmd
}

// NewConsumeCommand creates the consume command.
func NewConsumeCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		sink        string
		metricsAddr string
	)
	cmd := &cobra.Command{
		Use:   "consume",
		Short: "Run crawl jobs read from the Kafka job topic",
		Long: `Consume reads {"category": "...", "depth": n} jobs from KAFKA_TOPIC,
crawls each one into the chosen sink and commits the offset once every
article has been stored. It runs until interrupted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := rootOpts.Config
			if err := cfg.RequireKafka(); err != nil {
				return err
			}
			ctx, cancel := graceful.Context(cmd.Context(), rootOpts.Logger)
			defer cancel()

			reg, metrics := newMetrics()
			if metricsAddr != "" {
				stop := serveMetrics(metricsAddr, reg, rootOpts)
				defer stop()
			}

			f := newFormatter(rootOpts, cmd.OutOrStdout())
			s, closeSink, err := openSink(ctx, sink, cfg, f)
			if err != nil {
				return err
			}
			defer closeSink()

			consumer, err := kafkaclient.NewConsumer(kafkaclient.Config{
				Brokers: []string{cfg.Kafka.Broker},
				Topic:   cfg.Kafka.Topic,
				GroupID: cfg.Kafka.GroupID,
			}, rootOpts.Logger)
			if err != nil {
				return err
			}
			consumer.StartConsuming(ctx)
			defer consumer.Stop()

			crawler := crawl.NewCrawler(newClient(rootOpts, metrics), crawl.WithLogger(rootOpts.Logger))
			handler := service.NewCrawlHandler(crawler, s, cfg.Archive.Workers, rootOpts.Logger)
			err = service.NewIterator(consumer, service.DecodeJob, rootOpts.Logger).Run(ctx, handler.Handle)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
	cmd.Flags().StringVar(&sink, "sink", sinkS3, "where to store articles (stdout|s3|postgres)")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address, e.g. :9090")
	return cmd
}

func serveMetrics(addr string, reg *prometheus.Registry, rootOpts *RootOptions) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			rootOpts.Logger.Error("metrics server failed", "addr", addr, "error", err)
		}
	}()
	rootOpts.Logger.Info("serving metrics", "addr", addr)
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}
