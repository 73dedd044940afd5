package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"

	"wikiquery/internal/crawl"
	"wikiquery/internal/models"
	"wikiquery/internal/storage"
)

const categoryPrefix = "Category:"

var validate = validator.New(validator.WithRequiredStructEnabled())

type jobMessage struct {
	Category string `json:"category" validate:"required"`
	Depth    int    `json:"depth" validate:"gte=0,lte=10"`
}

// DecodeJob parses a crawl job payload such as
// {"category": "Physics", "depth": 1}. The category namespace prefix is
// added when missing.
func DecodeJob(data []byte) (models.CrawlJob, error) {
	var m jobMessage
	if err := json.Unmarshal(data, &m); err != nil {
		return models.CrawlJob{}, fmt.Errorf("decode crawl job: %w", err)
	}
	m.Category = strings.TrimSpace(m.Category)
	if err := validate.Struct(m); err != nil {
		return models.CrawlJob{}, fmt.Errorf("invalid crawl job: %w", err)
	}
	return models.CrawlJob{Category: CategoryTitle(m.Category), Depth: m.Depth}, nil
}

// EncodeJob is the inverse of DecodeJob.
func EncodeJob(job models.CrawlJob) ([]byte, error) {
	return json.Marshal(jobMessage{Category: job.Category, Depth: job.Depth})
}

// CategoryTitle prefixes name with the category namespace if needed.
func CategoryTitle(name string) string {
	if strings.HasPrefix(name, categoryPrefix) {
		return name
	}
	return categoryPrefix + name
}

// CrawlHandler crawls a job and stores every article it finds.
type CrawlHandler struct {
	crawler *crawl.Crawler
	sink    storage.Sink
	workers int
	logger  *slog.Logger
}

func NewCrawlHandler(crawler *crawl.Crawler, sink storage.Sink, workers int, logger *slog.Logger) *CrawlHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &CrawlHandler{crawler: crawler, sink: sink, workers: workers, logger: logger}
}

// Handle runs job to completion. It fails if the crawl stopped early or
// any article could not be stored.
func (h *CrawlHandler) Handle(ctx context.Context, job models.CrawlJob) error {
	run := h.crawler.Crawl(ctx, job)
	stored, failed, err := storage.StoreFromChannel(ctx, h.sink, run.Articles(), h.workers)
	if err != nil {
		return err
	}
	if err := run.Err(); err != nil {
		return fmt.Errorf("crawl %s: %w", job.Category, err)
	}
	h.logger.Info("crawl job done", "run_id", run.ID, "category", job.Category, "stored", stored, "failed", failed)
	if failed > 0 {
		return fmt.Errorf("crawl %s: %d of %d articles not stored", job.Category, failed, stored+failed)
	}
	return nil
}
