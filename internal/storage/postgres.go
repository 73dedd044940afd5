package storage

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"wikiquery/internal/models"
)

const createArticlesTable = `CREATE TABLE IF NOT EXISTS articles (
	page_id            BIGINT PRIMARY KEY,
	run_id             TEXT NOT NULL,
	category           TEXT NOT NULL,
	depth              INT NOT NULL,
	ns                 INT NOT NULL,
	title              TEXT NOT NULL,
	missing            BOOLEAN NOT NULL DEFAULT FALSE,
	description        TEXT,
	description_source TEXT,
	extract            TEXT,
	display_title      TEXT,
	canonical_url      TEXT,
	content_model      TEXT,
	length             INT,
	last_rev_id        BIGINT,
	fetched_at         TIMESTAMPTZ NOT NULL
)`

const upsertArticle = `INSERT INTO articles (
	page_id, run_id, category, depth, ns, title, missing, description, description_source,
	extract, display_title, canonical_url, content_model, length, last_rev_id, fetched_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
ON CONFLICT (page_id) DO UPDATE SET
	run_id = EXCLUDED.run_id,
	category = EXCLUDED.category,
	depth = EXCLUDED.depth,
	title = EXCLUDED.title,
	missing = EXCLUDED.missing,
	description = EXCLUDED.description,
	description_source = EXCLUDED.description_source,
	extract = EXCLUDED.extract,
	display_title = EXCLUDED.display_title,
	canonical_url = EXCLUDED.canonical_url,
	content_model = EXCLUDED.content_model,
	length = EXCLUDED.length,
	last_rev_id = EXCLUDED.last_rev_id,
	fetched_at = EXCLUDED.fetched_at`

type execer interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

// PostgresSink upserts articles into an articles table keyed by page id.
type PostgresSink struct {
	db   execer
	pool *pgxpool.Pool
}

// NewPostgresSink connects to databaseURL and creates the table if needed.
func NewPostgresSink(ctx context.Context, databaseURL string) (*PostgresSink, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	s := &PostgresSink{db: pool, pool: pool}
	if err := s.EnsureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

func (s *PostgresSink) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, createArticlesTable); err != nil {
		return fmt.Errorf("create articles table: %w", err)
	}
	return nil
}

func (s *PostgresSink) Store(ctx context.Context, a models.Article) error {
	_, err := s.db.Exec(ctx, upsertArticle,
		a.PageID, a.RunID, a.Category, a.Depth, a.NS, a.Title, a.Missing, a.Description, a.DescriptionSource,
		a.Extract, a.DisplayTitle, a.CanonicalURL, a.ContentModel, a.Length, a.LastRevID, a.FetchedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert article %d: %w", a.PageID, err)
	}
	return nil
}

func (s *PostgresSink) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}
