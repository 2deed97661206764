// Package postgres 提供基于 PostgreSQL 的 core.ContentStore 实现。
package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/rushteam/feedkit/core"
)

const schema = `
CREATE TABLE IF NOT EXISTS content_items (
	id        TEXT PRIMARY KEY,
	source    TEXT NOT NULL,
	url       TEXT NOT NULL DEFAULT '',
	title     TEXT NOT NULL DEFAULT '',
	ts        TIMESTAMPTZ NOT NULL,
	type      TEXT NOT NULL,
	meta      JSONB NOT NULL DEFAULT '{}'::jsonb
);
CREATE INDEX IF NOT EXISTS content_items_ts_idx ON content_items (ts DESC);
CREATE INDEX IF NOT EXISTS content_items_source_ts_idx ON content_items (source, ts DESC);
`

const upsert = `
INSERT INTO content_items (id, source, url, title, ts, type, meta)
VALUES (:id, :source, :url, :title, :ts, :type, :meta)
ON CONFLICT (id) DO UPDATE SET
	source = EXCLUDED.source,
	url    = EXCLUDED.url,
	title  = EXCLUDED.title,
	ts     = EXCLUDED.ts,
	type   = EXCLUDED.type,
	meta   = EXCLUDED.meta`

const columns = `id, source, url, title, ts, type, meta`

type row struct {
	ID     string    `db:"id"`
	Source string    `db:"source"`
	URL    string    `db:"url"`
	Title  string    `db:"title"`
	TS     time.Time `db:"ts"`
	Type   string    `db:"type"`
	Meta   []byte    `db:"meta"`
}

func toRow(it *core.ContentItem) (row, error) {
	meta := []byte("{}")
	if len(it.Meta) > 0 {
		b, err := json.Marshal(it.Meta)
		if err != nil {
			return row{}, fmt.Errorf("marshal meta of %s: %w", it.ID, err)
		}
		meta = b
	}
	return row{
		ID:     it.ID,
		Source: it.Source,
		URL:    it.URL,
		Title:  it.Title,
		TS:     it.Timestamp.UTC(),
		Type:   string(it.Type),
		Meta:   meta,
	}, nil
}

func (r row) item() (*core.ContentItem, error) {
	it := &core.ContentItem{
		ID:        r.ID,
		Source:    r.Source,
		URL:       r.URL,
		Title:     r.Title,
		Timestamp: r.TS,
		Type:      core.ContentType(r.Type),
	}
	if len(r.Meta) > 0 && string(r.Meta) != "{}" {
		if err := json.Unmarshal(r.Meta, &it.Meta); err != nil {
			return nil, fmt.Errorf("unmarshal meta of %s: %w", r.ID, err)
		}
	}
	return it, nil
}

// ContentStore 是 sqlx 实现的 core.ContentStore，表结构见 Migrate。
type ContentStore struct {
	db *sqlx.DB
}

var _ core.ContentStore = (*ContentStore)(nil)

// Open 连接数据库并设置连接池。
func Open(ctx context.Context, dsn string, maxConnections int) (*ContentStore, error) {
	conn, err := sqlx.ConnectContext(ctx, "postgres", dsn)
	if err != nil {
		return nil, core.WrapDomainError(core.ModuleStore, core.ErrorCodeUnavailable, err, "postgres: connect")
	}
	if maxConnections > 0 {
		conn.SetMaxOpenConns(maxConnections)
		conn.SetMaxIdleConns(max(maxConnections/2, 1))
	}
	conn.SetConnMaxLifetime(5 * time.Minute)
	return New(conn), nil
}

// New 复用已有连接。
func New(db *sqlx.DB) *ContentStore {
	return &ContentStore{db: db}
}

// Migrate 创建表与索引（幂等）。
func (s *ContentStore) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrate content_items: %w", err)
	}
	return nil
}

func (s *ContentStore) Store(ctx context.Context, items []*core.ContentItem) error {
	if len(items) == 0 {
		return nil
	}
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareNamedContext(ctx, upsert)
	if err != nil {
		return fmt.Errorf("prepare upsert: %w", err)
	}
	defer stmt.Close()

	for _, it := range items {
		if it == nil {
			continue
		}
		r, err := toRow(it)
		if err != nil {
			return err
		}
		if _, err := stmt.ExecContext(ctx, r); err != nil {
			return fmt.Errorf("upsert %s: %w", it.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (s *ContentStore) Exists(ctx context.Context, ids []string) (map[string]bool, error) {
	out := make(map[string]bool, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var found []string
	if err := s.db.SelectContext(ctx, &found, `SELECT id FROM content_items WHERE id = ANY($1)`, pq.Array(ids)); err != nil {
		return nil, fmt.Errorf("query content ids: %w", err)
	}
	for _, id := range found {
		out[id] = true
	}
	return out, nil
}

func (s *ContentStore) All(ctx context.Context, limit, offset int) ([]*core.ContentItem, error) {
	if limit <= 0 {
		limit = core.DefaultContentPageSize
	}
	return s.query(ctx,
		`SELECT `+columns+` FROM content_items ORDER BY ts DESC, id DESC LIMIT $1 OFFSET $2`,
		limit, max(offset, 0))
}

func (s *ContentStore) BySource(ctx context.Context, source string, since *time.Time) ([]*core.ContentItem, error) {
	if since == nil {
		return s.query(ctx,
			`SELECT `+columns+` FROM content_items WHERE source = $1 ORDER BY ts DESC, id DESC`,
			source)
	}
	return s.query(ctx,
		`SELECT `+columns+` FROM content_items WHERE source = $1 AND ts >= $2 ORDER BY ts DESC, id DESC`,
		source, since.UTC())
}

func (s *ContentStore) Since(ctx context.Context, since time.Time) ([]*core.ContentItem, error) {
	return s.query(ctx,
		`SELECT `+columns+` FROM content_items WHERE ts >= $1 ORDER BY ts DESC, id DESC`,
		since.UTC())
}

func (s *ContentStore) DeleteOlderThan(ctx context.Context, t time.Time) (int, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM content_items WHERE ts < $1`, t.UTC())
	if err != nil {
		return 0, fmt.Errorf("delete content: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return int(n), nil
}

// Close 关闭连接池。
func (s *ContentStore) Close() error {
	return s.db.Close()
}

func (s *ContentStore) query(ctx context.Context, query string, args ...any) ([]*core.ContentItem, error) {
	var rows []row
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("query content: %w", err)
	}
	out := make([]*core.ContentItem, 0, len(rows))
	for _, r := range rows {
		it, err := r.item()
		if err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, nil
}
