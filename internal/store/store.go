package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/mattn/go-sqlite3"

	"contentflow/internal/model"
)

// ErrNotFound is returned for unknown request or article ids.
var ErrNotFound = errors.New("not found")

const defaultListLimit = 100

const schema = `
CREATE TABLE IF NOT EXISTS requests (
	id TEXT PRIMARY KEY,
	type TEXT NOT NULL,
	input TEXT NOT NULL,
	status TEXT NOT NULL,
	payload TEXT NOT NULL,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);
CREATE TABLE IF NOT EXISTS articles (
	id TEXT PRIMARY KEY,
	request_id TEXT,
	title TEXT NOT NULL,
	payload TEXT NOT NULL,
	created_at DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_articles_request ON articles(request_id);
`

// Store archives automation requests and finished articles in SQLite.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open connects to the SQLite database at path and creates the tables.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	if path == ":memory:" {
		// every connection would get its own empty database
		db.SetMaxOpenConns(1)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}
	return &Store{db: db, now: time.Now}, nil
}

// Close releases the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveRequest stores a new automation request.
func (s *Store) SaveRequest(ctx context.Context, req *model.ContentRequest) error {
	payload, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	query, args, err := sq.Insert("requests").
		Columns("id", "type", "input", "status", "payload", "created_at", "updated_at").
		Values(req.ID, string(req.Type), req.Input, string(req.Status), string(payload), req.CreatedAt.UTC(), s.now().UTC()).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert request %s: %w", req.ID, err)
	}
	return nil
}

// UpdateRequestStatus moves a request to status.
func (s *Store) UpdateRequestStatus(ctx context.Context, id string, status model.RequestStatus) error {
	query, args, err := sq.Update("requests").
		Set("status", string(status)).
		Set("updated_at", s.now().UTC()).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update request %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("request %s: %w", id, ErrNotFound)
	}
	return nil
}

// GetRequest loads one request.
func (s *Store) GetRequest(ctx context.Context, id string) (*model.ContentRequest, error) {
	query, args, err := sq.Select("payload", "status").From("requests").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var payload, status string
	err = s.db.QueryRowContext(ctx, query, args...).Scan(&payload, &status)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("request %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get request %s: %w", id, err)
	}
	return decodeRequest(payload, status)
}

// ListRequests returns up to limit requests, newest first. A non-positive limit uses a default.
func (s *Store) ListRequests(ctx context.Context, limit int) ([]*model.ContentRequest, error) {
	rows, err := s.list(ctx, sq.Select("payload", "status").From("requests"), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*model.ContentRequest{}
	for rows.Next() {
		var payload, status string
		if err := rows.Scan(&payload, &status); err != nil {
			return nil, fmt.Errorf("scan request: %w", err)
		}
		req, err := decodeRequest(payload, status)
		if err != nil {
			return nil, err
		}
		out = append(out, req)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return out, nil
}

// SaveArticle stores an article. Saving the same id again replaces it.
func (s *Store) SaveArticle(ctx context.Context, article *model.Article) error {
	payload, err := json.Marshal(article)
	if err != nil {
		return fmt.Errorf("encode article: %w", err)
	}

	query, args, err := sq.Insert("articles").
		Options("OR REPLACE").
		Columns("id", "request_id", "title", "payload", "created_at").
		Values(article.ID, article.RequestID, article.Title, string(payload), article.CreatedAt.UTC()).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert article %s: %w", article.ID, err)
	}
	return nil
}

// GetArticle loads one article.
func (s *Store) GetArticle(ctx context.Context, id string) (*model.Article, error) {
	query, args, err := sq.Select("payload").From("articles").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var payload string
	err = s.db.QueryRowContext(ctx, query, args...).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("article %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get article %s: %w", id, err)
	}
	return decodeArticle(payload)
}

// ListArticles returns up to limit articles, newest first. A non-positive limit uses a default.
func (s *Store) ListArticles(ctx context.Context, limit int) ([]*model.Article, error) {
	rows, err := s.list(ctx, sq.Select("payload").From("articles"), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*model.Article{}
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan article: %w", err)
		}
		article, err := decodeArticle(payload)
		if err != nil {
			return nil, err
		}
		out = append(out, article)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return out, nil
}

func (s *Store) list(ctx context.Context, b sq.SelectBuilder, limit int) (*sql.Rows, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	query, args, err := b.OrderBy("created_at DESC", "id").Limit(uint64(limit)).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list: %w", err)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list: %w", err)
	}
	return rows, nil
}

func decodeRequest(payload, status string) (*model.ContentRequest, error) {
	var req model.ContentRequest
	if err := json.Unmarshal([]byte(payload), &req); err != nil {
		return nil, fmt.Errorf("decode request: %w", err)
	}
	req.Status = model.RequestStatus(status)
	return &req, nil
}

func decodeArticle(payload string) (*model.Article, error) {
	var article model.Article
	if err := json.Unmarshal([]byte(payload), &article); err != nil {
		return nil, fmt.Errorf("decode article: %w", err)
	}
	return &article, nil
}
