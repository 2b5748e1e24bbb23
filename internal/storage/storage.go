package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// ErrNotFound is returned when no page is stored under a URL.
var ErrNotFound = errors.New("page not found")

// Source records which pipeline produced a page's Markdown.
type Source string

const (
	SourceAXTree Source = "axtree"
	SourceHTML   Source = "html"
)

// Page is a rendered page as stored.
type Page struct {
	URL         string    `json:"url"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Markdown    string    `json:"markdown"`
	Source      Source    `json:"source"`
	Checksum    string    `json:"checksum"`
	FetchedAt   time.Time `json:"fetched_at"`
}

// Storage manages the SQLite page store.
type Storage struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS pages (
	url         TEXT PRIMARY KEY,
	title       TEXT NOT NULL DEFAULT '',
	description TEXT NOT NULL DEFAULT '',
	markdown    TEXT NOT NULL,
	source      TEXT NOT NULL,
	checksum    TEXT NOT NULL,
	fetched_at  TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS pages_fetched_at ON pages (fetched_at);
`

// NewStorage creates or opens the database at dbPath, creating its parent
// directory when needed.
func NewStorage(dbPath string) (*Storage, error) {
	if dir := filepath.Dir(dbPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate db: %w", err)
	}
	return &Storage{db: db}, nil
}

// Close closes the database connection.
func (s *Storage) Close() error {
	return s.db.Close()
}

// UpsertPage stores a page, replacing any page with the same URL.
func (s *Storage) UpsertPage(p *Page) error {
	if p.URL == "" {
		return errors.New("page URL is required")
	}
	if p.FetchedAt.IsZero() {
		p.FetchedAt = time.Now().UTC()
	}
	_, err := s.db.Exec(`
INSERT INTO pages (url, title, description, markdown, source, checksum, fetched_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(url) DO UPDATE SET
	title = excluded.title,
	description = excluded.description,
	markdown = excluded.markdown,
	source = excluded.source,
	checksum = excluded.checksum,
	fetched_at = excluded.fetched_at`,
		p.URL, p.Title, p.Description, p.Markdown, string(p.Source), p.Checksum, p.FetchedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert page: %w", err)
	}
	return nil
}

// GetPage retrieves a page by its URL.
func (s *Storage) GetPage(url string) (*Page, error) {
	row := s.db.QueryRow(`
SELECT url, title, description, markdown, source, checksum, fetched_at
FROM pages WHERE url = ?`, url)

	p, err := scanPage(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get page: %w", err)
	}
	return p, nil
}

// ListPages returns stored pages, most recently fetched first. A limit of
// zero or less returns every page.
func (s *Storage) ListPages(limit, offset int) ([]*Page, error) {
	if limit <= 0 {
		limit = -1
	}
	if offset < 0 {
		offset = 0
	}
	rows, err := s.db.Query(`
SELECT url, title, description, markdown, source, checksum, fetched_at
FROM pages ORDER BY fetched_at DESC, url ASC LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list pages: %w", err)
	}
	defer rows.Close()

	var pages []*Page
	for rows.Next() {
		p, err := scanPage(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan page: %w", err)
		}
		pages = append(pages, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list pages: %w", err)
	}
	return pages, nil
}

// CountPages returns the number of stored pages.
func (s *Storage) CountPages() (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM pages`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count pages: %w", err)
	}
	return n, nil
}

// DeletePagesByPrefix deletes every page whose URL starts with prefix and
// returns how many were removed.
func (s *Storage) DeletePagesByPrefix(prefix string) (int64, error) {
	if prefix == "" {
		return 0, errors.New("url prefix is required")
	}
	res, err := s.db.Exec(`DELETE FROM pages WHERE substr(url, 1, length(?)) = ?`, prefix, prefix)
	if err != nil {
		return 0, fmt.Errorf("failed to delete pages: %w", err)
	}
	return res.RowsAffected()
}

// Clean deletes every stored page.
func (s *Storage) Clean() error {
	if _, err := s.db.Exec(`DELETE FROM pages`); err != nil {
		return fmt.Errorf("failed to clean db: %w", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPage(row scanner) (*Page, error) {
	var p Page
	var source string
	if err := row.Scan(&p.URL, &p.Title, &p.Description, &p.Markdown, &source, &p.Checksum, &p.FetchedAt); err != nil {
		return nil, err
	}
	p.Source = Source(source)
	return &p, nil
}
