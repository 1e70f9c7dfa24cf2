// Package sqlite implements the article database behind the resolved data
// directory: scraped press releases, their sources, and generated reports.
package sqlite

import (
	"database/sql"
	_ "embed"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/presswatch/internal/config"
	"github.com/mesh-intelligence/presswatch/pkg/types"
)

//go:embed schema.sql
var schemaSQL string

// Backend owns the SQLite database at PathSet.DatabasePath().
type Backend struct {
	mu       sync.RWMutex
	attached bool
	db       *sql.DB
	path     string
}

// SourceRow is one scrape target as stored in the database.
type SourceRow struct {
	ID      int64
	Key     string
	Name    string
	BaseURL string
	Scraper string
	Enabled bool
}

// Article is one scraped press release.
type Article struct {
	ID            int64
	SourceID      int64
	Title         string
	Content       string
	URL           string
	ContentHash   string
	PublishedDate time.Time
}

// Lifecycle errors.
var (
	errDetached        = fmt.Errorf("database is not attached")
	errAlreadyAttached = fmt.Errorf("database is already attached")
)

// NewBackend returns an unattached backend; call Attach with a resolved
// path set to open the database.
func NewBackend() *Backend {
	return &Backend{}
}

// Attach opens (creating if needed) the database under set.DataDir,
// applies the schema on a fresh database, and seeds the source table from
// the sources configuration document.
func (b *Backend) Attach(set types.PathSet, sources *config.Sources) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return errAlreadyAttached
	}

	db, err := sql.Open("sqlite", set.DatabasePath())
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}

	fresh, err := isFresh(db)
	if err != nil {
		db.Close()
		return fmt.Errorf("inspect database: %w", err)
	}
	if fresh {
		if _, err := db.Exec(schemaSQL); err != nil {
			db.Close()
			return fmt.Errorf("apply schema: %w", err)
		}
	}

	if sources != nil {
		if err := seedSources(db, sources); err != nil {
			db.Close()
			return fmt.Errorf("seed sources: %w", err)
		}
	}

	b.db = db
	b.path = set.DatabasePath()
	b.attached = true
	return nil
}

// Detach closes the database. Idempotent.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil
	}
	err := b.db.Close()
	b.db = nil
	b.attached = false
	return err
}

// DatabasePath returns the attached database file path.
func (b *Backend) DatabasePath() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.path
}

// ListSources returns all sources ordered by key.
func (b *Backend) ListSources() ([]SourceRow, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, errDetached
	}

	rows, err := b.db.Query(
		`SELECT id, key, name, base_url, scraper_type, enabled FROM sources ORDER BY key`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SourceRow
	for rows.Next() {
		var s SourceRow
		if err := rows.Scan(&s.ID, &s.Key, &s.Name, &s.BaseURL, &s.Scraper, &s.Enabled); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// InsertArticle stores a scraped article. A duplicate URL or content hash
// is rejected by the schema's unique constraints.
func (b *Backend) InsertArticle(a Article) (int64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return 0, errDetached
	}

	res, err := b.db.Exec(
		`INSERT INTO articles (source_id, title, content, url, content_hash, published_date)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		a.SourceID, a.Title, a.Content, a.URL, a.ContentHash, a.PublishedDate.UTC().Format(time.RFC3339))
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// CountArticles returns the number of stored articles.
func (b *Backend) CountArticles() (int, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return 0, errDetached
	}

	var n int
	err := b.db.QueryRow(`SELECT COUNT(*) FROM articles`).Scan(&n)
	return n, err
}

// isFresh reports whether the database has no schema yet.
func isFresh(db *sql.DB) (bool, error) {
	var n int
	err := db.QueryRow(
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'sources'`).Scan(&n)
	if err != nil {
		return false, err
	}
	return n == 0, nil
}

// seedSources upserts the configured scrape targets. User toggles of the
// enabled flag in the database are preserved; only new sources are added
// and names/URLs refreshed.
func seedSources(db *sql.DB, sources *config.Sources) error {
	for key, src := range sources.Sources {
		_, err := db.Exec(
			`INSERT INTO sources (key, name, base_url, scraper_type, enabled)
			 VALUES (?, ?, ?, ?, ?)
			 ON CONFLICT(key) DO UPDATE SET name = excluded.name, base_url = excluded.base_url`,
			key, src.Name, src.URL, src.Scraper, src.Enabled)
		if err != nil {
			return err
		}
	}
	return nil
}
