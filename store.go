package pythontorust

import (
	"database/sql"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// RenderCache is a SQLite table of rendered article HTML keyed by source
// path and content hash. Watch-mode rebuilds hit it for every page whose
// file has not changed, which keeps rebuilds fast on large sites.
type RenderCache struct {
	db *sql.DB
}

// OpenRenderCache opens (or creates) the cache database at path, ensures
// the data directory exists, and bootstraps the schema.
func OpenRenderCache(path string) (*RenderCache, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// WAL so the watcher's rebuild goroutine and a concurrent manual build
	// don't trip over SQLITE_BUSY; synchronous=NORMAL is safe with WAL.
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
	`); err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	c := &RenderCache{db: db}
	if err := c.ensureSchema(); err != nil {
		return nil, err
	}
	return c, nil
}

// Close closes the underlying database connection.
func (c *RenderCache) Close() error {
	return c.db.Close()
}

func (c *RenderCache) ensureSchema() error {
	_, err := c.db.Exec(`
CREATE TABLE IF NOT EXISTS renders (
    source TEXT PRIMARY KEY,
    hash TEXT NOT NULL,
    html BLOB NOT NULL,
    rendered_at TEXT NOT NULL
);
`)
	return err
}

// Get returns the cached HTML for source if it was rendered from content
// matching hash. The second return reports a hit.
func (c *RenderCache) Get(source, hash string) ([]byte, bool, error) {
	var storedHash string
	var html []byte
	err := c.db.QueryRow(`SELECT hash, html FROM renders WHERE source = ?`, source).
		Scan(&storedHash, &html)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	if storedHash != hash {
		return nil, false, nil
	}
	return html, true, nil
}

// Put upserts the rendered HTML for source.
func (c *RenderCache) Put(source, hash string, html []byte) error {
	_, err := c.db.Exec(
		`INSERT OR REPLACE INTO renders (source, hash, html, rendered_at) VALUES (?, ?, ?, ?)`,
		source, hash, html, time.Now().UTC().Format(time.RFC3339))
	return err
}

// Prune drops cache rows whose source file no longer exists.
func (c *RenderCache) Prune(live map[string]struct{}) error {
	rows, err := c.db.Query(`SELECT source FROM renders`)
	if err != nil {
		return err
	}
	defer rows.Close()

	var stale []string
	for rows.Next() {
		var source string
		if err := rows.Scan(&source); err != nil {
			return err
		}
		if _, ok := live[source]; !ok {
			stale = append(stale, source)
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}
	for _, source := range stale {
		if _, err := c.db.Exec(`DELETE FROM renders WHERE source = ?`, source); err != nil {
			return err
		}
	}
	return nil
}
