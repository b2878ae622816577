package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/DMarby/gallery-slideshow/internal/feed/pagecache"

	_ "github.com/mattn/go-sqlite3"
)

const schema = `CREATE TABLE IF NOT EXISTS pages (
	url TEXT PRIMARY KEY,
	etag TEXT NOT NULL,
	last_modified TEXT NOT NULL,
	body BLOB
)`

// Cache implements a page cache stored in a sqlite database
type Cache struct {
	db *sql.DB
}

// New opens, and if needed creates, the sqlite database at path
func New(ctx context.Context, path string) (*Cache, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	// sqlite only supports a single writer
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, err
	}

	return &Cache{db}, nil
}

// Get returns the stored page for a feed url
func (c *Cache) Get(ctx context.Context, url string) (pagecache.Page, error) {
	var page pagecache.Page
	row := c.db.QueryRowContext(ctx, "SELECT etag, last_modified, body FROM pages WHERE url = ?", url)
	err := row.Scan(&page.ETag, &page.LastModified, &page.Body)
	if errors.Is(err, sql.ErrNoRows) {
		return pagecache.Page{}, pagecache.ErrNotFound
	}

	if err != nil {
		return pagecache.Page{}, err
	}

	return page, nil
}

// Set stores the page for a feed url, replacing any previous version
func (c *Cache) Set(ctx context.Context, url string, page pagecache.Page) error {
	_, err := c.db.ExecContext(ctx,
		"INSERT OR REPLACE INTO pages (url, etag, last_modified, body) VALUES (?, ?, ?, ?)",
		url, page.ETag, page.LastModified, page.Body,
	)
	return err
}

// Erase removes the page for a feed url
func (c *Cache) Erase(ctx context.Context, url string) error {
	_, err := c.db.ExecContext(ctx, "DELETE FROM pages WHERE url = ?", url)
	return err
}

// Clear removes all pages
func (c *Cache) Clear(ctx context.Context) error {
	_, err := c.db.ExecContext(ctx, "DELETE FROM pages")
	return err
}

// Shutdown closes the database
func (c *Cache) Shutdown() {
	c.db.Close()
}
