package resolve

import (
	"context"
	"database/sql"
	"log"
	"sync"

	_ "modernc.org/sqlite"
)

const cacheSchema = `
CREATE TABLE IF NOT EXISTS member_names (
	prefix TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	found INTEGER NOT NULL
);
`

// CachedResolver persists resolved prefixes in a SQLite table so repeat
// runs never hit the network for a known prefix. Negative results are
// cached as well.
type CachedResolver struct {
	db   *sql.DB
	next Resolver

	mu  sync.Mutex
	hot map[string]cacheEntry
}

type cacheEntry struct {
	name  string
	found bool
}

// OpenCache opens (or creates) the cache database at path and wraps the
// given resolver.
func OpenCache(path string, next Resolver) (*CachedResolver, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	cache := &CachedResolver{
		db:   db,
		next: next,
		hot:  make(map[string]cacheEntry),
	}

	if _, err := db.Exec(cacheSchema); err != nil {
		db.Close()
		return nil, err
	}

	return cache, nil
}

// Close releases the cache database.
func (c *CachedResolver) Close() error {
	return c.db.Close()
}

// Resolve implements Resolver. Lookup order is in-process map, SQLite
// table, then the wrapped resolver; misses are written through.
func (c *CachedResolver) Resolve(ctx context.Context, prefix string) (string, bool, error) {
	c.mu.Lock()
	entry, ok := c.hot[prefix]
	c.mu.Unlock()

	if ok == true {
		return entry.name, entry.found, nil
	}

	var name string
	var found int

	row := c.db.QueryRowContext(ctx, `SELECT name, found FROM member_names WHERE prefix = ?`, prefix)

	err := row.Scan(&name, &found)

	switch {
	case err == nil:
		c.remember(prefix, name, found != 0)
		return name, found != 0, nil

	case err != sql.ErrNoRows:
		return "", false, err
	}

	name, ok, err = c.next.Resolve(ctx, prefix)
	if err != nil {
		return "", false, err
	}

	c.remember(prefix, name, ok)

	stored := 0
	if ok == true {
		stored = 1
	}

	if _, err := c.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO member_names (prefix, name, found) VALUES (?, ?, ?)`,
		prefix, name, stored); err != nil {
		log.Printf("[RESOLVE] cache write for [%s] failed: %s", prefix, err.Error())
	}

	return name, ok, nil
}

func (c *CachedResolver) remember(prefix string, name string, found bool) {
	c.mu.Lock()
	c.hot[prefix] = cacheEntry{name: name, found: found}
	c.mu.Unlock()
}
