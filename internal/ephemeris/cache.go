package ephemeris

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver.
)

// cacheSchema contains the DDL executed on first open. Using IF NOT EXISTS
// makes it safe to run on every startup. Entries never expire: the engine's
// output for a given input is deterministic.
const cacheSchema = `
CREATE TABLE IF NOT EXISTS positions (
    instant   TEXT NOT NULL,
    body      INTEGER NOT NULL,
    longitude REAL NOT NULL,
    latitude  REAL NOT NULL,
    distance  REAL NOT NULL,
    speed     REAL NOT NULL,
    PRIMARY KEY (instant, body)
);

CREATE TABLE IF NOT EXISTS houses (
    instant   TEXT NOT NULL,
    latitude  REAL NOT NULL,
    longitude REAL NOT NULL,
    system    TEXT NOT NULL,
    c1 REAL NOT NULL, c2 REAL NOT NULL, c3 REAL NOT NULL, c4 REAL NOT NULL,
    c5 REAL NOT NULL, c6 REAL NOT NULL, c7 REAL NOT NULL, c8 REAL NOT NULL,
    c9 REAL NOT NULL, c10 REAL NOT NULL, c11 REAL NOT NULL, c12 REAL NOT NULL,
    ascendant REAL NOT NULL,
    midheaven REAL NOT NULL,
    PRIMARY KEY (instant, latitude, longitude, system)
);
`

// Cache is a Provider decorator that memoizes engine output in a local
// SQLite database. Spawning the engine process dominates chart latency;
// repeated charts for the same instant (the common case when comparing house
// systems or re-rendering in watch mode) hit the cache instead.
type Cache struct {
	inner Provider
	db    *sql.DB
}

// OpenCache opens (or creates) the cache database at dbPath and wraps inner.
func OpenCache(ctx context.Context, dbPath string, inner Provider) (*Cache, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("ephemeris cache: open database: %w", err)
	}

	// Limit to one connection. SQLite only supports a single writer; one
	// connection avoids SQLITE_BUSY contention between pooled connections
	// that each need their own PRAGMA setup.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("ephemeris cache: enable WAL mode: %w", err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("ephemeris cache: set busy timeout: %w", err)
	}
	if _, err := db.ExecContext(ctx, cacheSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("ephemeris cache: create schema: %w", err)
	}

	return &Cache{inner: inner, db: db}, nil
}

// Close releases the underlying database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// cacheKey renders an instant as a stable key. Sub-second precision is kept
// so progressed instants with fractional seconds do not collide.
func cacheKey(utc time.Time) string {
	return utc.UTC().Format(time.RFC3339Nano)
}

// BodyPosition returns the cached position when present, otherwise computes
// it through the wrapped provider and stores the result. Cache faults are
// non-fatal; the computed value is still returned.
func (c *Cache) BodyPosition(ctx context.Context, utc time.Time, at Coordinates, body Body) (RawPosition, error) {
	key := cacheKey(utc)

	var pos RawPosition
	err := c.db.QueryRowContext(ctx,
		"SELECT longitude, latitude, distance, speed FROM positions WHERE instant = ? AND body = ?",
		key, int(body),
	).Scan(&pos.Longitude, &pos.Latitude, &pos.Distance, &pos.Speed)
	if err == nil {
		return pos, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return RawPosition{}, fmt.Errorf("ephemeris cache: lookup position: %w", err)
	}

	pos, err = c.inner.BodyPosition(ctx, utc, at, body)
	if err != nil {
		return RawPosition{}, err
	}

	_, _ = c.db.ExecContext(ctx,
		"INSERT OR REPLACE INTO positions (instant, body, longitude, latitude, distance, speed) VALUES (?, ?, ?, ?, ?, ?)",
		key, int(body), pos.Longitude, pos.Latitude, pos.Distance, pos.Speed,
	)
	return pos, nil
}

// Houses returns the cached cusps when present, otherwise computes them
// through the wrapped provider and stores the result.
func (c *Cache) Houses(ctx context.Context, utc time.Time, at Coordinates, system HouseSystem) (RawHouses, error) {
	key := cacheKey(utc)

	var h RawHouses
	row := c.db.QueryRowContext(ctx,
		`SELECT c1,c2,c3,c4,c5,c6,c7,c8,c9,c10,c11,c12, ascendant, midheaven
		 FROM houses WHERE instant = ? AND latitude = ? AND longitude = ? AND system = ?`,
		key, at.Latitude, at.Longitude, string(system),
	)
	dest := make([]any, 0, 14)
	for i := range h.Cusps {
		dest = append(dest, &h.Cusps[i])
	}
	dest = append(dest, &h.Ascendant, &h.Midheaven)
	err := row.Scan(dest...)
	if err == nil {
		return h, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return RawHouses{}, fmt.Errorf("ephemeris cache: lookup houses: %w", err)
	}

	h, err = c.inner.Houses(ctx, utc, at, system)
	if err != nil {
		return RawHouses{}, err
	}

	args := []any{key, at.Latitude, at.Longitude, string(system)}
	for _, cusp := range h.Cusps {
		args = append(args, cusp)
	}
	args = append(args, h.Ascendant, h.Midheaven)
	_, _ = c.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO houses
		 (instant, latitude, longitude, system, c1,c2,c3,c4,c5,c6,c7,c8,c9,c10,c11,c12, ascendant, midheaven)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		args...,
	)
	return h, nil
}
