package resultcache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"
	_ "modernc.org/sqlite"

	"gifloop/internal/logging"
	"gifloop/internal/loop"
	"gifloop/internal/services"
)

// Store is a score cache backed by one SQLite file.
type Store struct {
	db     *sql.DB
	path   string
	lock   *flock.Flock
	logger *slog.Logger
}

type options struct {
	logger *slog.Logger
	noLock bool
}

// Option configures Open.
type Option func(*options)

// WithLogger sets the store's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithoutLock skips the single-writer lock. Use it only for inspection
// commands that never write scores.
func WithoutLock() Option {
	return func(o *options) {
		o.noLock = true
	}
}

// LockPath returns the advisory lock file guarding the cache at path.
func LockPath(path string) string {
	return path + ".lock"
}

// Files returns every file that belongs to the cache at path: the database,
// its WAL side files and the lock file.
func Files(path string) []string {
	return []string{path, path + "-wal", path + "-shm", LockPath(path)}
}

// Open opens the cache at path, creating the file and its schema when missing.
func Open(ctx context.Context, path string, opts ...Option) (*Store, error) {
	o := options{logger: logging.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	logger := logging.NewComponentLogger(o.logger, "resultcache")

	path = strings.TrimSpace(path)
	if path == "" {
		return nil, cacheError("open", "cache path is empty", nil)
	}
	if info, err := os.Stat(path); err == nil && !info.Mode().IsRegular() {
		return nil, cacheError("open", fmt.Sprintf("%s exists and is not a regular file", path), nil)
	}
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, cacheError("open", "ensure cache directory", err)
		}
	}

	var lock *flock.Flock
	if !o.noLock {
		lock = flock.New(LockPath(path))
		ok, err := lock.TryLock()
		if err != nil {
			return nil, cacheError("open", "acquire cache lock", err)
		}
		if !ok {
			return nil, cacheError("open", fmt.Sprintf("%s is in use by another gifloop process", path), nil)
		}
	}

	release := func() {
		if lock != nil {
			_ = lock.Unlock()
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		release()
		return nil, cacheError("open", "open sqlite db", err)
	}
	// pragmas are per connection and the coordinator is the only writer
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.ExecContext(ctx, pragma); execErr != nil {
			_ = db.Close()
			release()
			return nil, cacheError("open", fmt.Sprintf("apply pragma %q", pragma), execErr)
		}
	}

	store := &Store{db: db, path: path, lock: lock, logger: logger}
	if err := store.initSchema(ctx); err != nil {
		_ = db.Close()
		release()
		return nil, cacheError("open", "initialize schema", err)
	}

	logger.Debug("result cache opened",
		logging.String("path", path),
		logging.Bool("locked", lock != nil),
		logging.String(logging.FieldEventType, "cache_opened"),
	)
	return store, nil
}

// Path returns the cache file location.
func (s *Store) Path() string {
	return s.path
}

// Close closes the database and releases the lock.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	err := s.db.Close()
	if s.lock != nil {
		if unlockErr := s.lock.Unlock(); unlockErr != nil && err == nil {
			err = unlockErr
		}
	}
	return err
}

// Lookup returns the stored value for (from, to).
func (s *Store) Lookup(ctx context.Context, from, to int) (float64, bool, error) {
	var value float64
	err := s.db.QueryRowContext(ctx,
		`SELECT "value" FROM results WHERE "from" = ? AND "to" = ?`, from, to,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, cacheError("lookup", fmt.Sprintf("pair %d-%d", from, to), err)
	}
	return value, true, nil
}

// Upsert stores value for (from, to) unless a value is already present. The
// write is committed before Upsert returns.
func (s *Store) Upsert(ctx context.Context, from, to int, value float64) error {
	_, err := s.execWithRetry(ctx,
		`INSERT OR IGNORE INTO results ("from", "to", "value") VALUES (?, ?, ?)`, from, to, value,
	)
	if err != nil {
		return cacheError("upsert", fmt.Sprintf("pair %d-%d", from, to), err)
	}
	return nil
}

// LoadAll returns every stored score.
func (s *Store) LoadAll(ctx context.Context) (map[loop.Key]float64, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT "from", "to", "value" FROM results`)
	if err != nil {
		return nil, cacheError("load", "query results", err)
	}
	defer rows.Close()

	values := make(map[loop.Key]float64)
	for rows.Next() {
		var key loop.Key
		var value float64
		if err := rows.Scan(&key.From, &key.To, &value); err != nil {
			return nil, cacheError("load", "scan result", err)
		}
		values[key] = value
	}
	if err := rows.Err(); err != nil {
		return nil, cacheError("load", "iterate results", err)
	}
	return values, nil
}

// Count returns the number of stored scores.
func (s *Store) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(1) FROM results").Scan(&count); err != nil {
		return 0, cacheError("count", "", err)
	}
	return count, nil
}

// Best returns up to limit stored pairs with the highest values. Equal values
// are ordered by (from, to), matching enumeration order.
func (s *Store) Best(ctx context.Context, limit int) ([]loop.Pair, error) {
	if limit <= 0 {
		return nil, nil
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT "from", "to", "value" FROM results ORDER BY "value" DESC, "from", "to" LIMIT ?`, limit,
	)
	if err != nil {
		return nil, cacheError("best", "query results", err)
	}
	defer rows.Close()

	var pairs []loop.Pair
	for rows.Next() {
		var p loop.Pair
		if err := rows.Scan(&p.From, &p.To, &p.Value); err != nil {
			return nil, cacheError("best", "scan result", err)
		}
		pairs = append(pairs, p)
	}
	if err := rows.Err(); err != nil {
		return nil, cacheError("best", "iterate results", err)
	}
	return pairs, nil
}

// Clear removes every stored score and returns how many were deleted.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := s.execWithRetry(ctx, "DELETE FROM results")
	if err != nil {
		return 0, cacheError("clear", "", err)
	}
	removed, err := res.RowsAffected()
	if err != nil {
		return 0, cacheError("clear", "rows affected", err)
	}
	s.logger.Info("result cache cleared",
		logging.String("path", s.path),
		logging.Int64("removed", removed),
		logging.String(logging.FieldEventType, "cache_cleared"),
	)
	return removed, nil
}

func cacheError(operation, message string, err error) error {
	return services.Wrap(services.ErrCacheIO, "resultcache", operation, message, err)
}
