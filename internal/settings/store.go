package settings

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/autolane/dealer-ai-platform/pkg/logging"
)

const globalCacheKey = "global"

// DefaultCacheTTL is how long a loaded bundle stays fresh, measured from load
// time (no sliding expiry).
const DefaultCacheTTL = 5 * time.Minute

// Store is the read contract the engine and synthesizer depend on. A fake can
// be substituted in tests without touching process-wide state.
type Store interface {
	Get(ctx context.Context, dealerID string) (*Bundle, error)
	Invalidate(dealerID string)
}

// DB is the subset of pgxpool.Pool used by the settings store.
type DB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

type cacheEntry struct {
	bundle   *Bundle
	loadedAt time.Time
}

// CachedStore loads dealer settings from Postgres and caches merged bundles
// per dealer with a fixed TTL.
type CachedStore struct {
	db     DB
	ttl    time.Duration
	logger *logging.Logger

	mu    sync.Mutex
	cache map[string]cacheEntry

	now func() time.Time
}

var _ Store = (*CachedStore)(nil)

// NewCachedStore wires a settings store around the supplied database handle.
func NewCachedStore(db DB, ttl time.Duration, logger *logging.Logger) *CachedStore {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &CachedStore{
		db:     db,
		ttl:    ttl,
		logger: logger,
		cache:  make(map[string]cacheEntry),
		now:    time.Now,
	}
}

// Get returns the merged bundle for the dealer, loading and caching it if the
// cached entry is missing or expired. A datastore error degrades to an
// all-default bundle rather than failing the caller.
func (s *CachedStore) Get(ctx context.Context, dealerID string) (*Bundle, error) {
	key := cacheKey(dealerID)

	s.mu.Lock()
	entry, ok := s.cache[key]
	s.mu.Unlock()
	if ok && s.now().Sub(entry.loadedAt) < s.ttl {
		return entry.bundle, nil
	}

	bundle, err := s.load(ctx, dealerID)
	if err != nil {
		// Callers depend on graceful degradation: defaults, never an error.
		// The failed load is not cached so the next call retries.
		s.logger.Warn("settings load failed, serving defaults",
			"dealer_id", dealerID, "error", err)
		return DefaultBundle(dealerID), nil
	}

	s.mu.Lock()
	s.cache[key] = cacheEntry{bundle: bundle, loadedAt: s.now()}
	s.mu.Unlock()

	return bundle, nil
}

// Invalidate drops the cached bundle for the dealer (or the global entry when
// dealerID is empty) so the next Get reloads from the database.
func (s *CachedStore) Invalidate(dealerID string) {
	s.mu.Lock()
	delete(s.cache, cacheKey(dealerID))
	s.mu.Unlock()
}

func (s *CachedStore) load(ctx context.Context, dealerID string) (*Bundle, error) {
	values := map[string]string{}

	// Global rows first; dealer-scoped rows overwrite on key collision.
	if err := s.loadScope(ctx, values, `
		SELECT setting_type, setting_value
		FROM dealer_settings
		WHERE dealer_id IS NULL AND is_active = true`); err != nil {
		return nil, err
	}

	if dealerID != "" {
		if err := s.loadScope(ctx, values, `
			SELECT setting_type, setting_value
			FROM dealer_settings
			WHERE dealer_id = $1 AND is_active = true`, dealerID); err != nil {
			return nil, err
		}
	}

	return NewBundle(dealerID, values), nil
}

func (s *CachedStore) loadScope(ctx context.Context, into map[string]string, query string, args ...any) error {
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("settings: query failed: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return fmt.Errorf("settings: scan failed: %w", err)
		}
		into[key] = value
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("settings: rows failed: %w", err)
	}
	return nil
}

// Put upserts one setting row and invalidates the affected cache entry. An
// empty dealerID writes a global row.
func (s *CachedStore) Put(ctx context.Context, dealerID, key, value string) error {
	var err error
	if dealerID == "" {
		_, err = s.db.Exec(ctx, `
			INSERT INTO dealer_settings (dealer_id, setting_type, setting_value, is_active)
			VALUES (NULL, $1, $2, true)
			ON CONFLICT (setting_type) WHERE dealer_id IS NULL
			DO UPDATE SET setting_value = EXCLUDED.setting_value, is_active = true`,
			key, value)
	} else {
		_, err = s.db.Exec(ctx, `
			INSERT INTO dealer_settings (dealer_id, setting_type, setting_value, is_active)
			VALUES ($1, $2, $3, true)
			ON CONFLICT (dealer_id, setting_type) WHERE dealer_id IS NOT NULL
			DO UPDATE SET setting_value = EXCLUDED.setting_value, is_active = true`,
			dealerID, key, value)
	}
	if err != nil {
		return fmt.Errorf("settings: upsert failed: %w", err)
	}

	s.Invalidate(dealerID)
	return nil
}

func cacheKey(dealerID string) string {
	if dealerID == "" {
		return globalCacheKey
	}
	return dealerID
}
