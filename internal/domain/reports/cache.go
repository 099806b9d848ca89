package reports

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	goredis "github.com/redis/go-redis/v9"

	"hrinsight/internal/domain/readers"
	"hrinsight/internal/platform/querier"
)

type CacheEntry struct {
	Key          string
	Period       readers.Period
	DepartmentID *int64
	Report       *ConsolidatedReport
	ExpiresAt    time.Time
}

// Cache implementations must never return an entry whose ExpiresAt is in
// the past.
type Cache interface {
	Get(ctx context.Context, key string) (*ConsolidatedReport, bool, error)
	Put(ctx context.Context, entry CacheEntry) error
	DeleteExpired(ctx context.Context) (int64, error)
}

func CacheKey(period readers.Period, departmentID *int64) string {
	dept := "all"
	if departmentID != nil {
		dept = strconv.FormatInt(*departmentID, 10)
	}
	return "consolidated:" + period.Start.UTC().Format(time.RFC3339Nano) + ":" + period.End.UTC().Format(time.RFC3339Nano) + ":" + dept
}

type PGCache struct {
	DB  querier.Querier
	Now func() time.Time
}

func NewPGCache(db querier.Querier) *PGCache {
	return &PGCache{DB: db, Now: time.Now}
}

func (c *PGCache) Get(ctx context.Context, key string) (*ConsolidatedReport, bool, error) {
	var raw []byte
	var expiresAt time.Time
	err := c.DB.QueryRow(ctx, `
    SELECT report_json, expires_at
    FROM consolidated_report_cache
    WHERE cache_key = $1
  `, key).Scan(&raw, &expiresAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	if c.Now().After(expiresAt) {
		return nil, false, nil
	}
	var report ConsolidatedReport
	if err := json.Unmarshal(raw, &report); err != nil {
		return nil, false, err
	}
	return &report, true, nil
}

func (c *PGCache) Put(ctx context.Context, entry CacheEntry) error {
	raw, err := json.Marshal(entry.Report)
	if err != nil {
		return err
	}
	_, err = c.DB.Exec(ctx, `
    INSERT INTO consolidated_report_cache (cache_key, period_start, period_end, department_id, report_json, generated_at, expires_at)
    VALUES ($1,$2,$3,$4,$5,$6,$7)
    ON CONFLICT (cache_key) DO UPDATE
    SET report_json = EXCLUDED.report_json,
        generated_at = EXCLUDED.generated_at,
        expires_at = EXCLUDED.expires_at
  `, entry.Key, entry.Period.Start, entry.Period.End, entry.DepartmentID, raw, entry.Report.GeneratedAt, entry.ExpiresAt)
	return err
}

func (c *PGCache) DeleteExpired(ctx context.Context) (int64, error) {
	tag, err := c.DB.Exec(ctx, "DELETE FROM consolidated_report_cache WHERE expires_at < $1", c.Now())
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// RedisCache stores the expiry next to the report and also sets a key TTL, so
// the clock check holds even when redis eviction lags.
type RedisCache struct {
	Client goredis.Cmdable
	Prefix string
	Now    func() time.Time
}

func NewRedisCache(client goredis.Cmdable) *RedisCache {
	return &RedisCache{Client: client, Prefix: "hrinsight:", Now: time.Now}
}

type redisEntry struct {
	ExpiresAt time.Time           `json:"expiresAt"`
	Report    *ConsolidatedReport `json:"report"`
}

func (c *RedisCache) Get(ctx context.Context, key string) (*ConsolidatedReport, bool, error) {
	raw, err := c.Client.Get(ctx, c.Prefix+key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var entry redisEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return nil, false, err
	}
	if entry.Report == nil || c.Now().After(entry.ExpiresAt) {
		return nil, false, nil
	}
	return entry.Report, true, nil
}

func (c *RedisCache) Put(ctx context.Context, entry CacheEntry) error {
	ttl := entry.ExpiresAt.Sub(c.Now())
	if ttl <= 0 {
		return nil
	}
	raw, err := json.Marshal(redisEntry{ExpiresAt: entry.ExpiresAt, Report: entry.Report})
	if err != nil {
		return err
	}
	return c.Client.Set(ctx, c.Prefix+entry.Key, raw, ttl).Err()
}

// DeleteExpired is a no-op; redis expires keys itself.
func (c *RedisCache) DeleteExpired(context.Context) (int64, error) {
	return 0, nil
}
