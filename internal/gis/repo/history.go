package repo

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	errx "github.com/GeoFlow-core-poc-v1/server/internal/core/error"
	"github.com/GeoFlow-core-poc-v1/server/internal/gis/model"
	logx "github.com/GeoFlow-core-poc-v1/server/pkg/logger"
	"github.com/redis/go-redis/v9"
)

const defaultMaxRecent = 50

// recentKey holds the ids of recently processed queries, newest first.
const recentKey = "queries:recent"

type RedisQueryRepository struct {
	rdb       redis.Cmdable
	ttl       time.Duration
	maxRecent int
}

func NewRedisQueryRepository(rdb redis.Cmdable, ttl time.Duration, maxRecent int) *RedisQueryRepository {
	if maxRecent <= 0 {
		maxRecent = defaultMaxRecent
	}
	return &RedisQueryRepository{rdb: rdb, ttl: ttl, maxRecent: maxRecent}
}

func (r *RedisQueryRepository) queryKey(queryID string) string {
	return fmt.Sprintf("query:%s", queryID)
}

func (r *RedisQueryRepository) executionKey(executionID string) string {
	return fmt.Sprintf("execution:%s", executionID)
}

func (r *RedisQueryRepository) SaveQuery(ctx context.Context, rec *model.QueryRecord) error {
	b, err := json.Marshal(rec)
	if err != nil {
		logx.Error().Err(err).Str("query_id", rec.QueryID).Msg("failed to marshal query record")
		return fmt.Errorf("marshal query record: %w", err)
	}
	key := r.queryKey(rec.QueryID)

	if err := r.rdb.Set(ctx, key, b, r.ttl).Err(); err != nil {
		logx.Error().Err(err).Str("key", key).Msg("failed to save query record to redis")
		return errx.WrapRedis(err)
	}

	// register in the recent list, newest first, capped
	if err := r.rdb.LPush(ctx, recentKey, rec.QueryID).Err(); err != nil {
		logx.Error().Err(err).Str("key", recentKey).Msg("failed to push query id to recent list")
		return errx.WrapRedis(err)
	}
	if err := r.rdb.LTrim(ctx, recentKey, 0, int64(r.maxRecent)-1).Err(); err != nil {
		logx.Error().Err(err).Str("key", recentKey).Msg("failed to trim recent list")
		return errx.WrapRedis(err)
	}
	if r.ttl > 0 {
		if ok, err := r.rdb.Expire(ctx, recentKey, r.ttl).Result(); err != nil {
			logx.Error().Err(err).Str("key", recentKey).Msg("failed to set expire")
			return errx.WrapRedis(err)
		} else if !ok {
			logx.Warn().Str("key", recentKey).Dur("ttl", r.ttl).Msg("failed to set TTL on recent list")
		}
	}
	return nil
}

func (r *RedisQueryRepository) GetQuery(ctx context.Context, queryID string) (*model.QueryRecord, error) {
	key := r.queryKey(queryID)

	raw, err := r.rdb.Get(ctx, key).Result()
	if err != nil {
		if err != redis.Nil {
			logx.Error().Err(err).Str("key", key).Msg("failed to load query record from redis")
		}
		return nil, errx.WrapRedis(err)
	}

	var rec model.QueryRecord
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		logx.Error().Err(err).Str("query_id", queryID).Msg("failed to unmarshal query record")
		return nil, fmt.Errorf("unmarshal query record: %w", err)
	}
	return &rec, nil
}

func (r *RedisQueryRepository) RecentQueries(ctx context.Context, limit int) ([]*model.QueryRecord, error) {
	if limit <= 0 || limit > r.maxRecent {
		limit = r.maxRecent
	}

	ids, err := r.rdb.LRange(ctx, recentKey, 0, int64(limit)-1).Result()
	if err != nil {
		if err == redis.Nil {
			return []*model.QueryRecord{}, nil
		}
		logx.Error().Err(err).Str("key", recentKey).Msg("failed to load recent query ids from redis")
		return nil, errx.WrapRedis(err)
	}

	records := make([]*model.QueryRecord, 0, len(ids))
	for _, id := range ids {
		rec, err := r.GetQuery(ctx, id)
		if err != nil {
			// expired entries may still be listed; skip them
			if errx.StatusOf(err, 0) == 404 {
				continue
			}
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

func (r *RedisQueryRepository) SaveExecution(ctx context.Context, rec *model.ExecutionRecord) error {
	b, err := json.Marshal(rec)
	if err != nil {
		logx.Error().Err(err).Str("execution_id", rec.ExecutionID).Msg("failed to marshal execution record")
		return fmt.Errorf("marshal execution record: %w", err)
	}
	key := r.executionKey(rec.ExecutionID)

	if err := r.rdb.Set(ctx, key, b, r.ttl).Err(); err != nil {
		logx.Error().Err(err).Str("key", key).Msg("failed to save execution record to redis")
		return errx.WrapRedis(err)
	}
	return nil
}

func (r *RedisQueryRepository) GetExecution(ctx context.Context, executionID string) (*model.ExecutionRecord, error) {
	key := r.executionKey(executionID)

	raw, err := r.rdb.Get(ctx, key).Result()
	if err != nil {
		if err != redis.Nil {
			logx.Error().Err(err).Str("key", key).Msg("failed to load execution record from redis")
		}
		return nil, errx.WrapRedis(err)
	}

	var rec model.ExecutionRecord
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		logx.Error().Err(err).Str("execution_id", executionID).Msg("failed to unmarshal execution record")
		return nil, fmt.Errorf("unmarshal execution record: %w", err)
	}
	return &rec, nil
}

var _ model.QueryRepository = (*RedisQueryRepository)(nil)
