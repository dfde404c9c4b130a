package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/wawanmain22/CaloMeter/internal/core/domain"
	"github.com/wawanmain22/CaloMeter/internal/metrics"
)

var _ domain.DailyAggregateRepository = (*CachedHistoryRepository)(nil)

const defaultHistoryCacheTTL = 10 * time.Minute

// CachedHistoryRepository keeps history listings of a user in one Redis
// hash. Any write to one of the user's days drops the whole hash.
type CachedHistoryRepository struct {
	next  domain.DailyAggregateRepository
	cache *redis.Client
	ttl   time.Duration
	log   zerolog.Logger
}

func NewCachedHistoryRepository(next domain.DailyAggregateRepository, cache *redis.Client, ttl time.Duration, log zerolog.Logger) *CachedHistoryRepository {
	if ttl <= 0 {
		ttl = defaultHistoryCacheTTL
	}
	return &CachedHistoryRepository{
		next:  next,
		cache: cache,
		ttl:   ttl,
		log:   log.With().Str("component", "history_cache").Logger(),
	}
}

const generationTTL = 24 * time.Hour

var errStaleSnapshot = errors.New("history changed while loading")

func historyKey(userID string) string {
	return fmt.Sprintf("history:%s", userID)
}

// historyGenKey counts invalidations of a user's hash. A loaded listing is
// only written back if the counter did not move while it was loading.
func historyGenKey(userID string) string {
	return fmt.Sprintf("history-gen:%s", userID)
}

func (r *CachedHistoryRepository) invalidate(ctx context.Context, userID string) {
	genKey := historyGenKey(userID)
	pipe := r.cache.TxPipeline()
	pipe.Incr(ctx, genKey)
	pipe.Expire(ctx, genKey, generationTTL)
	pipe.Del(ctx, historyKey(userID))
	if _, err := pipe.Exec(ctx); err != nil {
		r.log.Warn().Err(err).Str("user_id", userID).Msg("invalidate failed")
	}
}

func (r *CachedHistoryRepository) generation(ctx context.Context, userID string) (int64, error) {
	gen, err := r.cache.Get(ctx, historyGenKey(userID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

func (r *CachedHistoryRepository) store(ctx context.Context, userID, field string, gen int64, data []byte) error {
	genKey := historyGenKey(userID)
	return r.cache.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, genKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != gen {
			return errStaleSnapshot
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, historyKey(userID), field, data)
			pipe.Expire(ctx, historyKey(userID), r.ttl)
			return nil
		})
		return err
	}, genKey)
}

func (r *CachedHistoryRepository) cached(ctx context.Context, userID, field string, load func() ([]*domain.DailyAggregate, error)) ([]*domain.DailyAggregate, error) {
	key := historyKey(userID)

	val, err := r.cache.HGet(ctx, key, field).Result()
	switch {
	case err == nil:
		var aggs []*domain.DailyAggregate
		if err := json.Unmarshal([]byte(val), &aggs); err == nil {
			metrics.ObserveCacheLookup(true)
			return aggs, nil
		}
		r.log.Warn().Str("user_id", userID).Str("field", field).Msg("corrupted entry, dropping")
		r.cache.HDel(ctx, key, field)
	case !errors.Is(err, redis.Nil):
		r.log.Warn().Err(err).Msg("redis read error")
	}
	metrics.ObserveCacheLookup(false)

	gen, genErr := r.generation(ctx, userID)

	aggs, err := load()
	if err != nil {
		return nil, err
	}

	if genErr != nil {
		r.log.Warn().Err(genErr).Msg("redis read error, not caching")
		return aggs, nil
	}
	if data, err := json.Marshal(aggs); err == nil {
		switch err := r.store(ctx, userID, field, gen, data); {
		case err == nil:
		case errors.Is(err, errStaleSnapshot), errors.Is(err, redis.TxFailedErr):
			r.log.Debug().Str("user_id", userID).Str("field", field).Msg("listing changed while loading, not caching")
		default:
			r.log.Warn().Err(err).Msg("redis write error")
		}
	}

	return aggs, nil
}

func (r *CachedHistoryRepository) ListRecent(ctx context.Context, userID string, limit int) ([]*domain.DailyAggregate, error) {
	return r.cached(ctx, userID, fmt.Sprintf("recent:%d", limit), func() ([]*domain.DailyAggregate, error) {
		return r.next.ListRecent(ctx, userID, limit)
	})
}

func (r *CachedHistoryRepository) ListByDateRange(ctx context.Context, userID string, from, to time.Time) ([]*domain.DailyAggregate, error) {
	field := fmt.Sprintf("range:%s:%s", from.Format(domain.DateLayout), to.Format(domain.DateLayout))
	return r.cached(ctx, userID, field, func() ([]*domain.DailyAggregate, error) {
		return r.next.ListByDateRange(ctx, userID, from, to)
	})
}

func (r *CachedHistoryRepository) Create(ctx context.Context, agg *domain.DailyAggregate) error {
	if err := r.next.Create(ctx, agg); err != nil {
		return err
	}
	r.invalidate(ctx, agg.UserID)
	return nil
}

func (r *CachedHistoryRepository) GetByID(ctx context.Context, id string) (*domain.DailyAggregate, error) {
	return r.next.GetByID(ctx, id)
}

func (r *CachedHistoryRepository) GetByUserAndDate(ctx context.Context, userID string, date time.Time) (*domain.DailyAggregate, error) {
	return r.next.GetByUserAndDate(ctx, userID, date)
}

func (r *CachedHistoryRepository) Mutate(ctx context.Context, aggregateID string, fn func(ctx context.Context, tx domain.AggregateTx) error) (*domain.DailyAggregate, error) {
	agg, err := r.next.Mutate(ctx, aggregateID, fn)
	if err != nil {
		return nil, err
	}
	r.invalidate(ctx, agg.UserID)
	return agg, nil
}
