package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vitaburn/vitaburn-engine/internal/core/domain"
)

var _ domain.PredictionRepository = (*CachedPredictionRepository)(nil)

// CachedPredictionRepository is a read-through cache over the history
// list. The full history is read on every dashboard render, so caching
// the list pays for itself; every append invalidates.
type CachedPredictionRepository struct {
	next  domain.PredictionRepository
	cache *redis.Client
}

func NewCachedPredictionRepository(next domain.PredictionRepository, cache *redis.Client) *CachedPredictionRepository {
	return &CachedPredictionRepository{
		next:  next,
		cache: cache,
	}
}

func (r *CachedPredictionRepository) cacheKey(userID string) string {
	return fmt.Sprintf("predictions:%s", userID)
}

func (r *CachedPredictionRepository) invalidate(ctx context.Context, userID string) {
	if err := r.cache.Del(ctx, r.cacheKey(userID)).Err(); err != nil {
		log.Printf("[CACHE] Failed to invalidate for user %s: %v", userID, err)
	}
}

func (r *CachedPredictionRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.Prediction, error) {
	key := r.cacheKey(userID)

	val, err := r.cache.Get(ctx, key).Result()
	if err == nil {
		var predictions []*domain.Prediction
		if err := json.Unmarshal([]byte(val), &predictions); err == nil {
			return predictions, nil
		}

		log.Printf("[CACHE] Corrupted data for user %s, cleaning up key", userID)
		r.cache.Del(ctx, key)
	} else if err != redis.Nil {
		log.Printf("[CACHE] Redis read error: %v", err)
	}

	predictions, err := r.next.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(predictions); err == nil {
		if setErr := r.cache.Set(ctx, key, data, 30*time.Minute).Err(); setErr != nil {
			log.Printf("[CACHE] Redis set error: %v", setErr)
		}
	}

	return predictions, nil
}

func (r *CachedPredictionRepository) Create(ctx context.Context, p *domain.Prediction) error {
	if err := r.next.Create(ctx, p); err != nil {
		return err
	}
	r.invalidate(ctx, p.UserID)
	return nil
}

func (r *CachedPredictionRepository) CountByUserID(ctx context.Context, userID string) (int, error) {
	return r.next.CountByUserID(ctx, userID)
}
