package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vitaburn/vitaburn-engine/internal/core/domain"
	"github.com/vitaburn/vitaburn-engine/internal/core/services"
)

type PredictionRepository interface {
	ListByUserID(ctx context.Context, userID string) ([]*domain.Prediction, error)
}

type WarmJob struct {
	UserID string
}

// StatsWarmer precomputes a user's dashboard snapshot into Redis after
// every history change. The snapshot is pure memoization: appends
// invalidate it synchronously, the read path recomputes whenever the
// warm copy is missing, and the key carries the UTC date so a snapshot
// frozen before midnight is never served after it.
type StatsWarmer struct {
	repo  PredictionRepository
	cache *redis.Client
	ttl   time.Duration
	jobs  chan WarmJob
}

func NewStatsWarmer(repo PredictionRepository, cache *redis.Client, ttl time.Duration) *StatsWarmer {
	return &StatsWarmer{
		repo:  repo,
		cache: cache,
		ttl:   ttl,
		jobs:  make(chan WarmJob, 100),
	}
}

func (w *StatsWarmer) Start(ctx context.Context) {
	go func() {
		log.Println("Stats Warmer started in background...")
		for {
			select {
			case job := <-w.jobs:
				w.processJob(ctx, job)
			case <-ctx.Done():
				log.Println("Stats Warmer shutting down...")
				return
			}
		}
	}()
}

func (w *StatsWarmer) Enqueue(userID string) {
	select {
	case w.jobs <- WarmJob{UserID: userID}:
	default:
		log.Printf("Stats Warmer queue full! Dropping job for user %s", userID)
	}
}

// Cached returns the warm snapshot if one exists. A miss or a corrupted
// entry is not an error: the caller recomputes.
func (w *StatsWarmer) Cached(ctx context.Context, userID string) (*domain.DashboardStats, bool) {
	if w.cache == nil {
		return nil, false
	}

	key := w.cacheKey(userID, time.Now().UTC())

	val, err := w.cache.Get(ctx, key).Result()
	if err != nil {
		if err != redis.Nil {
			log.Printf("Stats Warmer: redis read error: %v", err)
		}
		return nil, false
	}

	var stats domain.DashboardStats
	if err := json.Unmarshal([]byte(val), &stats); err != nil {
		log.Printf("Stats Warmer: corrupted snapshot for user %s, cleaning up", userID)
		w.cache.Del(ctx, key)
		return nil, false
	}

	return &stats, true
}

// Invalidate drops the warm snapshot so the next read recomputes. It is
// called inline on every append, before the re-warm job is queued.
func (w *StatsWarmer) Invalidate(ctx context.Context, userID string) {
	if w.cache == nil {
		return
	}
	if err := w.cache.Del(ctx, w.cacheKey(userID, time.Now().UTC())).Err(); err != nil {
		log.Printf("Stats Warmer: failed to invalidate for user %s: %v", userID, err)
	}
}

// cacheKey scopes the snapshot to one UTC calendar day. Yesterday's
// entries go unread once the day rolls over and expire via the TTL.
func (w *StatsWarmer) cacheKey(userID string, day time.Time) string {
	return fmt.Sprintf("stats:dashboard:%s:%s", userID, day.UTC().Format("2006-01-02"))
}

func (w *StatsWarmer) processJob(ctx context.Context, job WarmJob) {
	if w.cache == nil {
		return
	}

	records, err := w.repo.ListByUserID(ctx, job.UserID)
	if err != nil {
		log.Printf("Stats Warmer: error fetching history for %s: %v", job.UserID, err)
		return
	}

	now := time.Now().UTC()
	stats := domain.DashboardStats{
		Totals:        services.Totals(records, now),
		WeeklySeries:  services.WeeklySeries(records, now),
		MonthlySeries: services.MonthlySeries(records, now),
		Distribution:  services.Distribution(records),
		Streak:        services.Streak(records, now),
	}

	data, err := json.Marshal(stats)
	if err != nil {
		log.Printf("Stats Warmer: failed to encode snapshot for %s: %v", job.UserID, err)
		return
	}

	if err := w.cache.Set(ctx, w.cacheKey(job.UserID, now), data, w.ttl).Err(); err != nil {
		log.Printf("Stats Warmer: redis set error for %s: %v", job.UserID, err)
	}
}
