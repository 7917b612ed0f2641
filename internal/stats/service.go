package stats

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/lromero/pantryflow-backend/pkg/config"
	"github.com/lromero/pantryflow-backend/pkg/enums"
	pkgerrors "github.com/lromero/pantryflow-backend/pkg/errors"
	"github.com/lromero/pantryflow-backend/pkg/redis"
)

const monthlyWindowMonths = 12

type statsCache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	StatsKey(userID string) string
}

// Service exposes read-only shopping statistics.
type Service interface {
	GetStats(ctx context.Context, userID uuid.UUID) (*StatsDTO, error)
}

// service implements the stats service with a cache in front of the
// aggregate queries.
type service struct {
	repo  *Repository
	cache statsCache
	cfg   config.StatsConfig
}

// NewService constructs a stats service instance.
func NewService(repo *Repository, cache statsCache, cfg config.StatsConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("stats repository required")
	}
	if cache == nil {
		return nil, fmt.Errorf("stats cache required")
	}
	return &service{repo: repo, cache: cache, cfg: cfg}, nil
}

// GetStats returns the user's aggregates, served from cache when fresh. Cache
// failures fall through to the database; statistics are never a hard
// dependency on Redis.
func (s *service) GetStats(ctx context.Context, userID uuid.UUID) (*StatsDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	key := s.cache.StatsKey(userID.String())
	cached, err := s.cache.Get(ctx, key)
	switch {
	case err == nil:
		var dto StatsDTO
		if err := json.Unmarshal([]byte(cached), &dto); err == nil {
			return &dto, nil
		}
	case errors.Is(err, redis.Nil):
		// cache miss, recompute below
	default:
		// cache unavailable, serve from the database
	}

	dto, err := s.computeStats(ctx, userID)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(dto); err == nil {
		_ = s.cache.Set(ctx, key, string(payload), s.cfg.CacheTTL)
	}
	return dto, nil
}

func (s *service) computeStats(ctx context.Context, userID uuid.UUID) (*StatsDTO, error) {
	counts, err := s.repo.CountSessionsByStatus(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count sessions")
	}

	checks, err := s.repo.CountChecks(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count checks")
	}

	spans, err := s.repo.SessionSpans(ctx, userID, time.Time{})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load session spans")
	}

	limit := s.cfg.TopLimit
	if limit <= 0 {
		limit = 5
	}
	top, err := s.repo.TopCheckedIngredients(ctx, userID, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load top ingredients")
	}

	dto := &StatsDTO{
		ActiveSessions:    counts[enums.SessionStatusActive.String()],
		CompletedSessions: counts[enums.SessionStatusCompleted.String()],
		AbandonedSessions: counts[enums.SessionStatusAbandoned.String()],
		TotalChecks:       checks,
	}
	for _, count := range counts {
		dto.TotalSessions += count
	}

	dto.AverageDurationSeconds = averageDurationSeconds(spans)
	dto.MonthlySessions = monthlyBuckets(spans, time.Now().UTC(), monthlyWindowMonths)

	dto.TopIngredients = make([]TopIngredientDTO, 0, len(top))
	for _, row := range top {
		entry := TopIngredientDTO{
			IngredientID:   row.IngredientID,
			IngredientName: row.IngredientName,
			CheckCount:     row.CheckCount,
		}
		if dto.TotalSessions > 0 {
			entry.CheckRate = float64(row.CheckCount) / float64(dto.TotalSessions)
		}
		dto.TopIngredients = append(dto.TopIngredients, entry)
	}

	return dto, nil
}

// averageDurationSeconds averages only completed spans; active and abandoned
// sessions without a completion timestamp carry no meaningful duration.
func averageDurationSeconds(spans []sessionSpan) float64 {
	var total float64
	var count int
	for _, span := range spans {
		if span.CompletedAt == nil {
			continue
		}
		seconds := span.CompletedAt.Sub(span.StartedAt).Seconds()
		if seconds < 0 {
			continue
		}
		total += seconds
		count++
	}
	if count == 0 {
		return 0
	}
	return total / float64(count)
}

// monthlyBuckets counts sessions started per calendar month over the trailing
// window, oldest first. Empty months are included so charts stay contiguous.
func monthlyBuckets(spans []sessionSpan, now time.Time, months int) []MonthlySessionDTO {
	if months <= 0 {
		return nil
	}

	counts := make(map[string]int64, months)
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -(months - 1), 0)

	for _, span := range spans {
		started := span.StartedAt.UTC()
		if started.Before(start) {
			continue
		}
		counts[started.Format("2006-01")]++
	}

	buckets := make([]MonthlySessionDTO, 0, months)
	for i := 0; i < months; i++ {
		month := start.AddDate(0, i, 0).Format("2006-01")
		buckets = append(buckets, MonthlySessionDTO{Month: month, Count: counts[month]})
	}
	return buckets
}
