package content

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/UtonulVTebe/studyhub-api/internal/models"
	"github.com/UtonulVTebe/studyhub-api/internal/observability"
)

// Resolver supplies the parsed content tree for a course.
type Resolver interface {
	Resolve(ctx context.Context, course models.Course) (map[string]interface{}, error)
}

// CachedResolver wraps a Resolver with a Redis read-through cache so hot
// course trees are not re-read and re-parsed on every submission.
type CachedResolver struct {
	inner  Resolver
	cache  *redis.Client
	ttl    time.Duration
	logger zerolog.Logger
}

// NewCachedResolver builds the caching layer. A nil client disables caching.
func NewCachedResolver(inner Resolver, cache *redis.Client, ttl time.Duration, logger zerolog.Logger) *CachedResolver {
	return &CachedResolver{
		inner:  inner,
		cache:  cache,
		ttl:    ttl,
		logger: logger.With().Str("component", "content_cache").Logger(),
	}
}

func contentCacheKey(courseID uint) string {
	return fmt.Sprintf("course:content:%d", courseID)
}

// Resolve returns the cached tree when present, falling back to the inner
// resolver. Cache failures are logged and never surface to the caller.
func (r *CachedResolver) Resolve(ctx context.Context, course models.Course) (map[string]interface{}, error) {
	key := contentCacheKey(course.ID)

	if r.cache != nil {
		if cached, err := r.cache.Get(ctx, key).Result(); err == nil {
			var tree map[string]interface{}
			if unmarshalErr := json.Unmarshal([]byte(cached), &tree); unmarshalErr == nil {
				r.logger.Debug().Uint("course_id", course.ID).Msg("content cache hit")
				observability.ContentCache().WithLabelValues("hit").Inc()
				return tree, nil
			}
		} else if err != redis.Nil {
			r.logger.Warn().Err(err).Msg("failed to read content cache")
		}
	}

	observability.ContentCache().WithLabelValues("miss").Inc()
	tree, err := r.inner.Resolve(ctx, course)
	if err != nil {
		return nil, err
	}

	if r.cache != nil {
		if payload, err := json.Marshal(tree); err == nil {
			if err := r.cache.Set(ctx, key, payload, r.ttl).Err(); err != nil {
				r.logger.Warn().Err(err).Msg("failed to store content cache")
			}
		}
	}

	return tree, nil
}

// Invalidate drops the cached tree after a content rewrite.
func (r *CachedResolver) Invalidate(ctx context.Context, courseID uint) {
	if r.cache == nil {
		return
	}
	if err := r.cache.Del(ctx, contentCacheKey(courseID)).Err(); err != nil {
		r.logger.Warn().Err(err).Uint("course_id", courseID).Msg("failed to invalidate content cache")
	}
}
