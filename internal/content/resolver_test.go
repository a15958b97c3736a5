package content

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/UtonulVTebe/studyhub-api/internal/models"
)

type countingResolver struct {
	tree  map[string]interface{}
	err   error
	calls int
}

func (r *countingResolver) Resolve(_ context.Context, _ models.Course) (map[string]interface{}, error) {
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	return r.tree, nil
}

func newCacheClient(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	return redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func TestCachedResolverReadThrough(t *testing.T) {
	inner := &countingResolver{tree: map[string]interface{}{"topic": map[string]interface{}{}}}
	resolver := NewCachedResolver(inner, newCacheClient(t), time.Minute, zerolog.Nop())
	course := models.Course{ID: 12}
	ctx := context.Background()

	first, err := resolver.Resolve(ctx, course)
	require.NoError(t, err)
	require.Contains(t, first, "topic")
	require.Equal(t, 1, inner.calls)

	second, err := resolver.Resolve(ctx, course)
	require.NoError(t, err)
	require.Contains(t, second, "topic")
	require.Equal(t, 1, inner.calls, "second read must come from cache")
}

func TestCachedResolverInvalidate(t *testing.T) {
	inner := &countingResolver{tree: map[string]interface{}{"topic": map[string]interface{}{}}}
	resolver := NewCachedResolver(inner, newCacheClient(t), time.Minute, zerolog.Nop())
	course := models.Course{ID: 12}
	ctx := context.Background()

	_, err := resolver.Resolve(ctx, course)
	require.NoError(t, err)

	resolver.Invalidate(ctx, course.ID)

	_, err = resolver.Resolve(ctx, course)
	require.NoError(t, err)
	require.Equal(t, 2, inner.calls)
}

func TestCachedResolverPropagatesErrors(t *testing.T) {
	inner := &countingResolver{err: ErrContentNotFound}
	resolver := NewCachedResolver(inner, newCacheClient(t), time.Minute, zerolog.Nop())

	_, err := resolver.Resolve(context.Background(), models.Course{ID: 1})
	require.True(t, errors.Is(err, ErrContentNotFound))
}

func TestCachedResolverNilClientPassesThrough(t *testing.T) {
	inner := &countingResolver{tree: map[string]interface{}{}}
	resolver := NewCachedResolver(inner, nil, time.Minute, zerolog.Nop())

	_, err := resolver.Resolve(context.Background(), models.Course{ID: 1})
	require.NoError(t, err)
	_, err = resolver.Resolve(context.Background(), models.Course{ID: 1})
	require.NoError(t, err)
	require.Equal(t, 2, inner.calls)
}
