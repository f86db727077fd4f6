package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/noah-isme/campus-admin-api/pkg/errors"
)

func TestCacheRepositoryWithoutRedis(t *testing.T) {
	repo := NewCacheRepository(nil, "campus:", nil)
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, "reports:x", map[string]int{"a": 1}, time.Minute))
	var dest map[string]int
	err := repo.Get(ctx, "reports:x", &dest)
	assert.ErrorIs(t, err, appErrors.ErrCacheMiss)
	require.NoError(t, repo.DeleteByPattern(ctx, "reports:*"))
	require.NoError(t, repo.Close())
}
