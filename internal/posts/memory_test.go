package posts

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestMemoryRepositoryFindExpired(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()
	now := time.Now().UTC()

	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	require.NoError(t, repo.Create(ctx, &Post{Slug: "expired", ExpiresAt: &past}))
	require.NoError(t, repo.Create(ctx, &Post{Slug: "live", ExpiresAt: &future}))
	require.NoError(t, repo.Create(ctx, &Post{Slug: "forever"}))

	expired, err := repo.FindExpired(ctx, now)
	require.NoError(t, err)
	require.Len(t, expired, 1)
	require.Equal(t, "expired", expired[0].Slug)
}

func TestMemoryRepositoryDeleteByIDs(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	a := &Post{Slug: "a"}
	b := &Post{Slug: "b"}
	require.NoError(t, repo.Create(ctx, a))
	require.NoError(t, repo.Create(ctx, b))

	n, err := repo.DeleteByIDs(ctx, []primitive.ObjectID{a.ID})
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	got, err := repo.FindBySlug(ctx, "a")
	require.NoError(t, err)
	require.Nil(t, got)

	got, err = repo.FindBySlug(ctx, "b")
	require.NoError(t, err)
	require.NotNil(t, got)

	// deleting nothing is fine
	n, err = repo.DeleteByIDs(ctx, nil)
	require.NoError(t, err)
	require.Zero(t, n)
}
