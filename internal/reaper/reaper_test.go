package reaper

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/privateboard/privateboard/internal/assets"
	"github.com/privateboard/privateboard/internal/posts"
)

// fakeBackend records deletions and can be told to fail specific keys.
type fakeBackend struct {
	deleted  []string
	failKeys map[string]bool
}

func (f *fakeBackend) Save(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error) {
	return "http://test/uploads/" + key, nil
}

func (f *fakeBackend) Delete(ctx context.Context, key string) error {
	if f.failKeys[key] {
		return errors.New("backend unavailable")
	}
	f.deleted = append(f.deleted, key)
	return nil
}

func newTestReaper(repo posts.Repository, backend *fakeBackend) *Reaper {
	return New(repo, backend, assets.NewScanner(assets.LocalPathMatcher()))
}

func seedPost(t *testing.T, repo posts.Repository, slug, content string, expiresAt *time.Time) *posts.Post {
	t.Helper()
	p := &posts.Post{Slug: slug, Title: slug, Content: content, PasswordHash: "x", ExpiresAt: expiresAt}
	require.NoError(t, repo.Create(context.Background(), p))
	return p
}

func TestRunOnceEmptyStoreIsNoop(t *testing.T) {
	repo := posts.NewMemoryRepository()
	backend := &fakeBackend{}

	rep, err := newTestReaper(repo, backend).RunOnce(context.Background())
	require.NoError(t, err)
	require.Zero(t, rep.PostsDeleted)
	require.Empty(t, rep.AssetsDeleted)
	require.Empty(t, backend.deleted)
}

func TestRunOnceDeletesExpiredPostsAndAssets(t *testing.T) {
	repo := posts.NewMemoryRepository()
	backend := &fakeBackend{failKeys: map[string]bool{"broken.png": true}}
	ctx := context.Background()

	past := time.Now().Add(-time.Hour)
	future := time.Now().Add(time.Hour)

	// expired, references one deletable and one failing asset
	seedPost(t, repo, "withassets",
		`<img src="/uploads/ok.png"><img src="/uploads/broken.png">`, &past)
	// expired, no asset references
	seedPost(t, repo, "plain", "<p>just text</p>", &past)
	// not yet expired, must be untouched
	live := seedPost(t, repo, "live", `<img src="/uploads/live.png">`, &future)

	rep, err := newTestReaper(repo, backend).RunOnce(ctx)
	require.NoError(t, err)

	// both expired posts gone despite the failed asset deletion
	require.EqualValues(t, 2, rep.PostsDeleted)
	require.Equal(t, []string{"ok.png"}, rep.AssetsDeleted)
	require.Len(t, rep.AssetFailures, 1)
	require.Equal(t, "broken.png", rep.AssetFailures[0].Key)
	require.Error(t, rep.AssetFailures[0].Err)

	gone, err := repo.FindBySlug(ctx, "withassets")
	require.NoError(t, err)
	require.Nil(t, gone)
	gone, err = repo.FindBySlug(ctx, "plain")
	require.NoError(t, err)
	require.Nil(t, gone)

	// the live post and its asset survived
	kept, err := repo.FindBySlug(ctx, live.Slug)
	require.NoError(t, err)
	require.NotNil(t, kept)
	require.NotContains(t, backend.deleted, "live.png")
}

func TestRunOnceIsIdempotent(t *testing.T) {
	repo := posts.NewMemoryRepository()
	backend := &fakeBackend{}
	ctx := context.Background()

	past := time.Now().Add(-time.Minute)
	seedPost(t, repo, "old", `<img src="/uploads/a.png">`, &past)

	r := newTestReaper(repo, backend)

	rep1, err := r.RunOnce(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 1, rep1.PostsDeleted)

	rep2, err := r.RunOnce(ctx)
	require.NoError(t, err)
	require.Zero(t, rep2.PostsDeleted)
	require.Empty(t, rep2.AssetsDeleted)
	require.Empty(t, rep2.AssetFailures)
	// asset was only attempted once across both runs
	require.Equal(t, []string{"a.png"}, backend.deleted)
}

// failingRepo simulates the record-store query itself failing.
type failingRepo struct {
	posts.MemoryRepository
}

func (f *failingRepo) FindExpired(ctx context.Context, now time.Time) ([]*posts.Post, error) {
	return nil, errors.New("store down")
}

func TestRunSwallowsCycleErrors(t *testing.T) {
	r := newTestReaper(&failingRepo{}, &fakeBackend{})
	// must not panic, error is logged and dropped
	r.Run(context.Background())
}
