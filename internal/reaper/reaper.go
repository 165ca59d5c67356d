// Package reaper implements the background job that reclaims expired posts
// and the storage assets their bodies reference.
package reaper

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/privateboard/privateboard/internal/assets"
	"github.com/privateboard/privateboard/internal/posts"
	"github.com/privateboard/privateboard/internal/storage"
	"github.com/privateboard/privateboard/pkg/logger"
	"github.com/privateboard/privateboard/pkg/metrics"
)

// AssetFailure records one asset deletion that failed during a cycle.
type AssetFailure struct {
	Key string
	Err error
}

// Report is the outcome of one reap cycle. Failures are carried
// per-item so partial-failure behavior stays assertable.
type Report struct {
	PostsDeleted  int64
	AssetsDeleted []string
	AssetFailures []AssetFailure
}

// Reaper deletes expired posts and their referenced assets.
type Reaper struct {
	repo    posts.Repository
	backend storage.Backend
	scanner *assets.Scanner
	now     func() time.Time
}

func New(repo posts.Repository, backend storage.Backend, scanner *assets.Scanner) *Reaper {
	return &Reaper{repo: repo, backend: backend, scanner: scanner, now: time.Now}
}

// RunOnce performs a single reap cycle.
//
// Assets are always attempted before their owning records are deleted: a
// crash in between leaves orphaned-but-harmless objects in storage rather
// than live records pointing at deleted assets. Asset deletion is strictly
// best-effort — a failing key is recorded and logged but never blocks the
// rest of the batch or the record deletion itself.
func (r *Reaper) RunOnce(ctx context.Context) (Report, error) {
	var rep Report

	expired, err := r.repo.FindExpired(ctx, r.now().UTC())
	if err != nil {
		return rep, err
	}
	if len(expired) == 0 {
		return rep, nil
	}
	logger.Infof("reaper: found %d expired post(s)", len(expired))

	ids := make([]primitive.ObjectID, 0, len(expired))
	for _, p := range expired {
		ids = append(ids, p.ID)
		for _, key := range r.scanner.Extract(p.Content) {
			if err := r.backend.Delete(ctx, key); err != nil {
				logger.Errorf("reaper: failed to delete asset %s: %v", key, err)
				metrics.AssetDeleteFailures.Inc()
				rep.AssetFailures = append(rep.AssetFailures, AssetFailure{Key: key, Err: err})
				continue
			}
			logger.Infof("reaper: deleted asset %s", key)
			metrics.AssetsDeleted.Inc()
			rep.AssetsDeleted = append(rep.AssetsDeleted, key)
		}
	}

	n, err := r.repo.DeleteByIDs(ctx, ids)
	if err != nil {
		return rep, err
	}
	rep.PostsDeleted = n
	metrics.ExpiredPostsDeleted.Add(float64(n))
	logger.Infof("reaper: deleted %d expired post(s)", n)
	return rep, nil
}

// Run executes one cycle and swallows any error after logging it. A failed
// cycle must never take the host process down; the next scheduled tick
// simply retries.
func (r *Reaper) Run(ctx context.Context) {
	if _, err := r.RunOnce(ctx); err != nil {
		logger.Errorf("reaper: cycle failed: %v", err)
	}
}
