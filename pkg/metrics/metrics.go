package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	PostsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "privateboard", Name: "posts_created_total", Help: "Number of posts created."},
	)
	PostsUnlocked = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "privateboard", Name: "posts_unlock_total", Help: "Number of unlock attempts by outcome."},
		[]string{"outcome"},
	)
	ImagesUploaded = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "privateboard", Name: "images_uploaded_total", Help: "Number of images uploaded."},
	)
	ExpiredPostsDeleted = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "privateboard", Name: "expired_posts_deleted_total", Help: "Number of expired posts removed by the reaper."},
	)
	AssetsDeleted = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "privateboard", Name: "assets_deleted_total", Help: "Number of stored assets deleted during reaping."},
	)
	AssetDeleteFailures = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "privateboard", Name: "asset_delete_failures_total", Help: "Number of asset deletions that failed (logged, non-fatal)."},
	)
	RateLimitAllowed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "privateboard", Name: "rate_limit_allowed_total", Help: "Number of allowed requests by limiter type."},
		[]string{"limiter"},
	)
	RateLimitRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "privateboard", Name: "rate_limit_rejected_total", Help: "Number of rejected requests by limiter type."},
		[]string{"limiter"},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(
		PostsCreated,
		PostsUnlocked,
		ImagesUploaded,
		ExpiredPostsDeleted,
		AssetsDeleted,
		AssetDeleteFailures,
		RateLimitAllowed,
		RateLimitRejected,
	)
}
