package main

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/privateboard/privateboard/handlers"
	"github.com/privateboard/privateboard/internal/assets"
	"github.com/privateboard/privateboard/internal/config"
	"github.com/privateboard/privateboard/internal/database"
	"github.com/privateboard/privateboard/internal/posts"
	"github.com/privateboard/privateboard/internal/reaper"
	"github.com/privateboard/privateboard/internal/storage"
	"github.com/privateboard/privateboard/pkg/logger"
	"github.com/privateboard/privateboard/pkg/metrics"
	"github.com/privateboard/privateboard/pkg/middleware"
)

var startTime = time.Now()

func main() {
	// logging level is controlled with LOG_LEVEL env: debug|info|warn|error|fatal
	logger.Init(os.Getenv("LOG_LEVEL"))

	cfg, err := config.Load()
	if err != nil {
		// configuration errors are fatal: never start with a half-valid setup
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.Infof("config loaded: storage=%s mongo=%v redis=%v", cfg.Storage.Provider, cfg.MongoDB.URI != "", cfg.Redis.Host != "")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	// Lightweight CORS middleware for dev/test: set common headers and respond to OPTIONS.
	// (Keep this intentionally simple — production should use a stricter policy.)
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusOK)
			return
		}
		c.Next()
	})

	// Connect to Redis early so the rate limiter can use it when configured
	var redisClient *redis.Client
	if cfg.Redis.Host != "" {
		redisClient = redis.NewClient(&redis.Options{Addr: cfg.Redis.Host + ":" + cfg.Redis.Port, Password: cfg.Redis.Password})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Warnf("failed to connect to Redis (%s:%s): %v", cfg.Redis.Host, cfg.Redis.Port, err)
			redisClient = nil
		} else {
			logger.Infof("connected to Redis at %s:%s", cfg.Redis.Host, cfg.Redis.Port)
		}
	}
	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.UseRedis && redisClient != nil {
			win := time.Duration(cfg.RateLimit.WindowSeconds) * time.Second
			r.Use(middleware.RedisRateLimitMiddleware(redisClient, cfg.RateLimit.RPS, cfg.RateLimit.Burst, win))
		} else {
			r.Use(middleware.RateLimitMiddleware(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
		}
	}

	// Storage backend is resolved exactly once; an unknown provider or
	// unreachable remote store aborts startup.
	backend, err := storage.New(cfg.Storage)
	if err != nil {
		logger.Fatalf("failed to initialize storage backend: %v", err)
	}

	// Post repository: Mongo when configured, in-memory otherwise (dev/test).
	var repo posts.Repository
	var mongoClient *mongo.Client
	if cfg.MongoDB.URI != "" {
		// retry with backoff to tolerate container startup races
		const maxAttempts = 5
		backoff := time.Second
		var errConn error
		for attempt := 1; attempt <= maxAttempts; attempt++ {
			mongoClient, errConn = database.Connect(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout)
			if errConn == nil {
				break
			}
			logger.Warnf("attempt %d/%d: failed to connect to MongoDB: %v", attempt, maxAttempts, errConn)
			if attempt < maxAttempts {
				time.Sleep(backoff)
				backoff *= 2
			}
		}
		if errConn != nil {
			logger.Fatalf("could not connect to MongoDB after %d attempts: %v", maxAttempts, errConn)
		}
		defer func() { _ = mongoClient.Disconnect(context.Background()) }()
		repo = posts.NewMongoRepository(mongoClient.Database(cfg.MongoDB.Database).Collection("posts"))
	} else {
		logger.Warnf("MONGODB_URI not set — using in-memory post store (data is lost on restart)")
		repo = posts.NewMemoryRepository()
	}

	svc := posts.NewService(repo)

	// Reaper: recognizes local upload paths plus the remote public URL
	// shape when one is configured.
	matchers := []assets.Matcher{assets.LocalPathMatcher()}
	if cfg.Storage.S3.PublicBaseURL != "" {
		if u, err := url.Parse(cfg.Storage.S3.PublicBaseURL); err == nil && u.Host != "" {
			matchers = append(matchers, assets.PublicURLMatcher(u.Host))
		}
	}
	sched := reaper.NewScheduler(reaper.New(repo, backend, assets.NewScanner(matchers...)), cfg.Cleanup.Schedule)
	if err := sched.Start(ctx); err != nil {
		logger.Fatalf("failed to start reaper: %v", err)
	}

	handlers.NewPostsHandler(svc).Register(r)
	handlers.NewUploadsHandler(backend).Register(r)
	handlers.RegisterSwagger(r)

	// serve uploaded files directly when using the filesystem backend
	if cfg.Storage.Provider == storage.ProviderLocal {
		r.Static("/uploads", cfg.Storage.Local.Dir)
	}

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "healthy")
	})
	r.GET("/ready", func(c *gin.Context) {
		deps := gin.H{"storage": true, "mongo": true}
		ready := true
		if mongoClient != nil {
			pctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := mongoClient.Ping(pctx, nil); err != nil {
				deps["mongo"] = false
				ready = false
			}
		}
		status := http.StatusOK
		state := "ready"
		if !ready {
			status = http.StatusServiceUnavailable
			state = "not_ready"
		}
		c.JSON(status, gin.H{"status": state, "deps": deps, "uptime": time.Since(startTime).String()})
	})

	metrics.RegisterCollectors(prometheus.DefaultRegisterer)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	go func() {
		logger.Infof("starting privateboard on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("server failed: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Infof("shutting down")
	sched.Stop()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("server shutdown: %v", err)
	}
}
