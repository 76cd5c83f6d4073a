package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	v1 "github.com/Backora/pulse-app/cmd/api/router/v1"
	cacheAdapter "github.com/Backora/pulse-app/internal/infrastructure/cache/adapter"
	cport "github.com/Backora/pulse-app/internal/infrastructure/cache/port"
	"github.com/Backora/pulse-app/internal/infrastructure/database"
	queueAdapter "github.com/Backora/pulse-app/internal/infrastructure/queue/adapter"
	qport "github.com/Backora/pulse-app/internal/infrastructure/queue/port"
	"github.com/Backora/pulse-app/internal/infrastructure/realtime"
	"github.com/Backora/pulse-app/internal/pkg/pulse/application/task"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or could not be loaded: %v", err)
	}

	// Connect to the database on startup
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pool, err := database.NewPoolFromEnv(ctx)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer pool.Close()

	// Cache: Redis when configured, in-process ttlcache otherwise.
	var cache cport.Cache
	if redisCache, err := cacheAdapter.NewRedisAdapter(); err != nil {
		log.Printf("Warning: redis cache unavailable, using in-memory cache: %v", err)
		cache = cacheAdapter.NewMemoryAdapter()
	} else {
		cache = redisCache
	}
	defer func() { _ = cache.Close() }()

	// Realtime fan-out. Without Redis the router still serves this node;
	// the bridge adds cross-node delivery and the change feed.
	rtRouter := realtime.NewRouter()
	defer rtRouter.Close()

	var bridge *realtime.Bridge
	if b, err := realtime.NewBridgeFromEnv(rtRouter); err != nil {
		log.Printf("Warning: realtime bridge unavailable, single-node delivery only: %v", err)
	} else {
		bridge = b
		defer func() { _ = bridge.Close() }()
		go func() {
			if err := bridge.Run(context.Background()); err != nil && !errors.Is(err, context.Canceled) {
				log.Printf("realtime bridge stopped: %v", err)
			}
		}()
	}

	// Queue: reap tasks fire at each pulse's expiry.
	var queue qport.Client
	if client, err := queueAdapter.NewAsynqClientFromEnv(); err != nil {
		log.Printf("Warning: queue client unavailable, expired pulses are reclaimed lazily: %v", err)
	} else {
		queue = client
		defer func() { _ = client.Close() }()
	}
	if srv, err := queueAdapter.NewAsynqServer(); err != nil {
		log.Printf("Warning: queue server unavailable: %v", err)
	} else {
		task.RegisterReapPulseTask(srv, pool)
		go func() {
			if err := srv.Run(context.Background()); err != nil {
				log.Printf("queue server stopped: %v", err)
			}
		}()
	}

	r := gin.Default()

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "OK",
		})
	})

	v1.RegisterRoutes(r, pool, queue, cache, rtRouter, bridge)

	// Start HTTP server (blocks until shutdown)
	if err := r.Run(); err != nil {
		log.Fatalf("http server stopped: %v", err)
	}
}
