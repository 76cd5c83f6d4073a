package v1

import (
	cport "github.com/Backora/pulse-app/internal/infrastructure/cache/port"
	qport "github.com/Backora/pulse-app/internal/infrastructure/queue/port"
	"github.com/Backora/pulse-app/internal/infrastructure/realtime"
	httpHandler "github.com/Backora/pulse-app/internal/pkg/pulse/presentation/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RegisterRoutes mounts all version 1 API routes under /api/v1
func RegisterRoutes(r *gin.Engine, pool *pgxpool.Pool, queue qport.Client, cache cport.Cache, router *realtime.Router, bridge *realtime.Bridge) {
	v1 := r.Group("/api/v1")
	// Pass the shared infrastructure down to the HTTP layer
	httpHandler.RegisterRoutes(v1, pool, queue, cache, router, bridge)
}
