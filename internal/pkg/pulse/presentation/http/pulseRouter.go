package http

import (
	cport "github.com/Backora/pulse-app/internal/infrastructure/cache/port"
	qport "github.com/Backora/pulse-app/internal/infrastructure/queue/port"
	"github.com/Backora/pulse-app/internal/infrastructure/realtime"
	"github.com/Backora/pulse-app/internal/pkg/pulse/presentation/controller"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RegisterRoutes registers pulse endpoints under the given router group,
// constructing per-endpoint controllers and binding them directly.
func RegisterRoutes(g *gin.RouterGroup, pool *pgxpool.Pool, queue qport.Client, cache cport.Cache, router *realtime.Router, bridge *realtime.Bridge) {
	registerCtl := controller.NewRegisterOperatorController(pool)
	createCtl := controller.NewCreatePulseController(pool, queue, bridge)
	fetchCtl := controller.NewFetchPulseController(pool, cache)
	joinCtl := controller.NewJoinPulseController(pool)
	getMsgCtl := controller.NewGetMessageController(pool)
	sendMsgCtl := controller.NewSendMessageController(pool, router, bridge)
	sessionsCtl := controller.NewListSessionsController(pool)
	wipePulseCtl := controller.NewWipePulseController(pool, cache, router, bridge)
	wipeOperatorCtl := controller.NewWipeOperatorController(pool, bridge)
	socketCtl := controller.NewPulseSocketController(pool, router, bridge)

	// POST /api/v1/operator -> identify (register) an operator
	g.POST("/operator", registerCtl.Handle())

	// GET /api/v1/operator/:operatorId/sessions -> visible pulse catalog
	g.GET("/operator/:operatorId/sessions", sessionsCtl.Handle())

	// POST /api/v1/operator/:operatorId/panic -> burn everything the operator made
	g.POST("/operator/:operatorId/panic", wipeOperatorCtl.Handle())

	// POST /api/v1/pulse -> open a new pulse
	g.POST("/pulse", createCtl.Handle())

	// GET /api/v1/pulse/:code -> resolve a live pulse by code
	g.GET("/pulse/:code", fetchCtl.Handle())

	// DELETE /api/v1/pulse/:code -> host-only wipe
	g.DELETE("/pulse/:code", wipePulseCtl.Handle())

	// POST /api/v1/pulse/:code/join -> guest join by code
	g.POST("/pulse/:code/join", joinCtl.Handle())

	// GET /api/v1/pulse/:code/messages -> history, chronological
	g.GET("/pulse/:code/messages", getMsgCtl.Handle())

	// POST /api/v1/pulse/:code/messages -> append a message
	g.POST("/pulse/:code/messages", sendMsgCtl.Handle())

	// GET /api/v1/pulse/ws -> websocket endpoint for realtime traffic
	g.GET("/pulse/ws", socketCtl.Handle())
}
