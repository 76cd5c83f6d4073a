package controller

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/Backora/pulse-app/internal/infrastructure/realtime"
	"github.com/Backora/pulse-app/internal/pkg/pulse/application/usecase"
	"github.com/Backora/pulse-app/internal/pkg/pulse/persistence/repository/adapter"
	opAdapter "github.com/Backora/pulse-app/internal/repository/adapter"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// WipeOperatorController handles the self-service panic protocol (one
// controller per endpoint): burn every pulse the operator created, then the
// profile itself.
//
// Same failure policy as the single-pulse wipe: after confirmation, the
// response is the unauthenticated post-wipe state even if the store call
// failed. Assume wiped; never re-show destroyed content.
type WipeOperatorController struct {
	UC     *usecase.WipeOperatorUseCase
	Bridge *realtime.Bridge
}

func NewWipeOperatorController(pool *pgxpool.Pool, bridge *realtime.Bridge) *WipeOperatorController {
	pulses := adapter.NewPgPulseRepository(pool)
	ops := opAdapter.NewPgOperatorRepository(pool)
	return &WipeOperatorController{
		UC:     usecase.NewWipeOperatorUseCase(pulses, ops),
		Bridge: bridge,
	}
}

func (h *WipeOperatorController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		operatorID := c.Param("operatorId")
		if operatorID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "operatorId is required"})
			return
		}
		if c.Query("confirm") != "true" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "confirm=true is required for a wipe"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()
		if err := h.UC.Execute(ctx, usecase.WipeOperatorInput{OperatorID: operatorID}); err != nil {
			log.Printf("panic: operator %s: %v", operatorID, err)
		}

		if h.Bridge != nil {
			ev := realtime.PulseEvent{Event: realtime.EventOperatorWiped}
			if err := h.Bridge.Announce(ctx, ev); err != nil {
				log.Printf("panic: announce: %v", err)
			}
		}

		c.JSON(http.StatusOK, gin.H{"wiped": true})
	}
}
