package controller

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	qport "github.com/Backora/pulse-app/internal/infrastructure/queue/port"
	"github.com/Backora/pulse-app/internal/infrastructure/realtime"
	pulse "github.com/Backora/pulse-app/internal/pkg/pulse/application/domain"
	"github.com/Backora/pulse-app/internal/pkg/pulse/application/task"
	"github.com/Backora/pulse-app/internal/pkg/pulse/application/usecase"
	"github.com/Backora/pulse-app/internal/pkg/pulse/persistence/repository/adapter"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CreatePulseController handles pulse creation (one controller per
// endpoint). On success the creator is the host of the returned code.
type CreatePulseController struct {
	UC     *usecase.CreatePulseUseCase
	Queue  qport.Client     // optional: schedules reap-at-expiry
	Bridge *realtime.Bridge // optional: announces the new pulse on the feed
}

func NewCreatePulseController(pool *pgxpool.Pool, queue qport.Client, bridge *realtime.Bridge) *CreatePulseController {
	repo := adapter.NewPgPulseRepository(pool)
	return &CreatePulseController{
		UC:     usecase.NewCreatePulseUseCase(repo),
		Queue:  queue,
		Bridge: bridge,
	}
}

type createPulseRequest struct {
	CreatorID string `json:"creator_id" binding:"required"`
	Duration  string `json:"duration" binding:"required"`
}

func (h *CreatePulseController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createPulseRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		in := usecase.CreatePulseInput{
			CreatorID: req.CreatorID,
			Preset:    pulse.DurationPreset(req.Duration),
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()
		p, err := h.UC.Execute(ctx, in)
		if err != nil {
			status := http.StatusBadRequest
			if errors.Is(err, usecase.ErrPersistence) {
				status = http.StatusInternalServerError
			}
			c.JSON(status, gin.H{"error": err.Error()})
			return
		}

		// Reap scheduling and feed announcement are best-effort: the pulse
		// exists either way, and reads never depend on the reaper.
		if h.Queue != nil {
			if err := task.ScheduleReap(ctx, h.Queue, *p); err != nil {
				log.Printf("create: schedule reap for %s: %v", p.Code, err)
			}
		}
		if h.Bridge != nil {
			ev := realtime.PulseEvent{Event: realtime.EventPulseCreated, PulseCode: p.Code}
			if err := h.Bridge.Announce(ctx, ev); err != nil {
				log.Printf("create: announce %s: %v", p.Code, err)
			}
		}

		c.JSON(http.StatusCreated, gin.H{
			"pulse_code": p.Code,
			"creator_id": p.CreatorID,
			"created_at": p.CreatedAt,
			"expires_at": p.ExpiresAt,
			"role":       pulse.RoleHost,
		})
	}
}
