package controller

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/Backora/pulse-app/internal/pkg/pulse/application/usecase"
	"github.com/Backora/pulse-app/internal/pkg/pulse/persistence/repository/adapter"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ListSessionsController serves an operator's catalog of visible pulses
// (one controller per endpoint): owned plus joined, live only, newest
// first, each row carrying the derived role.
type ListSessionsController struct {
	UC *usecase.ListSessionsUseCase
}

func NewListSessionsController(pool *pgxpool.Pool) *ListSessionsController {
	repo := adapter.NewPgPulseRepository(pool)
	return &ListSessionsController{UC: usecase.NewListSessionsUseCase(repo)}
}

func (h *ListSessionsController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		operatorID := c.Param("operatorId")
		if operatorID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "operatorId is required"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()
		summaries, err := h.UC.Execute(ctx, usecase.ListSessionsInput{OperatorID: operatorID})
		if err != nil {
			status := http.StatusBadRequest
			if errors.Is(err, usecase.ErrPersistence) {
				status = http.StatusInternalServerError
			}
			c.JSON(status, gin.H{"error": err.Error()})
			return
		}

		out := make([]gin.H, 0, len(summaries))
		for _, s := range summaries {
			out = append(out, gin.H{
				"pulse_code": s.Pulse.Code,
				"creator_id": s.Pulse.CreatorID,
				"created_at": s.Pulse.CreatedAt,
				"expires_at": s.Pulse.ExpiresAt,
				"role":       s.Role,
			})
		}

		c.JSON(http.StatusOK, gin.H{
			"sessions": out,
			"count":    len(out),
		})
	}
}
