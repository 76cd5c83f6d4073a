package controller

import (
	"context"
	"errors"
	"net/http"
	"time"

	pulse "github.com/Backora/pulse-app/internal/pkg/pulse/application/domain"
	"github.com/Backora/pulse-app/internal/pkg/pulse/application/usecase"
	"github.com/Backora/pulse-app/internal/pkg/pulse/persistence/repository/adapter"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// JoinPulseController handles the guest join endpoint (one controller per
// endpoint).
type JoinPulseController struct {
	UC *usecase.JoinPulseUseCase
}

func NewJoinPulseController(pool *pgxpool.Pool) *JoinPulseController {
	repo := adapter.NewPgPulseRepository(pool)
	return &JoinPulseController{UC: usecase.NewJoinPulseUseCase(repo)}
}

type joinPulseRequest struct {
	OperatorID string `json:"operator_id" binding:"required"`
}

func (h *JoinPulseController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		code := c.Param("code")
		if code == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "code is required"})
			return
		}

		var req joinPulseRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		in := usecase.JoinPulseInput{OperatorID: req.OperatorID, Code: code}
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()
		m, err := h.UC.Execute(ctx, in)
		if err != nil {
			c.JSON(joinStatus(err), gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"pulse_code":  m.PulseCode,
			"operator_id": m.OperatorID,
			"joined_at":   m.JoinedAt,
			"role":        pulse.RoleGuest,
		})
	}
}

func joinStatus(err error) int {
	switch {
	case errors.Is(err, pulse.ErrInvalidCode):
		return http.StatusBadRequest
	case errors.Is(err, pulse.ErrSignalLost):
		return http.StatusNotFound
	case errors.Is(err, pulse.ErrSelfJoin):
		return http.StatusForbidden
	case errors.Is(err, pulse.ErrAlreadyConnected):
		return http.StatusConflict
	case errors.Is(err, usecase.ErrPersistence):
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}
