package controller

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/Backora/pulse-app/internal/pkg/pulse/application/usecase"
	opAdapter "github.com/Backora/pulse-app/internal/repository/adapter"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RegisterOperatorController handles operator identification (one controller
// per endpoint). No credentials: the nickname is the whole identity.
type RegisterOperatorController struct {
	UC *usecase.RegisterOperatorUseCase
}

func NewRegisterOperatorController(pool *pgxpool.Pool) *RegisterOperatorController {
	repo := opAdapter.NewPgOperatorRepository(pool)
	return &RegisterOperatorController{UC: usecase.NewRegisterOperatorUseCase(repo)}
}

type registerOperatorRequest struct {
	OperatorID string `json:"operator_id" binding:"required"`
}

func (h *RegisterOperatorController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req registerOperatorRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()
		op, err := h.UC.Execute(ctx, usecase.RegisterOperatorInput{OperatorID: req.OperatorID})
		if err != nil {
			status := http.StatusBadRequest
			if errors.Is(err, usecase.ErrPersistence) {
				status = http.StatusInternalServerError
			}
			c.JSON(status, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"operator_id":   op.ID,
			"registered_at": op.RegisteredAt,
		})
	}
}
