package controller

import (
	"context"
	"net/http"
	"time"

	cport "github.com/Backora/pulse-app/internal/infrastructure/cache/port"
	pulse "github.com/Backora/pulse-app/internal/pkg/pulse/application/domain"
	"github.com/Backora/pulse-app/internal/pkg/pulse/application/usecase"
	"github.com/Backora/pulse-app/internal/pkg/pulse/persistence/repository/adapter"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// FetchPulseController resolves a code to a live pulse (one controller per
// endpoint). Expired pulses answer 404 exactly like absent ones.
type FetchPulseController struct {
	UC *usecase.FetchPulseUseCase
}

func NewFetchPulseController(pool *pgxpool.Pool, cache cport.Cache) *FetchPulseController {
	repo := adapter.NewPgPulseRepository(pool)
	return &FetchPulseController{UC: usecase.NewFetchPulseUseCase(repo, cache)}
}

func (h *FetchPulseController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		code := c.Param("code")
		if code == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "code is required"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()
		p, err := h.UC.Execute(ctx, usecase.FetchPulseInput{Code: code})
		if err != nil {
			c.JSON(readStatus(err), gin.H{"error": err.Error()})
			return
		}

		resp := gin.H{
			"pulse_code": p.Code,
			"creator_id": p.CreatorID,
			"created_at": p.CreatedAt,
			"expires_at": p.ExpiresAt,
		}
		if op := c.Query("operator_id"); op != "" {
			resp["role"] = pulse.RoleOf(*p, op)
		}
		c.JSON(http.StatusOK, resp)
	}
}
