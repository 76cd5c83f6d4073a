package controller

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	pulse "github.com/Backora/pulse-app/internal/pkg/pulse/application/domain"
	"github.com/Backora/pulse-app/internal/pkg/pulse/application/usecase"
	"github.com/Backora/pulse-app/internal/pkg/pulse/persistence/repository/adapter"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// GetMessageController fetches message history for a pulse (one controller
// per endpoint). Responses are in canonical chronological order.
type GetMessageController struct {
	UC *usecase.GetMessageUseCase
}

func NewGetMessageController(pool *pgxpool.Pool) *GetMessageController {
	repo := adapter.NewPgPulseRepository(pool)
	return &GetMessageController{UC: usecase.NewGetMessageUseCase(repo)}
}

func (h *GetMessageController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		code := c.Param("code")
		if code == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "code is required"})
			return
		}

		limit := 100
		offset := 0
		if v := c.Query("limit"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				limit = n
			}
		}
		if v := c.Query("offset"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n >= 0 {
				offset = n
			}
		}

		in := usecase.GetMessageInput{Code: code, Limit: limit, Offset: offset}
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		msgs, err := h.UC.Execute(ctx, in)
		if err != nil {
			c.JSON(readStatus(err), gin.H{"error": err.Error()})
			return
		}

		out := make([]gin.H, 0, len(msgs))
		for _, m := range msgs {
			out = append(out, gin.H{
				"id":         m.ID,
				"pulse_code": m.PulseCode,
				"sender":     m.Sender,
				"content":    m.Content,
				"created_at": m.CreatedAt,
			})
		}

		c.JSON(http.StatusOK, gin.H{
			"messages": out,
			"limit":    limit,
			"offset":   offset,
			"count":    len(out),
		})
	}
}

func readStatus(err error) int {
	switch {
	case errors.Is(err, pulse.ErrInvalidCode):
		return http.StatusBadRequest
	case errors.Is(err, pulse.ErrSignalLost):
		return http.StatusNotFound
	case errors.Is(err, usecase.ErrPersistence):
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}
