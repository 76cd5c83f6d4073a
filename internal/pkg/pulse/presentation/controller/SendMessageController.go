package controller

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/Backora/pulse-app/internal/infrastructure/realtime"
	pulse "github.com/Backora/pulse-app/internal/pkg/pulse/application/domain"
	"github.com/Backora/pulse-app/internal/pkg/pulse/application/usecase"
	"github.com/Backora/pulse-app/internal/pkg/pulse/persistence/repository/adapter"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SendMessageController appends a message to a pulse (one controller per
// endpoint) and fans it out on the push path. The HTTP response is an ack;
// the authoritative copy reaches the sender through their subscription like
// everyone else's.
type SendMessageController struct {
	UC     *usecase.SendMessageUseCase
	Router *realtime.Router
	Bridge *realtime.Bridge // optional: cross-node fan-out
}

func NewSendMessageController(pool *pgxpool.Pool, router *realtime.Router, bridge *realtime.Bridge) *SendMessageController {
	repo := adapter.NewPgPulseRepository(pool)
	return &SendMessageController{
		UC:     usecase.NewSendMessageUseCase(repo),
		Router: router,
		Bridge: bridge,
	}
}

type sendMessageRequest struct {
	Sender  string `json:"sender" binding:"required"`
	Content string `json:"content"`
}

func (h *SendMessageController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		code := c.Param("code")
		if code == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "code is required"})
			return
		}

		var req sendMessageRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		in := usecase.SendMessageInput{Code: code, Sender: req.Sender, Content: req.Content}
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()
		msg, err := h.UC.Execute(ctx, in)
		if err != nil {
			c.JSON(sendStatus(err), gin.H{"error": err.Error()})
			return
		}
		if msg == nil {
			// Whitespace-only content: nothing persisted, nothing delivered.
			c.Status(http.StatusNoContent)
			return
		}

		deliverMessage(ctx, h.Router, h.Bridge, *msg)

		c.JSON(http.StatusCreated, gin.H{
			"id":         msg.ID,
			"pulse_code": msg.PulseCode,
			"sender":     msg.Sender,
			"created_at": msg.CreatedAt,
		})
	}
}

// messageFrame is the wire shape pushed to subscribers.
type messageFrame struct {
	Type      string    `json:"type"`
	ID        string    `json:"id"`
	PulseCode string    `json:"pulse_code"`
	Sender    string    `json:"sender"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// deliverMessage pushes a persisted message to subscribers: through the
// bridge when one is wired (it loops back to the local router), directly to
// the local router otherwise.
func deliverMessage(ctx context.Context, router *realtime.Router, bridge *realtime.Bridge, msg pulse.Message) {
	frame := messageFrame{
		Type:      "message",
		ID:        msg.ID,
		PulseCode: msg.PulseCode,
		Sender:    msg.Sender,
		Content:   msg.Content,
		CreatedAt: msg.CreatedAt,
	}
	payload, err := json.Marshal(frame)
	if err != nil {
		log.Printf("send: marshal frame: %v", err)
		return
	}
	if bridge != nil {
		if err := bridge.PublishMessage(ctx, msg.PulseCode, payload); err != nil {
			log.Printf("send: publish %s: %v", msg.PulseCode, err)
		}
		return
	}
	if router != nil {
		router.Broadcast(msg.PulseCode, payload)
	}
}

func sendStatus(err error) int {
	switch {
	case errors.Is(err, pulse.ErrInvalidCode):
		return http.StatusBadRequest
	case errors.Is(err, pulse.ErrSignalLost):
		return http.StatusNotFound
	case errors.Is(err, pulse.ErrAccessDenied):
		return http.StatusForbidden
	case errors.Is(err, usecase.ErrPersistence):
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}
