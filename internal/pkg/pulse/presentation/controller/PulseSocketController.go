package controller

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/Backora/pulse-app/internal/infrastructure/realtime"
	pulse "github.com/Backora/pulse-app/internal/pkg/pulse/application/domain"
	"github.com/Backora/pulse-app/internal/pkg/pulse/application/usecase"
	repoAdapter "github.com/Backora/pulse-app/internal/pkg/pulse/persistence/repository/adapter"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PulseSocketController handles the websocket endpoint for realtime pulse
// traffic. One socket per operator; one subscribed pulse per socket.
// Subscribing to a new code releases the previous room first, and every
// exit path detaches the session.
type PulseSocketController struct {
	router          *realtime.Router
	bridge          *realtime.Bridge
	attachUC        *usecase.AttachStreamUseCase
	sendMessageUC   *usecase.SendMessageUseCase
	inflightTimeout time.Duration
}

func NewPulseSocketController(pool *pgxpool.Pool, router *realtime.Router, bridge *realtime.Bridge) *PulseSocketController {
	repo := repoAdapter.NewPgPulseRepository(pool)
	return &PulseSocketController{
		router:          router,
		bridge:          bridge,
		attachUC:        usecase.NewAttachStreamUseCase(repo),
		sendMessageUC:   usecase.NewSendMessageUseCase(repo),
		inflightTimeout: 5 * time.Second,
	}
}

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Operators are self-asserted nicknames; there is no origin-bound
		// credential to protect.
		return true
	},
}

type inboundFrame struct {
	Type      string `json:"type"`
	PulseCode string `json:"pulse_code,omitempty"`
	Content   string `json:"content,omitempty"`
}

type errorFrame struct {
	Type  string `json:"type"`
	Code  string `json:"code"`
	Error string `json:"error"`
}

type ackFrame struct {
	Type      string `json:"type"`
	PulseCode string `json:"pulse_code,omitempty"`
}

const defaultReadTimeout = 60 * time.Second

// Handle upgrades the connection and processes frames until the client
// disconnects.
func (ctl *PulseSocketController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		operatorID := c.Query("operator_id")
		if operatorID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "operator_id is required"})
			return
		}

		ws, err := wsUpgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			// Upgrade already wrote the response.
			return
		}

		conn := realtime.NewConnection(operatorID, ws)
		ctl.router.Attach(conn)
		defer func() {
			ctl.router.Detach(conn)
			conn.Close(websocket.CloseNormalClosure, "session closed")
		}()

		ws.SetReadLimit(64 << 10)
		_ = ws.SetReadDeadline(time.Now().Add(defaultReadTimeout))
		ws.SetPongHandler(func(string) error {
			return ws.SetReadDeadline(time.Now().Add(defaultReadTimeout))
		})

		ctl.reply(conn, ackFrame{Type: "connected"})

		for {
			_, data, err := ws.ReadMessage()
			if err != nil {
				if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived) ||
					errors.Is(err, websocket.ErrCloseSent) {
					return
				}
				ctl.replyError(conn, "read_error", err.Error())
				return
			}

			var frame inboundFrame
			if err := json.Unmarshal(data, &frame); err != nil {
				ctl.replyError(conn, "bad_request", "invalid payload")
				continue
			}

			switch frame.Type {
			case "subscribe":
				ctl.handleSubscribe(c, conn, frame)
			case "unsubscribe":
				ctl.handleUnsubscribe(conn, frame)
			case "message":
				ctl.handleMessage(c, conn, frame)
			default:
				ctl.replyError(conn, "unsupported_type", "unknown frame type")
			}
		}
	}
}

func (ctl *PulseSocketController) handleSubscribe(c *gin.Context, conn *realtime.Connection, frame inboundFrame) {
	if frame.PulseCode == "" {
		ctl.replyError(conn, "bad_request", "pulse_code is required")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), ctl.inflightTimeout)
	defer cancel()

	p, err := ctl.attachUC.Execute(ctx, usecase.AttachStreamInput{
		Code:       frame.PulseCode,
		OperatorID: conn.OperatorID,
	})
	if err != nil {
		ctl.handleUseCaseError(conn, err)
		return
	}

	// Join swaps out any previously subscribed room.
	ctl.router.Join(p.Code, conn)
	ctl.reply(conn, ackFrame{Type: "subscribed", PulseCode: p.Code})
}

func (ctl *PulseSocketController) handleUnsubscribe(conn *realtime.Connection, frame inboundFrame) {
	code := pulse.NormalizeCode(frame.PulseCode)
	if code == "" {
		ctl.replyError(conn, "bad_request", "pulse_code is required")
		return
	}
	ctl.router.Leave(code, conn)
	ctl.reply(conn, ackFrame{Type: "unsubscribed", PulseCode: code})
}

func (ctl *PulseSocketController) handleMessage(c *gin.Context, conn *realtime.Connection, frame inboundFrame) {
	if frame.PulseCode == "" {
		ctl.replyError(conn, "bad_request", "pulse_code is required")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), ctl.inflightTimeout)
	defer cancel()

	msg, err := ctl.sendMessageUC.Execute(ctx, usecase.SendMessageInput{
		Code:    frame.PulseCode,
		Sender:  conn.OperatorID,
		Content: frame.Content,
	})
	if err != nil {
		ctl.handleUseCaseError(conn, err)
		return
	}
	if msg == nil {
		// Whitespace-only send: no persistence, no delivery, no error.
		return
	}

	// The sender gets their copy through the room push like everyone else.
	deliverMessage(ctx, ctl.router, ctl.bridge, *msg)
}

func (ctl *PulseSocketController) handleUseCaseError(conn *realtime.Connection, err error) {
	switch {
	case errors.Is(err, usecase.ErrPersistence):
		ctl.replyError(conn, "internal_error", "unexpected persistence error")
	case errors.Is(err, pulse.ErrSignalLost):
		ctl.replyError(conn, "signal_lost", "signal not found or expired")
	case errors.Is(err, pulse.ErrAccessDenied):
		ctl.replyError(conn, "forbidden", "operator holds no link to this signal")
	case errors.Is(err, pulse.ErrInvalidCode):
		ctl.replyError(conn, "invalid_format", "code must match the XX-XX-XX format")
	default:
		ctl.replyError(conn, "bad_request", err.Error())
	}
}

func (ctl *PulseSocketController) reply(conn *realtime.Connection, frame ackFrame) {
	if payload, err := json.Marshal(frame); err == nil {
		_ = conn.Send(payload)
	}
}

func (ctl *PulseSocketController) replyError(conn *realtime.Connection, code string, message string) {
	frame := errorFrame{Type: "error", Code: code, Error: message}
	if payload, err := json.Marshal(frame); err == nil {
		_ = conn.Send(payload)
	}
}
