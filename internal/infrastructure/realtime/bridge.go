package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	redis "github.com/redis/go-redis/v9"
)

const (
	messageChannelPrefix = "pulse:msg:"
	feedChannel          = "pulse:feed"
)

// Pulse lifecycle events carried on the feed channel.
const (
	EventPulseCreated  = "pulse_created"
	EventPulseWiped    = "pulse_wiped"
	EventOperatorWiped = "operator_wiped"
)

// PulseEvent is a change-feed notification about a pulse row.
type PulseEvent struct {
	Event     string `json:"event"`
	PulseCode string `json:"pulse_code"`
}

// Bridge fans realtime traffic out across nodes over Redis pub/sub.
//
// Publishers never write to the local Router directly; a published payload
// comes back through the subscription and is delivered to local rooms there,
// so every subscriber on every node (the publishing one included) receives
// it exactly once via the same path.
type Bridge struct {
	rdb    *redis.Client
	router *Router
}

// NewBridgeFromEnv constructs a Bridge from the REDIS_URL environment
// variable, verifying connectivity before returning.
func NewBridgeFromEnv(router *Router) (*Bridge, error) {
	url := os.Getenv("REDIS_URL")
	if url == "" {
		return nil, errors.New("bridge: REDIS_URL environment variable is not set")
	}
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("bridge: parse url: %w", err)
	}
	c := redis.NewClient(opt)
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := c.Ping(ctx).Err(); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("bridge: ping: %w", err)
	}
	return &Bridge{rdb: c, router: router}, nil
}

// PublishMessage fans a message frame out to every subscriber of the pulse.
func (b *Bridge) PublishMessage(ctx context.Context, pulseCode string, payload []byte) error {
	return b.rdb.Publish(ctx, messageChannelPrefix+pulseCode, payload).Err()
}

// Announce publishes a pulse lifecycle event on the feed channel so catalog
// views refresh reactively.
func (b *Bridge) Announce(ctx context.Context, ev PulseEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return b.rdb.Publish(ctx, feedChannel, payload).Err()
}

// Run consumes the pub/sub channels and forwards traffic to the local
// Router until the context is canceled.
func (b *Bridge) Run(ctx context.Context) error {
	sub := b.rdb.PSubscribe(ctx, messageChannelPrefix+"*", feedChannel)
	defer func() { _ = sub.Close() }()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return errors.New("bridge: subscription closed")
			}
			b.dispatch([]byte(msg.Payload), msg.Channel)
		}
	}
}

func (b *Bridge) dispatch(payload []byte, channel string) {
	if code, ok := strings.CutPrefix(channel, messageChannelPrefix); ok {
		b.router.Broadcast(code, payload)
		return
	}
	if channel != feedChannel {
		return
	}

	b.router.NotifyAll(payload)

	// A wiped pulse takes its room down with it: members must not keep a
	// live subscription to destroyed content.
	var ev PulseEvent
	if json.Unmarshal(payload, &ev) == nil && ev.Event == EventPulseWiped && ev.PulseCode != "" {
		b.router.CloseRoom(ev.PulseCode, "signal wiped")
	}
}

// Close releases the underlying Redis client.
func (b *Bridge) Close() error {
	return b.rdb.Close()
}
