package realtime

import (
	"context"
	"encoding/json"

	"github.com/codecrew/backend/internal/config"
	"github.com/codecrew/backend/pkg/logger"
	"github.com/redis/go-redis/v9"
)

const bridgeChannel = "codecrew:chat:events"

// RedisBridge relays room broadcasts across instances over Redis
// pub/sub. Publishes go to Redis; the subscribe loop feeds every
// received event into the local hub, so a single-instance deployment
// behaves the same with or without the bridge.
type RedisBridge struct {
	rdb    *redis.Client
	hub    *Hub
	cancel context.CancelFunc
}

type bridgeEnvelope struct {
	Room  string `json:"room"`
	Event Event  `json:"event"`
}

// NewRedisBridge connects to Redis and verifies the connection.
func NewRedisBridge(cfg *config.RedisConfig, hub *Hub) (*RedisBridge, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := rdb.Ping(context.Background()).Err(); err != nil {
		rdb.Close()
		return nil, err
	}

	return &RedisBridge{rdb: rdb, hub: hub}, nil
}

// Start launches the subscribe loop.
func (b *RedisBridge) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	b.cancel = cancel

	pubsub := b.rdb.Subscribe(ctx, bridgeChannel)
	go func() {
		defer pubsub.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-pubsub.Channel():
				if !ok {
					return
				}
				var envelope bridgeEnvelope
				if err := json.Unmarshal([]byte(msg.Payload), &envelope); err != nil {
					logger.Warn().Err(err).Msg("Dropping malformed chat bridge payload")
					continue
				}
				b.hub.Publish(envelope.Room, envelope.Event)
			}
		}
	}()
}

// Publish sends the event through Redis; the local hub receives it via
// the subscribe loop like every other instance.
func (b *RedisBridge) Publish(room string, event Event) {
	payload, err := json.Marshal(bridgeEnvelope{Room: room, Event: event})
	if err != nil {
		logger.Error().Err(err).Msg("Failed to marshal chat bridge payload")
		return
	}
	if err := b.rdb.Publish(context.Background(), bridgeChannel, payload).Err(); err != nil {
		logger.Warn().Err(err).Str("room", room).Msg("Chat bridge publish failed, delivering locally")
		b.hub.Publish(room, event)
	}
}

// Stop tears down the subscribe loop and the connection.
func (b *RedisBridge) Stop() {
	if b.cancel != nil {
		b.cancel()
	}
	b.rdb.Close()
}
