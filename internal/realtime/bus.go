package realtime

import (
	"context"
	"encoding/json"
	"log"

	"github.com/redis/go-redis/v9"
)

// broadcastChannel is the redis pub/sub channel events travel on when redis
// is configured.
const broadcastChannel = "broadcast"

// Bus publishes room events. With redis configured, events go through the
// broadcast channel and a single subscriber goroutine feeds the hub, which
// keeps per-room delivery in publish order. Without redis (or when a publish
// fails) events feed the hub directly, so the room flow keeps working with no
// event transport at all.
type Bus struct {
	hub *Hub
	rdb *redis.Client
	ctx context.Context
}

func NewBus(hub *Hub, rdb *redis.Client, ctx context.Context) *Bus {
	return &Bus{hub: hub, rdb: rdb, ctx: ctx}
}

// Publish is fire and forget; delivery to zero subscribers is a silent no-op.
func (b *Bus) Publish(evt Event) {
	data, err := json.Marshal(evt)
	if err != nil {
		log.Printf("room-service: marshal event: %v", err)
		return
	}
	if b.rdb != nil {
		if err := b.rdb.Publish(b.ctx, broadcastChannel, string(data)).Err(); err == nil {
			return
		} else {
			log.Printf("room-service: publish event: %v", err)
		}
	}
	b.hub.Broadcast(evt.RoomID, data)
}

// RunRedisSubscriber pumps the broadcast channel into the hub. Blocks until
// the subscription closes.
func (b *Bus) RunRedisSubscriber() {
	sub := b.rdb.Subscribe(b.ctx, broadcastChannel)
	defer sub.Close()

	for msg := range sub.Channel() {
		var env struct {
			RoomID string `json:"roomId"`
		}
		if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil || env.RoomID == "" {
			continue
		}
		b.hub.Broadcast(env.RoomID, []byte(msg.Payload))
	}
}
