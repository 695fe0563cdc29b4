package ws

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"

	"github.com/radieske/sports-bet-advisor-poc/pkg/contracts/events"
)

// RedisBroadcaster publica o resultado no canal Pub/Sub; cada instância
// com subscriber ativo repassa aos seus clientes WebSocket.
type RedisBroadcaster struct {
	R       *redis.Client
	Channel string
}

func (b *RedisBroadcaster) BroadcastGameResult(ctx context.Context, evt events.GameResult) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	return b.R.Publish(ctx, b.Channel, payload).Err()
}

// DirectBroadcaster entrega direto ao hub local, pro modo sem Redis.
type DirectBroadcaster struct {
	Hub *Hub
}

func (b *DirectBroadcaster) BroadcastGameResult(_ context.Context, evt events.GameResult) error {
	b.Hub.Broadcast(evt)
	return nil
}
