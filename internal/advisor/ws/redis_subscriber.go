package ws

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/radieske/sports-bet-advisor-poc/pkg/contracts/events"
)

// StartRedisSubscriber inicia uma goroutine que escuta o canal Redis Pub/Sub
// e repassa os resultados de jogo recebidos para os clientes WebSocket via Hub
//
// Funcionamento:
// - Recebe mensagens JSON do canal Redis
// - Desserializa para events.GameResult
// - Chama hub.Broadcast para enviar aos clientes inscritos no jogo
func StartRedisSubscriber(ctx context.Context, r *redis.Client, channel string, hub *Hub, log *zap.Logger) {
	sub := r.Subscribe(ctx, channel)
	ch := sub.Channel()
	go func() {
		for {
			select {
			case <-ctx.Done():
				_ = sub.Close() // encerra a inscrição ao finalizar o contexto
				return
			case msg := <-ch:
				if msg == nil {
					continue
				}
				var evt events.GameResult
				if err := json.Unmarshal([]byte(msg.Payload), &evt); err != nil {
					log.Error("ws subscriber unmarshal error", zap.Error(err))
					continue
				}
				hub.Broadcast(evt)
			}
		}
	}()
}
