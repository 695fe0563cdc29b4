package producer

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	sharedkafka "github.com/radieske/sports-bet-advisor-poc/internal/shared/kafka"
	"github.com/radieske/sports-bet-advisor-poc/pkg/contracts/events"
)

// Producer publica os eventos do serviço nos tópicos Kafka.
type Producer interface {
	PublishBetPlaced(ctx context.Context, evt events.BetPlaced) error
	PublishBetSettled(ctx context.Context, evt events.BetSettled) error
	Close() error
}

// Kafka publica nos tópicos bet_placed e bet_settled.
type Kafka struct {
	placed  *sharedkafka.Writer
	settled *sharedkafka.Writer
	log     *zap.Logger
}

func NewKafka(brokers, topicPlaced, topicSettled string, log *zap.Logger) *Kafka {
	return &Kafka{
		placed:  sharedkafka.NewWriter(brokers, topicPlaced),
		settled: sharedkafka.NewWriter(brokers, topicSettled),
		log:     log,
	}
}

func (k *Kafka) PublishBetPlaced(ctx context.Context, evt events.BetPlaced) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	return sharedkafka.WriteJSON(ctx, k.placed, evt.BetID, payload)
}

func (k *Kafka) PublishBetSettled(ctx context.Context, evt events.BetSettled) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	return sharedkafka.WriteJSON(ctx, k.settled, evt.BetID, payload)
}

func (k *Kafka) Close() error {
	if err := k.placed.Close(); err != nil {
		return err
	}
	return k.settled.Close()
}

// Noop é usado quando KAFKA_BROKERS está vazio: o demo roda sem broker.
type Noop struct{}

func (Noop) PublishBetPlaced(context.Context, events.BetPlaced) error   { return nil }
func (Noop) PublishBetSettled(context.Context, events.BetSettled) error { return nil }
func (Noop) Close() error                                               { return nil }
