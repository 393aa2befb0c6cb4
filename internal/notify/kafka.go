package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/kajarral-381/jarrals-kitchen-sub000/internal/domain"
)

const ordersTopic = "order-notifications"

// KafkaNotifier publishes the completed order to a Kafka topic for the
// downstream notification workers to fan out.
type KafkaNotifier struct {
	writer *kafka.Writer
}

func NewKafkaNotifier(brokers ...string) *KafkaNotifier {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  ordersTopic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
	return &KafkaNotifier{writer: w}
}

func (n *KafkaNotifier) Send(ctx context.Context, order domain.Order) ([]Result, error) {
	payload := map[string]interface{}{
		"order_id":     order.ID.String(),
		"items":        order.Items,
		"total":        order.Total,
		"email":        order.Shipping.Email,
		"phone":        order.Shipping.Phone,
		"completed_at": time.Now(),
	}
	value, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal order payload: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(order.ID.String()),
		Value: value,
	}
	if err := n.writer.WriteMessages(ctx, msg); err != nil {
		return []Result{{Channel: ordersTopic, Detail: err.Error()}}, nil
	}
	return []Result{{Channel: ordersTopic, Success: true}}, nil
}

func (n *KafkaNotifier) Close() error {
	return n.writer.Close()
}
