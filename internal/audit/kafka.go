package audit

import (
	"context"
	"fmt"

	"github.com/confluentinc/confluent-kafka-go/kafka"
)

// KafkaChannel is the production Channel implementation, a thin wrapper
// around a confluent-kafka-go producer.
type KafkaChannel struct {
	producer *kafka.Producer
}

func NewKafkaChannel(brokers string) (*KafkaChannel, error) {
	producer, err := kafka.NewProducer(&kafka.ConfigMap{
		"bootstrap.servers": brokers,
		"client.id":         "identity-service-producer",
		"acks":              "1",
		"retries":           0,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}
	return &KafkaChannel{producer: producer}, nil
}

// Send produces the payload to topic and waits for the delivery report, or
// for ctx to expire, whichever comes first.
func (k *KafkaChannel) Send(ctx context.Context, topic, payload string) error {
	deliveries := make(chan kafka.Event, 1)
	msg := &kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &topic, Partition: kafka.PartitionAny},
		Value:          []byte(payload),
	}
	if err := k.producer.Produce(msg, deliveries); err != nil {
		return fmt.Errorf("failed to produce message: %w", err)
	}

	select {
	case e := <-deliveries:
		m, ok := e.(*kafka.Message)
		if !ok {
			return fmt.Errorf("unexpected delivery event: %v", e)
		}
		if m.TopicPartition.Error != nil {
			return fmt.Errorf("delivery failed: %w", m.TopicPartition.Error)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (k *KafkaChannel) Close() {
	k.producer.Close()
}
