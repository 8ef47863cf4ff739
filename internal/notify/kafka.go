package notify

import (
	"context"
	"encoding/json"
	"time"

	"github.com/confluentinc/confluent-kafka-go/kafka"
	"github.com/sirupsen/logrus"
)

const (
	EventVerified = "verified"
	EventDeleted  = "deleted"
)

// producer is the part of *kafka.Producer the notifier needs.
type producer interface {
	Produce(msg *kafka.Message, deliveryChan chan kafka.Event) error
	Flush(timeoutMs int) int
	Close()
}

// Kafka publishes events to a topic keyed by target, so every event for a
// page lands on one partition in order.
type Kafka struct {
	producer producer
	topic    string
}

var _ Notifier = (*Kafka)(nil)

func NewKafka(brokers, topic string) (*Kafka, error) {
	p, err := kafka.NewProducer(&kafka.ConfigMap{
		"bootstrap.servers": brokers,
		"acks":              "all",
	})
	if err != nil {
		return nil, err
	}

	go func() {
		for ev := range p.Events() {
			if m, ok := ev.(*kafka.Message); ok && m.TopicPartition.Error != nil {
				logrus.Errorf("kafka delivery failed: %v", m.TopicPartition.Error)
			}
		}
	}()

	return &Kafka{producer: p, topic: topic}, nil
}

type kafkaEvent struct {
	Event   string         `json:"event"`
	Domain  string         `json:"domain"`
	Source  string         `json:"source"`
	Target  string         `json:"target"`
	Private bool           `json:"private"`
	Post    map[string]any `json:"post,omitempty"`
	Time    time.Time      `json:"time"`
}

func (k *Kafka) Verified(ctx context.Context, e Event) error {
	return k.publish(EventVerified, e)
}

func (k *Kafka) Deleted(ctx context.Context, e Event) error {
	return k.publish(EventDeleted, e)
}

func (k *Kafka) publish(name string, e Event) error {
	payload := kafkaEvent{
		Event:   name,
		Source:  e.Source,
		Target:  e.Target,
		Private: e.Private,
		Post:    e.Post,
		Time:    time.Now().UTC(),
	}
	if e.Site != nil {
		payload.Domain = e.Site.Domain
	}

	value, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	return k.producer.Produce(&kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &k.topic, Partition: kafka.PartitionAny},
		Key:            []byte(e.Target),
		Value:          value,
	}, nil)
}

func (k *Kafka) Close() {
	k.producer.Flush(5000)
	k.producer.Close()
}
