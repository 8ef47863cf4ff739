package queue

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/confluentinc/confluent-kafka-go/kafka"
	"github.com/emrgen/webmention/internal/mention"
	"github.com/sirupsen/logrus"
)

type producer interface {
	Produce(msg *kafka.Message, deliveryChan chan kafka.Event) error
	Flush(timeoutMs int) int
	Close()
}

type consumer interface {
	SubscribeTopics(topics []string, rebalanceCb kafka.RebalanceCb) error
	ReadMessage(timeout time.Duration) (*kafka.Message, error)
	Close() error
}

var _ MentionQueue = (*Kafka)(nil)

// Kafka queues webmentions on a topic. Messages are keyed by target so the
// mentions of one page are handled in arrival order.
type Kafka struct {
	producer producer
	consumer consumer
	topic    string
	poll     time.Duration

	mu     sync.Mutex
	closed bool
	stop   chan struct{}
	done   chan struct{}
}

func NewKafka(brokers, topic, groupID string) (*Kafka, error) {
	p, err := kafka.NewProducer(&kafka.ConfigMap{
		"bootstrap.servers": brokers,
		"acks":              "all",
	})
	if err != nil {
		return nil, err
	}

	c, err := kafka.NewConsumer(&kafka.ConfigMap{
		"bootstrap.servers": brokers,
		"group.id":          groupID,
		"auto.offset.reset": "earliest",
	})
	if err != nil {
		p.Close()
		return nil, err
	}

	go func() {
		for ev := range p.Events() {
			if m, ok := ev.(*kafka.Message); ok && m.TopicPartition.Error != nil {
				logrus.Errorf("failed to queue webmention: %v", m.TopicPartition.Error)
			}
		}
	}()

	return &Kafka{producer: p, consumer: c, topic: topic, poll: 500 * time.Millisecond}, nil
}

func (k *Kafka) Publish(ctx context.Context, req *mention.Request) error {
	value, err := json.Marshal(req)
	if err != nil {
		return err
	}

	return k.producer.Produce(&kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &k.topic, Partition: kafka.PartitionAny},
		Key:            []byte(req.Target),
		Value:          value,
	}, nil)
}

func (k *Kafka) Subscribe(ctx context.Context) (<-chan *mention.Request, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.closed {
		return nil, ErrClosed
	}

	if err := k.consumer.SubscribeTopics([]string{k.topic}, nil); err != nil {
		return nil, err
	}

	stop, done := make(chan struct{}), make(chan struct{})
	k.stop, k.done = stop, done

	out := make(chan *mention.Request)
	go func() {
		defer close(done)
		defer close(out)
		for ctx.Err() == nil {
			select {
			case <-stop:
				return
			default:
			}

			msg, err := k.consumer.ReadMessage(k.poll)
			if err != nil {
				var kerr kafka.Error
				if errors.As(err, &kerr) && kerr.Code() == kafka.ErrTimedOut {
					continue
				}
				logrus.Errorf("kafka read failed: %v", err)
				continue
			}

			var req mention.Request
			if err := json.Unmarshal(msg.Value, &req); err != nil {
				logrus.Errorf("dropping malformed webmention at %v: %v", msg.TopicPartition, err)
				continue
			}

			select {
			case out <- &req:
			case <-ctx.Done():
				return
			case <-stop:
				return
			}
		}
	}()

	return out, nil
}

// Close stops the subscription and flushes pending publishes. Messages not
// yet read stay on the topic for the next consumer.
func (k *Kafka) Close() error {
	k.mu.Lock()
	if k.closed {
		k.mu.Unlock()
		return nil
	}
	k.closed = true
	stop, done := k.stop, k.done
	k.mu.Unlock()

	if stop != nil {
		close(stop)
		<-done
	}

	k.producer.Flush(5000)
	k.producer.Close()
	return k.consumer.Close()
}
