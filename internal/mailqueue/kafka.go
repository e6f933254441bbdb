package mailqueue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"
)

type KafkaPublisher struct {
	writer *kafka.Writer
}

func NewKafkaPublisher(brokers []string, topic string) (*KafkaPublisher, error) {
	if len(brokers) == 0 {
		return nil, errors.New("kafka: no brokers configured")
	}
	if topic == "" {
		return nil, errors.New("kafka: empty topic")
	}
	w := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		WriteTimeout: 5 * time.Second,
	}
	return &KafkaPublisher{writer: w}, nil
}

// Publish keys messages by recipient so one inbox keeps its order.
func (p *KafkaPublisher) Publish(ctx context.Context, msg EmailMessage) error {
	data, err := Encode(msg)
	if err != nil {
		return err
	}
	if err := p.writer.WriteMessages(ctx, kafka.Message{Key: []byte(msg.To), Value: data}); err != nil {
		return fmt.Errorf("kafka: write failed: %w", err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// EnsureTopics creates missing topics through the cluster controller.
func EnsureTopics(ctx context.Context, broker string, topics ...string) error {
	conn, err := kafka.DialContext(ctx, "tcp", broker)
	if err != nil {
		return fmt.Errorf("kafka: dial %s: %w", broker, err)
	}
	defer conn.Close()

	controller, err := conn.Controller()
	if err != nil {
		return fmt.Errorf("kafka: controller lookup: %w", err)
	}
	var d kafka.Dialer
	cconn, err := d.DialContext(ctx, "tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	if err != nil {
		return fmt.Errorf("kafka: dial controller: %w", err)
	}
	defer cconn.Close()

	configs := make([]kafka.TopicConfig, 0, len(topics))
	for _, t := range topics {
		configs = append(configs, kafka.TopicConfig{Topic: t, NumPartitions: 1, ReplicationFactor: 1})
	}
	if err := cconn.CreateTopics(configs...); err != nil && !errors.Is(err, kafka.TopicAlreadyExists) {
		return fmt.Errorf("kafka: create topics: %w", err)
	}
	return nil
}

type KafkaConsumerConfig struct {
	Brokers []string
	Topic   string
	GroupID string
}

// RunKafkaConsumer reads the email topic until ctx is cancelled. Each message
// is committed after one delivery attempt; undecodable payloads are skipped.
func RunKafkaConsumer(ctx context.Context, cfg KafkaConsumerConfig, sender Sender, l *slog.Logger) error {
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.Brokers,
		Topic:    cfg.Topic,
		GroupID:  cfg.GroupID,
		MinBytes: 1,
		MaxBytes: 10e6,
	})
	defer r.Close()

	l = l.With("transport", "kafka", "topic", cfg.Topic)
	l.Info("consumer_started", "group", cfg.GroupID)

	for {
		m, err := r.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				l.Info("consumer_stopped")
				return nil
			}
			return fmt.Errorf("kafka: fetch: %w", err)
		}

		if err := handle(ctx, m.Value, sender); err != nil {
			l.Error("email_handle_failed", "partition", m.Partition, "offset", m.Offset, "error", err)
		}
		if err := r.CommitMessages(ctx, m); err != nil && ctx.Err() == nil {
			l.Warn("commit_failed", "offset", m.Offset, "error", err)
		}
	}
}
