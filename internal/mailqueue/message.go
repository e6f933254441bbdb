// Package mailqueue moves transactional email from the API process to the
// mail worker over Kafka or RabbitMQ.
package mailqueue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

var ErrInvalidMessage = errors.New("invalid email message")

type EmailMessage struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Text    string `json:"text"`
}

func (m EmailMessage) Validate() error {
	if strings.TrimSpace(m.To) == "" {
		return fmt.Errorf("%w: missing recipient", ErrInvalidMessage)
	}
	if strings.TrimSpace(m.Text) == "" {
		return fmt.Errorf("%w: empty body", ErrInvalidMessage)
	}
	return nil
}

// Publisher enqueues a message on the broker. Publish may block until the
// broker acknowledges the write.
type Publisher interface {
	Publish(ctx context.Context, msg EmailMessage) error
	Close() error
}

// Sender delivers a dequeued message to the recipient.
type Sender interface {
	Send(ctx context.Context, msg EmailMessage) error
}

func Encode(msg EmailMessage) ([]byte, error) {
	if err := msg.Validate(); err != nil {
		return nil, err
	}
	return json.Marshal(msg)
}

func Decode(body []byte) (EmailMessage, error) {
	var msg EmailMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		return EmailMessage{}, fmt.Errorf("%w: %v", ErrInvalidMessage, err)
	}
	if err := msg.Validate(); err != nil {
		return EmailMessage{}, err
	}
	return msg, nil
}

// handle is the consumer side shared by the Kafka and RabbitMQ loops.
func handle(ctx context.Context, body []byte, sender Sender) error {
	msg, err := Decode(body)
	if err != nil {
		return err
	}
	return sender.Send(ctx, msg)
}

// LogPublisher writes messages to the log instead of a broker. It is the
// MAIL_TRANSPORT=log default for local runs.
type LogPublisher struct {
	Logger *slog.Logger
}

func (p *LogPublisher) Publish(ctx context.Context, msg EmailMessage) error {
	if err := msg.Validate(); err != nil {
		return err
	}
	p.logger().Info("email_logged", "to", msg.To, "subject", msg.Subject)
	return nil
}

func (p *LogPublisher) Close() error { return nil }

func (p *LogPublisher) logger() *slog.Logger {
	if p.Logger == nil {
		return slog.Default()
	}
	return p.Logger
}

// LogSender stands in for SMTP delivery in the mail worker.
type LogSender struct {
	Logger *slog.Logger
}

func (s *LogSender) Send(ctx context.Context, msg EmailMessage) error {
	l := s.Logger
	if l == nil {
		l = slog.Default()
	}
	l.Info("email_sent", "to", msg.To, "subject", msg.Subject, "bytes", len(msg.Text))
	return nil
}
