package events

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
)

// PrintCompleted is emitted after a print batch has been marked as printed.
type PrintCompleted struct {
	BatchID    string    `json:"batch_id"`
	ActorID    string    `json:"actor_id"`
	StudentIDs []string  `json:"student_ids"`
	Printed    int64     `json:"printed"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Publisher emits print workflow events on NATS. A Publisher without a connection drops events.
type Publisher struct {
	conn   *nats.Conn
	prefix string
	logger zerolog.Logger
}

// NewPublisher constructs a publisher. conn may be nil.
func NewPublisher(conn *nats.Conn, subjectPrefix string, logger zerolog.Logger) *Publisher {
	prefix := strings.Trim(strings.TrimSpace(subjectPrefix), ".")
	if prefix == "" {
		prefix = "idcard"
	}
	return &Publisher{
		conn:   conn,
		prefix: prefix,
		logger: logger.With().Str("component", "event_publisher").Logger(),
	}
}

// PrintCompletedSubject returns the subject print completions are published on.
func (p *Publisher) PrintCompletedSubject() string {
	return p.prefix + ".print.completed"
}

// PublishPrintCompleted publishes the event when a NATS connection is configured.
func (p *Publisher) PublishPrintCompleted(_ context.Context, event PrintCompleted) error {
	if p == nil || p.conn == nil {
		return nil
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	subject := p.PrintCompletedSubject()
	if err := p.conn.Publish(subject, payload); err != nil {
		return err
	}

	p.logger.Debug().Str("subject", subject).Str("batch_id", event.BatchID).Msg("print completion published")
	return nil
}
