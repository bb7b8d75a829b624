package queue

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Job kinds carried on the retainer queue.
const (
	JobCreateSubmission = "create_submission"
	JobResendEmail      = "resend_email"
)

// RetainerJobPayload is one unit of background work: create the provider
// submission for a recipient (and send the firm email), or resend the email
// for an existing submission.
type RetainerJobPayload struct {
	Kind        string `json:"kind"`
	RecipientID string `json:"recipient_id"`
	BatchID     string `json:"batch_id"`
	LawFirmID   string `json:"law_firm_id"`
}

type QueueProducerInterface interface {
	PublishRetainerJob(ctx context.Context, payload RetainerJobPayload) error
}

type RabbitMQProducer struct {
	Conn *amqp.Connection
	Ch   *amqp.Channel
}

func NewProducer(conn *amqp.Connection, ch *amqp.Channel) *RabbitMQProducer {
	return &RabbitMQProducer{Conn: conn, Ch: ch}
}

func (p *RabbitMQProducer) PublishRetainerJob(ctx context.Context, payload RetainerJobPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal retainer job: %w", err)
	}

	err = p.Ch.PublishWithContext(ctx,
		ExchangeName,
		RoutingKey,
		false, // Mandatory
		false, // Immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("publish retainer job: %w", err)
	}

	return nil
}
