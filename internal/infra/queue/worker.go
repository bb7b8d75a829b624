package queue

import (
	"context"
	"encoding/json"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"
)

// RetainerProcessor is the contract the worker hands jobs to. Implemented by
// the retainer usecase; the queue package stays decoupled from it.
type RetainerProcessor interface {
	ProcessRecipient(ctx context.Context, payload RetainerJobPayload) error
	ResendEmail(ctx context.Context, payload RetainerJobPayload) error
}

type Worker struct {
	Channel   *amqp.Channel
	Processor RetainerProcessor
}

func NewWorker(ch *amqp.Channel, processor RetainerProcessor) *Worker {
	return &Worker{
		Channel:   ch,
		Processor: processor,
	}
}

func (w *Worker) Start(queueName string) {
	msgs, err := w.Channel.Consume(
		queueName, // queue
		"",        // consumer
		false,     // auto-ack (manual is safer)
		false,     // exclusive
		false,     // no-local
		false,     // no-wait
		nil,       // args
	)
	if err != nil {
		log.Fatalf("❌ [WORKER] Failed to register RabbitMQ consumer: %s", err)
	}

	forever := make(chan bool)

	go func() {
		for d := range msgs {
			var payload RetainerJobPayload
			if err := json.Unmarshal(d.Body, &payload); err != nil {
				log.Printf("❌ [WORKER] Invalid JSON, rejecting without requeue: %s", err)
				// Poison message. Reject without requeue so it goes to the DLQ
				// instead of blocking the queue.
				d.Nack(false, false)
				continue
			}

			log.Printf("📥 [WORKER] Job %s for recipient %s", payload.Kind, payload.RecipientID)

			if err := w.processMessage(context.Background(), payload); err != nil {
				log.Printf("❌ [WORKER] Job failed: %s", err)
				// First delivery gets one requeue for transient provider/SMTP
				// hiccups; a redelivered message goes to the DLQ.
				d.Nack(false, !d.Redelivered)
			} else {
				d.Ack(false)
			}
		}
	}()

	log.Printf(" [*] Worker running, waiting on queue '%s'", queueName)
	<-forever
}

func (w *Worker) processMessage(ctx context.Context, payload RetainerJobPayload) error {
	switch payload.Kind {
	case JobCreateSubmission:
		return w.Processor.ProcessRecipient(ctx, payload)
	case JobResendEmail:
		return w.Processor.ResendEmail(ctx, payload)
	default:
		log.Printf("⚠️ [WORKER] Unknown job kind: %s. Acking to drop it.", payload.Kind)
		return nil
	}
}
