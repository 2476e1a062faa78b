package worker

import (
	"context"
	"encoding/json"
	"errors"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"

	"carbonbuddy/backfill"
	"carbonbuddy/mq"
)

// RunBackfillWorker consomme les jobs de backfill depuis RabbitMQ jusqu'à
// l'annulation du contexte. Un job en échec stockage est remis en file.
func RunBackfillWorker(ctx context.Context, client *mq.Client, backfiller *backfill.Backfiller) error {
	if err := client.DeclareTopology(); err != nil {
		return err
	}

	// un job à la fois : le backfill est déjà sérialisé par utilisateur
	if err := client.Channel.Qos(1, 0, false); err != nil {
		return err
	}

	deliveries, err := client.Channel.Consume(
		mq.QueueBackfill,
		"",
		false, // autoAck
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case delivery, ok := <-deliveries:
			if !ok {
				return errors.New("backfill worker: canal de livraison fermé")
			}
			handleBackfillMessage(ctx, delivery, backfiller)
		}
	}
}

func handleBackfillMessage(ctx context.Context, delivery amqp.Delivery, backfiller *backfill.Backfiller) {
	var job mq.BackfillJob
	if err := json.Unmarshal(delivery.Body, &job); err != nil {
		log.Printf("backfill worker: message invalide: %v", err)
		_ = delivery.Ack(false)
		return
	}
	if job.UserID == 0 {
		_ = delivery.Ack(false)
		return
	}
	if err := backfiller.Run(ctx, job.UserID); err != nil {
		log.Printf("backfill worker: job %s en échec: %v", job.JobID, err)
		_ = delivery.Nack(false, true)
		return
	}
	_ = delivery.Ack(false)
}
