package mq

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

const QueueBackfill = "carbonbuddy.backfill"

// BackfillJob demande une passe de backfill pour un utilisateur.
type BackfillJob struct {
	JobID  string `json:"job_id"`
	UserID uint   `json:"user_id"`
}

// Client enveloppe une connexion RabbitMQ et son canal.
type Client struct {
	conn    *amqp.Connection
	Channel *amqp.Channel
}

func Dial(url string) (*Client, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}
	return &Client{conn: conn, Channel: ch}, nil
}

func (c *Client) Close() {
	if c.Channel != nil {
		_ = c.Channel.Close()
	}
	if c.conn != nil {
		_ = c.conn.Close()
	}
}

// DeclareTopology déclare la file durable des jobs de backfill.
func (c *Client) DeclareTopology() error {
	_, err := c.Channel.QueueDeclare(
		QueueBackfill,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,
	)
	return err
}

// TriggerBackfill publie un job de backfill pour l'utilisateur donné.
func (c *Client) TriggerBackfill(ctx context.Context, userID uint) error {
	job := BackfillJob{
		JobID:  uuid.NewString(),
		UserID: userID,
	}
	body, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return c.Channel.PublishWithContext(ctx,
		"",            // exchange par défaut
		QueueBackfill, // routing key = nom de la file
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    job.JobID,
			Body:         body,
		},
	)
}
