package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"carbonbuddy/backfill"
	"carbonbuddy/config"
	"carbonbuddy/database"
	"carbonbuddy/mq"
	"carbonbuddy/store"
	"carbonbuddy/worker"
)

func main() {
	cfg := config.Load()

	if cfg.RabbitMQURL == "" {
		log.Fatal("RABBITMQ_URL est requis pour le worker")
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatal("Erreur connexion DB:", err)
	}

	client, err := mq.Dial(cfg.RabbitMQURL)
	if err != nil {
		log.Fatal("Erreur connexion RabbitMQ:", err)
	}
	defer client.Close()

	backfiller := backfill.New(store.NewEntryStore(db), cfg.BackfillMaxGapDays)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Println("🚀 Worker backfill démarré")
	if err := worker.RunBackfillWorker(ctx, client, backfiller); err != nil {
		log.Fatalf("worker arrêté: %v", err)
	}
}
