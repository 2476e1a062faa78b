package main

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"carbonbuddy/backfill"
	"carbonbuddy/config"
	"carbonbuddy/dashboard"
	"carbonbuddy/database"
	"carbonbuddy/emissions"
	"carbonbuddy/mq"
	"carbonbuddy/routes"
	"carbonbuddy/store"
)

func main() {
	cfg := config.Load()

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatal("Erreur connexion DB:", err)
	}

	entries := store.NewEntryStore(db)
	calc := emissions.NewCalculator(emissions.DefaultFactors())
	summaries := dashboard.NewService(entries)
	backfiller := backfill.New(entries, cfg.BackfillMaxGapDays)

	// Backfill différé via RabbitMQ quand un broker est configuré, sinon
	// le Backfiller tourne directement dans le process API.
	trigger := routes.BackfillTrigger(backfiller.Run)
	if cfg.RabbitMQURL != "" {
		client, err := mq.Dial(cfg.RabbitMQURL)
		if err != nil {
			log.Fatal("Erreur connexion RabbitMQ:", err)
		}
		defer client.Close()
		if err := client.DeclareTopology(); err != nil {
			log.Fatal("Erreur déclaration file RabbitMQ:", err)
		}
		trigger = client.TriggerBackfill
		log.Println("📨 Backfill publié sur RabbitMQ")
	}

	app := fiber.New()

	// CORS
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"service": "carbonbuddy-api",
			"status":  "ok",
			"factors": calc.FactorsVersion(),
		})
	})

	routes.SetupAuthRoutes(app, cfg, db)
	routes.SetupEmissionRoutes(app, cfg, calc, entries)
	routes.SetupDashboardRoutes(app, cfg, summaries, trigger)
	routes.SetupAssistantRoutes(app, cfg, entries)

	log.Println("🚀 Serveur sur http://localhost:" + cfg.Port)
	log.Fatal(app.Listen(cfg.HTTPAddr()))
}
