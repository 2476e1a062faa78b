package routes

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"carbonbuddy/config"
	"carbonbuddy/integrations/mistral"
	"carbonbuddy/middleware"
	"carbonbuddy/models"
	"carbonbuddy/store"
)

func SetupAssistantRoutes(app *fiber.App, cfg config.Config, entries *store.EntryStore) {
	client, err := mistral.NewClient(cfg.MistralAPIKey, cfg.MistralAgentID, "")
	if err != nil {
		log.Printf("⚠️ Assistant désactivé: %v", err)
		client = nil
	}

	group := app.Group("/api/assistant", middleware.JWT(cfg))
	group.Post("/chat", assistantChat(client, entries))
	group.Get("/welcome", assistantWelcome(client))
}

type chatPayload struct {
	Message string `json:"message"`
}

// POST /api/assistant/chat
// Répond à la question de l'utilisateur en injectant sa dernière journée
// d'émissions dans le prompt.
func assistantChat(client *mistral.Client, entries *store.EntryStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if client == nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "Assistant non configuré"})
		}

		var payload chatPayload
		if err := c.BodyParser(&payload); err != nil || payload.Message == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Message requis"})
		}

		userID := c.Locals("user_id").(uint)

		recent, err := entries.FindRecent(c.Context(), userID, 1)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Erreur lors de la récupération des données"})
		}
		var latest *models.EmissionEntry
		if len(recent) > 0 {
			latest = &recent[0]
		}

		ctx, cancel := context.WithTimeout(c.Context(), 25*time.Second)
		defer cancel()

		resp, err := client.SendConversation(ctx, buildChatPrompt(latest, payload.Message))
		if err != nil {
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": err.Error()})
		}

		return c.JSON(fiber.Map{
			"id":    resp.ID,
			"reply": resp.FirstText(),
		})
	}
}

// GET /api/assistant/welcome
func assistantWelcome(client *mistral.Client) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if client == nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "Assistant non configuré"})
		}

		ctx, cancel := context.WithTimeout(c.Context(), 25*time.Second)
		defer cancel()

		resp, err := client.SendConversation(ctx, welcomePrompt)
		if err != nil {
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": err.Error()})
		}

		return c.JSON(fiber.Map{"welcomeMessage": resp.FirstText()})
	}
}

const welcomePrompt = `Generate a single, interesting, and positive welcome message for a user of a carbon footprint tracking app named 'Carbon Buddy'.
The message should be one of these two types:
1. A surprising fact about carbon emissions, sustainability, or the environment.
2. A piece of recent good news related to climate change or environmental protection.

Keep the message concise (1-2 sentences).
Conclude the message with a friendly, inviting question like "How can I help you today?" or "What's on your mind?".`

func buildChatPrompt(latest *models.EmissionEntry, message string) string {
	var b strings.Builder
	b.WriteString("You are 'Carbon Buddy', a friendly and expert AI assistant. Your goal is to give concise, data-driven, and highly relevant advice based on the user's specific emission data.\n\n")

	if latest != nil {
		fmt.Fprintf(&b, "USER'S LATEST EMISSION DATA (in kg CO2e unless stated otherwise):\n")
		fmt.Fprintf(&b, "- Total Emissions: %.2f kg\n", latest.TotalEmissions)
		fmt.Fprintf(&b, "- Breakdown: Transport %.2f kg, Energy %.2f kg, Food %.2f kg, Digital %.2f kg\n",
			latest.TransportEmissions, latest.EnergyEmissions, latest.FoodEmissions, latest.DigitalEmissions)
		fmt.Fprintf(&b, "- Raw inputs: Car %s %.1f km, Flights %.1f km, Electricity Bill %.2f, Diet %s\n\n",
			orNA(latest.CarType), latest.CarDistanceKms, latest.FlightKms, latest.ElectricityBill, orNA(latest.Diet))
	} else {
		b.WriteString("The user has not logged any emission data yet.\n\n")
	}

	b.WriteString(`YOUR TASK:
1. If the user asks a specific question about THEIR data, answer only that question, using their raw inputs to be as specific as possible.
2. If the user asks for a general summary, give a structured analysis: total footprint, biggest source, personalized tips.
3. If the user asks a general question about carbon emissions or sustainability, answer factually and concisely without mentioning their personal data.

User's question:
`)
	b.WriteString(`"` + message + `"`)
	return b.String()
}

func orNA(v string) string {
	if v == "" {
		return "N/A"
	}
	return v
}
