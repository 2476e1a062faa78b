package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"carbonbuddy/config"
	"carbonbuddy/emissions"
	"carbonbuddy/middleware"
	"carbonbuddy/models"
	"carbonbuddy/store"
	"carbonbuddy/utils"
)

func SetupEmissionRoutes(app *fiber.App, cfg config.Config, calc *emissions.Calculator, entries *store.EntryStore) {
	api := app.Group("/api", middleware.JWT(cfg))
	api.Post("/emissions", submitEmissions(calc, entries))
	api.Get("/entries", listEntries(entries))
}

// POST /api/emissions
// Calcule les émissions du jour et écrase l'éventuelle entrée existante
// (une seule entrée par utilisateur et par jour UTC).
func submitEmissions(calc *emissions.Calculator, entries *store.EntryStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(uint)

		var input emissions.ActivityInput
		if err := c.BodyParser(&input); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Payload invalide"})
		}

		result := calc.Calculate(input)
		today := utils.MidnightUTC(time.Now())

		entry := models.EmissionEntry{
			UserID: userID,
			Date:   today,

			CarDistanceKms:         input.Transport.CarDistanceKms,
			CarType:                input.Transport.CarType,
			PublicTransportKms:     input.Transport.PublicTransportKms,
			FlightKms:              input.Transport.FlightKms,
			CyclingWalkingKms:      input.Transport.CyclingWalkingKms,
			OfficeHours:            input.Energy.OfficeHours,
			ElectricityBill:        input.Energy.ElectricityBill,
			EmissionFactor:         input.Energy.EmissionFactor,
			Diet:                   input.Food.Diet,
			FoodConsumed:           input.Food.FoodConsumed,
			WaterBottlesConsumed:   input.Food.WaterBottlesConsumed,
			AteLocalOrSeasonalFood: input.Food.AteLocalOrSeasonalFood,
			PagesPrinted:           input.Digital.PagesPrinted,
			VideoCallHours:         input.Digital.VideoCallHours,
			CloudStorageGb:         input.Digital.CloudStorageGb,

			TransportEmissions: result.TransportEmissions,
			EnergyEmissions:    result.EnergyEmissions,
			FoodEmissions:      result.FoodEmissions,
			DigitalEmissions:   result.DigitalEmissions,
			TotalEmissions:     result.TotalEmissions,
		}

		if err := entries.Upsert(c.Context(), &entry); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Impossible d'enregistrer l'entrée"})
		}

		return c.JSON(entry)
	}
}

// GET /api/entries
func listEntries(entries *store.EntryStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(uint)

		list, err := entries.FindAllDesc(c.Context(), userID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Erreur lors de la récupération des entrées"})
		}
		return c.JSON(fiber.Map{"entries": list})
	}
}
