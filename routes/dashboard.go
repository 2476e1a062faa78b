package routes

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	"carbonbuddy/config"
	"carbonbuddy/dashboard"
	"carbonbuddy/middleware"
)

// BackfillTrigger lance une passe de backfill pour un utilisateur, soit en
// publiant un job (RabbitMQ), soit en exécutant le Backfiller directement.
type BackfillTrigger func(ctx context.Context, userID uint) error

func SetupDashboardRoutes(app *fiber.App, cfg config.Config, svc *dashboard.Service, trigger BackfillTrigger) {
	api := app.Group("/api", middleware.JWT(cfg))
	api.Get("/dashboard/summary", dashboardSummary(svc, trigger))
}

// GET /api/dashboard/summary
// Déclenche le backfill en tâche de fond puis recalcule tout le dashboard
// depuis l'historique. Le résumé peut donc précéder d'un instant les jours
// synthétiques de la passe en cours, comme une lecture suivante le verra.
func dashboardSummary(svc *dashboard.Service, trigger BackfillTrigger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(uint)

		if trigger != nil {
			go func() {
				ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				defer cancel()
				if err := trigger(ctx, userID); err != nil {
					log.Printf("backfill non déclenché pour l'utilisateur %d: %v", userID, err)
				}
			}()
		}

		overview, err := svc.Summarize(c.Context(), userID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Erreur lors du calcul du dashboard"})
		}
		return c.JSON(overview)
	}
}
