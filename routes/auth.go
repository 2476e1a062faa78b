package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"

	"carbonbuddy/config"
	"carbonbuddy/middleware"
	"carbonbuddy/models"
	"carbonbuddy/utils"
)

func SetupAuthRoutes(app *fiber.App, cfg config.Config, db *gorm.DB) {
	auth := app.Group("/auth")
	auth.Post("/register", register(cfg, db))
	auth.Post("/login", login(cfg, db))
	auth.Get("/me", middleware.JWT(cfg), me(db))
}

type registerPayload struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

type loginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func register(cfg config.Config, db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body registerPayload
		if err := c.BodyParser(&body); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Payload invalide"})
		}

		if body.Name == "" || body.Email == "" || body.Password == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Tous les champs sont requis"})
		}
		if body.Password != body.ConfirmPassword {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Les mots de passe ne correspondent pas"})
		}

		// vérifier si email déjà existant
		var existing models.User
		db.Where("email = ?", body.Email).First(&existing)
		if existing.ID != 0 {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Email déjà enregistré"})
		}

		hash, err := utils.HashPassword(body.Password)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Impossible de hasher le mot de passe"})
		}

		user := models.User{
			Name:     body.Name,
			Email:    body.Email,
			Password: hash,
		}

		if err := db.Create(&user).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Erreur création utilisateur"})
		}

		return c.JSON(fiber.Map{"token": signToken(cfg, user.ID)})
	}
}

func login(cfg config.Config, db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body loginPayload
		if err := c.BodyParser(&body); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Payload invalide"})
		}

		var user models.User
		db.Where("email = ?", body.Email).First(&user)
		if user.ID == 0 || !utils.CheckPassword(user.Password, body.Password) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Email ou mot de passe invalide"})
		}

		return c.JSON(fiber.Map{"token": signToken(cfg, user.ID)})
	}
}

func me(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(uint)
		var user models.User
		if err := db.First(&user, userID).Error; err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Utilisateur introuvable"})
		}
		return c.JSON(user)
	}
}

// génération JWT, 24h de validité
func signToken(cfg config.Config, userID uint) string {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(24 * time.Hour).Unix(),
	})
	t, _ := token.SignedString([]byte(cfg.JWTSecret))
	return t
}
