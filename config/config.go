package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config regroupe toute la configuration de CarbonBuddy. Tout vient des
// variables d'environnement, avec des valeurs par défaut de développement.
type Config struct {
	Env            string
	Port           string
	JWTSecret      string
	DatabaseURL    string
	MistralAPIKey  string
	MistralAgentID string
	RabbitMQURL    string

	// Nombre maximum de jours comblés par une passe de backfill.
	BackfillMaxGapDays int
}

// Load charge un éventuel .env puis lit la configuration.
func Load() Config {
	loadEnvIfExists()

	cfg := Config{
		Env:                getEnv("APP_ENV", "development"),
		Port:               getEnv("PORT", "3030"),
		JWTSecret:          getEnv("JWT_SECRET", "changeme-super-secret"),
		DatabaseURL:        getEnv("DATABASE_URL", ""),
		MistralAPIKey:      getEnv("MISTRAL_API_KEY", ""),
		MistralAgentID:     getEnv("MISTRAL_AGENT_ID", ""),
		RabbitMQURL:        getEnv("RABBITMQ_URL", ""),
		BackfillMaxGapDays: getEnvInt("BACKFILL_MAX_GAP_DAYS", 90),
	}

	if cfg.JWTSecret == "" || cfg.JWTSecret == "changeme-super-secret" {
		log.Println("[AVERTISSEMENT] JWT_SECRET n'est pas configuré ou utilise la valeur par défaut. Ne pas utiliser en production.")
	}

	if cfg.MistralAPIKey == "" {
		log.Println("[INFO] MISTRAL_API_KEY n'est pas configuré. L'assistant IA sera désactivé.")
	}

	return cfg
}

func (c Config) HTTPAddr() string {
	return ":" + c.Port
}

func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	raw := getEnv(key, "")
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		log.Printf("[AVERTISSEMENT] %s invalide (%q), valeur par défaut %d utilisée", key, raw, def)
		return def
	}
	return v
}

// loadEnvIfExists charge un fichier .env local s'il existe.
func loadEnvIfExists() {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			log.Println("pas de .env trouvé")
		}
	}
}
