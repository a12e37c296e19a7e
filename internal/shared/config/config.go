package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL string
	Port        string
	Env         string

	OpenAIKey   string
	DetectModel string
	ImageModel  string

	CloudinaryCloudName string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string

	// Request budgets for the two AI-backed operations. They must exceed
	// the provider-imposed timeouts underneath.
	DetectTimeout   time.Duration
	GenerateTimeout time.Duration
}

func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ .env file not found, using system environment variables")
	}

	cfg := &Config{
		DatabaseURL:         os.Getenv("DATABASE_URL"),
		Port:                os.Getenv("PORT"),
		Env:                 os.Getenv("ENV"),
		OpenAIKey:           os.Getenv("OPENAI_API_KEY"),
		DetectModel:         os.Getenv("AI_DETECT_MODEL"),
		ImageModel:          os.Getenv("AI_IMAGE_MODEL"),
		CloudinaryCloudName: os.Getenv("CLOUDINARY_CLOUD_NAME"),
		CloudinaryAPIKey:    os.Getenv("CLOUDINARY_API_KEY"),
		CloudinaryAPISecret: os.Getenv("CLOUDINARY_API_SECRET"),
		DetectTimeout:       envSeconds("DETECT_TIMEOUT_SECONDS", 60),
		GenerateTimeout:     envSeconds("GENERATE_TIMEOUT_SECONDS", 120),
	}

	// Default values
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.Env == "" {
		cfg.Env = "development"
	}
	if cfg.DetectModel == "" {
		cfg.DetectModel = "gpt-4o"
	}
	if cfg.ImageModel == "" {
		cfg.ImageModel = "gpt-image-1"
	}

	return cfg
}

func envSeconds(key string, fallback int) time.Duration {
	if raw := os.Getenv(key); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			return time.Duration(n) * time.Second
		}
		log.Printf("⚠️ invalid %s=%q, using default %ds", key, raw, fallback)
	}
	return time.Duration(fallback) * time.Second
}
