package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	LLMAPIKey           string
	LLMAPIURL           string
	LLMModel            string
	LLMProvider         string // "openai" (any OpenAI-compatible endpoint) or "gemini"
	HTTPPort            string
	ConfidenceThreshold float64
	MarketPollSeconds   int
	LogLevel            string
}

var AppConfig Config

func LoadConfig() {
	err := godotenv.Load() // Load .env file if it exists
	if err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	AppConfig = Config{
		LLMAPIKey:           getEnv("LLM_API_KEY", ""),
		LLMAPIURL:           getEnv("LLM_API_URL", ""),
		LLMModel:            getEnv("LLM_MODEL", ""),
		LLMProvider:         getEnv("LLM_PROVIDER", "openai"),
		HTTPPort:            getEnv("PORT", "3001"),
		ConfidenceThreshold: getEnvAsFloat("CONFIDENCE_THRESHOLD", 0.85),
		MarketPollSeconds:   getEnvAsInt("MARKET_POLL_SECONDS", 60),
		LogLevel:            getEnv("LOG_LEVEL", "INFO"),
	}

	if AppConfig.LLMAPIKey == "" {
		log.Fatal("LLM_API_KEY environment variable is required")
	}
}

func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}
