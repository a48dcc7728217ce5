package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	GeminiAPIKey          string
	DatabaseURL           string
	HTTPPort              string
	LogLevel              string
	WhatsAppVerifyToken   string
	WhatsAppToken         string
	WhatsAppPhoneNumberID string
}

var AppConfig Config

func LoadConfig() {
	err := godotenv.Load() // Load .env file if it exists
	if err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	AppConfig = Config{
		GeminiAPIKey:          getEnv("GEMINI_API_KEY", ""),
		DatabaseURL:           getEnv("DATABASE_URL", "business_faq.db"),
		HTTPPort:              getEnv("HTTP_PORT", "5000"),
		LogLevel:              getEnv("LOG_LEVEL", "INFO"),
		WhatsAppVerifyToken:   getEnv("WHATSAPP_VERIFY_TOKEN", ""),
		WhatsAppToken:         getEnv("WHATSAPP_TOKEN", ""),
		WhatsAppPhoneNumberID: getEnv("WHATSAPP_PHONE_NUMBER_ID", ""),
	}

	// Missing credentials are warnings, not fatal: the server can still run
	// the verification handshake and fails at first use of the missing key.
	if AppConfig.GeminiAPIKey == "" {
		log.Println("Warning: GEMINI_API_KEY is not set; embedding and completion calls will fail")
	}
	if AppConfig.WhatsAppVerifyToken == "" {
		log.Println("Warning: WHATSAPP_VERIFY_TOKEN is not set; webhook verification will always fail")
	}
	if AppConfig.WhatsAppToken == "" || AppConfig.WhatsAppPhoneNumberID == "" {
		log.Println("Warning: WHATSAPP_TOKEN/WHATSAPP_PHONE_NUMBER_ID not set; outbound replies are disabled")
	}
}

func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
