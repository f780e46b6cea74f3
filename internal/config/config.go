package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds application configuration, loaded once at startup and passed
// explicitly to every component that needs it.
type Config struct {
	Port          string
	Env           string
	PublicBaseURL string
	LogLevel      string

	DatabaseURL string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// WhatsApp Business Cloud API
	WhatsAppPhoneNumberID string
	WhatsAppAccessToken   string
	WhatsAppVerifyToken   string
	WhatsAppBaseURL       string
	WhatsAppBookingReply  string

	// PIX provider
	PixAPIKey       string
	PixKey          string
	PixBaseURL      string
	PixMerchantName string
	PixMerchantCity string
	PixChargeTTL    time.Duration

	// Booking
	SubmitTimeout  time.Duration
	OpenHour       int
	CloseHour      int
	SlotInterval   int
	SlotCacheTTL   time.Duration
	ProcessedTTL   time.Duration
	ReferralMaxTry int
	CORSOrigins    string
}

// Load reads configuration from environment variables.
func Load() *Config {
	return &Config{
		Port:          getEnv("PORT", "8080"),
		Env:           getEnv("ENV", "development"),
		PublicBaseURL: getEnv("PUBLIC_BASE_URL", "http://localhost:8080"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),

		DatabaseURL: getEnv("DATABASE_URL", ""),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),

		WhatsAppPhoneNumberID: getEnv("WHATSAPP_PHONE_NUMBER_ID", ""),
		WhatsAppAccessToken:   getEnv("WHATSAPP_ACCESS_TOKEN", ""),
		WhatsAppVerifyToken:   getEnv("WHATSAPP_VERIFY_TOKEN", "barberia_pro_webhook"),
		WhatsAppBaseURL:       getEnv("WHATSAPP_BASE_URL", "https://graph.facebook.com/v18.0"),
		WhatsAppBookingReply:  getEnv("WHATSAPP_BOOKING_REPLY", "Olá! Para agendar, acesse nosso site: https://barberia-pro.com/booking"),

		PixAPIKey:       getEnv("PIX_API_KEY", ""),
		PixKey:          getEnv("PIX_KEY", "pagamentos@barberia-pro.com"),
		PixBaseURL:      getEnv("PIX_BASE_URL", "https://api.pix-provider.com/v1"),
		PixMerchantName: getEnv("PIX_MERCHANT_NAME", "BARBERIA PRO LTDA"),
		PixMerchantCity: getEnv("PIX_MERCHANT_CITY", "SAO PAULO"),
		PixChargeTTL:    getEnvAsDuration("PIX_CHARGE_TTL", 30*time.Minute),

		SubmitTimeout:  getEnvAsDuration("BOOKING_SUBMIT_TIMEOUT", 10*time.Second),
		OpenHour:       getEnvAsInt("BOOKING_OPEN_HOUR", 9),
		CloseHour:      getEnvAsInt("BOOKING_CLOSE_HOUR", 18),
		SlotInterval:   getEnvAsInt("BOOKING_SLOT_INTERVAL_MINUTES", 30),
		SlotCacheTTL:   getEnvAsDuration("BOOKING_SLOT_CACHE_TTL", 30*time.Second),
		ProcessedTTL:   getEnvAsDuration("WEBHOOK_PROCESSED_TTL", 72*time.Hour),
		ReferralMaxTry: getEnvAsInt("REFERRAL_MAX_ATTEMPTS", 5),
		CORSOrigins:    getEnv("CORS_ALLOWED_ORIGINS", ""),
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}
