package config

import (
	"log"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	DatabaseURL       string `mapstructure:"DATABASE_URL"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`
	AdminToken        string `mapstructure:"ADMIN_TOKEN"`

	// Redis configuration.
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB  int    `mapstructure:"REDIS_CACHE_DB"`
	RedisGateDB   int    `mapstructure:"REDIS_GATE_DB"`
	RedisQueueDB  int    `mapstructure:"REDIS_QUEUE_DB"`

	// Business window for bookable rooms.
	BusinessOpen       string `mapstructure:"BUSINESS_OPEN"`
	BusinessClose      string `mapstructure:"BUSINESS_CLOSE"`
	SlotGranularityMin int    `mapstructure:"SLOT_GRANULARITY_MIN"`
	BookingDaysAhead   int    `mapstructure:"BOOKING_DAYS_AHEAD"`
	SlotDisplayMax     int    `mapstructure:"SLOT_DISPLAY_MAX"`
	Timezone           string `mapstructure:"TIMEZONE"`

	// CRM member gate.
	CRMBaseURL      string `mapstructure:"CRM_BASE_URL"`
	CRMTimeoutSec   int    `mapstructure:"CRM_TIMEOUT_SEC"`
	GateCacheTTLMin int    `mapstructure:"GATE_CACHE_TTL_MIN"`

	// Google Calendar mirror.
	GoogleCredentialsFile string `mapstructure:"GOOGLE_CREDENTIALS_FILE"`
	CalendarTimeoutSec    int    `mapstructure:"CALENDAR_TIMEOUT_SEC"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_CACHE_DB", 0)
	viper.SetDefault("REDIS_GATE_DB", 1)
	viper.SetDefault("REDIS_QUEUE_DB", 2)
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("BUSINESS_OPEN", "09:00")
	viper.SetDefault("BUSINESS_CLOSE", "18:00")
	viper.SetDefault("SLOT_GRANULARITY_MIN", 30)
	viper.SetDefault("BOOKING_DAYS_AHEAD", 7)
	viper.SetDefault("SLOT_DISPLAY_MAX", 12)
	viper.SetDefault("TIMEZONE", "Asia/Tokyo")
	viper.SetDefault("CRM_BASE_URL", "http://localhost:9090")
	viper.SetDefault("CRM_TIMEOUT_SEC", 5)
	viper.SetDefault("GATE_CACHE_TTL_MIN", 10)
	viper.SetDefault("GOOGLE_CREDENTIALS_FILE", "")
	viper.SetDefault("CALENDAR_TIMEOUT_SEC", 5)

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
