package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string   `mapstructure:"APP_PORT"`
	Env               string   `mapstructure:"ENV"`
	LogLevel          string   `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int      `mapstructure:"MAX_REQUESTS_PER_MIN"`
	CORSOrigins       []string `mapstructure:"CORS_ORIGINS"`

	// Remote booking API.
	APIBaseURL             string        `mapstructure:"API_BASE_URL"`
	APITimeout             time.Duration `mapstructure:"API_TIMEOUT"`
	APIRequestsPerSec      float64       `mapstructure:"API_REQUESTS_PER_SEC"`
	ReviewFetchConcurrency int           `mapstructure:"REVIEW_FETCH_CONCURRENCY"`

	// Firebase identity provider.
	FirebaseAPIKey          string `mapstructure:"FIREBASE_API_KEY"`
	FirebaseCredentialsFile string `mapstructure:"FIREBASE_CREDENTIALS_FILE"`

	// Google federated sign-in.
	GoogleClientID     string `mapstructure:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `mapstructure:"GOOGLE_CLIENT_SECRET"`
	GoogleRedirectPort int    `mapstructure:"GOOGLE_REDIRECT_PORT"`

	// Authorization token persistence.
	TokenStore    string `mapstructure:"TOKEN_STORE"` // "file" or "redis"
	TokenFile     string `mapstructure:"TOKEN_FILE"`
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisTokenDB  int    `mapstructure:"REDIS_TOKEN_DB"`

	CarouselInterval time.Duration `mapstructure:"CAROUSEL_INTERVAL"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AutomaticEnv()

	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 200)
	viper.SetDefault("CORS_ORIGINS", []string{"http://localhost:5173"})
	viper.SetDefault("API_BASE_URL", "https://hotel-booking-platform-server-pi.vercel.app")
	viper.SetDefault("API_TIMEOUT", 15*time.Second)
	viper.SetDefault("API_REQUESTS_PER_SEC", 20)
	viper.SetDefault("REVIEW_FETCH_CONCURRENCY", 8)
	viper.SetDefault("FIREBASE_API_KEY", "")
	viper.SetDefault("FIREBASE_CREDENTIALS_FILE", "")
	viper.SetDefault("GOOGLE_CLIENT_ID", "")
	viper.SetDefault("GOOGLE_CLIENT_SECRET", "")
	viper.SetDefault("GOOGLE_REDIRECT_PORT", 8765)
	viper.SetDefault("TOKEN_STORE", "file")
	viper.SetDefault("TOKEN_FILE", "")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_TOKEN_DB", 1)
	viper.SetDefault("CAROUSEL_INTERVAL", 6*time.Second)

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
