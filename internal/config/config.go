// Package config loads application configuration from the environment,
// with an optional .env file for local development.
package config

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration
type Config struct {
	// Server
	Port string
	Env  string

	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// JWT
	JWTSecret          string
	AccessTokenExpiry  time.Duration
	RefreshTokenExpiry time.Duration
	// RememberMeExpiry is the refresh token lifetime when the client asks to
	// stay signed in.
	RememberMeExpiry time.Duration

	// Rate limit for the auth endpoints, ulule/limiter format ("10-M").
	AuthRateLimit string

	// PasswordResetExpiry bounds how long a reset request stays usable.
	PasswordResetExpiry time.Duration

	// CORSAllowOrigins lists origins allowed to call the API.
	CORSAllowOrigins []string
}

var appConfig *Config

// Load loads configuration from environment variables
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	viper.SetDefault("PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_USER", "chapterfund")
	viper.SetDefault("DB_PASSWORD", "chapterfund")
	viper.SetDefault("DB_NAME", "chapterfund")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("JWT_SECRET", "fallback-secret-key-for-dev-only")
	viper.SetDefault("ACCESS_TOKEN_EXPIRY", "15m")
	viper.SetDefault("REFRESH_TOKEN_EXPIRY", "24h")
	viper.SetDefault("REMEMBER_ME_EXPIRY", "168h")
	viper.SetDefault("AUTH_RATE_LIMIT", "10-M")
	viper.SetDefault("PASSWORD_RESET_EXPIRY", "15m")
	viper.SetDefault("CORS_ALLOW_ORIGINS", []string{"*"})
	viper.AutomaticEnv()

	config := &Config{
		Port: viper.GetString("PORT"),
		Env:  viper.GetString("ENV"),

		DBHost:     viper.GetString("DB_HOST"),
		DBPort:     viper.GetString("DB_PORT"),
		DBUser:     viper.GetString("DB_USER"),
		DBPassword: viper.GetString("DB_PASSWORD"),
		DBName:     viper.GetString("DB_NAME"),
		DBSSLMode:  viper.GetString("DB_SSLMODE"),

		JWTSecret:     viper.GetString("JWT_SECRET"),
		AuthRateLimit: viper.GetString("AUTH_RATE_LIMIT"),

		CORSAllowOrigins: viper.GetStringSlice("CORS_ALLOW_ORIGINS"),
	}

	config.AccessTokenExpiry = parseDuration("ACCESS_TOKEN_EXPIRY", 15*time.Minute)
	config.RefreshTokenExpiry = parseDuration("REFRESH_TOKEN_EXPIRY", 24*time.Hour)
	config.RememberMeExpiry = parseDuration("REMEMBER_ME_EXPIRY", 7*24*time.Hour)
	config.PasswordResetExpiry = parseDuration("PASSWORD_RESET_EXPIRY", 15*time.Minute)

	if config.Env == "production" && config.JWTSecret == "fallback-secret-key-for-dev-only" {
		log.Println("Warning: JWT_SECRET not set, using the insecure development default")
	}

	appConfig = config
	return config, nil
}

// Get returns the application configuration
func Get() *Config {
	if appConfig == nil {
		var err error
		appConfig, err = Load()
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
	}
	return appConfig
}

// DSN returns the PostgreSQL connection string for GORM.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode)
}

// MigrateURL returns the postgres:// URL used by golang-migrate.
func (c *Config) MigrateURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode)
}

func parseDuration(key string, fallback time.Duration) time.Duration {
	raw := viper.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil {
		log.Printf("Warning: invalid %s value '%s', falling back to %s\n", key, raw, fallback)
		return fallback
	}
	return d
}
