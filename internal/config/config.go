package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Database DatabaseConfig
	App      AppConfig
	Recon    ReconConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port        int
	Env         string
	LogLevel    string
	MaxUploadMB int
}

// ReconConfig holds reconciliation pipeline tunables.
type ReconConfig struct {
	GracePeriodMinutes int
	WeekendDays        []time.Weekday
	DefaultClockIn     string // HH:MM
	DefaultClockOut    string // HH:MM
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using environment variables")
	}

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "attendance_recon"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	maxUploadMB, err := strconv.Atoi(getEnv("MAX_UPLOAD_MB", "32"))
	if err != nil {
		return nil, fmt.Errorf("invalid MAX_UPLOAD_MB: %w", err)
	}

	config.App = AppConfig{
		Port:        appPort,
		Env:         getEnv("APP_ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		MaxUploadMB: maxUploadMB,
	}

	// Reconciliation configuration
	grace, err := strconv.Atoi(getEnv("GRACE_PERIOD_MINUTES", "15"))
	if err != nil {
		return nil, fmt.Errorf("invalid GRACE_PERIOD_MINUTES: %w", err)
	}

	weekendDays, err := parseWeekendDays(getEnv("WEEKEND_DAYS", "5,6"))
	if err != nil {
		return nil, err
	}

	config.Recon = ReconConfig{
		GracePeriodMinutes: grace,
		WeekendDays:        weekendDays,
		DefaultClockIn:     getEnv("DEFAULT_CLOCK_IN", "10:00"),
		DefaultClockOut:    getEnv("DEFAULT_CLOCK_OUT", "19:00"),
	}

	return config, nil
}

func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User, c.Database.Password,
		c.Database.Host, c.Database.Port,
		c.Database.Name, c.Database.SSLMode,
	)
}

// parseWeekendDays parses a comma list of ISO weekday numbers (1=Monday ...
// 7=Sunday) into time.Weekday values. The default "5,6" is Friday/Saturday.
func parseWeekendDays(value string) ([]time.Weekday, error) {
	var days []time.Weekday
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil || n < 1 || n > 7 {
			return nil, fmt.Errorf("invalid WEEKEND_DAYS entry %q", part)
		}
		days = append(days, time.Weekday(n%7))
	}
	return days, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
