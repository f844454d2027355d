package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type AppConfig struct {
	LogLevel  string
	LogFormat string

	// Harvesting
	HarvestListPath string
	DataDir         string
	DatabasePath    string
	UserAgent       string
	HTTPTimeout     time.Duration
	RequestInterval time.Duration
	RequestBurst    int

	// Currency conversion
	RatesProvider       string // "ecb" or "file"
	ECBBaseURL          string
	HistoricalRatesPath string
}

var Cfg *AppConfig

func LoadConfig() {
	errEnv := godotenv.Load()
	if errEnv != nil {
		log.Println("Info: No .env file found or error loading .env file. Relying on OS environment variables and defaults. Error (if any):", errEnv)
	} else {
		log.Println(".env file loaded successfully.")
	}

	log.Println("Loading application configuration...")

	ratesProvider := getEnv("RATES_PROVIDER", "ecb")
	if ratesProvider != "ecb" && ratesProvider != "file" {
		log.Printf("WARNING: Unknown RATES_PROVIDER '%s'. Falling back to 'ecb'.", ratesProvider)
		ratesProvider = "ecb"
	}

	Cfg = &AppConfig{
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),

		HarvestListPath: getEnv("HARVEST_LIST_PATH", "harvest_list.csv"),
		DataDir:         getEnv("DATA_DIR", "data"),
		DatabasePath:    getEnv("DATABASE_PATH", "./harvest_archive.db"),
		UserAgent:       getEnv("USER_AGENT", "oaharvest"),
		HTTPTimeout:     getEnvAsDuration("HTTP_TIMEOUT", 60*time.Second),
		RequestInterval: getEnvAsDuration("REQUEST_INTERVAL", 1*time.Second),
		RequestBurst:    getEnvAsInt("REQUEST_BURST", 1),

		RatesProvider:       ratesProvider,
		ECBBaseURL:          getEnv("ECB_BASE_URL", "https://data-api.ecb.europa.eu/service/data/EXR"),
		HistoricalRatesPath: getEnv("HISTORICAL_RATES_PATH", "data/historicalExchangeRate.json"),
	}

	if Cfg.RatesProvider == "file" && Cfg.HistoricalRatesPath == "" {
		log.Fatalf("FATAL: HISTORICAL_RATES_PATH is required when RATES_PROVIDER is 'file', but it's not set in environment or .env file.")
	}

	log.Printf("Configuration loaded: LogLevel=%s, HarvestList=%s, DataDir=%s, RatesProvider=%s",
		Cfg.LogLevel, Cfg.HarvestListPath, Cfg.DataDir, Cfg.RatesProvider)
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	log.Printf("Environment variable %s not set, using default: %s", key, fallback)
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		log.Printf("Integer value for %s not set or empty, using default: %d", key, fallback)
		return fallback
	}
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	log.Printf("Invalid integer value for %s ('%s'), using default: %d", key, valueStr, fallback)
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		log.Printf("Duration value for %s not set or empty, using default: %s", key, fallback.String())
		return fallback
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	log.Printf("Invalid duration value for %s ('%s'), using default: %s", key, valueStr, fallback.String())
	return fallback
}
