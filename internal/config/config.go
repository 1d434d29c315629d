package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

const (
	CatalogBackendSQL           = "sql"
	CatalogBackendElasticsearch = "elasticsearch"
)

type Config struct {
	ServiceName string
	ServerPort  int
	LogLevel    string

	DBDriver    string
	DatabaseURL string
	Seed        bool

	CatalogBackend string
	ESURL          string
	ESUser         string
	ESPassword     string
	ESIndex        string

	KafkaBrokers []string
	KafkaTopic   string

	SessionSecret []byte
	SessionTTL    time.Duration

	DeliveryFee       float64
	FreeDeliveryAbove float64

	PlacementDelay time.Duration
	DeliveryETA    time.Duration

	DeliverySimulation   bool
	DeliveryStepInterval time.Duration
}

// Load reads .env from the working directory when present and falls back to
// the process environment.
func Load() Config {
	if err := godotenv.Load(".env"); err != nil && !os.IsNotExist(err) {
		log.Printf("notice: .env not loaded: %v", err)
	}

	return Config{
		ServiceName: EnvDefault("SERVICE_NAME", "storefront"),
		ServerPort:  EnvIntDefault("SERVER_PORT", 8080),
		LogLevel:    EnvDefault("LOG_LEVEL", "info"),

		DBDriver:    EnvDefault("DB_DRIVER", "sqlite"),
		DatabaseURL: EnvDefault("DATABASE_URL", "file:storefront.db?cache=shared"),
		Seed:        EnvBoolDefault("SEED", true),

		CatalogBackend: EnvDefault("CATALOG_BACKEND", CatalogBackendSQL),
		ESURL:          os.Getenv("ES_URL"),
		ESUser:         os.Getenv("ES_USER"),
		ESPassword:     os.Getenv("ES_PASSWORD"),
		ESIndex:        EnvDefault("ES_INDEX", "products"),

		KafkaBrokers: CSV(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:   EnvDefault("KAFKA_TOPIC", "order_events"),

		SessionSecret: []byte(os.Getenv("SESSION_SECRET")),
		SessionTTL:    EnvDurationDefault("SESSION_TTL", 24*time.Hour),

		DeliveryFee:       EnvFloatDefault("DELIVERY_FEE", 40),
		FreeDeliveryAbove: EnvFloatDefault("FREE_DELIVERY_ABOVE", 500),

		PlacementDelay: EnvDurationDefault("PLACEMENT_DELAY", 2*time.Second),
		DeliveryETA:    EnvDurationDefault("DELIVERY_ETA", 5*24*time.Hour),

		DeliverySimulation:   EnvBoolDefault("DELIVERY_SIMULATION", false),
		DeliveryStepInterval: EnvDurationDefault("DELIVERY_STEP_INTERVAL", 30*time.Second),
	}
}

// MustLoad is Load plus the checks main needs before serving.
func MustLoad() Config {
	cfg := Load()

	MustNonEmptyBytes(cfg.SessionSecret, "SESSION_SECRET")
	MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")
	if cfg.CatalogBackend == CatalogBackendElasticsearch {
		MustNonEmpty(cfg.ESURL, "ES_URL")
	}

	return cfg
}
