package config

import (
	"errors"
	"os"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Config holds all job settings, populated from environment variables.
type Config struct {
	City               string
	OpenWeatherAPIKey  string
	OpenWeatherURL     string
	OpenWeatherTimeout time.Duration

	// Hand-off files between tasks.
	RawDataPath string
	CSVDataPath string

	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Optional load sinks.
	KafkaEnabled bool
	KafkaBrokers []string
	KafkaTopic   string
	SQLitePath   string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	owTimeout, err := time.ParseDuration(sharedcfg.EnvOrDefault("OPENWEATHER_TIMEOUT", "10s"))
	if err != nil || owTimeout <= 0 {
		return nil, errors.New("invalid OPENWEATHER_TIMEOUT")
	}

	cfg := &Config{
		City:               sharedcfg.EnvOrDefault("WEATHER_CITY", "London"),
		OpenWeatherAPIKey:  os.Getenv("OPENWEATHER_API_KEY"),
		OpenWeatherURL:     sharedcfg.EnvOrDefault("OPENWEATHER_BASE_URL", "http://api.openweathermap.org/data/2.5/weather"),
		OpenWeatherTimeout: owTimeout,
		RawDataPath:        sharedcfg.EnvOrDefault("RAW_DATA_PATH", "/tmp/weather_data_raw.json"),
		CSVDataPath:        sharedcfg.EnvOrDefault("CSV_DATA_PATH", "/tmp/transformed_weather_data.csv"),
		HTTPAddr:           os.Getenv("HTTP_ADDR"),
		LogLevel:           sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:          sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout:    shutdownTimeout,
		KafkaEnabled:       os.Getenv("KAFKA_ENABLED") == "true",
		KafkaBrokers:       sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaTopic:         sharedcfg.EnvOrDefault("KAFKA_TOPIC", "weather-observations"),
		SQLitePath:         os.Getenv("SQLITE_PATH"),
	}

	if cfg.RawDataPath == cfg.CSVDataPath {
		return nil, errors.New("RAW_DATA_PATH and CSV_DATA_PATH must differ")
	}
	if cfg.KafkaEnabled {
		if len(cfg.KafkaBrokers) == 0 {
			return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is empty")
		}
		if cfg.KafkaTopic == "" {
			return nil, errors.New("KAFKA_ENABLED is true but KAFKA_TOPIC is empty")
		}
	}

	return cfg, nil
}
