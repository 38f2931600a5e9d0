package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAPIKey = "test-api-key"

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "London", cfg.City)
	assert.Empty(t, cfg.OpenWeatherAPIKey)
	assert.Equal(t, "http://api.openweathermap.org/data/2.5/weather", cfg.OpenWeatherURL)
	assert.Equal(t, 10*time.Second, cfg.OpenWeatherTimeout)
	assert.Equal(t, "/tmp/weather_data_raw.json", cfg.RawDataPath)
	assert.Equal(t, "/tmp/transformed_weather_data.csv", cfg.CSVDataPath)
	assert.Empty(t, cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.False(t, cfg.KafkaEnabled)
	assert.Equal(t, []string{"localhost:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "weather-observations", cfg.KafkaTopic)
	assert.Empty(t, cfg.SQLitePath)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("WEATHER_CITY", "Paris")
	t.Setenv("OPENWEATHER_API_KEY", testAPIKey)
	t.Setenv("OPENWEATHER_BASE_URL", "http://localhost:9999/weather")
	t.Setenv("OPENWEATHER_TIMEOUT", "3s")
	t.Setenv("RAW_DATA_PATH", "/data/raw.json")
	t.Setenv("CSV_DATA_PATH", "/data/out.csv")
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("KAFKA_ENABLED", "true")
	t.Setenv("KAFKA_BROKERS", "broker1:9092,broker2:9092")
	t.Setenv("KAFKA_TOPIC", "custom-topic")
	t.Setenv("SQLITE_PATH", "/data/weather.db")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "Paris", cfg.City)
	assert.Equal(t, testAPIKey, cfg.OpenWeatherAPIKey)
	assert.Equal(t, "http://localhost:9999/weather", cfg.OpenWeatherURL)
	assert.Equal(t, 3*time.Second, cfg.OpenWeatherTimeout)
	assert.Equal(t, "/data/raw.json", cfg.RawDataPath)
	assert.Equal(t, "/data/out.csv", cfg.CSVDataPath)
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.True(t, cfg.KafkaEnabled)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "custom-topic", cfg.KafkaTopic)
	assert.Equal(t, "/data/weather.db", cfg.SQLitePath)
}

func TestLoad_InvalidShutdownTimeout(t *testing.T) {
	t.Setenv("SHUTDOWN_TIMEOUT", "not-a-duration")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHUTDOWN_TIMEOUT")
}

func TestLoad_InvalidOpenWeatherTimeout(t *testing.T) {
	t.Setenv("OPENWEATHER_TIMEOUT", "bad")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OPENWEATHER_TIMEOUT")
}

func TestLoad_NegativeOpenWeatherTimeout(t *testing.T) {
	t.Setenv("OPENWEATHER_TIMEOUT", "-1s")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OPENWEATHER_TIMEOUT")
}

func TestLoad_SameHandoffPaths(t *testing.T) {
	t.Setenv("RAW_DATA_PATH", "/tmp/weather")
	t.Setenv("CSV_DATA_PATH", "/tmp/weather")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CSV_DATA_PATH")
}

func TestLoad_KafkaOnlyWhenExplicit(t *testing.T) {
	t.Setenv("KAFKA_ENABLED", "yes")
	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.KafkaEnabled)
}
