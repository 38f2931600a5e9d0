package kafka

import (
	"testing"
	"time"

	"github.com/couchcryptid/weather-data-etl/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSerializeToMessage(t *testing.T) {
	now := time.Date(2024, 4, 26, 15, 10, 0, 0, time.UTC)
	obs := domain.Observation{
		WeatherRecord: domain.WeatherRecord{
			City:        "London",
			Temperature: "282.55",
			Humidity:    "100",
			Pressure:    "1023",
			Weather:     "light rain",
		},
		RunID:    "run-1",
		LoadedAt: now,
	}

	msg, err := serializeToMessage(obs)
	require.NoError(t, err)

	assert.Equal(t, []byte("London"), msg.Key)
	assert.JSONEq(t, `{"city":"London","temperature":282.55,"humidity":100,"pressure":1023,"weather":"light rain","run_id":"run-1","loaded_at":"2024-04-26T15:10:00Z"}`, string(msg.Value))
	require.Len(t, msg.Headers, 2)
	assert.Equal(t, "run_id", msg.Headers[0].Key)
	assert.Equal(t, []byte("run-1"), msg.Headers[0].Value)
	assert.Equal(t, "loaded_at", msg.Headers[1].Key)
	assert.Equal(t, []byte(now.Format(time.RFC3339)), msg.Headers[1].Value)
}

func TestSerializeToMessage_InvalidNumber(t *testing.T) {
	obs := domain.Observation{WeatherRecord: domain.WeatherRecord{City: "X", Temperature: "warm"}}

	_, err := serializeToMessage(obs)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "serialize observation")
}
