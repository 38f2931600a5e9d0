package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/weather-data-etl/internal/domain"
	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS weather_observations (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id      TEXT NOT NULL,
	city        TEXT NOT NULL,
	temperature TEXT NOT NULL,
	humidity    TEXT NOT NULL,
	pressure    TEXT NOT NULL,
	weather     TEXT NOT NULL,
	loaded_at   DATETIME NOT NULL
);
`

// Store appends weather observations to a SQLite table.
// It implements pipeline.Sink.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open connects to the database at path and creates the table if missing.
func Open(ctx context.Context, path string, logger *slog.Logger) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create weather_observations: %w", err)
	}
	return &Store{db: db, logger: logger}, nil
}

// Name identifies the sink in logs and metrics.
func (s *Store) Name() string { return "sqlite" }

// Load inserts one observation. Measurements are stored as the text the
// source wrote so nothing is lost to float formatting.
func (s *Store) Load(ctx context.Context, obs domain.Observation) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO weather_observations (run_id, city, temperature, humidity, pressure, weather, loaded_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		obs.RunID, obs.City, obs.Temperature.String(), obs.Humidity.String(), obs.Pressure.String(), obs.Weather, obs.LoadedAt.UTC())
	if err != nil {
		return fmt.Errorf("insert observation: %w", err)
	}
	s.logger.Debug("observation stored", "city", obs.City)
	return nil
}

// ListByCity returns stored observations for city, newest first.
func (s *Store) ListByCity(ctx context.Context, city string) ([]domain.Observation, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, city, temperature, humidity, pressure, weather, loaded_at
		 FROM weather_observations WHERE city = ? ORDER BY loaded_at DESC, id DESC`, city)
	if err != nil {
		return nil, fmt.Errorf("query observations: %w", err)
	}
	defer rows.Close()

	var out []domain.Observation
	for rows.Next() {
		var (
			obs                          domain.Observation
			temperature, humidity, press string
			loadedAt                     time.Time
		)
		if err := rows.Scan(&obs.RunID, &obs.City, &temperature, &humidity, &press, &obs.Weather, &loadedAt); err != nil {
			return nil, fmt.Errorf("scan observation: %w", err)
		}
		obs.Temperature = json.Number(temperature)
		obs.Humidity = json.Number(humidity)
		obs.Pressure = json.Number(press)
		obs.LoadedAt = loadedAt.UTC()
		out = append(out, obs)
	}
	return out, rows.Err()
}

// Close closes the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}
