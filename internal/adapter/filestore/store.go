package filestore

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/couchcryptid/weather-data-etl/internal/domain"
)

// Store reads and writes the hand-off files shared by the tasks.
// It implements pipeline.HandoffStore.
type Store struct {
	rawPath string
	csvPath string
}

// New creates a Store for the given raw JSON and CSV paths.
func New(rawPath, csvPath string) *Store {
	return &Store{rawPath: rawPath, csvPath: csvPath}
}

// RawPath returns the raw JSON hand-off path.
func (s *Store) RawPath() string { return s.rawPath }

// CSVPath returns the CSV hand-off path.
func (s *Store) CSVPath() string { return s.csvPath }

// WriteRaw stores the API response body unchanged.
func (s *Store) WriteRaw(data []byte) error {
	return writeAtomic(s.rawPath, data)
}

// ReadRaw returns the stored API response body.
func (s *Store) ReadRaw() ([]byte, error) {
	data, err := os.ReadFile(s.rawPath)
	if err != nil {
		return nil, fmt.Errorf("read raw weather: %w", err)
	}
	return data, nil
}

// WriteCSV writes the record as a header plus one data row.
func (s *Store) WriteCSV(rec domain.WeatherRecord) error {
	var buf bytes.Buffer
	if err := rec.WriteCSV(&buf); err != nil {
		return err
	}
	return writeAtomic(s.csvPath, buf.Bytes())
}

// ReadCSV returns the CSV file contents as text.
func (s *Store) ReadCSV() (string, error) {
	data, err := os.ReadFile(s.csvPath)
	if err != nil {
		return "", fmt.Errorf("read weather csv: %w", err)
	}
	return string(data), nil
}

// writeAtomic writes data to a temp file in the target directory and renames
// it into place, so readers see either the old file or the complete new one.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) //nolint:errcheck // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("chmod %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("rename into %s: %w", path, err)
	}
	return nil
}
