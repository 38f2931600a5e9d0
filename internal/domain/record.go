package domain

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"
)

// ErrInvalidCSV is returned when a transformed CSV file does not match the record layout.
var ErrInvalidCSV = errors.New("invalid weather csv")

// CSVHeader is the fixed column order of the transformed file.
var CSVHeader = []string{"city", "temperature", "humidity", "pressure", "weather"}

// ParseRawWeather decodes an OpenWeather current-weather response body.
func ParseRawWeather(data []byte) (RawWeather, error) {
	var raw RawWeather
	if err := json.Unmarshal(data, &raw); err != nil {
		return RawWeather{}, fmt.Errorf("parse raw weather: %w", err)
	}
	return raw, nil
}

// NewWeatherRecord maps the raw response onto the flat record. Every field the
// record needs must be present; the first weather condition supplies the
// description.
func NewWeatherRecord(raw RawWeather) (WeatherRecord, error) {
	switch {
	case raw.Name == nil:
		return WeatherRecord{}, fmt.Errorf("%w: name", ErrMissingField)
	case raw.Main == nil:
		return WeatherRecord{}, fmt.Errorf("%w: main", ErrMissingField)
	case raw.Main.Temp == nil:
		return WeatherRecord{}, fmt.Errorf("%w: main.temp", ErrMissingField)
	case raw.Main.Humidity == nil:
		return WeatherRecord{}, fmt.Errorf("%w: main.humidity", ErrMissingField)
	case raw.Main.Pressure == nil:
		return WeatherRecord{}, fmt.Errorf("%w: main.pressure", ErrMissingField)
	case len(raw.Weather) == 0:
		return WeatherRecord{}, fmt.Errorf("%w: weather[0]", ErrMissingField)
	}

	return WeatherRecord{
		City:        *raw.Name,
		Temperature: *raw.Main.Temp,
		Humidity:    *raw.Main.Humidity,
		Pressure:    *raw.Main.Pressure,
		Weather:     raw.Weather[0].Description,
	}, nil
}

// TransformRaw parses a raw response body and maps it onto a record.
func TransformRaw(data []byte) (WeatherRecord, error) {
	raw, err := ParseRawWeather(data)
	if err != nil {
		return WeatherRecord{}, err
	}
	return NewWeatherRecord(raw)
}

// CSVRow returns the record's fields in CSVHeader order.
func (r WeatherRecord) CSVRow() []string {
	return []string{
		r.City,
		r.Temperature.String(),
		r.Humidity.String(),
		r.Pressure.String(),
		r.Weather,
	}
}

// WriteCSV writes the header and the record's single row to w.
func (r WeatherRecord) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	if err := cw.Write(r.CSVRow()); err != nil {
		return fmt.Errorf("write csv row: %w", err)
	}
	cw.Flush()
	return cw.Error()
}

// MarshalCSV renders the record as CSV text.
func (r WeatherRecord) MarshalCSV() ([]byte, error) {
	var buf bytes.Buffer
	if err := r.WriteCSV(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ParseCSV reads a transformed file back into a record. The input must hold
// the exact header and one data row with numeric measurement columns.
func ParseCSV(r io.Reader) (WeatherRecord, error) {
	rows, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return WeatherRecord{}, fmt.Errorf("%w: %w", ErrInvalidCSV, err)
	}
	if len(rows) != 2 {
		return WeatherRecord{}, fmt.Errorf("%w: expected header and 1 row, got %d lines", ErrInvalidCSV, len(rows))
	}
	if !slices.Equal(rows[0], CSVHeader) {
		return WeatherRecord{}, fmt.Errorf("%w: unexpected header %q", ErrInvalidCSV, rows[0])
	}

	row := rows[1]
	for i := 1; i <= 3; i++ {
		if !isJSONNumber(row[i]) {
			return WeatherRecord{}, fmt.Errorf("%w: column %s: %q is not a number", ErrInvalidCSV, CSVHeader[i], row[i])
		}
	}

	return WeatherRecord{
		City:        row[0],
		Temperature: json.Number(row[1]),
		Humidity:    json.Number(row[2]),
		Pressure:    json.Number(row[3]),
		Weather:     row[4],
	}, nil
}

// isJSONNumber reports whether s is a bare JSON number literal, so the record
// can be re-encoded as JSON. NaN, Inf and hex floats are rejected.
func isJSONNumber(s string) bool {
	if s == "" || (s[0] != '-' && !isDigit(s[0])) || !isDigit(s[len(s)-1]) {
		return false
	}
	return json.Valid([]byte(s))
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }
