// Command validate checks that a transformed weather CSV is exactly the
// mapping of a raw OpenWeather response: fixed header, a single data row,
// fields in order, numbers written as the source JSON wrote them.
//
// Usage:
//
//	go run ./cmd/validate \
//	  -raw-json /tmp/weather_data_raw.json \
//	  -csv /tmp/transformed_weather_data.csv
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"os"
	"slices"

	"github.com/couchcryptid/weather-data-etl/internal/domain"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	rawJSON := flag.String("raw-json", "", "path to the raw API response written by extract")
	csvPath := flag.String("csv", "", "path to the CSV written by transform")
	flag.Parse()

	if *rawJSON == "" || *csvPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(*rawJSON, *csvPath); code != 0 {
		os.Exit(code)
	}
}

func run(rawJSONPath, csvPath string) int {
	fmt.Println("=== Weather CSV Validation ===")
	fmt.Println()

	raw, err := os.ReadFile(rawJSONPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load raw JSON: %v\n", err)
		return 1
	}
	rows, err := loadCSV(csvPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load CSV: %v\n", err)
		return 1
	}

	phases := []*phase{
		validateLayout(rows),
		validateMapping(raw, rows),
	}

	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-24s %s\n", p.name, status)
	}

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

func loadCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	return r.ReadAll()
}

// validateLayout checks the header and row count without interpreting values.
func validateLayout(rows [][]string) *phase {
	p := &phase{name: "CSV layout"}
	if len(rows) == 0 {
		p.errorf("file is empty")
		return p
	}
	if !slices.Equal(rows[0], domain.CSVHeader) {
		p.errorf("header = %q, want %q", rows[0], domain.CSVHeader)
	}
	if n := len(rows) - 1; n != 1 {
		p.errorf("data rows = %d, want 1", n)
	}
	for i, row := range rows[1:] {
		if len(row) != len(domain.CSVHeader) {
			p.errorf("line %d: %d fields, want %d", i+2, len(row), len(domain.CSVHeader))
		}
	}
	return p
}

// validateMapping re-derives the record from the raw response and compares it
// column by column with the first data row.
func validateMapping(raw []byte, rows [][]string) *phase {
	p := &phase{name: "Field mapping"}

	want, err := domain.TransformRaw(raw)
	if err != nil {
		p.errorf("raw JSON does not map to a record: %v", err)
		return p
	}
	if len(rows) < 2 {
		p.errorf("no data row to compare")
		return p
	}

	got := rows[1]
	for i, col := range domain.CSVHeader {
		expected := want.CSVRow()[i]
		if i >= len(got) {
			p.errorf("%s: missing, want %q", col, expected)
			continue
		}
		if got[i] != expected {
			p.errorf("%s = %q, want %q", col, got[i], expected)
		}
	}
	return p
}
