// Command validate performs integrity checks across the generated record
// fixtures: the raw UTM records and the transformed latitude/longitude
// output. It verifies record counts, ordering, pass-through fidelity, and
// transformation correctness by re-running the actual domain transform.
//
// Usage:
//
//	go run ./cmd/validate \
//	  -raw data/fixtures/utm_records_raw.json \
//	  -transformed data/fixtures/utm_records_transformed.json
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"math"
	"os"
	"strconv"

	"github.com/couchcryptid/utm-transform-service/internal/domain"
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
	rawPath := flag.String("raw", "", "path to the raw record fixture")
	transformedPath := flag.String("transformed", "", "path to the transformed fixture")
	flag.Parse()

	if *rawPath == "" || *transformedPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	os.Exit(run(*rawPath, *transformedPath))
}

func run(rawPath, transformedPath string) int {
	raw, err := loadRecords(rawPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "loading raw fixture: %v\n", err)
		return 1
	}
	transformed, err := loadRecords(transformedPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "loading transformed fixture: %v\n", err)
		return 1
	}

	fmt.Printf("raw records: %d, transformed records: %d\n\n", len(raw), len(transformed))

	phases := []*phase{
		validateParity(raw, transformed),
		validateTransformation(raw, transformed),
		validateCoordinateRanges(transformed),
	}

	failed := 0
	for _, p := range phases {
		status := "PASS"
		if !p.passed() {
			status = "FAIL"
			failed++
		}
		fmt.Printf("[%s] %s\n", status, p.name)
		for _, e := range p.errors {
			fmt.Printf("       %s\n", e)
		}
	}

	if failed > 0 {
		fmt.Printf("\n%d of %d phases failed\n", failed, len(phases))
		return 1
	}
	fmt.Println("\nall phases passed")
	return 0
}

func loadRecords(path string) ([]domain.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var records []domain.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return records, nil
}

// validateParity checks the fixtures are the same length and that records
// line up one to one in order.
func validateParity(raw, transformed []domain.Record) *phase {
	p := &phase{name: "fixture parity"}

	if len(raw) != len(transformed) {
		p.errorf("count mismatch: raw=%d transformed=%d", len(raw), len(transformed))
		return p
	}

	for i := range raw {
		rawID, okR := scalarField(raw[i], "id")
		outID, okT := scalarField(transformed[i], "id")
		if !okR || !okT {
			p.errorf("record %d: missing id field", i)
			continue
		}
		if rawID != outID {
			p.errorf("record %d: id mismatch raw=%q transformed=%q", i, rawID, outID)
		}
	}
	return p
}

// validateTransformation re-runs the domain transform on each raw record and
// requires bit-identical agreement with the transformed fixture.
func validateTransformation(raw, transformed []domain.Record) *phase {
	p := &phase{name: "transformation correctness"}
	fields := defaultFields()

	n := min(len(raw), len(transformed))
	for i := 0; i < n; i++ {
		expected, skip, err := domain.TransformRecord(raw[i], fields, nil)
		if err != nil {
			p.errorf("record %d: unexpected fatal error: %v", i, err)
			continue
		}

		want, wErr := json.Marshal(expected)
		got, gErr := json.Marshal(transformed[i])
		if wErr != nil || gErr != nil {
			p.errorf("record %d: marshal failure", i)
			continue
		}
		if string(want) != string(got) {
			p.errorf("record %d (skip=%v): mismatch\n         want %s\n         got  %s",
				i, skip != nil, want, got)
		}
	}
	return p
}

// validateCoordinateRanges checks every transformed latitude parses and lies
// within [-90, 90], and that longitude is a finite number.
func validateCoordinateRanges(transformed []domain.Record) *phase {
	p := &phase{name: "coordinate ranges"}

	for i, rec := range transformed {
		latText, ok := scalarField(rec, "lat")
		if !ok {
			// Skipped records legitimately have no coordinates.
			continue
		}
		lat, err := strconv.ParseFloat(latText, 64)
		if err != nil {
			p.errorf("record %d: lat %q does not parse: %v", i, latText, err)
			continue
		}
		if lat < -90 || lat > 90 {
			p.errorf("record %d: lat %v out of range", i, lat)
		}

		lonText, ok := scalarField(rec, "long")
		if !ok {
			p.errorf("record %d: lat present but long missing", i)
			continue
		}
		lon, err := strconv.ParseFloat(lonText, 64)
		if err != nil {
			p.errorf("record %d: long %q does not parse: %v", i, lonText, err)
			continue
		}
		if math.IsInf(lon, 0) || math.IsNaN(lon) {
			p.errorf("record %d: long %v not finite", i, lon)
		}
	}
	return p
}

func scalarField(rec domain.Record, name string) (string, bool) {
	v, ok := rec.Get(name)
	if !ok {
		return "", false
	}
	return v.ScalarString(), true
}

func defaultFields() domain.FieldConfig {
	return domain.FieldConfig{
		Easting:           "easting",
		Northing:          "northing",
		Zone:              "zone",
		Hemisphere:        "hemi",
		ZoneDefault:       "32",
		HemisphereDefault: "0",
		NorthernValue:     "0",
		Latitude:          "lat",
		Longitude:         "long",
	}
}
