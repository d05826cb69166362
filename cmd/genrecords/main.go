// Command genrecords generates deterministic UTM record fixtures for test
// suites: a raw JSON array of survey-style records and the transformed
// output produced by the actual domain package, so fixtures always match
// real service behavior.
//
// Usage:
//
//	go run ./cmd/genrecords \
//	  -count 500 \
//	  -raw-out data/fixtures/utm_records_raw.json \
//	  -transformed-out data/fixtures/utm_records_transformed.json
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"

	"github.com/couchcryptid/utm-transform-service/internal/domain"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	count := flag.Int("count", 500, "number of records to generate")
	seed := flag.Int64("seed", 20260426, "random seed for reproducible fixtures")
	rawOut := flag.String("raw-out", "", "output path for the raw record fixture")
	transformedOut := flag.String("transformed-out", "", "output path for the transformed fixture")
	flag.Parse()

	if *rawOut == "" || *transformedOut == "" {
		flag.Usage()
		return fmt.Errorf("missing required flags: -raw-out, -transformed-out")
	}

	fields := defaultFields()
	rng := rand.New(rand.NewSource(*seed))

	raw := make([]domain.Record, 0, *count)
	transformed := make([]domain.Record, 0, *count)

	var skipped int
	for i := 0; i < *count; i++ {
		rec := generateRecord(rng, i)
		raw = append(raw, rec)

		out, skip, err := domain.TransformRecord(rec, fields, nil)
		if err != nil {
			return fmt.Errorf("record %d: %w", i, err)
		}
		if skip != nil {
			skipped++
		}
		transformed = append(transformed, out)
	}

	log.Printf("generated %d records (%d pass-through skips)", *count, skipped)

	if err := writeJSON(*rawOut, raw); err != nil {
		return fmt.Errorf("writing raw fixture: %w", err)
	}
	log.Printf("wrote raw fixture: %s", *rawOut)

	if err := writeJSON(*transformedOut, transformed); err != nil {
		return fmt.Errorf("writing transformed fixture: %w", err)
	}
	log.Printf("wrote transformed fixture: %s", *transformedOut)

	return nil
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

// generateRecord produces a survey-style record. Roughly one record in
// twenty exercises a skip path (missing or null easting), and one in ten
// omits the zone so the default applies.
func generateRecord(rng *rand.Rand, i int) domain.Record {
	var rec domain.Record
	rec.Set("id", domain.StringValue(fmt.Sprintf("rec-%04d", i)))

	switch rng.Intn(20) {
	case 0:
		rec.Set("easting", domain.NullValue())
	case 1:
		// easting omitted entirely
	default:
		easting := 100000.0 + rng.Float64()*800000.0
		rec.Set("easting", domain.StringValue(formatCoord(easting)))
	}

	northern := rng.Intn(2) == 0
	northing := rng.Float64() * 9000000.0
	if !northern {
		northing = 10000000.0 - northing
	}
	rec.Set("northing", domain.StringValue(formatCoord(northing)))

	if rng.Intn(10) != 0 {
		rec.Set("zone", domain.StringValue(strconv.Itoa(1+rng.Intn(60))))
	}

	hemi := "1"
	if northern {
		hemi = "0"
	}
	rec.Set("hemi", domain.StringValue(hemi))

	return rec
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create: %w", err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return f.Sync()
}
