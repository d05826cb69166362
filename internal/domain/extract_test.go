package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultFields() FieldConfig {
	return FieldConfig{
		Easting:           "easting",
		Northing:          "northing",
		Zone:              "zone",
		Hemisphere:        "hemi",
		ZoneDefault:       "32",
		HemisphereDefault: "0",
		NorthernValue:     "0",
		Latitude:          "lat",
		Longitude:         "long",
		LatLon:            "lat_long",
	}
}

func mustRecord(t *testing.T, raw string) Record {
	t.Helper()
	var rec Record
	require.NoError(t, json.Unmarshal([]byte(raw), &rec))
	return rec
}

func TestExtractCoordinates_Valid(t *testing.T) {
	rec := mustRecord(t, `{"easting":"500000","northing":"0","zone":"32","hemi":"0"}`)

	in, err := ExtractCoordinates(rec, defaultFields())
	require.NoError(t, err)
	assert.Equal(t, CoordinateInput{Easting: 500000, Northing: 0, Zone: 32, Northern: true}, in)
}

func TestExtractCoordinates_NumericValues(t *testing.T) {
	rec := mustRecord(t, `{"easting":597977,"northing":6643315,"zone":32,"hemi":0}`)

	in, err := ExtractCoordinates(rec, defaultFields())
	require.NoError(t, err)
	assert.Equal(t, 597977.0, in.Easting)
	assert.Equal(t, 6643315.0, in.Northing)
	assert.Equal(t, 32, in.Zone)
	assert.True(t, in.Northern)
}

func TestExtractCoordinates_TrimsWhitespace(t *testing.T) {
	rec := mustRecord(t, `{"easting":"  500000 ","northing":" 100 ","zone":" 33 ","hemi":" 0 "}`)

	in, err := ExtractCoordinates(rec, defaultFields())
	require.NoError(t, err)
	assert.Equal(t, 500000.0, in.Easting)
	assert.Equal(t, 33, in.Zone)
	assert.True(t, in.Northern)
}

func TestExtractCoordinates_SkipPolicy(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		field  string
		reason SkipReason
	}{
		{"missing easting", `{"northing":"0"}`, "easting", SkipMissingField},
		{"missing northing", `{"easting":"500000"}`, "northing", SkipMissingField},
		{"multi-value easting", `{"easting":["1","2"],"northing":"0"}`, "easting", SkipAmbiguousValues},
		{"multi-value northing", `{"easting":"500000","northing":[1,2]}`, "northing", SkipAmbiguousValues},
		{"null easting", `{"easting":null,"northing":"0"}`, "easting", SkipNullValue},
		{"empty string easting", `{"easting":"","northing":"0"}`, "easting", SkipNullValue},
		{"zero number easting", `{"easting":0,"northing":"100"}`, "easting", SkipNullValue},
		{"empty sequence easting", `{"easting":[],"northing":"0"}`, "easting", SkipNullValue},
		{"null after unwrap", `{"easting":[null],"northing":"0"}`, "easting", SkipNullValue},
		{"multi-value zone", `{"easting":"500000","northing":"0","zone":["32","33"]}`, "zone", SkipAmbiguousValues},
		{"multi-value hemi", `{"easting":"500000","northing":"0","hemi":["0","1"]}`, "hemi", SkipAmbiguousValues},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ExtractCoordinates(mustRecord(t, tt.raw), defaultFields())

			var skip *SkipError
			require.ErrorAs(t, err, &skip)
			assert.Equal(t, tt.field, skip.Field)
			assert.Equal(t, tt.reason, skip.Reason)
		})
	}
}

func TestExtractCoordinates_UnwrapsSingleElementSequence(t *testing.T) {
	rec := mustRecord(t, `{"easting":["500000"],"northing":[6643315],"zone":["32"],"hemi":["0"]}`)

	in, err := ExtractCoordinates(rec, defaultFields())
	require.NoError(t, err)
	assert.Equal(t, 500000.0, in.Easting)
	assert.Equal(t, 6643315.0, in.Northing)
	assert.Equal(t, 32, in.Zone)
	assert.True(t, in.Northern)
}

func TestExtractCoordinates_MalformedValuesAreFatal(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		field string
	}{
		{"non-numeric easting", `{"easting":"abc","northing":"0"}`, "easting"},
		{"non-numeric northing", `{"easting":"500000","northing":"abc"}`, "northing"},
		{"fractional zone", `{"easting":"500000","northing":"0","zone":"32.5"}`, "zone"},
		{"non-numeric zone", `{"easting":"500000","northing":"0","zone":"north"}`, "zone"},
		{"boolean easting", `{"easting":true,"northing":"0"}`, "easting"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ExtractCoordinates(mustRecord(t, tt.raw), defaultFields())

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
			assert.Contains(t, err.Error(), "could not convert")
		})
	}
}

func TestExtractCoordinates_ZoneDefault(t *testing.T) {
	fields := defaultFields()
	fields.ZoneDefault = " 17 " // defaults get the same trim rules

	rec := mustRecord(t, `{"easting":"500000","northing":"0"}`)
	in, err := ExtractCoordinates(rec, fields)
	require.NoError(t, err)
	assert.Equal(t, 17, in.Zone)
}

func TestExtractCoordinates_BadZoneDefaultIsFatal(t *testing.T) {
	fields := defaultFields()
	fields.ZoneDefault = "not-a-zone"

	rec := mustRecord(t, `{"easting":"500000","northing":"0"}`)
	_, err := ExtractCoordinates(rec, fields)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "zone", verr.Field)
}

func TestExtractCoordinates_HemisphereSentinel(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		northern bool
	}{
		{"matches sentinel", `{"easting":"1","northing":"1","hemi":"0"}`, true},
		{"other value is southern", `{"easting":"1","northing":"1","hemi":"1"}`, false},
		{"southern text", `{"easting":"1","northing":"1","hemi":"S"}`, false},
		{"null is southern", `{"easting":"1","northing":"1","hemi":null}`, false},
		{"absent uses default", `{"easting":"1","northing":"1"}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in, err := ExtractCoordinates(mustRecord(t, tt.raw), defaultFields())
			require.NoError(t, err)
			assert.Equal(t, tt.northern, in.Northern)
		})
	}
}

func TestExtractCoordinates_HemisphereComparisonIsCaseSensitive(t *testing.T) {
	fields := defaultFields()
	fields.NorthernValue = "N"

	in, err := ExtractCoordinates(mustRecord(t, `{"easting":"1","northing":"1","hemi":"n"}`), fields)
	require.NoError(t, err)
	assert.False(t, in.Northern)

	in, err = ExtractCoordinates(mustRecord(t, `{"easting":"1","northing":"1","hemi":" N "}`), fields)
	require.NoError(t, err)
	assert.True(t, in.Northern)
}
