package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// FieldConfig names the record fields the transform reads and writes, plus
// the defaults applied when optional fields are absent. Immutable after
// construction; shared read-only across requests.
type FieldConfig struct {
	Easting    string
	Northing   string
	Zone       string
	Hemisphere string

	// Defaults are raw strings subject to the same trim/parse rules as
	// record values, matching the environment-variable surface.
	ZoneDefault       string
	HemisphereDefault string

	// NorthernValue is the sentinel meaning "northern hemisphere". The
	// comparison is case-sensitive string equality after trimming.
	NorthernValue string

	Latitude  string
	Longitude string

	IncludeLatLon bool
	LatLon        string
}

// CoordinateInput is a validated set of UTM inputs ready for conversion.
type CoordinateInput struct {
	Easting  float64
	Northing float64
	Zone     int
	Northern bool
}

// SkipReason classifies why a record was passed through unmodified.
type SkipReason string

const (
	SkipMissingField    SkipReason = "field missing"
	SkipAmbiguousValues SkipReason = "ambiguous multi-value"
	SkipNullValue       SkipReason = "null value"
)

// SkipError is the soft-failure outcome: the record cannot be transformed
// but processing continues. It is recovered by the record transformer and
// never reaches the stream boundary.
type SkipError struct {
	Field  string
	Reason SkipReason
}

func (e *SkipError) Error() string {
	return fmt.Sprintf("skip record: %s %q", e.Reason, e.Field)
}

// ValidationError is the fatal outcome: a value was present but malformed.
// Unlike a skip it aborts the whole stream. The asymmetry between missing
// (skip) and malformed (fatal) is an intentional, preserved policy.
type ValidationError struct {
	Field string
	Value string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("could not convert %s value %q: %v", e.Field, e.Value, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// ExtractCoordinates reads the configured fields out of a record and
// validates them into conversion inputs. It returns a *SkipError for soft
// failures and a *ValidationError for malformed values.
func ExtractCoordinates(rec Record, fields FieldConfig) (CoordinateInput, error) {
	easting, err := mandatoryFloat(rec, fields.Easting)
	if err != nil {
		return CoordinateInput{}, err
	}

	northing, err := mandatoryFloat(rec, fields.Northing)
	if err != nil {
		return CoordinateInput{}, err
	}

	zoneText, err := optionalScalar(rec, fields.Zone, fields.ZoneDefault)
	if err != nil {
		return CoordinateInput{}, err
	}
	zone, convErr := strconv.Atoi(zoneText)
	if convErr != nil {
		return CoordinateInput{}, &ValidationError{Field: fields.Zone, Value: zoneText, Err: convErr}
	}

	hemiText, err := optionalScalar(rec, fields.Hemisphere, fields.HemisphereDefault)
	if err != nil {
		return CoordinateInput{}, err
	}

	return CoordinateInput{
		Easting:  easting,
		Northing: northing,
		Zone:     zone,
		Northern: hemiText == fields.NorthernValue,
	}, nil
}

// mandatoryFloat applies the full skip policy to a required field and parses
// the surviving scalar as a float64.
func mandatoryFloat(rec Record, name string) (float64, error) {
	v, ok := rec.Get(name)
	if !ok {
		return 0, &SkipError{Field: name, Reason: SkipMissingField}
	}

	v, err := unwrapSequence(v, name)
	if err != nil {
		return 0, err
	}
	if v.IsFalsy() {
		return 0, &SkipError{Field: name, Reason: SkipNullValue}
	}

	text := strings.TrimSpace(v.ScalarString())
	f, convErr := strconv.ParseFloat(text, 64)
	if convErr != nil {
		return 0, &ValidationError{Field: name, Value: text, Err: convErr}
	}
	return f, nil
}

// optionalScalar resolves an optional field to its trimmed textual form,
// falling back to the configured default when the field is absent.
func optionalScalar(rec Record, name, defaultValue string) (string, error) {
	v, ok := rec.Get(name)
	if !ok {
		return strings.TrimSpace(defaultValue), nil
	}

	v, err := unwrapSequence(v, name)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(v.ScalarString()), nil
}

// unwrapSequence reduces a sequence value to its single element. More than
// one element is ambiguous (skip); an empty sequence carries no value and is
// treated like null.
func unwrapSequence(v Value, name string) (Value, error) {
	if v.Kind() != KindSequence {
		return v, nil
	}
	seq := v.Sequence()
	switch len(seq) {
	case 1:
		return seq[0], nil
	case 0:
		return Value{}, &SkipError{Field: name, Reason: SkipNullValue}
	default:
		return Value{}, &SkipError{Field: name, Reason: SkipAmbiguousValues}
	}
}
