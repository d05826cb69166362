package domain

import (
	"errors"
	"fmt"
	"log/slog"
)

// TransformRecord converts the UTM coordinates carried on a record into
// latitude/longitude fields, according to the configured field names.
//
// Outcomes:
//   - transformed: the returned record carries the latitude and longitude
//     (degrees) under the configured output names, overwriting pre-existing
//     values, plus the combined "<lat>, <lon>" field when enabled.
//   - skipped (non-nil *SkipError, nil error): the record is returned
//     unmodified. A warning is logged when a logger is provided; a nil
//     logger changes observability only, never behavior.
//   - fatal (non-nil error): a present value failed to parse. The error
//     propagates to the caller and aborts the stream.
//
// Existing fields keep their relative order; output fields are appended.
func TransformRecord(rec Record, fields FieldConfig, logger *slog.Logger) (Record, *SkipError, error) {
	in, err := ExtractCoordinates(rec, fields)
	if err != nil {
		var skip *SkipError
		if errors.As(err, &skip) {
			if logger != nil {
				logger.Warn("skipping record", "field", skip.Field, "reason", string(skip.Reason))
			}
			return rec, skip, nil
		}
		if logger != nil {
			logger.Error("record validation failed", "error", err)
		}
		return Record{}, nil, err
	}

	lat, lon := UTMToLatLon(in.Easting, in.Northing, in.Zone, in.Northern)

	// The caller keeps its record; writes go to an independent copy.
	out := rec.Clone()
	out.Set(fields.Latitude, Float64Value(lat))
	out.Set(fields.Longitude, Float64Value(lon))
	if fields.IncludeLatLon {
		out.Set(fields.LatLon, StringValue(fmt.Sprintf("%v, %v", lat, lon)))
	}

	return out, nil, nil
}
