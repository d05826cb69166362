// Package domain implements the coordinate transform core: converting
// records carrying projected UTM coordinates into WGS84 latitude/longitude.
//
// # Conversion
//
// Input coordinates are Universal Transverse Mercator: an easting and a
// northing in meters, a longitudinal zone in [1,60], and a hemisphere
// indicator. The inverse projection removes the 500,000 m false easting
// (and, in the southern hemisphere, the 10,000,000 m false northing),
// unscales by the UTM factor 0.9996, and evaluates the closed-form inverse
// transverse Mercator series from Hoffmann-Wellenhof, Lichtenegger, and
// Collins, "GPS: Theory and Practice", 3rd ed. (footpoint latitude from
// eqs. 10.18-10.23, then an 8th-order correction series in the scaled
// easting). Output is degrees, WGS84 datum.
//
// [UTMToLatLon] deliberately performs no range validation: a zone outside
// [1,60] yields a mathematically defined but geographically meaningless
// central meridian, and non-finite intermediate results propagate as
// NaN/Inf. Callers that need range checks apply them before conversion.
//
// # Records and field policy
//
// A [Record] is an ordered name/value mapping decoded from a JSON object.
// The transform interprets only the fields named by [FieldConfig]; all
// other fields pass through unchanged and in their original order.
//
// Easting and northing are mandatory and follow a per-field skip policy:
//
//	absent field                  → skip (record passes through unmodified)
//	sequence with >1 element      → skip (ambiguous)
//	sequence with 1 element       → unwrapped to that scalar
//	null/empty/zero/false scalar  → skip
//	present but unparseable       → fatal validation error
//
// Zone and hemisphere are optional and fall back to configured defaults.
// The skip-versus-fatal asymmetry is intentional: a record that simply
// lacks coordinates is not an error, but a record that carries a malformed
// coordinate indicates corrupt input and aborts the stream.
//
// Hemisphere resolution is a case-sensitive string comparison of the
// trimmed value against the configured northern sentinel; any other value
// selects the southern branch.
package domain
