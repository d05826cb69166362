package domain

import "math"

// WGS84 ellipsoid constants and the UTM scale factor.
const (
	smA = 6378137.0   // semi-major axis, meters
	smB = 6356752.314 // semi-minor axis, meters
	k0  = 0.9996      // UTM scale factor
)

// centralMeridian returns the central meridian for a UTM zone, in radians.
// Zones outside [1,60] still produce a mathematically defined meridian; the
// result is geographically meaningless but never an error. Callers validate
// range if they care.
func centralMeridian(zone int) float64 {
	return degToRad(float64(zone)*6.0 - 183.0)
}

func degToRad(deg float64) float64 { return deg / 180.0 * math.Pi }

func radToDeg(rad float64) float64 { return rad / math.Pi * 180.0 }

// footpointLatitude computes the footpoint latitude for the inverse transverse
// Mercator conversion, in radians, from a scaled northing.
//
// Reference: Hoffmann-Wellenhof, Lichtenegger, Collins, "GPS: Theory and
// Practice", 3rd ed., eqs. 10.18-10.23.
func footpointLatitude(y float64) float64 {
	n := (smA - smB) / (smA + smB)

	alpha := ((smA + smB) / 2.0) * (1 + math.Pow(n, 2)/4 + math.Pow(n, 4)/64)
	yScaled := y / alpha

	beta := 3.0*n/2.0 - 27.0*math.Pow(n, 3)/32.0 + 269.0*math.Pow(n, 5)/512.0
	gamma := 21.0*math.Pow(n, 2)/16.0 - 55.0*math.Pow(n, 4)/32.0
	delta := 151.0*math.Pow(n, 3)/96.0 - 417.0*math.Pow(n, 5)/128.0
	epsilon := 1097.0 * math.Pow(n, 4) / 512.0

	return yScaled +
		beta*math.Sin(2.0*yScaled) +
		gamma*math.Sin(4.0*yScaled) +
		delta*math.Sin(6.0*yScaled) +
		epsilon*math.Sin(8.0*yScaled)
}

// mapXYToLatLon converts transverse Mercator x/y (meters, already unscaled)
// and a central meridian (radians) to latitude/longitude in radians using the
// 8th-order series expansion from the same reference. The xNfrac/xNpoly
// coefficient structure follows the reference formulation exactly; numeric
// parity with it is load-bearing for downstream consumers.
func mapXYToLatLon(x, y, lambda0 float64) (latitude, longitude float64) {
	phif := footpointLatitude(y)

	// Second eccentricity squared and footpoint-relative curvature terms.
	ep2 := (smA*smA - smB*smB) / (smB * smB)
	cf := math.Cos(phif)
	nuf2 := ep2 * cf * cf
	nf := smA * smA / (smB * math.Sqrt(1+nuf2))
	nfPow := nf

	tf := math.Tan(phif)
	tf2 := tf * tf
	tf4 := tf2 * tf2

	// Fractional coefficients for x**n; nfPow steps through powers of Nf.
	x1frac := 1.0 / (nfPow * cf)
	nfPow *= nf
	x2frac := tf / (2.0 * nfPow)
	nfPow *= nf
	x3frac := 1.0 / (6.0 * nfPow * cf)
	nfPow *= nf
	x4frac := tf / (24.0 * nfPow)
	nfPow *= nf
	x5frac := 1.0 / (120.0 * nfPow * cf)
	nfPow *= nf
	x6frac := tf / (720.0 * nfPow)
	nfPow *= nf
	x7frac := 1.0 / (5040.0 * nfPow * cf)
	nfPow *= nf
	x8frac := tf / (40320.0 * nfPow)

	// Polynomial coefficients for x**n; x**1 has none.
	x2poly := -1.0 - nuf2
	x3poly := -1.0 - 2*tf2 - nuf2
	x4poly := 5.0 + 3.0*tf2 + 6.0*nuf2 - 6.0*tf2*nuf2 - 3.0*(nuf2*nuf2) - 9.0*tf2*(nuf2*nuf2)
	x5poly := 5.0 + 28.0*tf2 + 24.0*tf4 + 6.0*nuf2 + 8.0*tf2*nuf2
	x6poly := -61.0 - 90.0*tf2 - 45.0*tf4 - 107.0*nuf2 + 162.0*tf2*nuf2
	x7poly := -61.0 - 662.0*tf2 - 1320.0*tf4 - 720.0*(tf4*tf2)
	x8poly := 1385.0 + 3633.0*tf2 + 4095.0*tf4 + 1575*(tf4*tf2)

	latitude = phif +
		x2frac*x2poly*(x*x) +
		x4frac*x4poly*math.Pow(x, 4) +
		x6frac*x6poly*math.Pow(x, 6) +
		x8frac*x8poly*math.Pow(x, 8)

	longitude = lambda0 +
		x1frac*x +
		x3frac*x3poly*math.Pow(x, 3) +
		x5frac*x5poly*math.Pow(x, 5) +
		x7frac*x7poly*math.Pow(x, 7)

	return latitude, longitude
}

// UTMToLatLon converts UTM coordinates to a WGS84 latitude/longitude pair in
// degrees. Pure and deterministic: identical inputs yield bit-identical
// outputs. The function performs no input validation; non-finite results
// (for example from pathological zone values) propagate as NaN/Inf rather
// than being coerced.
func UTMToLatLon(easting, northing float64, zone int, northern bool) (latDeg, lonDeg float64) {
	x := (easting - 500000.0) / k0

	y := northing
	if !northern {
		y -= 10000000.0
	}
	y /= k0

	lat, lon := mapXYToLatLon(x, y, centralMeridian(zone))
	return radToDeg(lat), radToDeg(lon)
}
