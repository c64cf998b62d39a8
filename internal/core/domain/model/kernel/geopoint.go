package kernel

import (
	"fmt"
	"math"

	"dronefleet/internal/pkg/errs"
	"dronefleet/internal/pkg/guard"
)

const (
	// EarthRadiusKm is Earth's mean radius in kilometers, used by the
	// great-circle calculations.
	EarthRadiusKm = 6371.0

	// MinLatitude is the minimum valid latitude in degrees.
	MinLatitude = -90.0
	// MaxLatitude is the maximum valid latitude in degrees.
	MaxLatitude = 90.0
	// MinLongitude is the minimum valid longitude in degrees.
	MinLongitude = -180.0
	// MaxLongitude is the maximum valid longitude in degrees.
	MaxLongitude = 180.0
)

// ErrGeoPointIsNotConstructed is returned when attempting to use an improperly
// initialized GeoPoint. GeoPoints must be created via NewGeoPoint or
// NewGeoPointWithAltitude to ensure validity.
var ErrGeoPointIsNotConstructed = errs.NewValueIsRequiredError(
	"geo point must be created via NewGeoPoint or NewGeoPointWithAltitude")

// GeoPoint represents a position on Earth with validated latitude and
// longitude in degrees and an altitude in meters. It is an immutable value
// object; the zero value is invalid and fails validation.
//
// All distance and movement math works on the great circle: DistanceKmTo uses
// the haversine formula, BearingTo computes the initial course between two
// points, and Step projects a point along a course using the spherical
// destination formula.
type GeoPoint struct {
	latitude  float64
	longitude float64
	altitude  float64

	guard guard.ConstructorGuard
}

// NewGeoPoint creates a GeoPoint at ground level (altitude 0).
// Returns an error if latitude or longitude is out of range.
func NewGeoPoint(latitude, longitude float64) (GeoPoint, error) {
	return NewGeoPointWithAltitude(latitude, longitude, 0)
}

// NewGeoPointWithAltitude creates a GeoPoint with an explicit altitude in meters.
// Returns an error if latitude or longitude is out of range.
func NewGeoPointWithAltitude(latitude, longitude, altitude float64) (GeoPoint, error) {
	if latitude < MinLatitude || latitude > MaxLatitude {
		return GeoPoint{}, errs.NewValueIsOutOfRangeError("latitude", latitude, MinLatitude, MaxLatitude)
	}
	if longitude < MinLongitude || longitude > MaxLongitude {
		return GeoPoint{}, errs.NewValueIsOutOfRangeError("longitude", longitude, MinLongitude, MaxLongitude)
	}

	return GeoPoint{
		latitude:  latitude,
		longitude: longitude,
		altitude:  altitude,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// Latitude returns the latitude in degrees.
func (p GeoPoint) Latitude() float64 {
	return p.latitude
}

// Longitude returns the longitude in degrees.
func (p GeoPoint) Longitude() float64 {
	return p.longitude
}

// Altitude returns the altitude in meters.
func (p GeoPoint) Altitude() float64 {
	return p.altitude
}

// WithAltitude returns a copy of the point at the given altitude.
func (p GeoPoint) WithAltitude(altitude float64) GeoPoint {
	p.altitude = altitude
	return p
}

// IsEqual compares two points by latitude and longitude, ignoring altitude.
func (p GeoPoint) IsEqual(other GeoPoint) bool {
	return p.latitude == other.latitude && p.longitude == other.longitude
}

// String returns a fixed-precision textual form, e.g. "10.776900,106.700900".
func (p GeoPoint) String() string {
	return fmt.Sprintf("%.6f,%.6f", p.latitude, p.longitude)
}

// DistanceKmTo calculates the great-circle distance to another point in
// kilometers using the haversine formula.
func (p GeoPoint) DistanceKmTo(other GeoPoint) (float64, error) {
	if err := p.Validate(); err != nil {
		return 0, err
	}
	if err := other.Validate(); err != nil {
		return 0, err
	}

	lat1 := degToRad(p.latitude)
	lat2 := degToRad(other.latitude)
	dLat := degToRad(other.latitude - p.latitude)
	dLon := degToRad(other.longitude - p.longitude)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusKm * c, nil
}

// BearingTo computes the initial great-circle course from this point towards
// another, in radians measured clockwise from true north.
func (p GeoPoint) BearingTo(other GeoPoint) (float64, error) {
	if err := p.Validate(); err != nil {
		return 0, err
	}
	if err := other.Validate(); err != nil {
		return 0, err
	}

	lat1 := degToRad(p.latitude)
	lat2 := degToRad(other.latitude)
	dLon := degToRad(other.longitude - p.longitude)

	y := math.Sin(dLon) * math.Cos(lat2)
	x := math.Cos(lat1)*math.Sin(lat2) - math.Sin(lat1)*math.Cos(lat2)*math.Cos(dLon)

	return math.Atan2(y, x), nil
}

// Step projects the point distanceKm kilometers along the given bearing
// (radians from true north) using the spherical destination formula.
// Altitude is carried over unchanged.
func (p GeoPoint) Step(bearing, distanceKm float64) (GeoPoint, error) {
	if err := p.Validate(); err != nil {
		return GeoPoint{}, err
	}

	angular := distanceKm / EarthRadiusKm
	lat1 := degToRad(p.latitude)
	lon1 := degToRad(p.longitude)

	lat2 := math.Asin(math.Sin(lat1)*math.Cos(angular) +
		math.Cos(lat1)*math.Sin(angular)*math.Cos(bearing))
	lon2 := lon1 + math.Atan2(
		math.Sin(bearing)*math.Sin(angular)*math.Cos(lat1),
		math.Cos(angular)-math.Sin(lat1)*math.Sin(lat2))

	// Normalize longitude to [-180, 180).
	lonDeg := math.Mod(radToDeg(lon2)+540, 360) - 180

	return NewGeoPointWithAltitude(radToDeg(lat2), lonDeg, p.altitude)
}

// IsWithinKm reports whether another point lies within radiusKm kilometers.
func (p GeoPoint) IsWithinKm(other GeoPoint, radiusKm float64) (bool, error) {
	distance, err := p.DistanceKmTo(other)
	if err != nil {
		return false, err
	}
	return distance <= radiusKm, nil
}

// Validate checks that the point was created via a constructor.
func (p GeoPoint) Validate() error {
	return p.guard.Validate(ErrGeoPointIsNotConstructed)
}

func degToRad(deg float64) float64 {
	return deg * math.Pi / 180
}

func radToDeg(rad float64) float64 {
	return rad * 180 / math.Pi
}
