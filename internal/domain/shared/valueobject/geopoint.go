package valueobject

import "fmt"

// GeoPoint is a WGS84 coordinate
type GeoPoint struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// NewGeoPoint validates and creates a GeoPoint
func NewGeoPoint(lat, lng float64) (GeoPoint, error) {
	if lat < -90 || lat > 90 {
		return GeoPoint{}, fmt.Errorf("latitude %f out of range [-90, 90]", lat)
	}
	if lng < -180 || lng > 180 {
		return GeoPoint{}, fmt.Errorf("longitude %f out of range [-180, 180]", lng)
	}
	return GeoPoint{Latitude: lat, Longitude: lng}, nil
}

// String implements fmt.Stringer
func (p GeoPoint) String() string {
	return fmt.Sprintf("%.6f,%.6f", p.Latitude, p.Longitude)
}
