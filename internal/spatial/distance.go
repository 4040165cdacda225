package spatial

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
)

// ParseLatLng parses the export's coordinate format, e.g. "37.4219983°, -122.084°"
func ParseLatLng(s string) (s2.LatLng, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return s2.LatLng{}, fmt.Errorf("invalid latLng %q", s)
	}

	lat, err := parseDegrees(parts[0])
	if err != nil {
		return s2.LatLng{}, fmt.Errorf("invalid latitude in %q: %w", s, err)
	}
	lng, err := parseDegrees(parts[1])
	if err != nil {
		return s2.LatLng{}, fmt.Errorf("invalid longitude in %q: %w", s, err)
	}

	ll := s2.LatLngFromDegrees(lat, lng)
	if !ll.IsValid() {
		return s2.LatLng{}, fmt.Errorf("latLng %q out of range", s)
	}
	return ll, nil
}

func parseDegrees(s string) (float64, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "°")
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}

// Distance returns the great-circle distance between two coordinates in meters
func Distance(p1, p2 s2.LatLng) float64 {
	return angleToMeters(p1.Distance(p2))
}

// Displacement is the straight-line distance between two export coordinate strings.
// It returns false when either side is missing or unparsable.
func Displacement(from, to *string) (float64, bool) {
	if from == nil || to == nil {
		return 0, false
	}
	p1, err := ParseLatLng(*from)
	if err != nil {
		return 0, false
	}
	p2, err := ParseLatLng(*to)
	if err != nil {
		return 0, false
	}
	return Distance(p1, p2), true
}

func angleToMeters(a s1.Angle) float64 {
	return a.Radians() * EarthRadiusMeters
}

// EarthRadiusMeters is Earth's mean radius
const EarthRadiusMeters = 6371000.0
