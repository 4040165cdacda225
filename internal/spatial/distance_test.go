package spatial

import (
	"math"
	"testing"

	"github.com/golang/geo/s2"
)

func TestParseLatLng(t *testing.T) {
	ll, err := ParseLatLng("37.4219983°, -122.084°")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(ll.Lat.Degrees()-37.4219983) > 1e-9 || math.Abs(ll.Lng.Degrees()+122.084) > 1e-9 {
		t.Fatalf("coordinates mismatch: got %v", ll)
	}
}

func TestParseLatLngInvalid(t *testing.T) {
	for _, s := range []string{"", "37.1°", "north, south", "95°, 10°"} {
		if _, err := ParseLatLng(s); err == nil {
			t.Fatalf("expected error for %q", s)
		}
	}
}

func TestDistanceOneDegreeLatitude(t *testing.T) {
	got := Distance(s2.LatLngFromDegrees(0, 0), s2.LatLngFromDegrees(1, 0))
	want := EarthRadiusMeters * math.Pi / 180
	if math.Abs(got-want) > 0.5 {
		t.Fatalf("distance mismatch: got %.2f want %.2f", got, want)
	}
}

func TestDisplacementMissingSide(t *testing.T) {
	from := "37.0°, -122.0°"
	if _, ok := Displacement(&from, nil); ok {
		t.Fatalf("expected no displacement when end is missing")
	}
	to := "37.0°, -122.0°"
	d, ok := Displacement(&from, &to)
	if !ok || d != 0 {
		t.Fatalf("expected zero displacement, got %v %v", d, ok)
	}
}
