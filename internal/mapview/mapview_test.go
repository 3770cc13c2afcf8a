package mapview

import (
	"strings"
	"testing"
)

var india = Defaults{Center: Point{Lat: 20.5937, Lon: 78.9629}, Zoom: 3, FocusZoom: 10}

func TestNewUsesDefaults(t *testing.T) {
	v := New(india)
	if v.Center != india.Center || v.Zoom != 3 {
		t.Fatalf("New() = %+v", v)
	}
	if v.Marker != nil {
		t.Fatal("new view should have no marker")
	}
}

func TestFocusMovesCenterAndMarker(t *testing.T) {
	v := New(india)
	v.Focus(18.5204, 73.8567)

	if v.Zoom != 10 {
		t.Fatalf("Zoom = %d, want 10", v.Zoom)
	}
	if v.Marker == nil || *v.Marker != v.Center {
		t.Fatalf("marker %v not at center %v", v.Marker, v.Center)
	}
	if got := v.Marker.String(); got != "18.5204, 73.8567" {
		t.Fatalf("marker label = %q", got)
	}
}

func TestZoomClamps(t *testing.T) {
	v := New(Defaults{Zoom: 1})
	v.ZoomOut()
	if v.Zoom != MinZoom {
		t.Fatalf("Zoom = %d after ZoomOut at min", v.Zoom)
	}
	for range 30 {
		v.ZoomIn()
	}
	if v.Zoom != MaxZoom {
		t.Fatalf("Zoom = %d, want %d", v.Zoom, MaxZoom)
	}
}

func TestPanWrapsLongitudeAndClampsLatitude(t *testing.T) {
	v := New(Defaults{Center: Point{Lat: 80, Lon: 170}, Zoom: 1})
	v.Pan(0.5, 10)

	if v.Center.Lat != maxLat {
		t.Fatalf("Lat = %v, want clamp to %v", v.Center.Lat, maxLat)
	}
	if v.Center.Lon < -180 || v.Center.Lon >= 180 {
		t.Fatalf("Lon = %v outside [-180, 180)", v.Center.Lon)
	}
	if v.Center.Lon != -100 {
		t.Fatalf("Lon = %v, want -100", v.Center.Lon)
	}
}

func TestTile(t *testing.T) {
	tests := []struct {
		lat, lon float64
		zoom     int
		want     Tile
	}{
		{0, 0, 1, Tile{X: 1, Y: 1, Z: 1}},
		{51.5074, -0.1278, 10, Tile{X: 511, Y: 340, Z: 10}},
		{maxLat, 179.9999, 2, Tile{X: 3, Y: 0, Z: 2}},
	}
	for _, tt := range tests {
		v := New(Defaults{Center: Point{Lat: tt.lat, Lon: tt.lon}, Zoom: tt.zoom})
		if got := v.Tile(); got != tt.want {
			t.Errorf("Tile(%v, %v, z%d) = %+v, want %+v", tt.lat, tt.lon, tt.zoom, got, tt.want)
		}
	}
}

func TestURL(t *testing.T) {
	v := New(india)
	if got := v.URL(); strings.Contains(got, "mlat") {
		t.Fatalf("URL without marker = %q", got)
	}

	v.Focus(18.5204, 73.8567)
	got := v.URL()
	for _, want := range []string{"mlat=18.5204", "mlon=73.8567", "#map=10/18.5204/73.8567"} {
		if !strings.Contains(got, want) {
			t.Errorf("URL() = %q, missing %q", got, want)
		}
	}
	if tile := v.TileURL(); !strings.HasPrefix(tile, "https://tile.openstreetmap.org/10/") {
		t.Errorf("TileURL() = %q", tile)
	}
}
