// Package mapview tracks the map viewport for the selected destination:
// center, zoom and a single marker. Rendering is left to whatever consumes
// the tile coordinates or the browsable URL.
package mapview

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
)

// Zoom bounds of the OpenStreetMap tile pyramid.
const (
	MinZoom = 1
	MaxZoom = 19
)

// maxLat is the Web Mercator latitude limit.
const maxLat = 85.05112878

// Point is a WGS84 coordinate.
type Point struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// String renders the point with four decimals.
func (p Point) String() string {
	return fmt.Sprintf("%.4f, %.4f", p.Lat, p.Lon)
}

// Defaults configures a new view.
type Defaults struct {
	Center    Point
	Zoom      int
	FocusZoom int
}

// View is the viewport state.
type View struct {
	Center Point  `json:"center"`
	Zoom   int    `json:"zoom"`
	Marker *Point `json:"marker,omitempty"`

	focusZoom int
}

// Tile is a slippy-map tile address.
type Tile struct {
	X, Y, Z int
}

// New returns a view centered on d.Center with no marker.
func New(d Defaults) *View {
	if d.FocusZoom == 0 {
		d.FocusZoom = 10
	}
	return &View{
		Center:    clampPoint(d.Center),
		Zoom:      clampZoom(d.Zoom),
		focusZoom: clampZoom(d.FocusZoom),
	}
}

// Focus recenters on (lat, lon) at the focus zoom and moves the marker
// there.
func (v *View) Focus(lat, lon float64) {
	p := clampPoint(Point{Lat: lat, Lon: lon})
	v.Center = p
	v.Zoom = v.focusZoom
	v.Marker = &p
}

// Pan moves the center by dx, dy tiles at the current zoom. Positive dx
// moves east, positive dy moves north.
func (v *View) Pan(dx, dy float64) {
	span := 360 / math.Exp2(float64(v.Zoom))
	v.Center = clampPoint(Point{
		Lat: v.Center.Lat + dy*span/2,
		Lon: v.Center.Lon + dx*span,
	})
}

// ZoomIn increases zoom by one level up to MaxZoom.
func (v *View) ZoomIn() { v.Zoom = clampZoom(v.Zoom + 1) }

// ZoomOut decreases zoom by one level down to MinZoom.
func (v *View) ZoomOut() { v.Zoom = clampZoom(v.Zoom - 1) }

// Tile returns the tile containing the center.
func (v *View) Tile() Tile {
	n := math.Exp2(float64(v.Zoom))
	latRad := v.Center.Lat * math.Pi / 180
	x := int(math.Floor((v.Center.Lon + 180) / 360 * n))
	y := int(math.Floor((1 - math.Log(math.Tan(latRad)+1/math.Cos(latRad))/math.Pi) / 2 * n))
	last := int(n) - 1
	return Tile{X: min(max(x, 0), last), Y: min(max(y, 0), last), Z: v.Zoom}
}

// TileURL returns the OpenStreetMap raster tile for the center.
func (v *View) TileURL() string {
	t := v.Tile()
	return fmt.Sprintf("https://tile.openstreetmap.org/%d/%d/%d.png", t.Z, t.X, t.Y)
}

// URL returns a browsable openstreetmap.org link for the view, with the
// marker when one is set.
func (v *View) URL() string {
	q := url.Values{}
	if v.Marker != nil {
		q.Set("mlat", formatCoord(v.Marker.Lat))
		q.Set("mlon", formatCoord(v.Marker.Lon))
	}
	u := url.URL{
		Scheme:   "https",
		Host:     "www.openstreetmap.org",
		Path:     "/",
		RawQuery: q.Encode(),
		Fragment: fmt.Sprintf("map=%d/%s/%s", v.Zoom, formatCoord(v.Center.Lat), formatCoord(v.Center.Lon)),
	}
	return u.String()
}

func formatCoord(f float64) string {
	return strconv.FormatFloat(f, 'f', 4, 64)
}

func clampZoom(z int) int {
	return min(max(z, MinZoom), MaxZoom)
}

func clampPoint(p Point) Point {
	p.Lat = min(max(p.Lat, -maxLat), maxLat)
	if p.Lon < -180 || p.Lon >= 180 {
		lon := math.Mod(p.Lon+180, 360)
		if lon < 0 {
			lon += 360
		}
		p.Lon = lon - 180
	}
	return p
}
