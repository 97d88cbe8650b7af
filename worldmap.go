package citydistance

import (
	"errors"
	"math"
	"strings"

	"github.com/golang/geo/s2"
)

// ErrUnknownTurn is returned when a map is requested for a turn that was
// never recorded.
var ErrUnknownTurn = errors.New("unknown turn")

// Default rendered map size, in character cells.
const (
	DefaultMapWidth  = 72
	DefaultMapHeight = 24
)

// Map glyphs.
const (
	glyphBlank     = ' '
	glyphEquator   = '-'
	glyphMeridian  = '|'
	glyphPath      = '*'
	glyphReference = 'R'
	glyphTarget    = 'X'
)

// MapArtifact is a rendered world map for one turn.
type MapArtifact struct {
	Label     string
	Reference Coordinates
	Target    Coordinates
	Path      []Coordinates
	Rows      []string
}

// String joins the rows with newlines.
func (m MapArtifact) String() string {
	return strings.Join(m.Rows, "\n")
}

// GreatCirclePath returns segments+1 points along the geodesic from a to b,
// both ends included. segments below 1 is treated as 1.
func GreatCirclePath(a, b Coordinates, segments int) []Coordinates {
	if segments < 1 {
		segments = 1
	}
	pa := s2.PointFromLatLng(a.LatLng())
	pb := s2.PointFromLatLng(b.LatLng())

	path := make([]Coordinates, 0, segments+1)
	for i := 0; i <= segments; i++ {
		t := float64(i) / float64(segments)
		ll := s2.LatLngFromPoint(s2.Interpolate(t, pa, pb))
		path = append(path, Coordinates{Latitude: ll.Lat.Degrees(), Longitude: ll.Lng.Degrees()})
	}
	path[0], path[segments] = a, b
	return path
}

// RenderMap draws an equirectangular w x h map with the geodesic path from
// ref to target. The target is drawn last so it is never hidden.
func RenderMap(label string, ref, target Coordinates, w, h int) MapArtifact {
	if w < 2 {
		w = 2
	}
	if h < 2 {
		h = 2
	}
	grid := make([][]rune, h)
	for y := range grid {
		grid[y] = make([]rune, w)
		for x := range grid[y] {
			grid[y][x] = glyphBlank
		}
	}
	origin := project(Coordinates{}, w, h)
	for x := 0; x < w; x++ {
		grid[origin.y][x] = glyphEquator
	}
	for y := 0; y < h; y++ {
		grid[y][origin.x] = glyphMeridian
	}

	path := GreatCirclePath(ref, target, 4*w)
	for _, c := range path {
		p := project(c, w, h)
		grid[p.y][p.x] = glyphPath
	}
	r := project(ref, w, h)
	grid[r.y][r.x] = glyphReference
	t := project(target, w, h)
	grid[t.y][t.x] = glyphTarget

	rows := make([]string, h)
	for y := range grid {
		rows[y] = string(grid[y])
	}
	return MapArtifact{
		Label:     label,
		Reference: ref,
		Target:    target,
		Path:      path,
		Rows:      rows,
	}
}

type cell struct{ x, y int }

// project maps c onto a w x h equirectangular grid.
func project(c Coordinates, w, h int) cell {
	x := int(math.Floor((c.Longitude + 180) / 360 * float64(w)))
	y := int(math.Floor((90 - c.Latitude) / 180 * float64(h)))
	return cell{x: clamp(x, 0, w-1), y: clamp(y, 0, h-1)}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
