package citydistance

import (
	"context"
	"errors"
	"sort"

	"github.com/golang/geo/s2"
)

// ErrNoNearbyPlace is returned when no place with a known country lies close
// enough to the queried point.
var ErrNoNearbyPlace = errors.New("no nearby place with a known country")

// CountryResolver supplies a country for coordinates whose record lacks one.
type CountryResolver interface {
	ResolveCountry(ctx context.Context, c Coordinates) (string, error)
}

// maxResolveDistance is ~100km in radians on the unit sphere.
const maxResolveDistance = 0.0157

// s2CellLevel is the deepest level whose cells are at least
// maxResolveDistance wide (level 5, about 188km), so a cell and its
// neighbours hold every place within the cutoff.
var s2CellLevel = s2.MinWidthMetric.MaxLevel(maxResolveDistance)

// CellResolver answers nearest-place queries from an S2 cell index over the
// places that carry both coordinates and a country.
// Safe for concurrent use after construction.
type CellResolver struct {
	places    []PlaceRecord
	cellIndex map[s2.CellID][]int
}

// NewCellResolver indexes places. Records without coordinates or country are
// left out.
func NewCellResolver(places []PlaceRecord) *CellResolver {
	r := &CellResolver{cellIndex: make(map[s2.CellID][]int)}
	for _, p := range places {
		if p.Coordinates == nil || p.Country == "" {
			continue
		}
		cell := s2.CellIDFromLatLng(p.Coordinates.LatLng()).Parent(s2CellLevel)
		r.cellIndex[cell] = append(r.cellIndex[cell], len(r.places))
		r.places = append(r.places, p)
	}
	return r
}

// Len returns the number of indexed places.
func (r *CellResolver) Len() int { return len(r.places) }

type resolveCandidate struct {
	place PlaceRecord
	dist  float64
}

// ResolveCountry returns the country of the indexed place nearest to c.
func (r *CellResolver) ResolveCountry(ctx context.Context, c Coordinates) (string, error) {
	if !c.Valid() {
		return "", ErrInvalidCoordinates
	}

	queryLL := c.LatLng()
	queryCell := s2.CellIDFromLatLng(queryLL).Parent(s2CellLevel)

	var candidates []resolveCandidate
	for _, cell := range cellAndNeighbors(queryCell) {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		for _, idx := range r.cellIndex[cell] {
			p := r.places[idx]
			dist := float64(queryLL.Distance(p.Coordinates.LatLng()))
			candidates = append(candidates, resolveCandidate{place: p, dist: dist})
		}
	}
	if len(candidates) == 0 {
		return "", ErrNoNearbyPlace
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].dist != candidates[j].dist {
			return candidates[i].dist < candidates[j].dist
		}
		return candidates[i].place.Name < candidates[j].place.Name
	})

	best := candidates[0]
	if best.dist > maxResolveDistance {
		return "", ErrNoNearbyPlace
	}
	return best.place.Country, nil
}

// cellAndNeighbors returns cell plus its edge and corner neighbours.
func cellAndNeighbors(cell s2.CellID) []s2.CellID {
	cells := make([]s2.CellID, 0, 9)
	cells = append(cells, cell)

	edgeNeighbors := cell.EdgeNeighbors()
	cells = append(cells, edgeNeighbors[:]...)

	seen := make(map[s2.CellID]bool, 9)
	for _, c := range cells {
		seen[c] = true
	}
	for _, n := range edgeNeighbors {
		for _, corner := range n.EdgeNeighbors() {
			if !seen[corner] {
				cells = append(cells, corner)
				seen[corner] = true
			}
		}
	}
	return cells
}
