package citydistance

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/golang/geo/s2"
)

// ErrInvalidCoordinates is returned for coordinates that are not finite or
// fall outside the valid latitude/longitude ranges.
var ErrInvalidCoordinates = errors.New("invalid coordinates")

// Coordinates is a point on the globe in decimal degrees.
type Coordinates struct {
	Latitude  float64
	Longitude float64
}

// Valid reports whether c is finite and within [-90,90] x [-180,180].
func (c Coordinates) Valid() bool {
	if math.IsNaN(c.Latitude) || math.IsNaN(c.Longitude) ||
		math.IsInf(c.Latitude, 0) || math.IsInf(c.Longitude, 0) {
		return false
	}
	return c.Latitude >= -90 && c.Latitude <= 90 &&
		c.Longitude >= -180 && c.Longitude <= 180
}

// LatLng converts c to an s2.LatLng.
func (c Coordinates) LatLng() s2.LatLng {
	return s2.LatLngFromDegrees(c.Latitude, c.Longitude)
}

func (c Coordinates) String() string {
	return strconv.FormatFloat(c.Latitude, 'f', -1, 64) + ", " +
		strconv.FormatFloat(c.Longitude, 'f', -1, 64)
}

// ParseCoordinates parses a combined "lat, lng" string as found in the
// dataset's coordinate column. A comma without a following space is accepted.
func ParseCoordinates(s string) (Coordinates, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return Coordinates{}, fmt.Errorf("%w: %q", ErrInvalidCoordinates, s)
	}
	lat, errLat := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	lng, errLng := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if errLat != nil || errLng != nil {
		return Coordinates{}, fmt.Errorf("%w: %q", ErrInvalidCoordinates, s)
	}
	c := Coordinates{Latitude: lat, Longitude: lng}
	if !c.Valid() {
		return Coordinates{}, fmt.Errorf("%w: %q", ErrInvalidCoordinates, s)
	}
	return c, nil
}

// PlaceRecord is one row of the places dataset. Empty Country or RegionCode
// means the value is absent; a nil Coordinates means the row had no usable
// position. Records are never mutated after loading.
type PlaceRecord struct {
	Name        string
	Country     string
	RegionCode  string
	Coordinates *Coordinates
}

// Usable reports whether the record has both a name and coordinates.
func (p PlaceRecord) Usable() bool {
	return strings.TrimSpace(p.Name) != "" && p.Coordinates != nil
}

// Candidate is the city currently presented to the player.
type Candidate struct {
	Label       string
	Coordinates Coordinates
	Place       PlaceRecord
}
