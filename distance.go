package citydistance

import (
	"context"
	"fmt"
)

// EarthRadiusKm is the mean Earth radius (IUGG) used to scale s2 angles.
const EarthRadiusKm = 6371.0088

// DistanceProvider computes the distance in kilometres between two points.
type DistanceProvider interface {
	DistanceKm(ctx context.Context, a, b Coordinates) (float64, error)
}

// DistanceFunc adapts a plain function to DistanceProvider.
type DistanceFunc func(ctx context.Context, a, b Coordinates) (float64, error)

// DistanceKm calls f.
func (f DistanceFunc) DistanceKm(ctx context.Context, a, b Coordinates) (float64, error) {
	return f(ctx, a, b)
}

// GreatCircle computes great-circle distances on a spherical Earth using s2.
type GreatCircle struct{}

// DistanceKm returns the great-circle distance between a and b.
func (GreatCircle) DistanceKm(ctx context.Context, a, b Coordinates) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if !a.Valid() {
		return 0, fmt.Errorf("%w: %v", ErrInvalidCoordinates, a)
	}
	if !b.Valid() {
		return 0, fmt.Errorf("%w: %v", ErrInvalidCoordinates, b)
	}
	return a.LatLng().Distance(b.LatLng()).Radians() * EarthRadiusKm, nil
}
