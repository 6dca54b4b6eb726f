package attendance

import (
	"context"

	"github.com/niosa-ap/attendance-backend-go/internal/pkg/geo"
)

// LocationProvider yields the coordinate a check-in should be evaluated
// at. Implementations report acquisition failures through the typed
// location errors so callers can map them to distinct outcomes.
type LocationProvider interface {
	CurrentCoordinate(ctx context.Context) (geo.Coordinate, error)
}

type staticLocation struct {
	coord geo.Coordinate
}

func (s staticLocation) CurrentCoordinate(context.Context) (geo.Coordinate, error) {
	if !s.coord.Valid() {
		return geo.Coordinate{}, ErrInvalidCoordinate
	}
	return s.coord, nil
}

// StaticLocation wraps a coordinate the client device already acquired.
func StaticLocation(c geo.Coordinate) LocationProvider {
	return staticLocation{coord: c}
}

type failedLocation struct {
	err error
}

func (f failedLocation) CurrentCoordinate(context.Context) (geo.Coordinate, error) {
	return geo.Coordinate{}, f.err
}

// FailedLocation reports a device-side acquisition failure.
func FailedLocation(err error) LocationProvider {
	return failedLocation{err: err}
}
