package settings

import (
	"time"

	"github.com/niosa-ap/attendance-backend-go/internal/pkg/geo"
)

// GeoFence is the single office geofence every check-in is evaluated against.
type GeoFence struct {
	OfficeLatitude  float64
	OfficeLongitude float64
	RadiusMeters    float64
	Enabled         bool
	UpdatedAt       time.Time
}

func (g GeoFence) Fence() geo.Fence {
	return geo.Fence{
		Office: geo.Coordinate{
			Latitude:  g.OfficeLatitude,
			Longitude: g.OfficeLongitude,
		},
		RadiusMeters: g.RadiusMeters,
		Enabled:      g.Enabled,
	}
}
