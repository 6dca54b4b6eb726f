package settings

import "context"

type Repository interface {
	GetGeoFence(ctx context.Context) (GeoFence, error)
	UpdateGeoFence(ctx context.Context, fence GeoFence) (GeoFence, error)
}
