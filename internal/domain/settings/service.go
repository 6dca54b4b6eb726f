package settings

import "context"

type SettingsService interface {
	GetGeoFence(ctx context.Context) (GeoFenceResponse, error)
	UpdateGeoFence(ctx context.Context, req UpdateGeoFenceRequest) (GeoFenceResponse, error)
}
