package settings

import (
	"context"
	"fmt"

	"github.com/niosa-ap/attendance-backend-go/internal/domain/settings"
)

type SettingsServiceImpl struct {
	settings.Repository
}

// GetGeoFence implements settings.SettingsService.
func (s *SettingsServiceImpl) GetGeoFence(ctx context.Context) (settings.GeoFenceResponse, error) {
	fence, err := s.Repository.GetGeoFence(ctx)
	if err != nil {
		return settings.GeoFenceResponse{}, fmt.Errorf("failed to get geofence: %w", err)
	}
	return settings.ToGeoFenceResponse(fence), nil
}

// UpdateGeoFence implements settings.SettingsService.
func (s *SettingsServiceImpl) UpdateGeoFence(ctx context.Context, req settings.UpdateGeoFenceRequest) (settings.GeoFenceResponse, error) {
	if err := req.Validate(); err != nil {
		return settings.GeoFenceResponse{}, err
	}

	updated, err := s.Repository.UpdateGeoFence(ctx, settings.GeoFence{
		OfficeLatitude:  req.OfficeLatitude,
		OfficeLongitude: req.OfficeLongitude,
		RadiusMeters:    req.RadiusMeters,
		Enabled:         req.Enabled,
	})
	if err != nil {
		return settings.GeoFenceResponse{}, fmt.Errorf("failed to update geofence: %w", err)
	}

	return settings.ToGeoFenceResponse(updated), nil
}

func NewSettingsService(repo settings.Repository) settings.SettingsService {
	return &SettingsServiceImpl{Repository: repo}
}
