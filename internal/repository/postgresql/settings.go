package postgresql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/niosa-ap/attendance-backend-go/internal/domain/settings"
	"github.com/niosa-ap/attendance-backend-go/internal/pkg/database"
)

type settingsRepository struct {
	db *database.DB
}

// GetGeoFence implements settings.Repository.
func (r *settingsRepository) GetGeoFence(ctx context.Context) (settings.GeoFence, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT office_latitude, office_longitude, radius_meters, enabled, updated_at
		FROM geofence_settings
		WHERE id = 1
	`

	var fence settings.GeoFence
	err := q.QueryRow(ctx, query).Scan(
		&fence.OfficeLatitude, &fence.OfficeLongitude, &fence.RadiusMeters, &fence.Enabled, &fence.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return settings.GeoFence{}, settings.ErrGeoFenceNotConfigured
		}
		return settings.GeoFence{}, fmt.Errorf("failed to get geofence settings: %w", err)
	}

	return fence, nil
}

// UpdateGeoFence implements settings.Repository.
//
// The settings table holds a single row keyed by id 1; the upsert keeps
// first-time configuration and later edits on one path.
func (r *settingsRepository) UpdateGeoFence(ctx context.Context, fence settings.GeoFence) (settings.GeoFence, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO geofence_settings (id, office_latitude, office_longitude, radius_meters, enabled, updated_at)
		VALUES (1, $1, $2, $3, $4, NOW())
		ON CONFLICT (id) DO UPDATE
		SET office_latitude = EXCLUDED.office_latitude,
		    office_longitude = EXCLUDED.office_longitude,
		    radius_meters = EXCLUDED.radius_meters,
		    enabled = EXCLUDED.enabled,
		    updated_at = NOW()
		RETURNING office_latitude, office_longitude, radius_meters, enabled, updated_at
	`

	var updated settings.GeoFence
	err := q.QueryRow(ctx, query,
		fence.OfficeLatitude, fence.OfficeLongitude, fence.RadiusMeters, fence.Enabled,
	).Scan(
		&updated.OfficeLatitude, &updated.OfficeLongitude, &updated.RadiusMeters, &updated.Enabled, &updated.UpdatedAt,
	)
	if err != nil {
		return settings.GeoFence{}, fmt.Errorf("failed to update geofence settings: %w", err)
	}

	return updated, nil
}

func NewSettingsRepository(db *database.DB) settings.Repository {
	return &settingsRepository{db: db}
}
