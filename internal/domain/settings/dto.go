package settings

import (
	"time"

	"github.com/niosa-ap/attendance-backend-go/internal/pkg/validator"
)

type UpdateGeoFenceRequest struct {
	OfficeLatitude  float64 `json:"office_latitude"`
	OfficeLongitude float64 `json:"office_longitude"`
	RadiusMeters    float64 `json:"radius_meters"`
	Enabled         bool    `json:"enabled"`
}

func (r *UpdateGeoFenceRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.OfficeLatitude < -90 || r.OfficeLatitude > 90 {
		errs = append(errs, validator.ValidationError{
			Field:   "office_latitude",
			Message: "office_latitude must be between -90 and 90",
		})
	}
	if r.OfficeLongitude < -180 || r.OfficeLongitude > 180 {
		errs = append(errs, validator.ValidationError{
			Field:   "office_longitude",
			Message: "office_longitude must be between -180 and 180",
		})
	}
	if r.RadiusMeters <= 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "radius_meters",
			Message: "radius_meters must be greater than zero",
		})
	}
	if r.RadiusMeters > 100000 {
		errs = append(errs, validator.ValidationError{
			Field:   "radius_meters",
			Message: "radius_meters must not exceed 100000",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type GeoFenceResponse struct {
	OfficeLatitude  float64 `json:"office_latitude"`
	OfficeLongitude float64 `json:"office_longitude"`
	RadiusMeters    float64 `json:"radius_meters"`
	Enabled         bool    `json:"enabled"`
	UpdatedAt       string  `json:"updated_at"`
}

func ToGeoFenceResponse(g GeoFence) GeoFenceResponse {
	return GeoFenceResponse{
		OfficeLatitude:  g.OfficeLatitude,
		OfficeLongitude: g.OfficeLongitude,
		RadiusMeters:    g.RadiusMeters,
		Enabled:         g.Enabled,
		UpdatedAt:       g.UpdatedAt.Format(time.RFC3339),
	}
}
