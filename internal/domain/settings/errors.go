package settings

import "errors"

var ErrGeoFenceNotConfigured = errors.New("geofence is not configured")
