package errors

import "net/http"

var (
	ErrLocationNotFound = New(
		"LOCATION_NOT_FOUND",
		"Location not found",
		http.StatusNotFound,
	)

	ErrInvalidCoordinates = New(
		"INVALID_COORDINATES",
		"Invalid coordinates provided",
		http.StatusBadRequest,
	)

	ErrInvalidZoom = New(
		"INVALID_ZOOM",
		"Invalid zoom level",
		http.StatusBadRequest,
	)

	ErrInvalidTileCoordinates = New(
		"INVALID_TILE_COORDINATES",
		"Invalid tile coordinates",
		http.StatusBadRequest,
	)

	ErrInvalidMapSize = New(
		"INVALID_MAP_SIZE",
		"Invalid static map size",
		http.StatusBadRequest,
	)

	ErrInvalidSessionDuration = New(
		"INVALID_SESSION_DURATION",
		"Invalid CME session duration",
		http.StatusBadRequest,
	)

	ErrSessionTooShort = New(
		"SESSION_TOO_SHORT",
		"CME session must last at least 45 minutes",
		http.StatusBadRequest,
	)

	ErrInvalidCalculationInput = New(
		"INVALID_CALCULATION_INPUT",
		"Calculation input must not be negative",
		http.StatusBadRequest,
	)

	ErrProviderUnavailable = New(
		"PROVIDER_UNAVAILABLE",
		"Map provider unavailable",
		http.StatusBadGateway,
	)

	ErrDatabaseError = New(
		"DATABASE_ERROR",
		"Database operation failed",
		http.StatusInternalServerError,
	)

	ErrCacheError = New(
		"CACHE_ERROR",
		"Cache operation failed",
		http.StatusInternalServerError,
	)

	ErrTooManyRequests = New(
		"TOO_MANY_REQUESTS",
		"Rate limit exceeded",
		http.StatusTooManyRequests,
	)

	ErrInvalidRequest = New(
		"INVALID_REQUEST",
		"Invalid request parameters",
		http.StatusBadRequest,
	)

	ErrInternalServer = New(
		"INTERNAL_SERVER_ERROR",
		"Internal server error",
		http.StatusInternalServerError,
	)
)
