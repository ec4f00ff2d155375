package ingestion

import "errors"

var (
	ErrInvalidStationData = errors.New("invalid station data")
	ErrInvalidTripData    = errors.New("invalid trip data")
	ErrMissingStationID   = errors.New("missing station ID")
	ErrInvalidDate        = errors.New("invalid date")
	ErrInvalidTimezone    = errors.New("invalid timezone")
)
