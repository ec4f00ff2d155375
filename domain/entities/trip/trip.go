package trip

import (
	"time"

	"stationtraffic/domain/entities"
)

// TripData struct that contains a single bike rental
// + Metadata: metadata added to the structure
// + RideID: identifier of the ride given by the operator
// + StartStationID: station ID in which the trip begins
// + EndStationID: station ID in which the trip ends
// + StartedAt: local date and time in which the trip begins
// + EndedAt: local date and time in which the trip ends
// + IsMember: true if the rider has a membership
type TripData struct {
	Metadata       entities.Metadata `json:"metadata"`
	RideID         string            `json:"ride_id"`
	StartStationID string            `json:"start_station_id"`
	EndStationID   string            `json:"end_station_id"`
	StartedAt      time.Time         `json:"started_at"`
	EndedAt        time.Time         `json:"ended_at"`
	IsMember       bool              `json:"is_member"`
}

func (td TripData) GetMetadata() entities.Metadata {
	return td.Metadata
}
