package stationtraffic

import (
	"fmt"
)

// StationTraffic struct that counts the trips that begin and end in a station
// + StationID: ID of the station. Once set, it cannot change
// + StationName: name of the station. Once set, it cannot change
// + Arrivals: amount of trips that end in the station
// + Departures: amount of trips that begin in the station
// + TotalTraffic: Arrivals + Departures
type StationTraffic struct {
	StationID    string `json:"station_id"`
	StationName  string `json:"name"`
	Arrivals     int    `json:"arrivals"`
	Departures   int    `json:"departures"`
	TotalTraffic int    `json:"total_traffic"`
}

// NewStationTrafficWithCounts returns a StationTraffic with TotalTraffic already computed
func NewStationTrafficWithCounts(stationID string, stationName string, arrivals int, departures int) *StationTraffic {
	return &StationTraffic{
		StationID:    stationID,
		StationName:  stationName,
		Arrivals:     arrivals,
		Departures:   departures,
		TotalTraffic: arrivals + departures,
	}
}

// DepartureRatio returns Departures / TotalTraffic. The bool is false when the station
// has no traffic, in that case the ratio is undefined and 0 is returned.
func (st *StationTraffic) DepartureRatio() (float64, bool) {
	if st.TotalTraffic == 0 {
		return 0, false
	}
	return float64(st.Departures) / float64(st.TotalTraffic), true
}

// Description returns the text shown on top of the station marker
func (st *StationTraffic) Description() string {
	return fmt.Sprintf("%d trips (%d departures, %d arrivals)", st.TotalTraffic, st.Departures, st.Arrivals)
}
