package trafficaggregator

import (
	"sort"

	"stationtraffic/domain/business/stationtraffic"
	"stationtraffic/domain/entities/station"
	"stationtraffic/domain/entities/trip"
)

// Rollup counts trips grouped by station ID
// + Departures: {startStationID: amount of trips}
// + Arrivals: {endStationID: amount of trips}
// Keys that do not belong to any known station are kept.
type Rollup struct {
	Departures map[string]int
	Arrivals   map[string]int
}

// NewRollup groups the given trips by start and end station
func NewRollup(trips []*trip.TripData) *Rollup {
	departures := make(map[string]int)
	arrivals := make(map[string]int)
	for _, tripData := range trips {
		departures[tripData.StartStationID] += 1
		arrivals[tripData.EndStationID] += 1
	}

	return &Rollup{
		Departures: departures,
		Arrivals:   arrivals,
	}
}

// Aggregate returns one StationTraffic per station, in the same order as stations.
// Stations without trips get all counters in zero. Neither stations nor trips are modified.
func Aggregate(stations []*station.StationData, trips []*trip.TripData) []*stationtraffic.StationTraffic {
	return NewRollup(trips).StationTraffic(stations)
}

// StationTraffic merges the rollup with the station list
func (r *Rollup) StationTraffic(stations []*station.StationData) []*stationtraffic.StationTraffic {
	result := make([]*stationtraffic.StationTraffic, 0, len(stations))
	for _, stationData := range stations {
		result = append(result, stationtraffic.NewStationTrafficWithCounts(
			stationData.ID,
			stationData.Name,
			r.Arrivals[stationData.ID],
			r.Departures[stationData.ID],
		))
	}
	return result
}

// UnmatchedStationIDs returns, sorted, the station IDs referenced by trips that are not in stations.
// Their trips are counted in the Rollup but they never appear in Aggregate's result.
func UnmatchedStationIDs(stations []*station.StationData, trips []*trip.TripData) []string {
	knownStations := make(map[string]bool, len(stations))
	for _, stationData := range stations {
		knownStations[stationData.ID] = true
	}

	unmatched := make(map[string]bool)
	for _, tripData := range trips {
		if !knownStations[tripData.StartStationID] {
			unmatched[tripData.StartStationID] = true
		}
		if !knownStations[tripData.EndStationID] {
			unmatched[tripData.EndStationID] = true
		}
	}

	ids := make([]string, 0, len(unmatched))
	for id := range unmatched {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// CountUnmatchedTrips returns the amount of trips with at least one station that is not in stations
func CountUnmatchedTrips(stations []*station.StationData, trips []*trip.TripData) int {
	knownStations := make(map[string]bool, len(stations))
	for _, stationData := range stations {
		knownStations[stationData.ID] = true
	}

	counter := 0
	for _, tripData := range trips {
		if !knownStations[tripData.StartStationID] || !knownStations[tripData.EndStationID] {
			counter += 1
		}
	}
	return counter
}

// MaxTotalTraffic returns the highest TotalTraffic of the given stations, 0 if there are none
func MaxTotalTraffic(traffic []*stationtraffic.StationTraffic) int {
	maxTraffic := 0
	for _, st := range traffic {
		if st.TotalTraffic > maxTraffic {
			maxTraffic = st.TotalTraffic
		}
	}
	return maxTraffic
}
