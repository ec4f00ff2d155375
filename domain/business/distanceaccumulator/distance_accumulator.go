package distanceaccumulator

import (
	"github.com/umahmood/haversine"

	"stationtraffic/domain/entities/station"
	"stationtraffic/domain/entities/trip"
)

// DistanceAccumulator struct that collects the straight line distance of the trips that depart from a station
// + StationID: ID of the station to collect data. Once set, it cannot change
// + Counter: amount of trips collected
// + TotalDistance: sum of the distances, in km, of the trips collected
type DistanceAccumulator struct {
	StationID     string  `json:"station_id"`
	Counter       int     `json:"counter"`
	TotalDistance float64 `json:"total_distance"`
}

func NewDistanceAccumulator(stationID string) *DistanceAccumulator {
	return &DistanceAccumulator{
		StationID: stationID,
	}
}

func (da *DistanceAccumulator) UpdateAccumulator(newDistance float64) {
	da.Counter += 1
	da.TotalDistance += newDistance
}

// GetAverageDistance returns the mean distance in km. The bool is false if no trip was collected.
func (da *DistanceAccumulator) GetAverageDistance() (float64, bool) {
	if da.Counter == 0 {
		return 0, false
	}
	return da.TotalDistance / float64(da.Counter), true
}

// AccumulateDepartures returns a map {startStationID: *DistanceAccumulator} with the distance between
// the start and end station of every trip. Trips with a station that is not in stations are skipped.
func AccumulateDepartures(stations []*station.StationData, trips []*trip.TripData) map[string]*DistanceAccumulator {
	stationsMap := make(map[string]*station.StationData, len(stations))
	for _, stationData := range stations {
		stationsMap[stationData.ID] = stationData
	}

	accumulators := make(map[string]*DistanceAccumulator)
	for _, tripData := range trips {
		startStation, ok := stationsMap[tripData.StartStationID]
		if !ok {
			continue
		}
		endStation, ok := stationsMap[tripData.EndStationID]
		if !ok {
			continue
		}

		accumulator, ok := accumulators[startStation.ID]
		if !ok {
			accumulator = NewDistanceAccumulator(startStation.ID)
			accumulators[startStation.ID] = accumulator
		}
		accumulator.UpdateAccumulator(CalculateDistance(startStation, endStation))
	}

	return accumulators
}

// CalculateDistance returns the distance in km between two stations using haversine formula
func CalculateDistance(startStation *station.StationData, endStation *station.StationData) float64 {
	station1 := haversine.Coord{Lat: startStation.Latitude, Lon: startStation.Longitude}
	station2 := haversine.Coord{Lat: endStation.Latitude, Lon: endStation.Longitude}

	_, km := haversine.Distance(station1, station2)
	return km
}
