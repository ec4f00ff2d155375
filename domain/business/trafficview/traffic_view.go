package trafficview

import (
	"stationtraffic/domain/business/distanceaccumulator"
	"stationtraffic/domain/business/encoding"
		"stationtraffic/domain/business/timefilter"
	"stationtraffic/domain/business/trafficaggregator"
	"stationtraffic/domain/entities/station"
	"stationtraffic/domain/entities/trip"
)

// StationSummary is what the map needs to draw one station marker
// + DepartureRatio: nil when the station has no traffic
// + Flow: DepartureRatio quantized to 0, 0.5 or 1. Stations without traffic get encoding.NeutralFlow
// + Radius: marker radius, relative to the busiest station of the whole day
// + AverageDepartureDistance: mean distance in km of the trips that depart from the station. nil without departures
type StationSummary struct {
	StationID                string   `json:"station_id"`
	Name                     string   `json:"name"`
	Latitude                 float64  `json:"lat"`
	Longitude                float64  `json:"lon"`
	Arrivals                 int      `json:"arrivals"`
	Departures               int      `json:"departures"`
	TotalTraffic             int      `json:"total_traffic"`
	DepartureRatio           *float64 `json:"departure_ratio"`
	Flow                     float64  `json:"flow"`
	Radius                   float64  `json:"radius"`
	AverageDepartureDistance *float64 `json:"average_departure_distance_km"`
	Description              string   `json:"description"`
}

// Snapshot is the result of a recomputation for a single time filter
// + Filter: slider value the snapshot was built with, -1 for any time
// + TimeLabel: Filter formatted for display
// + TripCount: amount of trips that passed the filter
// + UnmatchedTripCount: trips that passed the filter but reference a station that is not loaded
// + MaxTraffic: traffic of the busiest station over the whole day, the traffic that gets the max radius
type Snapshot struct {
	Filter             int               `json:"filter"`
	TimeLabel          string            `json:"time_label"`
	TripCount          int               `json:"trip_count"`
	UnmatchedTripCount int               `json:"unmatched_trip_count"`
	MaxTraffic         int               `json:"max_traffic"`
	Stations           []*StationSummary `json:"stations"`
}

// TrafficView holds the data loaded once at startup. It's never modified after NewTrafficView,
// so Recompute can be called from several goroutines at the same time.
// + maxDailyTraffic: TotalTraffic of the busiest station without filter. Every snapshot
// measures its radius against it, filtered ones included
type TrafficView struct {
	stations        []*station.StationData
	trips           []*trip.TripData
	maxDailyTraffic int
}

func NewTrafficView(stations []*station.StationData, trips []*trip.TripData) *TrafficView {
	return &TrafficView{
		stations:        stations,
		trips:           trips,
		maxDailyTraffic: trafficaggregator.MaxTotalTraffic(trafficaggregator.Aggregate(stations, trips)),
	}
}

// Recompute builds a new Snapshot for the given filter
func (tv *TrafficView) Recompute(filter timefilter.TimeFilter) *Snapshot {
	filteredTrips := timefilter.FilterTrips(tv.trips, filter)
	traffic := trafficaggregator.Aggregate(tv.stations, filteredTrips)
	distances := distanceaccumulator.AccumulateDepartures(tv.stations, filteredTrips)
	radiusScale := encoding.NewRadiusScaleForFilter(tv.maxDailyTraffic, !filter.IsAnyTime())

	summaries := make([]*StationSummary, 0, len(traffic))
	for idx, stationTraffic := range traffic {
		stationData := tv.stations[idx]
		ratio, defined := stationTraffic.DepartureRatio()

		summary := &StationSummary{
			StationID:    stationTraffic.StationID,
			Name:         stationTraffic.StationName,
			Latitude:     stationData.Latitude,
			Longitude:    stationData.Longitude,
			Arrivals:     stationTraffic.Arrivals,
			Departures:   stationTraffic.Departures,
			TotalTraffic: stationTraffic.TotalTraffic,
			Flow:         encoding.FlowBucket(ratio, defined),
			Radius:       radiusScale.Radius(stationTraffic.TotalTraffic),
			Description:  stationTraffic.Description(),
		}
		if defined {
			summary.DepartureRatio = &ratio
		}
		if accumulator, ok := distances[stationTraffic.StationID]; ok {
			if average, ok := accumulator.GetAverageDistance(); ok {
				summary.AverageDepartureDistance = &average
			}
		}
		summaries = append(summaries, summary)
	}

	return &Snapshot{
		Filter:             filter.SliderValue(),
		TimeLabel:          filter.Label(),
		TripCount:          len(filteredTrips),
		UnmatchedTripCount: trafficaggregator.CountUnmatchedTrips(tv.stations, filteredTrips),
		MaxTraffic:         tv.maxDailyTraffic,
		Stations:           summaries,
	}
}
