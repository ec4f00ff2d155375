package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"stationtraffic/domain/business/trafficview"
)

const undefinedRatio = "-"

// PrintTable writes one row per station, busiest first. top > 0 limits the amount of rows
func PrintTable(writer io.Writer, snapshot *trafficview.Snapshot, top int) error {
	stations := make([]*trafficview.StationSummary, len(snapshot.Stations))
	copy(stations, snapshot.Stations)
	sort.SliceStable(stations, func(i, j int) bool {
		return stations[i].TotalTraffic > stations[j].TotalTraffic
	})
	if top > 0 && top < len(stations) {
		stations = stations[:top]
	}

	fmt.Fprintf(writer, "Traffic at %s: %d trips (%d with unknown stations)\n\n", snapshot.TimeLabel, snapshot.TripCount, snapshot.UnmatchedTripCount)

	tw := tabwriter.NewWriter(writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "STATION\tNAME\tDEPARTURES\tARRIVALS\tTOTAL\tDEPARTURE RATIO\tFLOW")
	for _, summary := range stations {
		ratio := undefinedRatio
		if summary.DepartureRatio != nil {
			ratio = fmt.Sprintf("%.2f", *summary.DepartureRatio)
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\t%s\t%.1f\n",
			summary.StationID, summary.Name, summary.Departures, summary.Arrivals, summary.TotalTraffic, ratio, summary.Flow)
	}
	return tw.Flush()
}

// PrintJSON writes the snapshot indented
func PrintJSON(writer io.Writer, snapshot *trafficview.Snapshot) error {
	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(snapshot)
}
