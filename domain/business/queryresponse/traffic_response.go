package queryresponse

import (
	"stationtraffic/domain/business/trafficview"
	"stationtraffic/domain/entities"
)

const trafficResponseType = "traffic-snapshot"

// TrafficResponse contains the station traffic computed for a time filter
// + Metadata: metadata added to the structure
// + Snapshot: station summaries for the filter
type TrafficResponse struct {
	Metadata entities.Metadata     `json:"metadata"`
	Snapshot *trafficview.Snapshot `json:"snapshot"`
}

func NewTrafficResponse(city string, sender string, snapshot *trafficview.Snapshot) *TrafficResponse {
	metadata := entities.NewMetadata(city, trafficResponseType, sender, snapshot.TimeLabel)
	return &TrafficResponse{
		Metadata: metadata,
		Snapshot: snapshot,
	}
}

func (tr *TrafficResponse) GetMetadata() entities.Metadata {
	return tr.Metadata
}

// FilterRequest is the message that asks for a recomputation
// + Metadata: metadata added to the structure. Type EOF stops the consumer
// + SliderValue: minute of the day in [0, 1439] or -1 for any time
type FilterRequest struct {
	Metadata    entities.Metadata `json:"metadata"`
	SliderValue int               `json:"slider_value"`
}

func NewFilterRequest(city string, sender string, sliderValue int) *FilterRequest {
	return &FilterRequest{
		Metadata:    entities.NewMetadata(city, FilterRequestType, sender, ""),
		SliderValue: sliderValue,
	}
}

const FilterRequestType = "time-filter"

func (fr *FilterRequest) GetMetadata() entities.Metadata {
	return fr.Metadata
}
