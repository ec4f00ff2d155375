package encoding

import "math"

const (
	// NeutralFlow is used for stations without traffic, where the departure ratio is undefined
	NeutralFlow = 0.5
)

var flowLevels = []float64{0, 0.5, 1}

// FlowBucket quantizes a departure ratio in [0, 1] to 0 (mostly arrivals), 0.5 (balanced) or 1 (mostly departures).
// When defined is false NeutralFlow is returned.
func FlowBucket(ratio float64, defined bool) float64 {
	if !defined || math.IsNaN(ratio) {
		return NeutralFlow
	}

	idx := int(math.Floor(ratio * float64(len(flowLevels))))
	if idx < 0 {
		idx = 0
	}
	if idx > len(flowLevels)-1 {
		idx = len(flowLevels) - 1
	}
	return flowLevels[idx]
}

// RadiusScale maps a traffic volume to a marker radius so that the area of the marker grows linearly with it
// + maxTraffic: traffic mapped to MaxRadius
// + MinRadius: radius for stations without traffic
// + MaxRadius: radius for the busiest station
type RadiusScale struct {
	maxTraffic int
	MinRadius  float64
	MaxRadius  float64
}

// Radius ranges used by the map: wider when a time of day is selected since counts are lower
var (
	AnyTimeRange  = [2]float64{0, 25}
	FilteredRange = [2]float64{3, 50}
)

func NewRadiusScale(maxTraffic int, minRadius float64, maxRadius float64) *RadiusScale {
	return &RadiusScale{
		maxTraffic: maxTraffic,
		MinRadius:  minRadius,
		MaxRadius:  maxRadius,
	}
}

// NewRadiusScaleForFilter returns the scale used by the map; filtered selects FilteredRange instead of AnyTimeRange
func NewRadiusScaleForFilter(maxTraffic int, filtered bool) *RadiusScale {
	radiusRange := AnyTimeRange
	if filtered {
		radiusRange = FilteredRange
	}
	return NewRadiusScale(maxTraffic, radiusRange[0], radiusRange[1])
}

// Radius returns the radius for the given traffic. Values above the max are not clamped.
func (rs *RadiusScale) Radius(traffic int) float64 {
	if rs.maxTraffic <= 0 || traffic <= 0 {
		return rs.MinRadius
	}
	ratio := math.Sqrt(float64(traffic)) / math.Sqrt(float64(rs.maxTraffic))
	return rs.MinRadius + ratio*(rs.MaxRadius-rs.MinRadius)
}
