package timefilter

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"stationtraffic/domain/entities/trip"
)

const (
	// AnySliderValue is the slider position meaning "no filter"
	AnySliderValue = -1
	// WindowMinutes is the distance, inclusive, from the selected minute at which a trip still counts
	WindowMinutes = 60
	MinMinute     = 0
	MaxMinute     = 24*60 - 1

	anyTimeLabel = "any time"
	clockLayout  = "3:04 PM"
)

// TimeFilter selects the trips that started or ended close to a minute of the day.
// The zero value matches every trip.
// + minute: minute since midnight in [MinMinute, MaxMinute]. Only meaningful if enabled
// + enabled: false means any time
type TimeFilter struct {
	minute  int
	enabled bool
}

// AnyTime returns the filter that keeps all trips
func AnyTime() TimeFilter {
	return TimeFilter{}
}

// NewTimeFilter returns a filter around minute. Minutes outside [0, 1439] are rejected.
func NewTimeFilter(minute int) (TimeFilter, error) {
	if minute < MinMinute || minute > MaxMinute {
		return TimeFilter{}, fmt.Errorf("%d: %w", minute, ErrMinuteOutOfRange)
	}
	return TimeFilter{minute: minute, enabled: true}, nil
}

// FromSliderValue maps the slider position to a filter: -1 is any time, otherwise a minute of the day
func FromSliderValue(value int) (TimeFilter, error) {
	if value == AnySliderValue {
		return AnyTime(), nil
	}
	return NewTimeFilter(value)
}

// Parse accepts a slider value ("-1", "500"), a 24h clock time ("08:20") or "any"
func Parse(value string) (TimeFilter, error) {
	value = strings.TrimSpace(value)
	if value == "" || strings.EqualFold(value, "any") {
		return AnyTime(), nil
	}

	if strings.Contains(value, ":") {
		clock, err := time.Parse("15:04", value)
		if err != nil {
			return TimeFilter{}, fmt.Errorf("%s: %w", value, ErrInvalidTimeLabel)
		}
		return NewTimeFilter(MinutesSinceMidnight(clock))
	}

	sliderValue, err := strconv.Atoi(value)
	if err != nil {
		return TimeFilter{}, fmt.Errorf("%s: %w", value, ErrInvalidTimeLabel)
	}
	return FromSliderValue(sliderValue)
}

// Minute returns the selected minute. The bool is false when the filter is any time.
func (tf TimeFilter) Minute() (int, bool) {
	return tf.minute, tf.enabled
}

// IsAnyTime returns true if the filter keeps every trip
func (tf TimeFilter) IsAnyTime() bool {
	return !tf.enabled
}

// SliderValue returns the value the filter was built from, -1 for any time
func (tf TimeFilter) SliderValue() int {
	if !tf.enabled {
		return AnySliderValue
	}
	return tf.minute
}

// Label returns the text shown next to the slider
func (tf TimeFilter) Label() string {
	if !tf.enabled {
		return anyTimeLabel
	}
	return Format(tf.minute)
}

func (tf TimeFilter) String() string {
	return tf.Label()
}

// Matches returns true if the trip started or ended within WindowMinutes of the selected minute.
// Distances are measured on the 0-1439 scale, a filter at 00:10 does not reach a trip ending at 23:50.
func (tf TimeFilter) Matches(tripData *trip.TripData) bool {
	if !tf.enabled {
		return true
	}
	startedMinutes := MinutesSinceMidnight(tripData.StartedAt)
	endedMinutes := MinutesSinceMidnight(tripData.EndedAt)
	return abs(startedMinutes-tf.minute) <= WindowMinutes || abs(endedMinutes-tf.minute) <= WindowMinutes
}

// FilterTrips returns the trips that match the filter. With any time the same slice is returned.
// The input slice is never modified.
func FilterTrips(trips []*trip.TripData, tf TimeFilter) []*trip.TripData {
	if tf.IsAnyTime() {
		return trips
	}

	filteredTrips := make([]*trip.TripData, 0)
	for _, tripData := range trips {
		if tf.Matches(tripData) {
			filteredTrips = append(filteredTrips, tripData)
		}
	}
	return filteredTrips
}

// MinutesSinceMidnight returns hour*60+minute of the wall clock of t, the date is dismissed
func MinutesSinceMidnight(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

// Format renders a minute of the day as "2:30 PM"
func Format(minute int) string {
	clock := time.Date(0, time.January, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(minute) * time.Minute)
	return clock.Format(clockLayout)
}

func abs(value int) int {
	if value < 0 {
		return -value
	}
	return value
}
