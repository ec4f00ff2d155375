package ingestion

import (
	// zone database embedded so Timezone loads on hosts without one
	_ "time/tzdata"
)

// Config tells the Loader where the data is and how to read it
// + StationsFile: path to the stations JSON ({"data": {"stations": [...]}})
// + TripsFile: path to the trips CSV
// + TimestampLayouts: layouts tried, in order, to parse started_at and ended_at
// + Timezone: IANA zone of the timestamps without offset. Minutes of the day are taken in this zone
// + SkipInvalidRows: if true, rows that cannot be parsed are dropped and counted instead of failing the load
type Config struct {
	StationsFile     string   `yaml:"stations_file"`
	TripsFile        string   `yaml:"trips_file"`
	TimestampLayouts []string `yaml:"timestamp_layouts"`
	Timezone         string   `yaml:"timezone"`
	SkipInvalidRows  bool     `yaml:"skip_invalid_rows"`
}

var defaultTimestampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05",
	"1/2/2006 15:04",
}

const defaultTimezone = "America/New_York"

func (c Config) withDefaults() Config {
	if len(c.TimestampLayouts) == 0 {
		c.TimestampLayouts = defaultTimestampLayouts
	}
	if c.Timezone == "" {
		c.Timezone = defaultTimezone
	}
	return c
}
