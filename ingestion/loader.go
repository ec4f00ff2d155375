package ingestion

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/gocarina/gocsv"
	log "github.com/sirupsen/logrus"

	"stationtraffic/domain/entities"
	"stationtraffic/domain/entities/station"
	"stationtraffic/domain/entities/trip"
)

const (
	loaderStage = "ingestion"
	tripStr     = "trips"
)

// stationsFile is the envelope of the stations feed
type stationsFile struct {
	Data struct {
		Stations []*station.StationData `json:"stations"`
	} `json:"data"`
}

// tripRow is a row of the trips CSV before validation
type tripRow struct {
	RideID         string `csv:"ride_id"`
	StartedAt      string `csv:"started_at"`
	EndedAt        string `csv:"ended_at"`
	StartStationID string `csv:"start_station_id"`
	EndStationID   string `csv:"end_station_id"`
	IsMember       string `csv:"is_member"`
	MemberCasual   string `csv:"member_casual"`
}

// LoadResult has the records loaded and the amount of rows dropped by SkipInvalidRows
type LoadResult struct {
	Stations         []*station.StationData
	Trips            []*trip.TripData
	RejectedStations int
	RejectedTrips    int
}

type Loader struct {
	config   Config
	location *time.Location
}

func NewLoader(config Config) (*Loader, error) {
	config = config.withDefaults()
	location, err := time.LoadLocation(config.Timezone)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.Timezone, ErrInvalidTimezone)
	}

	return &Loader{
		config:   config,
		location: location,
	}, nil
}

func (l *Loader) getLogMessage(method string, message string, err error) string {
	if err != nil {
		return fmt.Sprintf("[stage: %s][method: %s][status: ERROR] %s: %s", loaderStage, method, message, err.Error())
	}
	return fmt.Sprintf("[stage: %s][method: %s][status: OK] %s", loaderStage, method, message)
}

// Load reads StationsFile and TripsFile
func (l *Loader) Load() (*LoadResult, error) {
	stationsReader, err := os.Open(l.config.StationsFile)
	if err != nil {
		return nil, fmt.Errorf("error opening stations file: %w", err)
	}
	defer closeFile(stationsReader)

	tripsReader, err := os.Open(l.config.TripsFile)
	if err != nil {
		return nil, fmt.Errorf("error opening trips file: %w", err)
	}
	defer closeFile(tripsReader)

	stations, rejectedStations, err := l.LoadStations(stationsReader)
	if err != nil {
		return nil, err
	}

	trips, rejectedTrips, err := l.LoadTrips(tripsReader)
	if err != nil {
		return nil, err
	}

	log.Info(l.getLogMessage("Load", fmt.Sprintf("loaded %d stations and %d trips", len(stations), len(trips)), nil))

	return &LoadResult{
		Stations:         stations,
		Trips:            trips,
		RejectedStations: rejectedStations,
		RejectedTrips:    rejectedTrips,
	}, nil
}

// LoadStations decodes the stations feed. Returns the valid stations and the amount of rejected ones.
func (l *Loader) LoadStations(reader io.Reader) ([]*station.StationData, int, error) {
	var feed stationsFile
	if err := json.NewDecoder(reader).Decode(&feed); err != nil {
		return nil, 0, fmt.Errorf("error decoding stations: %s: %w", err.Error(), ErrInvalidStationData)
	}

	stations := make([]*station.StationData, 0, len(feed.Data.Stations))
	rejected := 0
	for idx, stationData := range feed.Data.Stations {
		if stationData == nil || strings.TrimSpace(stationData.ID) == "" {
			err := fmt.Errorf("station %d: %s: %w", idx, ErrMissingStationID, ErrInvalidStationData)
			if !l.config.SkipInvalidRows {
				return nil, 0, err
			}
			log.Debug(l.getLogMessage("LoadStations", "dismissing station", err))
			rejected += 1
			continue
		}

		stations = append(stations, &station.StationData{
			ID:        strings.TrimSpace(stationData.ID),
			Name:      stationData.Name,
			Latitude:  stationData.Latitude,
			Longitude: stationData.Longitude,
			Capacity:  stationData.Capacity,
		})
	}

	return stations, rejected, nil
}

// LoadTrips decodes the trips CSV. Returns the valid trips and the amount of rejected rows.
// A row with a timestamp that cannot be parsed is never coerced: it fails the load or, with
// SkipInvalidRows, is dropped.
func (l *Loader) LoadTrips(reader io.Reader) ([]*trip.TripData, int, error) {
	csvReader := csv.NewReader(reader)
	csvReader.FieldsPerRecord = -1
	csvReader.TrimLeadingSpace = true

	var rows []*tripRow
	if err := gocsv.UnmarshalCSV(csvReader, &rows); err != nil {
		return nil, 0, fmt.Errorf("error decoding trips: %s: %w", err.Error(), ErrInvalidTripData)
	}

	metadata := entities.NewMetadata("", tripStr, loaderStage, "")
	trips := make([]*trip.TripData, 0, len(rows))
	rejected := 0
	for idx, row := range rows {
		tripData, err := l.getTripData(row)
		if err != nil {
			// header is line 1
			err = fmt.Errorf("line %d: %w", idx+2, err)
			if !l.config.SkipInvalidRows {
				return nil, 0, err
			}
			log.Debug(l.getLogMessage("LoadTrips", "dismissing trip", err))
			rejected += 1
			continue
		}
		tripData.Metadata = metadata
		trips = append(trips, tripData)
	}

	if rejected > 0 {
		log.Infof("[stage: %s][method: LoadTrips] %d invalid trips were dismissed", loaderStage, rejected)
	}
	return trips, rejected, nil
}

func (l *Loader) getTripData(row *tripRow) (*trip.TripData, error) {
	startStationID := strings.TrimSpace(row.StartStationID)
	endStationID := strings.TrimSpace(row.EndStationID)
	if startStationID == "" || endStationID == "" {
		return nil, fmt.Errorf("%s: %w", ErrMissingStationID, ErrInvalidTripData)
	}

	startedAt, err := l.parseTimestamp(row.StartedAt)
	if err != nil {
		log.Debugf("Invalid start date: %v", row.StartedAt)
		return nil, fmt.Errorf("%s: %w", ErrInvalidDate, ErrInvalidTripData)
	}

	endedAt, err := l.parseTimestamp(row.EndedAt)
	if err != nil {
		log.Debugf("Invalid end date: %v", row.EndedAt)
		return nil, fmt.Errorf("%s: %w", ErrInvalidDate, ErrInvalidTripData)
	}

	return &trip.TripData{
		RideID:         row.RideID,
		StartStationID: startStationID,
		EndStationID:   endStationID,
		StartedAt:      startedAt,
		EndedAt:        endedAt,
		IsMember:       isMember(row),
	}, nil
}

// parseTimestamp tries every layout. Timestamps without offset are read in the configured zone and
// the ones with offset are moved to it, so the hour of the day is always local.
func (l *Loader) parseTimestamp(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	var lastErr error
	for _, layout := range l.config.TimestampLayouts {
		timestamp, err := time.ParseInLocation(layout, value, l.location)
		if err == nil {
			return timestamp.In(l.location), nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

func isMember(row *tripRow) bool {
	switch strings.ToLower(strings.TrimSpace(row.IsMember)) {
	case "1", "true", "yes":
		return true
	}
	return strings.EqualFold(strings.TrimSpace(row.MemberCasual), "member")
}

func closeFile(file *os.File) {
	if err := file.Close(); err != nil {
		log.Errorf("error closing %s: %s", file.Name(), err.Error())
	}
}
