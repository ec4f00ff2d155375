package main

import (
	"os"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"stationtraffic/domain/business/timefilter"
	"stationtraffic/domain/business/trafficview"
	"stationtraffic/ingestion"
)

// InitLogger Receives the log level to be set in logrus as a string. This method
// parses the string and set the level to the logger. If the level string is not
// valid an error is returned
func InitLogger(logLevel string) error {
	level, err := log.ParseLevel(logLevel)
	if err != nil {
		return err
	}

	customFormatter := &log.TextFormatter{
		TimestampFormat: "2006-01-02 15:04:05",
		FullTimestamp:   false,
	}
	log.SetFormatter(customFormatter)
	log.SetLevel(level)
	return nil
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "report",
		Usage: "print the traffic of every station for a time of day",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "stations",
				Value:   "./data/bluebikes-stations.json",
				Usage:   "stations feed",
				EnvVars: []string{"STATIONS_FILE"},
			},
			&cli.StringFlag{
				Name:    "trips",
				Value:   "./data/bluebikes-traffic-2024-03.csv",
				Usage:   "trips CSV",
				EnvVars: []string{"TRIPS_FILE"},
			},
			&cli.StringFlag{
				Name:  "time",
				Value: "any",
				Usage: "time of day: any, a slider value (-1..1439) or HH:MM",
			},
			&cli.StringFlag{
				Name:    "timezone",
				Value:   "America/New_York",
				Usage:   "zone of the trip timestamps",
				EnvVars: []string{"TIMEZONE"},
			},
			&cli.BoolFlag{
				Name:  "skip-invalid",
				Usage: "drop rows that cannot be parsed instead of failing",
			},
			&cli.IntFlag{
				Name:  "top",
				Value: 0,
				Usage: "only print the N busiest stations, 0 prints all of them",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "print the snapshot as JSON",
			},
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "info",
				EnvVars: []string{"LOG_LEVEL"},
			},
		},
		Before: func(c *cli.Context) error {
			return InitLogger(c.String("log-level"))
		},
		Action: func(c *cli.Context) error {
			filter, err := timefilter.Parse(c.String("time"))
			if err != nil {
				return cli.Exit(err.Error(), 2)
			}

			loader, err := ingestion.NewLoader(ingestion.Config{
				StationsFile:    c.String("stations"),
				TripsFile:       c.String("trips"),
				Timezone:        c.String("timezone"),
				SkipInvalidRows: c.Bool("skip-invalid"),
			})
			if err != nil {
				return err
			}

			data, err := loader.Load()
			if err != nil {
				return err
			}

			snapshot := trafficview.NewTrafficView(data.Stations, data.Trips).Recompute(filter)
			if c.Bool("json") {
				return PrintJSON(c.App.Writer, snapshot)
			}
			return PrintTable(c.App.Writer, snapshot, c.Int("top"))
		},
	}
}

func main() {
	_ = godotenv.Load()

	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
