package main

import (
	"context"
	"os"
	"strings"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"stationtraffic/communication"
	"stationtraffic/domain/business/timefilter"
	"stationtraffic/utils"
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

// parseSliderValues reads the filters given as arguments ("08:20", "500", "any")
func parseSliderValues(args []string) ([]int, error) {
	var values []int
	for _, arg := range args {
		for _, value := range strings.Split(arg, ",") {
			filter, err := timefilter.Parse(value)
			if err != nil {
				return nil, err
			}
			values = append(values, filter.SliderValue())
		}
	}
	return values, nil
}

func main() {
	_ = godotenv.Load()

	if err := InitLogger(utils.GetEnvOrDefault("LOG_LEVEL", "info")); err != nil {
		log.Fatalf("%s", err)
	}

	clientConfig, err := LoadClientConfig(configFilepath)
	if err != nil {
		log.Fatalf("[client][status: error] error loading config: %s", err)
	}

	rabbitMQ, err := communication.NewRabbitMQ(clientConfig.RabbitURL)
	if err != nil {
		log.Fatalf("[client][status: error] %s", err)
	}
	defer func() {
		if err := rabbitMQ.KillBadBunny(); err != nil {
			log.Errorf("[client][status: error] %s", err.Error())
		}
	}()

	client := NewClient(clientConfig, rabbitMQ)
	if err = client.DeclareExchanges(); err != nil {
		log.Errorf("[client][status: error] error declaring exchanges: %s", err.Error())
		return
	}

	sliderValues := client.SweepValues()
	if len(os.Args) > 1 {
		sliderValues, err = parseSliderValues(os.Args[1:])
		if err != nil {
			log.Errorf("[client][status: error] invalid time filter: %s", err.Error())
			return
		}
	}

	if err = client.SendFilters(context.Background(), sliderValues); err != nil {
		return
	}
	log.Debug("Finish main.go")
}
