package main

import (
	"context"
	"errors"
	"os"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"stationtraffic/communication"
	"stationtraffic/domain/business/trafficview"
	"stationtraffic/ingestion"
	"stationtraffic/utils"
	"stationtraffic/workers/trafficworker"
	"stationtraffic/workers/trafficworker/config"
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

func main() {
	_ = godotenv.Load()

	logLevel := utils.GetEnvOrDefault("LOG_LEVEL", "DEBUG")
	if err := InitLogger(logLevel); err != nil {
		log.Fatalf("%s", err)
		return
	}

	workerConfig, err := config.LoadConfig()
	if err != nil {
		log.Errorf("[worker: traffic-worker][status: error] error loading config: %s", err.Error())
		os.Exit(1)
	}

	loader, err := ingestion.NewLoader(workerConfig.Ingestion)
	if err != nil {
		log.Errorf("[worker: traffic-worker][workerID: %v][status: error] error creating loader: %s", workerConfig.ID, err.Error())
		os.Exit(1)
	}

	data, err := loader.Load()
	if err != nil {
		log.Errorf("[worker: traffic-worker][workerID: %v][status: error] error loading data: %s", workerConfig.ID, err.Error())
		os.Exit(1)
	}

	rabbitMQ, err := communication.NewRabbitMQ(workerConfig.RabbitURL)
	if err != nil {
		log.Errorf("[worker: traffic-worker][workerID: %v][status: error] %s", workerConfig.ID, err.Error())
		os.Exit(1)
	}

	worker := trafficworker.NewTrafficWorker(workerConfig, rabbitMQ, trafficview.NewTrafficView(data.Stations, data.Trips))
	defer func() {
		if err := worker.Kill(); err != nil {
			log.Errorf("[worker: %s][workerID: %v][status: error] error closing RabbitMQ: %s", worker.GetType(), worker.GetID(), err.Error())
		}
	}()

	if err = worker.DeclareQueues(); err != nil {
		return
	}

	if err = worker.DeclareExchanges(); err != nil {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	signalChannel := utils.GetSignalChannel()
	go func() {
		sig := <-signalChannel
		log.Infof("[worker: %s][workerID: %v] signal %s received, shutting down", worker.GetType(), worker.GetID(), sig)
		cancel()
	}()

	err = worker.ProcessInputMessages(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Errorf("[worker: %s][workerID: %v][status: error] error processing messages: %s", worker.GetType(), worker.GetID(), err.Error())
		return
	}

	log.Debugf("[worker: %s][workerID: %v] finish main.go", worker.GetType(), worker.GetID())
}
