package config

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"stationtraffic/communication"
	"stationtraffic/ingestion"
	"stationtraffic/utils"
)

const (
	configFilepath        = "./workers/trafficworker/config/config.yaml"
	defaultPublishTimeout = 5 * time.Second
	defaultCity           = "boston"
)

type TrafficWorkerConfig struct {
	RabbitURL        string                                  `yaml:"rabbit_url"`
	PublishTimeout   time.Duration                           `yaml:"publish_timeout"`
	Ingestion        ingestion.Config                        `yaml:"ingestion"`
	InputQueue       communication.QueueDeclarationConfig    `yaml:"input_queue"`
	InputExchange    string                                  `yaml:"input_exchange"`
	InputRoutingKeys []string                                `yaml:"input_routing_keys"`
	OutputExchange   communication.ExchangeDeclarationConfig `yaml:"output_exchange"`
	QualityOfService communication.QualityOfService          `yaml:"quality_of_service"`
	City             string
	ID               int
}

// LoadConfig reads config.yaml and applies the env overrides
func LoadConfig() (*TrafficWorkerConfig, error) {
	return LoadConfigFromFile(configFilepath)
}

// LoadConfigFromFile same as LoadConfig with a custom path
func LoadConfigFromFile(filepath string) (*TrafficWorkerConfig, error) {
	configFile, err := utils.GetConfigFile(filepath)
	if err != nil {
		return nil, err
	}

	var trafficConfig TrafficWorkerConfig
	err = yaml.Unmarshal(configFile, &trafficConfig)
	if err != nil {
		return nil, fmt.Errorf("error parsing traffic worker config file: %w", err)
	}

	trafficConfig.RabbitURL = utils.GetEnvOrDefault(communication.GetRabbitURLEnvVarName(), trafficConfig.RabbitURL)
	trafficConfig.Ingestion.StationsFile = utils.GetEnvOrDefault("STATIONS_FILE", trafficConfig.Ingestion.StationsFile)
	trafficConfig.Ingestion.TripsFile = utils.GetEnvOrDefault("TRIPS_FILE", trafficConfig.Ingestion.TripsFile)
	trafficConfig.Ingestion.Timezone = utils.GetEnvOrDefault("TIMEZONE", trafficConfig.Ingestion.Timezone)
	trafficConfig.City = utils.GetEnvOrDefault("CITY", defaultCity)
	trafficConfig.ID = utils.GetIntEnvOrDefault("WORKER_ID", 1)

	if trafficConfig.PublishTimeout <= 0 {
		trafficConfig.PublishTimeout = defaultPublishTimeout
	}

	return &trafficConfig, nil
}
