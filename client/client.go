package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"stationtraffic/communication"
	"stationtraffic/domain/business/queryresponse"
	"stationtraffic/domain/business/timefilter"
	"stationtraffic/domain/entities/eof"
	"stationtraffic/utils"
)

const (
	configFilepath  = "./client/config/config.yaml"
	contentTypeJson = "application/json"
	filterStr       = "filter"
)

// ClientConfig
// + StepMinutes: distance between two filters of the sweep
// + IncludeAnyTime: if true, the sweep starts with the any time filter
type ClientConfig struct {
	RabbitURL      string                                  `yaml:"rabbit_url"`
	PublishTimeout time.Duration                           `yaml:"publish_timeout"`
	Sender         string                                  `yaml:"sender"`
	StepMinutes    int                                     `yaml:"step_minutes"`
	IncludeAnyTime bool                                    `yaml:"include_any_time"`
	Exchange       communication.ExchangeDeclarationConfig `yaml:"exchange"`
	City           string
}

func LoadClientConfig(filepath string) (ClientConfig, error) {
	configFile, err := utils.GetConfigFile(filepath)
	if err != nil {
		return ClientConfig{}, err
	}

	var clientConfig ClientConfig
	err = yaml.Unmarshal(configFile, &clientConfig)
	if err != nil {
		return ClientConfig{}, fmt.Errorf("error parsing client config file: %w", err)
	}

	clientConfig.RabbitURL = utils.GetEnvOrDefault(communication.GetRabbitURLEnvVarName(), clientConfig.RabbitURL)
	clientConfig.City = utils.GetEnvOrDefault("CITY", "boston")
	if clientConfig.PublishTimeout <= 0 {
		clientConfig.PublishTimeout = 5 * time.Second
	}

	return clientConfig, nil
}

// publisher is the part of communication.RabbitMQ used by the client
type publisher interface {
	DeclareExchanges(exchangesConfig []communication.ExchangeDeclarationConfig) error
	PublishMessageInExchange(ctx context.Context, exchange string, routingKey string, message []byte, contentType string) error
}

// Client plays the role of the time slider: it sends time filters to the traffic worker
type Client struct {
	config   ClientConfig
	rabbitMQ publisher
}

func NewClient(clientConfig ClientConfig, rabbitMQ publisher) *Client {
	return &Client{
		config:   clientConfig,
		rabbitMQ: rabbitMQ,
	}
}

// GetRoutingKey returns filter.city.sender
func (c *Client) GetRoutingKey() string {
	return fmt.Sprintf("%s.%s.%s", filterStr, c.config.City, c.config.Sender)
}

// GetEOFString returns the message of the EOF sent after the last filter
func (c *Client) GetEOFString() string {
	return fmt.Sprintf("eof.%s.%s", c.config.Sender, c.config.City)
}

func (c *Client) DeclareExchanges() error {
	return c.rabbitMQ.DeclareExchanges([]communication.ExchangeDeclarationConfig{c.config.Exchange})
}

// SweepValues returns the slider values of a sweep over the whole day
func (c *Client) SweepValues() []int {
	var values []int
	if c.config.IncludeAnyTime {
		values = append(values, timefilter.AnySliderValue)
	}

	step := c.config.StepMinutes
	if step <= 0 {
		step = timefilter.WindowMinutes
	}
	for minute := timefilter.MinMinute; minute <= timefilter.MaxMinute; minute += step {
		values = append(values, minute)
	}
	return values
}

// SendFilters publishes one FilterRequest per slider value and then an EOF
func (c *Client) SendFilters(ctx context.Context, sliderValues []int) error {
	for _, sliderValue := range sliderValues {
		request := queryresponse.NewFilterRequest(c.config.City, c.config.Sender, sliderValue)
		err := c.publish(ctx, request)
		if err != nil {
			log.Errorf("[client: %s][status: error] error sending filter %v: %s", c.config.Sender, sliderValue, err.Error())
			return err
		}
		log.Debugf("[client: %s][status: OK] filter %v sent", c.config.Sender, sliderValue)
	}

	err := c.publish(ctx, eof.NewEOF(c.config.City, c.config.Sender, c.GetEOFString()))
	if err != nil {
		log.Errorf("[client: %s][status: error] error sending EOF: %s", c.config.Sender, err.Error())
		return err
	}

	log.Infof("[client: %s][status: OK] %d filters sent", c.config.Sender, len(sliderValues))
	return nil
}

func (c *Client) publish(ctx context.Context, message interface{}) error {
	messageBytes, err := json.Marshal(message)
	if err != nil {
		return err
	}

	publishCtx, cancel := context.WithTimeout(ctx, c.config.PublishTimeout)
	defer cancel()

	return c.rabbitMQ.PublishMessageInExchange(publishCtx, c.config.Exchange.Name, c.GetRoutingKey(), messageBytes, contentTypeJson)
}
