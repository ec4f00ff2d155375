package trafficworker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	log "github.com/sirupsen/logrus"

	"stationtraffic/communication"
	"stationtraffic/domain/business/queryresponse"
	"stationtraffic/domain/business/timefilter"
	"stationtraffic/domain/business/trafficview"
	"stationtraffic/domain/entities/eof"
	"stationtraffic/workers/trafficworker/config"
)

const (
	workerType      = "traffic-worker"
	trafficStr      = "traffic"
	anyTimeKey      = "any"
	contentTypeJson = "application/json"
)

var ErrConsumerClosed = errors.New("consumer channel closed")

// broker is the part of communication.RabbitMQ used by the worker
type broker interface {
	DeclareNonAnonymousQueues(queuesConfig []communication.QueueDeclarationConfig) error
	DeclareExchanges(exchangesConfig []communication.ExchangeDeclarationConfig) error
	SetQualityOfService(qos communication.QualityOfService) error
	BindQueue(queueName string, exchange string, routingKeys []string) error
	GetQueueConsumer(queueName string) (<-chan amqp.Delivery, error)
	PublishMessageInExchange(ctx context.Context, exchange string, routingKey string, message []byte, contentType string) error
	KillBadBunny() error
}

// TrafficWorker recomputes the station traffic every time a new time filter arrives
// and publishes the result in the output exchange
type TrafficWorker struct {
	rabbitMQ broker
	config   *config.TrafficWorkerConfig
	view     *trafficview.TrafficView
}

func NewTrafficWorker(trafficWorkerConfig *config.TrafficWorkerConfig, rabbitMQ broker, view *trafficview.TrafficView) *TrafficWorker {
	return &TrafficWorker{
		rabbitMQ: rabbitMQ,
		config:   trafficWorkerConfig,
		view:     view,
	}
}

func (tw *TrafficWorker) getLogMessage(method string, message string, err error) string {
	if err != nil {
		return fmt.Sprintf("[worker: %s][workerID: %v][method: %s][status: ERROR] %s: %s", workerType, tw.GetID(), method, message, err.Error())
	}
	return fmt.Sprintf("[worker: %s][workerID: %v][method: %s][status: OK] %s", workerType, tw.GetID(), method, message)
}

// GetID returns the Traffic Worker ID
func (tw *TrafficWorker) GetID() int {
	return tw.config.ID
}

// GetType returns the Traffic Worker type
func (tw *TrafficWorker) GetType() string {
	return workerType
}

// GetRoutingKey returns the routing key of a snapshot: traffic.city.sliderValue, any for -1
func (tw *TrafficWorker) GetRoutingKey(filter timefilter.TimeFilter) string {
	if filter.IsAnyTime() {
		return fmt.Sprintf("%s.%s.%s", trafficStr, tw.config.City, anyTimeKey)
	}
	return fmt.Sprintf("%s.%s.%v", trafficStr, tw.config.City, filter.SliderValue())
}

// DeclareQueues declares the input queue and binds it to the input exchange, if any
func (tw *TrafficWorker) DeclareQueues() error {
	err := tw.rabbitMQ.DeclareNonAnonymousQueues([]communication.QueueDeclarationConfig{tw.config.InputQueue})
	if err != nil {
		log.Error(tw.getLogMessage("DeclareQueues", "error declaring input queue", err))
		return err
	}

	if tw.config.QualityOfService.PrefetchCount > 0 {
		err = tw.rabbitMQ.SetQualityOfService(tw.config.QualityOfService)
		if err != nil {
			log.Error(tw.getLogMessage("DeclareQueues", "error setting quality of service", err))
			return err
		}
	}

	if tw.config.InputExchange != "" {
		err = tw.rabbitMQ.BindQueue(tw.config.InputQueue.Name, tw.config.InputExchange, tw.config.InputRoutingKeys)
		if err != nil {
			log.Error(tw.getLogMessage("DeclareQueues", "error binding input queue", err))
			return err
		}
	}

	log.Info(tw.getLogMessage("DeclareQueues", "queues declared correctly!", nil))
	return nil
}

// DeclareExchanges declares the output exchange
func (tw *TrafficWorker) DeclareExchanges() error {
	err := tw.rabbitMQ.DeclareExchanges([]communication.ExchangeDeclarationConfig{tw.config.OutputExchange})
	if err != nil {
		log.Error(tw.getLogMessage("DeclareExchanges", "error declaring output exchange", err))
		return err
	}

	log.Info(tw.getLogMessage("DeclareExchanges", "exchanges declared correctly!", nil))
	return nil
}

// ProcessInputMessages consumes time filters until an EOF arrives or ctx is cancelled.
// Each valid filter produces one snapshot published in the output exchange.
// Messages that cannot be decoded, and filters out of range, are dismissed.
func (tw *TrafficWorker) ProcessInputMessages(ctx context.Context) error {
	consumer, err := tw.rabbitMQ.GetQueueConsumer(tw.config.InputQueue.Name)
	if err != nil {
		log.Error(tw.getLogMessage("ProcessInputMessages", "error getting consumer", err))
		return err
	}

	log.Info(tw.getLogMessage("ProcessInputMessages", "start consuming messages", nil))

	for {
		select {
		case <-ctx.Done():
			log.Info(tw.getLogMessage("ProcessInputMessages", "context done, stop consuming", nil))
			return ctx.Err()
		case message, ok := <-consumer:
			if !ok {
				log.Error(tw.getLogMessage("ProcessInputMessages", "error consuming messages", ErrConsumerClosed))
				return ErrConsumerClosed
			}

			var request queryresponse.FilterRequest
			err = json.Unmarshal(message.Body, &request)
			if err != nil {
				log.Warn(tw.getLogMessage("ProcessInputMessages", "dismissing message that is not a time filter", err))
				continue
			}

			if eof.IsEOF(request.GetMetadata()) {
				log.Info(tw.getLogMessage("ProcessInputMessages", fmt.Sprintf("EOF received: %s", request.GetMetadata().GetMessage()), nil))
				return nil
			}

			err = tw.processData(ctx, request)
			if err != nil {
				return err
			}
		}
	}
}

// processData recomputes the traffic for the requested filter and publishes it
func (tw *TrafficWorker) processData(ctx context.Context, request queryresponse.FilterRequest) error {
	filter, err := timefilter.FromSliderValue(request.SliderValue)
	if err != nil {
		log.Warn(tw.getLogMessage("processData", "dismissing time filter", err))
		return nil
	}

	log.Debug(tw.getLogMessage("processData", fmt.Sprintf("recomputing traffic for %s", filter.Label()), nil))
	snapshot := tw.view.Recompute(filter)
	if snapshot.UnmatchedTripCount > 0 {
		log.Debug(tw.getLogMessage("processData", fmt.Sprintf("%d trips reference unknown stations", snapshot.UnmatchedTripCount), nil))
	}

	response := queryresponse.NewTrafficResponse(tw.config.City, workerType, snapshot)
	responseBytes, err := json.Marshal(response)
	if err != nil {
		log.Error(tw.getLogMessage("processData", "error marshalling traffic response", err))
		return err
	}

	publishCtx, cancel := context.WithTimeout(ctx, tw.config.PublishTimeout)
	defer cancel()

	routingKey := tw.GetRoutingKey(filter)
	err = tw.rabbitMQ.PublishMessageInExchange(publishCtx, tw.config.OutputExchange.Name, routingKey, responseBytes, contentTypeJson)
	if err != nil {
		log.Error(tw.getLogMessage("processData", fmt.Sprintf("error publishing snapshot with routing key %s", routingKey), err))
		return err
	}

	return nil
}

func (tw *TrafficWorker) Kill() error {
	return tw.rabbitMQ.KillBadBunny()
}
