package trafficworker

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"stationtraffic/communication"
	"stationtraffic/domain/business/queryresponse"
	"stationtraffic/domain/business/trafficview"
	"stationtraffic/domain/entities/eof"
	"stationtraffic/domain/entities/station"
	"stationtraffic/domain/entities/trip"
	"stationtraffic/workers/trafficworker/config"
)

type publishedMessage struct {
	exchange   string
	routingKey string
	body       []byte
}

type fakeBroker struct {
	deliveries  chan amqp.Delivery
	published   []publishedMessage
	queues      []communication.QueueDeclarationConfig
	exchanges   []communication.ExchangeDeclarationConfig
	bindings    map[string][]string
	qos         *communication.QualityOfService
	publishErr  error
	consumerErr error
	killed      bool
}

func newFakeBroker() *fakeBroker {
	return &fakeBroker{
		deliveries: make(chan amqp.Delivery, 10),
		bindings:   make(map[string][]string),
	}
}

func (fb *fakeBroker) DeclareNonAnonymousQueues(queuesConfig []communication.QueueDeclarationConfig) error {
	fb.queues = append(fb.queues, queuesConfig...)
	return nil
}

func (fb *fakeBroker) DeclareExchanges(exchangesConfig []communication.ExchangeDeclarationConfig) error {
	fb.exchanges = append(fb.exchanges, exchangesConfig...)
	return nil
}

func (fb *fakeBroker) SetQualityOfService(qos communication.QualityOfService) error {
	fb.qos = &qos
	return nil
}

func (fb *fakeBroker) BindQueue(queueName string, exchange string, routingKeys []string) error {
	fb.bindings[queueName+"@"+exchange] = routingKeys
	return nil
}

func (fb *fakeBroker) GetQueueConsumer(queueName string) (<-chan amqp.Delivery, error) {
	if fb.consumerErr != nil {
		return nil, fb.consumerErr
	}
	return fb.deliveries, nil
}

func (fb *fakeBroker) PublishMessageInExchange(ctx context.Context, exchange string, routingKey string, message []byte, contentType string) error {
	if fb.publishErr != nil {
		return fb.publishErr
	}
	fb.published = append(fb.published, publishedMessage{exchange: exchange, routingKey: routingKey, body: message})
	return nil
}

func (fb *fakeBroker) KillBadBunny() error {
	fb.killed = true
	return nil
}

func (fb *fakeBroker) send(t *testing.T, message interface{}) {
	t.Helper()
	body, err := json.Marshal(message)
	if err != nil {
		t.Fatal(err)
	}
	fb.deliveries <- amqp.Delivery{Body: body}
}

func newTestConfig() *config.TrafficWorkerConfig {
	return &config.TrafficWorkerConfig{
		PublishTimeout:   time.Second,
		InputQueue:       communication.QueueDeclarationConfig{Name: "time-filter-queue"},
		InputExchange:    "time-filter-topic",
		InputRoutingKeys: []string{"filter.boston.#"},
		OutputExchange:   communication.ExchangeDeclarationConfig{Name: "traffic-snapshot-topic", Type: "topic"},
		QualityOfService: communication.QualityOfService{PrefetchCount: 1},
		City:             "boston",
		ID:               1,
	}
}

func newTestView() *trafficview.TrafficView {
	startedAt := time.Date(2024, time.March, 1, 8, 10, 0, 0, time.UTC)
	stations := []*station.StationData{{ID: "A", Name: "Alewife"}, {ID: "B", Name: "Brattle"}}
	trips := []*trip.TripData{
		{StartStationID: "A", EndStationID: "B", StartedAt: startedAt, EndedAt: startedAt.Add(15 * time.Minute)},
		{StartStationID: "B", EndStationID: "A", StartedAt: startedAt.Add(30 * time.Minute), EndedAt: startedAt.Add(45 * time.Minute)},
	}
	return trafficview.NewTrafficView(stations, trips)
}

func decodeResponse(t *testing.T, message publishedMessage) queryresponse.TrafficResponse {
	t.Helper()
	var response queryresponse.TrafficResponse
	if err := json.Unmarshal(message.body, &response); err != nil {
		t.Fatalf("error decoding published message: %v", err)
	}
	return response
}

func TestDeclareQueuesAndExchanges(t *testing.T) {
	fb := newFakeBroker()
	worker := NewTrafficWorker(newTestConfig(), fb, newTestView())

	if err := worker.DeclareQueues(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := worker.DeclareExchanges(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(fb.queues) != 1 || fb.queues[0].Name != "time-filter-queue" {
		t.Errorf("unexpected queues: %+v", fb.queues)
	}
	if len(fb.exchanges) != 1 || fb.exchanges[0].Name != "traffic-snapshot-topic" {
		t.Errorf("unexpected exchanges: %+v", fb.exchanges)
	}
	if keys := fb.bindings["time-filter-queue@time-filter-topic"]; len(keys) != 1 {
		t.Errorf("expected input queue bound to input exchange, got %v", fb.bindings)
	}
	if fb.qos == nil || fb.qos.PrefetchCount != 1 {
		t.Errorf("expected prefetch count 1, got %+v", fb.qos)
	}
}

func TestProcessInputMessages(t *testing.T) {
	fb := newFakeBroker()
	worker := NewTrafficWorker(newTestConfig(), fb, newTestView())

	fb.send(t, queryresponse.NewFilterRequest("boston", "slider", -1))
	fb.send(t, queryresponse.NewFilterRequest("boston", "slider", 500))
	fb.send(t, queryresponse.NewFilterRequest("boston", "slider", 100))
	fb.send(t, eof.NewEOF("boston", "slider", "eof.slider.boston"))

	if err := worker.ProcessInputMessages(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(fb.published) != 3 {
		t.Fatalf("expected 3 snapshots, got %d", len(fb.published))
	}

	expectedKeys := []string{"traffic.boston.any", "traffic.boston.500", "traffic.boston.100"}
	expectedTrips := []int{2, 2, 0}
	for idx, message := range fb.published {
		if message.exchange != "traffic-snapshot-topic" {
			t.Errorf("message %d: unexpected exchange %s", idx, message.exchange)
		}
		if message.routingKey != expectedKeys[idx] {
			t.Errorf("message %d: expected routing key %s, got %s", idx, expectedKeys[idx], message.routingKey)
		}
		response := decodeResponse(t, message)
		if response.Snapshot.TripCount != expectedTrips[idx] {
			t.Errorf("message %d: expected %d trips, got %d", idx, expectedTrips[idx], response.Snapshot.TripCount)
		}
		if response.GetMetadata().GetType() != "traffic-snapshot" || response.GetMetadata().GetStage() != workerType {
			t.Errorf("message %d: unexpected metadata %+v", idx, response.GetMetadata())
		}
	}

	filtered := decodeResponse(t, fb.published[1])
	if filtered.Snapshot.TimeLabel != "8:20 AM" || filtered.Snapshot.Filter != 500 {
		t.Errorf("unexpected filter in snapshot: %d %q", filtered.Snapshot.Filter, filtered.Snapshot.TimeLabel)
	}
	for _, summary := range filtered.Snapshot.Stations {
		if summary.TotalTraffic != 2 {
			t.Errorf("station %s: expected 2 trips, got %d", summary.StationID, summary.TotalTraffic)
		}
	}

	empty := decodeResponse(t, fb.published[2])
	for _, summary := range empty.Snapshot.Stations {
		if summary.DepartureRatio != nil {
			t.Errorf("station %s: expected null departure ratio", summary.StationID)
		}
	}
}

func TestProcessInputMessagesDismissesInvalidFilters(t *testing.T) {
	fb := newFakeBroker()
	worker := NewTrafficWorker(newTestConfig(), fb, newTestView())

	fb.deliveries <- amqp.Delivery{Body: []byte("not json")}
	fb.send(t, queryresponse.NewFilterRequest("boston", "slider", 1440))
	fb.send(t, queryresponse.NewFilterRequest("boston", "slider", -7))
	fb.send(t, queryresponse.NewFilterRequest("boston", "slider", 0))
	fb.send(t, eof.NewEOF("boston", "slider", ""))

	if err := worker.ProcessInputMessages(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(fb.published) != 1 {
		t.Fatalf("expected only the valid filter to be published, got %d", len(fb.published))
	}
	if fb.published[0].routingKey != "traffic.boston.0" {
		t.Errorf("unexpected routing key %s", fb.published[0].routingKey)
	}
}

func TestProcessInputMessagesPublishError(t *testing.T) {
	fb := newFakeBroker()
	fb.publishErr = errors.New("channel closed")
	worker := NewTrafficWorker(newTestConfig(), fb, newTestView())

	fb.send(t, queryresponse.NewFilterRequest("boston", "slider", -1))

	err := worker.ProcessInputMessages(context.Background())
	if !errors.Is(err, fb.publishErr) {
		t.Errorf("expected publish error, got %v", err)
	}
}

func TestProcessInputMessagesConsumerError(t *testing.T) {
	fb := newFakeBroker()
	fb.consumerErr = errors.New("no queue")
	worker := NewTrafficWorker(newTestConfig(), fb, newTestView())

	if err := worker.ProcessInputMessages(context.Background()); !errors.Is(err, fb.consumerErr) {
		t.Errorf("expected consumer error, got %v", err)
	}
}

func TestProcessInputMessagesClosedConsumer(t *testing.T) {
	fb := newFakeBroker()
	close(fb.deliveries)
	worker := NewTrafficWorker(newTestConfig(), fb, newTestView())

	if err := worker.ProcessInputMessages(context.Background()); !errors.Is(err, ErrConsumerClosed) {
		t.Errorf("expected ErrConsumerClosed, got %v", err)
	}
}

func TestProcessInputMessagesContextCancelled(t *testing.T) {
	fb := newFakeBroker()
	worker := NewTrafficWorker(newTestConfig(), fb, newTestView())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := worker.ProcessInputMessages(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestKill(t *testing.T) {
	fb := newFakeBroker()
	worker := NewTrafficWorker(newTestConfig(), fb, newTestView())

	if err := worker.Kill(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !fb.killed {
		t.Error("expected broker to be closed")
	}
}
