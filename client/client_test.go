package main

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"stationtraffic/communication"
	"stationtraffic/domain/business/queryresponse"
	"stationtraffic/domain/entities/eof"
)

type fakePublisher struct {
	exchanges []communication.ExchangeDeclarationConfig
	messages  [][]byte
	keys      []string
	err       error
}

func (fp *fakePublisher) DeclareExchanges(exchangesConfig []communication.ExchangeDeclarationConfig) error {
	fp.exchanges = append(fp.exchanges, exchangesConfig...)
	return nil
}

func (fp *fakePublisher) PublishMessageInExchange(ctx context.Context, exchange string, routingKey string, message []byte, contentType string) error {
	if fp.err != nil {
		return fp.err
	}
	fp.keys = append(fp.keys, routingKey)
	fp.messages = append(fp.messages, message)
	return nil
}

func newTestClient(fp *fakePublisher, step int, includeAnyTime bool) *Client {
	return NewClient(ClientConfig{
		PublishTimeout: time.Second,
		Sender:         "slider",
		StepMinutes:    step,
		IncludeAnyTime: includeAnyTime,
		Exchange:       communication.ExchangeDeclarationConfig{Name: "time-filter-topic", Type: "topic"},
		City:           "boston",
	}, fp)
}

func TestSweepValues(t *testing.T) {
	values := newTestClient(&fakePublisher{}, 360, true).SweepValues()
	expected := []int{-1, 0, 360, 720, 1080}
	if len(values) != len(expected) {
		t.Fatalf("expected %v, got %v", expected, values)
	}
	for idx := range expected {
		if values[idx] != expected[idx] {
			t.Errorf("expected %v, got %v", expected, values)
			break
		}
	}

	// default step is one window
	values = newTestClient(&fakePublisher{}, 0, false).SweepValues()
	if len(values) != 24 || values[23] != 1380 {
		t.Errorf("expected 24 hourly values, got %v", values)
	}
}

func TestSendFilters(t *testing.T) {
	fp := &fakePublisher{}
	client := newTestClient(fp, 60, false)

	if err := client.SendFilters(context.Background(), []int{-1, 500}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(fp.messages) != 3 {
		t.Fatalf("expected 2 filters and an EOF, got %d messages", len(fp.messages))
	}
	for _, key := range fp.keys {
		if key != "filter.boston.slider" {
			t.Errorf("unexpected routing key %s", key)
		}
	}

	var request queryresponse.FilterRequest
	if err := json.Unmarshal(fp.messages[1], &request); err != nil {
		t.Fatal(err)
	}
	if request.SliderValue != 500 || request.GetMetadata().GetType() != queryresponse.FilterRequestType {
		t.Errorf("unexpected request: %+v", request)
	}

	var eofData eof.EOFData
	if err := json.Unmarshal(fp.messages[2], &eofData); err != nil {
		t.Fatal(err)
	}
	if !eof.IsEOF(eofData.GetMetadata()) || eofData.GetMetadata().GetMessage() != "eof.slider.boston" {
		t.Errorf("unexpected EOF: %+v", eofData)
	}
}

func TestSendFiltersPublishError(t *testing.T) {
	fp := &fakePublisher{err: errors.New("connection lost")}
	if err := newTestClient(fp, 60, false).SendFilters(context.Background(), []int{0}); !errors.Is(err, fp.err) {
		t.Errorf("expected publish error, got %v", err)
	}
}

func TestParseSliderValues(t *testing.T) {
	values, err := parseSliderValues([]string{"any", "08:20,100"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(values) != 3 || values[0] != -1 || values[1] != 500 || values[2] != 100 {
		t.Errorf("unexpected values %v", values)
	}

	if _, err = parseSliderValues([]string{"2000"}); err == nil {
		t.Error("expected error for minute out of range")
	}
}

func TestLoadClientConfig(t *testing.T) {
	t.Setenv("CITY", "")
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "sender: slider\nstep_minutes: 15\nexchange:\n  name: time-filter-topic\n  type: topic\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadClientConfig(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.StepMinutes != 15 || cfg.Exchange.Name != "time-filter-topic" || cfg.City != "boston" {
		t.Errorf("unexpected config %+v", cfg)
	}
	if cfg.PublishTimeout != 5*time.Second {
		t.Errorf("expected default timeout, got %s", cfg.PublishTimeout)
	}
}
