// Package kafka wraps the franz-go producer used to announce booking
// and event lifecycle changes to downstream consumers.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"
)

// ProducerConfig holds Kafka producer configuration
type ProducerConfig struct {
	Brokers       []string
	ClientID      string
	MaxRetries    int
	RetryInterval time.Duration
	LingerMs      int
}

// Message is a single record to produce
type Message struct {
	Topic     string
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Timestamp time.Time
}

// Producer wraps a kgo.Client for producing messages
type Producer struct {
	client *kgo.Client
}

// NewProducer creates a Kafka producer and verifies broker connectivity.
func NewProducer(ctx context.Context, cfg *ProducerConfig) (*Producer, error) {
	if cfg == nil || len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("kafka brokers are required")
	}

	clientID := cfg.ClientID
	if clientID == "" {
		clientID = "ticketing-producer"
	}

	opts := []kgo.Opt{
		kgo.SeedBrokers(cfg.Brokers...),
		kgo.ClientID(clientID),
		kgo.RequiredAcks(kgo.AllISRAcks()),
	}
	if cfg.LingerMs > 0 {
		opts = append(opts, kgo.ProducerLinger(time.Duration(cfg.LingerMs)*time.Millisecond))
	}

	client, err := kgo.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka client: %w", err)
	}

	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 3
	}
	retryInterval := cfg.RetryInterval
	if retryInterval <= 0 {
		retryInterval = 2 * time.Second
	}

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(retryInterval)
		}
		if lastErr = client.Ping(ctx); lastErr == nil {
			return &Producer{client: client}, nil
		}
	}

	client.Close()
	return nil, fmt.Errorf("failed to ping kafka after %d attempts: %w", maxRetries+1, lastErr)
}

// Produce sends a message synchronously.
func (p *Producer) Produce(ctx context.Context, msg *Message) error {
	record := toRecord(msg)
	if err := p.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("failed to produce to %s: %w", msg.Topic, err)
	}
	return nil
}

// ProduceAsync sends a message without waiting for the broker ack.
// Delivery failures surface through the callback goroutine log only.
func (p *Producer) ProduceAsync(ctx context.Context, msg *Message, onErr func(error)) {
	p.client.Produce(ctx, toRecord(msg), func(_ *kgo.Record, err error) {
		if err != nil && onErr != nil {
			onErr(err)
		}
	})
}

// ProduceJSON marshals value as JSON and produces it.
func (p *Producer) ProduceJSON(ctx context.Context, topic, key string, value interface{}, headers map[string]string) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}
	return p.Produce(ctx, &Message{
		Topic:     topic,
		Key:       []byte(key),
		Value:     data,
		Headers:   headers,
		Timestamp: time.Now(),
	})
}

// Close flushes and closes the producer.
func (p *Producer) Close() {
	if p.client != nil {
		p.client.Close()
	}
}

func toRecord(msg *Message) *kgo.Record {
	record := &kgo.Record{
		Topic:     msg.Topic,
		Key:       msg.Key,
		Value:     msg.Value,
		Timestamp: msg.Timestamp,
	}
	for k, v := range msg.Headers {
		record.Headers = append(record.Headers, kgo.RecordHeader{Key: k, Value: []byte(v)})
	}
	return record
}
