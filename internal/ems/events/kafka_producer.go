// Package events publishes entity change events to Kafka. Production is
// fire-and-forget: services enqueue onto a buffered channel and a background
// loop writes to the broker, dropping events when the queue is full.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

var jsonMarshal = json.Marshal

type EventType string

const (
	CompanyCreated        EventType = "company_created"
	CompanyUpdated        EventType = "company_updated"
	CompanyDeleted        EventType = "company_deleted"
	DepartmentCreated     EventType = "department_created"
	DepartmentUpdated     EventType = "department_updated"
	DepartmentDeleted     EventType = "department_deleted"
	EmployeeCreated       EventType = "employee_created"
	EmployeeUpdated       EventType = "employee_updated"
	EmployeeDeleted       EventType = "employee_deleted"
	EmployeeStatusChanged EventType = "employee_status_changed"
)

// Event is the published payload. Key selects the Kafka partition and is
// the id of the entity the event concerns.
type Event struct {
	Type       EventType   `json:"type"`
	OccurredAt time.Time   `json:"occurredAt"`
	Key        uuid.UUID   `json:"-"`
	Entity     interface{} `json:"entity"`
}

type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Producer struct {
	writer    KafkaWriter
	events    chan Event
	logger    *zap.Logger
	closeChan chan struct{}
}

func NewProducer(brokers []string, logger *zap.Logger, topic string) (*Producer, error) {
	// Create topic if it doesn't exist
	conn, err := kafka.Dial("tcp", brokers[0])
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	topicConfigs := []kafka.TopicConfig{
		{
			Topic:             topic,
			NumPartitions:     3,
			ReplicationFactor: 1,
		},
	}

	err = conn.CreateTopics(topicConfigs...)
	if err != nil {
		logger.Warn("failed to create topic (may already exist)", zap.Error(err))
	}
	p := &Producer{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Balancer: &kafka.LeastBytes{},
			Topic:    topic,
		},
		events:    make(chan Event, 1000),
		logger:    logger.Named("kafka_producer"),
		closeChan: make(chan struct{}),
	}

	go p.eventLoop()
	return p, nil
}

func (p *Producer) Produce(eventType EventType, key uuid.UUID, entity interface{}) {
	event := Event{
		Type:       eventType,
		OccurredAt: time.Now().UTC(),
		Key:        key,
		Entity:     entity,
	}
	select {
	case p.events <- event:
	default:
		p.logger.Warn("Kafka producer queue full, dropping event",
			zap.String("event_type", string(eventType)),
			zap.String("entity_id", key.String()),
		)
	}
}

func (p *Producer) eventLoop() {
	for {
		select {
		case event := <-p.events:
			p.sendEvent(context.Background(), event)
		case <-p.closeChan:
			return
		}
	}
}

func (p *Producer) sendEvent(ctx context.Context, event Event) {
	value, err := jsonMarshal(event)
	if err != nil {
		p.logger.Error("Failed to serialize event",
			zap.Error(err),
			zap.String("entity_id", event.Key.String()),
		)
		return
	}
	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.Key.String()),
		Value: value,
	})
	if err != nil {
		p.logger.Error("Failed to produce event",
			zap.Error(err),
			zap.String("event_type", string(event.Type)),
			zap.String("entity_id", event.Key.String()),
		)
		return
	}
}

func (p *Producer) Close() {
	close(p.closeChan)
	if err := p.writer.Close(); err != nil {
		p.logger.Error("Failed to close Kafka writer", zap.Error(err))
	}
}
