package audit

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"
	"github.com/turtacn/credscore/internal/config"
	"github.com/turtacn/credscore/internal/domain/models"
	"github.com/turtacn/credscore/pkg/logger"
)

// messageWriter is the subset of *kafka.Writer the publisher needs.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher streams decision audit events to a Kafka topic, keyed by applicant.
type KafkaPublisher struct {
	writer messageWriter
	logger logger.Logger
}

// NewKafkaPublisher creates a new KafkaPublisher.
func NewKafkaPublisher(cfg config.KafkaConfig, log logger.Logger) *KafkaPublisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.LeastBytes{},
		WriteTimeout: cfg.WriteTimeout,
		RequiredAcks: kafka.RequiredAcks(cfg.RequiredAcks),
		BatchSize:    cfg.BatchSize,
		BatchTimeout: cfg.BatchTimeout,
	}
	return newKafkaPublisher(writer, log)
}

func newKafkaPublisher(w messageWriter, log logger.Logger) *KafkaPublisher {
	return &KafkaPublisher{
		writer: w,
		logger: log.WithComponent("KafkaPublisher"),
	}
}

// PublishDecision implements service.DecisionPublisher.
func (p *KafkaPublisher) PublishDecision(ctx context.Context, record *models.DecisionRecord) error {
	bytes, err := json.Marshal(NewDecisionEvent(record))
	if err != nil {
		p.logger.Error(ctx, "failed to marshal decision event", err)
		return err
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(record.Decision.ApplicantID),
		Value: bytes,
		Headers: []kafka.Header{
			{Key: "type", Value: []byte(EventTypePrediction)},
		},
	})
	if err != nil {
		p.logger.Error(ctx, "failed to write message to Kafka", err,
			logger.String("decision_id", record.Decision.ID.String()))
	}
	return err
}

// Close closes the underlying Kafka writer.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
