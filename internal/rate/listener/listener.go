package listener

import (
	"context"
	"encoding/json"
	"time"

	"github.com/fekuna/omnipos-jewellery-service/internal/rate"
	"github.com/fekuna/omnipos-jewellery-service/internal/rate/dto"
	"github.com/fekuna/omnipos-jewellery-service/pkg/logger"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const EventRatesPublished = "RatesPublished"

// MessageReader is the part of *kafka.Reader the listener needs.
type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

type ReaderConfig struct {
	Brokers []string
	Topic   string
	GroupID string
}

func NewKafkaReader(cfg ReaderConfig) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.Brokers,
		Topic:    cfg.Topic,
		GroupID:  cfg.GroupID,
		MinBytes: 1,
		MaxBytes: 1 << 20,
	})
}

type RateListener struct {
	reader  MessageReader
	uc      rate.UseCase
	logger  logger.ZapLogger
	backoff time.Duration
}

func NewRateListener(reader MessageReader, uc rate.UseCase, log logger.ZapLogger) *RateListener {
	return &RateListener{
		reader:  reader,
		uc:      uc,
		logger:  log.With(zap.String("component", "rate-listener")),
		backoff: time.Second,
	}
}

// Start consumes until ctx is cancelled.
func (l *RateListener) Start(ctx context.Context) {
	l.logger.Info("Starting rate feed listener")
	for {
		msg, err := l.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				l.logger.Info("Stopping rate feed listener")
				return
			}
			l.logger.Error("Failed to read kafka message", zap.Error(err))
			select {
			case <-ctx.Done():
				return
			case <-time.After(l.backoff):
			}
			continue
		}
		l.processMessage(ctx, msg.Value)
	}
}

type RatesPublishedEvent struct {
	EventID   string       `json:"event_id"`
	EventType string       `json:"event_type"`
	Payload   RatesPayload `json:"payload"`
	Timestamp time.Time    `json:"timestamp"`
}

// RatesPayload values may be JSON numbers or numeric strings.
type RatesPayload struct {
	Gold22K       json.Number `json:"gold_22k"`
	Silver        json.Number `json:"silver"`
	GSTPercentage json.Number `json:"gst_percentage"`
}

func (l *RateListener) processMessage(ctx context.Context, value []byte) {
	var event RatesPublishedEvent
	if err := json.Unmarshal(value, &event); err != nil {
		l.logger.Error("Failed to unmarshal event", zap.Error(err))
		return
	}
	if event.EventType != EventRatesPublished {
		return
	}

	p := event.Payload
	if p.Gold22K != "" || p.Silver != "" {
		_, err := l.uc.RecordRate(ctx, &dto.RecordRateInput{Gold22K: p.Gold22K.String(), Silver: p.Silver.String()})
		if err != nil {
			l.logger.Error("Failed to record published rate", zap.String("event_id", event.EventID), zap.Error(err))
		}
	}
	if p.GSTPercentage != "" {
		_, err := l.uc.RecordTax(ctx, &dto.RecordTaxInput{Percentage: p.GSTPercentage.String()})
		if err != nil {
			l.logger.Error("Failed to record published gst", zap.String("event_id", event.EventID), zap.Error(err))
		}
	}
}
