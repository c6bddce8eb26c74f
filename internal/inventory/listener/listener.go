package listener

import (
	"context"
	"encoding/json"
	"time"

	"github.com/fekuna/omnipos-catalog-service/internal/inventory"
	"github.com/fekuna/omnipos-catalog-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-catalog-service/internal/logger"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const EventSaleRequested = "SaleRequested"

// MessageReader is satisfied by *broker.KafkaConsumer.
type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
}

type SaleListener struct {
	consumer MessageReader
	uc       inventory.UseCase
	logger   logger.ZapLogger
}

func NewSaleListener(consumer MessageReader, uc inventory.UseCase, logger logger.ZapLogger) *SaleListener {
	return &SaleListener{
		consumer: consumer,
		uc:       uc,
		logger:   logger,
	}
}

func (l *SaleListener) Start(ctx context.Context) {
	l.logger.Info("Starting sale Kafka listener")
	for {
		select {
		case <-ctx.Done():
			l.logger.Info("Stopping sale Kafka listener")
			return
		default:
			msg, err := l.consumer.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				l.logger.Error("Failed to read kafka message", zap.Error(err))
				time.Sleep(1 * time.Second)
				continue
			}
			l.processMessage(ctx, msg.Value)
		}
	}
}

type SaleRequestedEvent struct {
	EventID   string               `json:"event_id"`
	EventType string               `json:"event_type"`
	Payload   SaleRequestedPayload `json:"payload"`
	Timestamp time.Time            `json:"timestamp"`
}

type SaleRequestedPayload struct {
	ProductID int64 `json:"product_id"`
	Quantity  int64 `json:"quantity"`
}

// processMessage sells the requested units. Failures are logged and the
// message is not retried.
func (l *SaleListener) processMessage(ctx context.Context, value []byte) {
	var event SaleRequestedEvent
	if err := json.Unmarshal(value, &event); err != nil {
		l.logger.Error("Failed to unmarshal event", zap.Error(err))
		return
	}

	if event.EventType != EventSaleRequested {
		return
	}

	sale, err := l.uc.SellProduct(ctx, &dto.StockInput{
		ProductID: event.Payload.ProductID,
		Quantity:  event.Payload.Quantity,
	})
	if err != nil {
		l.logger.Error("Failed to sell product for event",
			zap.String("event_id", event.EventID),
			zap.Int64("product_id", event.Payload.ProductID),
			zap.Error(err),
		)
		return
	}

	l.logger.Info("Processed SaleRequested event",
		zap.String("event_id", event.EventID),
		zap.Int64("sale_id", sale.ID),
	)
}
