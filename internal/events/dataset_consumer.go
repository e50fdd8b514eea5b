package events

import (
	"context"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/twigaride/service-geo/internal/gazetteer"
	"go.uber.org/zap"
)

// DatasetEventConsumer listens for dataset updates and hot-reloads the
// gazetteer, so a fresh harvest is picked up without a process restart.
type DatasetEventConsumer struct {
	consumer *Consumer
	store    *gazetteer.Store
	logger   *zap.Logger
}

// NewDatasetEventConsumer creates a consumer bound to the gazetteer store.
func NewDatasetEventConsumer(brokers []string, groupID string, store *gazetteer.Store, logger *zap.Logger) *DatasetEventConsumer {
	consumer := NewConsumer(brokers, groupID, TopicGeoEvents, logger)
	return &DatasetEventConsumer{
		consumer: consumer,
		store:    store,
		logger:   logger,
	}
}

// Start begins consuming dataset events. This blocks until the context is
// cancelled.
func (c *DatasetEventConsumer) Start(ctx context.Context) error {
	return c.consumer.Consume(ctx, c.handleMessage)
}

// Close closes the underlying Kafka consumer.
func (c *DatasetEventConsumer) Close() error {
	return c.consumer.Close()
}

func (c *DatasetEventConsumer) handleMessage(ctx context.Context, msg kafkago.Message) error {
	cloudEvent, err := ParseCloudEvent(msg.Value)
	if err != nil {
		c.logger.Error("failed to parse cloud event from geo topic",
			zap.Error(err),
			zap.String("raw", string(msg.Value)),
		)
		return nil // Don't retry malformed messages
	}

	switch cloudEvent.Type {
	case GeoDatasetUpdated:
		return c.handleDatasetUpdated(cloudEvent)
	default:
		c.logger.Debug("ignoring unhandled geo event type",
			zap.String("type", cloudEvent.Type),
		)
		return nil
	}
}

func (c *DatasetEventConsumer) handleDatasetUpdated(cloudEvent CloudEvent) error {
	var evt DatasetUpdatedEvent
	if err := cloudEvent.ParseData(&evt); err != nil {
		c.logger.Error("failed to parse DatasetUpdatedEvent data", zap.Error(err))
		return nil // Don't retry malformed data
	}

	c.logger.Info("dataset updated, reloading gazetteer",
		zap.String("dataset_path", evt.DatasetPath),
		zap.Int("total", evt.Total),
		zap.Int("added", evt.Added),
	)

	if err := c.store.Reload(); err != nil {
		// Keep serving the previous snapshot; the event stays uncommitted so
		// the reload is retried on redelivery.
		return err
	}
	return nil
}
