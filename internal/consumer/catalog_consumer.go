package consumer

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/Eursukkul/eventhub/internal/logging"
	"github.com/Eursukkul/eventhub/internal/models"
	"github.com/Eursukkul/eventhub/internal/service"
	amqp "github.com/rabbitmq/amqp091-go"
)

// Importer stores events received from the catalog feed.
type Importer interface {
	Import(ctx context.Context, event models.Event) (*models.Event, error)
}

type CatalogConsumer struct {
	catalog Importer
	log     logging.Logger
}

func NewCatalogConsumer(catalog Importer, log logging.Logger) *CatalogConsumer {
	return &CatalogConsumer{catalog: catalog, log: log.With("component", "catalog_consumer")}
}

// Start drains msgs in the background until the channel closes or ctx is
// cancelled. The returned channel is closed when the loop exits.
func (cc *CatalogConsumer) Start(ctx context.Context, msgs <-chan amqp.Delivery) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					cc.log.Info(ctx, "delivery channel closed, stopping consumer")
					return
				}
				cc.handleMessage(ctx, msg)
			}
		}
	}()
	return done
}

func (cc *CatalogConsumer) handleMessage(ctx context.Context, msg amqp.Delivery) {
	var event models.Event
	if err := json.Unmarshal(msg.Body, &event); err != nil {
		cc.log.Warn(ctx, "dropping malformed message", "routing_key", msg.RoutingKey, "error", err)
		_ = msg.Nack(false, false)
		return
	}

	stored, err := cc.catalog.Import(ctx, event)
	if errors.Is(err, service.ErrInvalidEvent) {
		cc.log.Warn(ctx, "dropping invalid event", "event_id", event.ID, "error", err)
		_ = msg.Nack(false, false)
		return
	}
	if err != nil {
		cc.log.Error(ctx, "import failed, requeueing", "event_id", event.ID, "error", err)
		_ = msg.Nack(false, true)
		return
	}

	cc.log.Info(ctx, "event imported", "event_id", stored.ID, "name", stored.Name)
	_ = msg.Ack(false)
}
