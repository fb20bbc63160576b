package v1

import (
	"context"
)

// TickConsumer reads trade prints from Kafka into the tick store.
type TickConsumer interface {
	Start(ctx context.Context)
	Subscribe(ctx context.Context)
	Stop() error
}
