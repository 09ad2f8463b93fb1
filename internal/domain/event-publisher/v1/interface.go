package eventpublisherv1

import (
	"context"

	orderbookv1 "github.com/muhammadchandra19/matching-engine/internal/domain/orderbook/v1"
)

// EventPublisher ships book events to downstream consumers in sequence order.
//
//go:generate mockgen -source interface.go -destination=mock/interface_mock.go -package=eventpublisherv1_mock
type EventPublisher interface {
	Publish(ctx context.Context, logs []orderbookv1.Log) error
	Close() error
}
