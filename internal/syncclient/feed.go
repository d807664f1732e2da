package syncclient

import (
	"context"

	"planning-poker-be/pkg/events"
	pktNats "planning-poker-be/pkg/nats"

	"github.com/google/uuid"
)

// Feed is one session's change subscription. The returned stop function
// cancels the subscription and must be idempotent.
type Feed interface {
	Subscribe(ctx context.Context, sessionId uuid.UUID) (<-chan events.RowChange, func(), error)
}

// NatsFeed subscribes through the durable FEED stream, so the client sees
// changes from every backend instance.
type NatsFeed struct {
	sub *pktNats.Subscriber

	// consumerName distinguishes this client's durable consumer; two
	// clients sharing a name would split the feed between them.
	consumerName string
}

func NewNatsFeed(sub *pktNats.Subscriber, consumerName string) *NatsFeed {
	return &NatsFeed{sub: sub, consumerName: consumerName}
}

func (f *NatsFeed) Subscribe(ctx context.Context, sessionId uuid.UUID) (<-chan events.RowChange, func(), error) {
	ch := make(chan events.RowChange, 64)

	subject := "feed." + sessionId.String() + ".>"
	stop, err := f.sub.Subscribe(subject, f.consumerName, func(ctx context.Context, change events.RowChange) error {
		select {
		case ch <- change:
		default:
			// Drop when the consumer lags; the next notification triggers
			// the same wholesale refetch.
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	// The channel is left open; the reconcile loop exits via its context
	// and closing here would race a late delivery.
	return ch, stop, nil
}
