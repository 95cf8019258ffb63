package changefeed

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// GoChannelFeed is the single-process feed over a watermill gochannel.
// Publish returns only after every live listener has queued the change.
type GoChannelFeed struct {
	pubSub *gochannel.GoChannel
}

func NewGoChannelFeed(logger watermill.LoggerAdapter) *GoChannelFeed {
	if logger == nil {
		logger = watermill.NopLogger{}
	}
	return &GoChannelFeed{
		pubSub: gochannel.NewGoChannel(
			gochannel.Config{
				OutputChannelBuffer:            listenerBuffer,
				BlockPublishUntilSubscriberAck: true,
			},
			logger,
		),
	}
}

func (f *GoChannelFeed) Publish(ctx context.Context, change Change) error {
	data, err := json.Marshal(change)
	if err != nil {
		return fmt.Errorf("failed to marshal change: %w", err)
	}
	msg := message.NewMessage(watermill.NewUUID(), data)
	msg.SetContext(ctx)
	return f.pubSub.Publish(OwnerChannel(change.OwnerId), msg)
}

func (f *GoChannelFeed) Listen(ctx context.Context, ownerId string) (Listener, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	subCtx, cancel := context.WithCancel(context.Background())
	messages, err := f.pubSub.Subscribe(subCtx, OwnerChannel(ownerId))
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to subscribe to %s: %w", OwnerChannel(ownerId), err)
	}

	l := newListener(func() error {
		cancel()
		return nil
	})

	go func() {
		defer close(l.exited)
		for {
			select {
			case <-l.done:
				return
			case msg, ok := <-messages:
				if !ok {
					l.sourceClosed()
					return
				}
				var change Change
				sig := Signal{}
				if err := json.Unmarshal(msg.Payload, &change); err != nil {
					sig.Err = fmt.Errorf("malformed change: %w", err)
				} else {
					sig.Change = change
				}
				delivered := l.emit(sig)
				// Publish blocks until acked, closed listener or not.
				msg.Ack()
				if !delivered {
					return
				}
			}
		}
	}()

	return l, nil
}

func (f *GoChannelFeed) Close() error {
	return f.pubSub.Close()
}
