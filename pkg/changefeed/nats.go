package changefeed

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
)

// NatsFeed carries changes over core NATS subjects. Delivery is at-most-once,
// matching redis pub/sub.
type NatsFeed struct {
	nc        *nats.Conn
	owned     bool
	closed    chan struct{}
	closeOnce sync.Once
}

// NewNatsFeed chains onto the connection's closed handler so listeners end
// when the connection is closed for good.
func NewNatsFeed(nc *nats.Conn) *NatsFeed {
	f := &NatsFeed{nc: nc, closed: make(chan struct{})}
	previous := nc.ClosedHandler()
	nc.SetClosedHandler(func(c *nats.Conn) {
		f.markClosed()
		if previous != nil {
			previous(c)
		}
	})
	return f
}

func (f *NatsFeed) markClosed() {
	f.closeOnce.Do(func() { close(f.closed) })
}

func NewNatsFeedFromURL(url string) (*NatsFeed, error) {
	nc, err := nats.Connect(url,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(5),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	f := NewNatsFeed(nc)
	f.owned = true
	return f, nil
}

func (f *NatsFeed) Publish(ctx context.Context, change Change) error {
	data, err := json.Marshal(change)
	if err != nil {
		return fmt.Errorf("failed to marshal change: %w", err)
	}
	if err := f.nc.Publish(OwnerChannel(change.OwnerId), data); err != nil {
		return err
	}
	return f.nc.FlushWithContext(ctx)
}

func (f *NatsFeed) Listen(ctx context.Context, ownerId string) (Listener, error) {
	msgs := make(chan *nats.Msg, 64)
	sub, err := f.nc.ChanSubscribe(OwnerChannel(ownerId), msgs)
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to %s: %w", OwnerChannel(ownerId), err)
	}
	// The server has the interest registered once the flush round-trips.
	if err := f.nc.FlushWithContext(ctx); err != nil {
		_ = sub.Unsubscribe()
		return nil, fmt.Errorf("failed to subscribe to %s: %w", OwnerChannel(ownerId), err)
	}

	l := newListener(func() error {
		if !sub.IsValid() {
			return nil
		}
		return sub.Unsubscribe()
	})

	go func() {
		defer close(l.exited)
		for {
			select {
			case <-l.done:
				return
			case <-f.closed:
				l.sourceClosed()
				return
			case msg := <-msgs:
				var change Change
				sig := Signal{}
				if err := json.Unmarshal(msg.Data, &change); err != nil {
					sig.Err = fmt.Errorf("malformed change on %s: %w", msg.Subject, err)
				} else {
					sig.Change = change
				}
				if !l.emit(sig) {
					return
				}
			}
		}
	}()

	return l, nil
}

// Close ends every open listener's Changes.
func (f *NatsFeed) Close() error {
	f.markClosed()
	if f.owned {
		f.nc.Close()
	}
	return nil
}
