package changefeed

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
)

// RedisFeed fans changes out across instances over redis pub/sub.
type RedisFeed struct {
	rdb       *redis.Client
	owned     bool
	closed    chan struct{}
	closeOnce sync.Once
}

func NewRedisFeed(rdb *redis.Client) *RedisFeed {
	return &RedisFeed{rdb: rdb, closed: make(chan struct{})}
}

// NewRedisFeedFromURL dials redis and checks the connection.
func NewRedisFeedFromURL(ctx context.Context, url string) (*RedisFeed, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		opt = &redis.Options{Addr: url}
	}
	rdb := redis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	feed := NewRedisFeed(rdb)
	feed.owned = true
	return feed, nil
}

func (f *RedisFeed) Publish(ctx context.Context, change Change) error {
	data, err := json.Marshal(change)
	if err != nil {
		return fmt.Errorf("failed to marshal change: %w", err)
	}
	return f.rdb.Publish(ctx, OwnerChannel(change.OwnerId), data).Err()
}

func (f *RedisFeed) Listen(ctx context.Context, ownerId string) (Listener, error) {
	pubsub := f.rdb.Subscribe(ctx, OwnerChannel(ownerId))
	// Wait for the subscription confirmation before handing out the listener.
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("failed to subscribe to %s: %w", OwnerChannel(ownerId), err)
	}

	l := newListener(pubsub.Close)
	messages := pubsub.Channel()

	go func() {
		defer close(l.exited)
		for {
			select {
			case <-l.done:
				return
			case <-f.closed:
				l.sourceClosed()
				return
			case msg, ok := <-messages:
				if !ok {
					l.sourceClosed()
					return
				}
				var change Change
				sig := Signal{}
				if err := json.Unmarshal([]byte(msg.Payload), &change); err != nil {
					sig.Err = fmt.Errorf("malformed change on %s: %w", msg.Channel, err)
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
func (f *RedisFeed) Close() error {
	f.closeOnce.Do(func() { close(f.closed) })
	if f.owned {
		return f.rdb.Close()
	}
	return nil
}
