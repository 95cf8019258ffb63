// Package changefeed carries "an owner's notes changed" signals between the
// writers of the note collection and its live subscribers.
package changefeed

import (
	"context"
	"errors"
	"sync"
	"time"
)

const (
	KindCreated = "created"
	KindUpdated = "updated"
	KindDeleted = "deleted"

	listenerBuffer = 16
)

var ErrClosed = errors.New("changefeed: closed")

// Change describes one committed write to an owner's notes.
type Change struct {
	OwnerId    string    `json:"owner_id"`
	DocumentId string    `json:"document_id"`
	Kind       string    `json:"kind"`
	At         time.Time `json:"at"`
}

// Signal is a delivered Change, or the error the feed hit while delivering one.
type Signal struct {
	Change Change
	Err    error
}

// Listener receives the signals for one owner until closed.
// Close is idempotent; Changes is closed once Close returns, or earlier when
// the underlying subscription ends on its own.
type Listener interface {
	Changes() <-chan Signal
	Close() error
}

type Feed interface {
	Publish(ctx context.Context, change Change) error
	// Listen attaches a listener for ownerId. It returns once the attachment is confirmed,
	// so every Publish that starts afterwards is delivered.
	Listen(ctx context.Context, ownerId string) (Listener, error)
	Close() error
}

// OwnerChannel is the redis channel / NATS subject carrying an owner's changes.
func OwnerChannel(ownerId string) string {
	return "notes.owner." + ownerId
}

// listener is the delivery half shared by every driver. The driver's pump goroutine
// calls emit, calls sourceClosed if its source ends first, and closes exited when it returns.
type listener struct {
	out     chan Signal
	done    chan struct{}
	exited  chan struct{}
	once    sync.Once
	outOnce sync.Once
	release func() error
	err     error
}

func newListener(release func() error) *listener {
	return &listener{
		out:     make(chan Signal, listenerBuffer),
		done:    make(chan struct{}),
		exited:  make(chan struct{}),
		release: release,
	}
}

// emit blocks until the signal is queued or the listener is closed.
func (l *listener) emit(sig Signal) bool {
	select {
	case <-l.done:
		return false
	default:
	}
	select {
	case l.out <- sig:
		return true
	case <-l.done:
		return false
	}
}

// sourceClosed ends Changes for a listener whose source went away. Only the
// pump goroutine calls it, and it emits nothing afterwards.
func (l *listener) sourceClosed() {
	l.closeOut()
}

func (l *listener) closeOut() {
	l.outOnce.Do(func() { close(l.out) })
}

func (l *listener) Changes() <-chan Signal {
	return l.out
}

func (l *listener) Close() error {
	l.once.Do(func() {
		close(l.done)
		if l.release != nil {
			l.err = l.release()
		}
		<-l.exited
		l.closeOut()
	})
	return l.err
}
