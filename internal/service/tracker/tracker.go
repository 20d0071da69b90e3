package tracker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/hakobu-dev/hakobu-backend-go/internal/domain/auth"
	"github.com/hakobu-dev/hakobu-backend-go/internal/domain/user"
)

var (
	// ErrPositioningUnavailable means the device cannot produce fixes at
	// all. Fatal: the watch ends and the caller must restart tracking.
	ErrPositioningUnavailable = errors.New("positioning unavailable on this device")

	// ErrFixTimeout means a single fix did not arrive within the
	// configured timeout. Recoverable: the watch keeps running.
	ErrFixTimeout = errors.New("timed out waiting for a position fix")

	// ErrTrackingDenied means the identity starting the tracker does not
	// carry the driver role.
	ErrTrackingDenied = errors.New("location tracking is restricted to driver accounts")
)

// Fix is one raw position reading from the device.
type Fix struct {
	Latitude  float64  `json:"latitude"`
	Longitude float64  `json:"longitude"`
	Accuracy  *float64 `json:"accuracy,omitempty"`
	Altitude  *float64 `json:"altitude,omitempty"`
	Speed     *float64 `json:"speed,omitempty"`
	Heading   *float64 `json:"heading,omitempty"`
}

// WatchOptions tunes a position watch. Defaults request the most
// accurate fixes available, never serve a cached fix, and give up on a
// single fix after five seconds.
type WatchOptions struct {
	HighAccuracy bool
	MaximumAge   time.Duration
	Timeout      time.Duration
}

func DefaultWatchOptions() WatchOptions {
	return WatchOptions{
		HighAccuracy: true,
		MaximumAge:   0,
		Timeout:      5 * time.Second,
	}
}

// PositionProvider is the device side of tracking. Watch delivers fixes
// on the returned channel until ctx is cancelled or a fatal error
// occurs; per-fix failures are delivered on the error channel and do
// not end the watch unless they are ErrPositioningUnavailable.
type PositionProvider interface {
	Watch(ctx context.Context, opts WatchOptions) (<-chan Fix, <-chan error)
}

// Sink receives each fix, stamped with the driver it belongs to.
type Sink interface {
	Send(ctx context.Context, identity auth.Identity, fix Fix) error
}

// Subscription is a running watch. Stop cancels it and waits for the
// forwarding loop to finish; calling Stop more than once is safe.
type Subscription struct {
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

func (s *Subscription) Stop() {
	s.once.Do(func() {
		s.cancel()
		<-s.done
	})
}

// Done reports when the watch has ended, whether by Stop or by a fatal
// provider error.
func (s *Subscription) Done() <-chan struct{} {
	return s.done
}

// Tracker forwards device fixes to a sink for exactly one driver at a
// time. Starting a new watch cancels the previous one first, so a
// device never runs two subscriptions.
type Tracker struct {
	provider PositionProvider
	sink     Sink
	opts     WatchOptions

	mu      sync.Mutex
	current *Subscription
}

func New(provider PositionProvider, sink Sink, opts WatchOptions) *Tracker {
	return &Tracker{provider: provider, sink: sink, opts: opts}
}

// Start begins forwarding fixes for the given driver. Admin accounts
// are told apart and refused; tracking is a driver concern.
func (t *Tracker) Start(ctx context.Context, identity auth.Identity) (*Subscription, error) {
	if !identity.Authenticated() {
		return nil, auth.ErrNotAuthenticated
	}
	if identity.Role != user.RoleDriver {
		return nil, ErrTrackingDenied
	}

	// The whole stop-and-swap happens under the lock so two concurrent
	// Start calls cannot both keep a watch running.
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.current != nil {
		t.current.Stop()
	}

	watchCtx, cancel := context.WithCancel(ctx)
	fixes, watchErrs := t.provider.Watch(watchCtx, t.opts)

	sub := &Subscription{cancel: cancel, done: make(chan struct{})}
	t.current = sub

	go t.forward(watchCtx, identity, fixes, watchErrs, sub)

	return sub, nil
}

func (t *Tracker) forward(ctx context.Context, identity auth.Identity, fixes <-chan Fix, watchErrs <-chan error, sub *Subscription) {
	defer close(sub.done)

	for {
		select {
		case <-ctx.Done():
			return

		case fix, ok := <-fixes:
			if !ok {
				return
			}
			if err := t.sink.Send(ctx, identity, fix); err != nil {
				// The sample is lost, the watch survives.
				slog.Error("Failed to forward position fix", "user_id", identity.UserID, "error", err)
			}

		case err, ok := <-watchErrs:
			if !ok {
				watchErrs = nil
				continue
			}
			if errors.Is(err, ErrPositioningUnavailable) {
				slog.Error("Position watch ended", "user_id", identity.UserID, "error", err)
				return
			}
			slog.Warn("Position fix failed", "user_id", identity.UserID, "error", err)
		}
	}
}
