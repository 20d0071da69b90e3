package tracker

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/hakobu-dev/hakobu-backend-go/internal/domain/auth"
	"github.com/hakobu-dev/hakobu-backend-go/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	fixes chan Fix
	errs  chan error
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		fixes: make(chan Fix, 16),
		errs:  make(chan error, 16),
	}
}

func (p *fakeProvider) Watch(ctx context.Context, opts WatchOptions) (<-chan Fix, <-chan error) {
	return p.fixes, p.errs
}

type recordingSink struct {
	mu    sync.Mutex
	sent  []Fix
	users []string
}

func (s *recordingSink) Send(ctx context.Context, identity auth.Identity, fix Fix) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, fix)
	s.users = append(s.users, identity.UserID)
	return nil
}

func (s *recordingSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sent)
}

func driver() auth.Identity {
	return auth.Identity{UserID: "driver-1", Name: "Test Driver", Role: user.RoleDriver}
}

func TestStartForwardsFixesToSink(t *testing.T) {
	provider := newFakeProvider()
	sink := &recordingSink{}
	tr := New(provider, sink, DefaultWatchOptions())

	sub, err := tr.Start(context.Background(), driver())
	require.NoError(t, err)
	defer sub.Stop()

	provider.fixes <- Fix{Latitude: -6.20, Longitude: 106.84}
	provider.fixes <- Fix{Latitude: -6.21, Longitude: 106.85}

	require.Eventually(t, func() bool { return sink.count() == 2 }, time.Second, 5*time.Millisecond)

	sink.mu.Lock()
	defer sink.mu.Unlock()
	assert.Equal(t, -6.20, sink.sent[0].Latitude)
	assert.Equal(t, []string{"driver-1", "driver-1"}, sink.users)
}

func TestStartRejectsUnauthenticated(t *testing.T) {
	tr := New(newFakeProvider(), &recordingSink{}, DefaultWatchOptions())

	_, err := tr.Start(context.Background(), auth.Identity{})
	assert.ErrorIs(t, err, auth.ErrNotAuthenticated)
}

func TestStartRejectsAdmins(t *testing.T) {
	tr := New(newFakeProvider(), &recordingSink{}, DefaultWatchOptions())

	_, err := tr.Start(context.Background(), auth.Identity{UserID: "admin-1", Role: user.RoleAdmin})
	assert.ErrorIs(t, err, ErrTrackingDenied)
}

func TestStartCancelsPreviousSubscription(t *testing.T) {
	provider := newFakeProvider()
	tr := New(provider, &recordingSink{}, DefaultWatchOptions())
	ctx := context.Background()

	first, err := tr.Start(ctx, driver())
	require.NoError(t, err)

	second, err := tr.Start(ctx, driver())
	require.NoError(t, err)
	defer second.Stop()

	select {
	case <-first.Done():
	case <-time.After(time.Second):
		t.Fatal("first subscription should end when a new one starts")
	}
}

type countingProvider struct {
	mu     sync.Mutex
	active int
}

func (p *countingProvider) Watch(ctx context.Context, opts WatchOptions) (<-chan Fix, <-chan error) {
	p.mu.Lock()
	p.active++
	p.mu.Unlock()

	go func() {
		<-ctx.Done()
		p.mu.Lock()
		p.active--
		p.mu.Unlock()
	}()

	return make(chan Fix), make(chan error)
}

func (p *countingProvider) activeWatches() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.active
}

func TestConcurrentStartsLeaveOneWatch(t *testing.T) {
	provider := &countingProvider{}
	tr := New(provider, &recordingSink{}, DefaultWatchOptions())
	ctx := context.Background()

	var wg sync.WaitGroup
	subs := make([]*Subscription, 8)
	startErrs := make([]error, len(subs))
	for i := range subs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			subs[i], startErrs[i] = tr.Start(ctx, driver())
		}(i)
	}
	wg.Wait()

	for _, err := range startErrs {
		require.NoError(t, err)
	}

	require.Eventually(t, func() bool { return provider.activeWatches() == 1 }, time.Second, 5*time.Millisecond)

	// Exactly one subscription is still live.
	live := 0
	for _, sub := range subs {
		select {
		case <-sub.Done():
		default:
			live++
			defer sub.Stop()
		}
	}
	assert.Equal(t, 1, live)
}

func TestStopEndsTheWatch(t *testing.T) {
	provider := newFakeProvider()
	tr := New(provider, &recordingSink{}, DefaultWatchOptions())

	sub, err := tr.Start(context.Background(), driver())
	require.NoError(t, err)

	sub.Stop()
	sub.Stop() // second call is a no-op

	select {
	case <-sub.Done():
	default:
		t.Fatal("Done should be closed after Stop")
	}
}

func TestFatalProviderErrorEndsWatch(t *testing.T) {
	provider := newFakeProvider()
	tr := New(provider, &recordingSink{}, DefaultWatchOptions())

	sub, err := tr.Start(context.Background(), driver())
	require.NoError(t, err)

	provider.errs <- ErrPositioningUnavailable

	select {
	case <-sub.Done():
	case <-time.After(time.Second):
		t.Fatal("watch should end on a fatal provider error")
	}
}

func TestRecoverableErrorKeepsWatchAlive(t *testing.T) {
	provider := newFakeProvider()
	sink := &recordingSink{}
	tr := New(provider, sink, DefaultWatchOptions())

	sub, err := tr.Start(context.Background(), driver())
	require.NoError(t, err)
	defer sub.Stop()

	provider.errs <- ErrFixTimeout
	provider.fixes <- Fix{Latitude: -6.20, Longitude: 106.84}

	require.Eventually(t, func() bool { return sink.count() == 1 }, time.Second, 5*time.Millisecond)
}

func TestStreamProviderParsesFixes(t *testing.T) {
	input := strings.Join([]string{
		`{"latitude":-6.20,"longitude":106.84}`,
		`not json`,
		`{"latitude":-6.21,"longitude":106.85,"speed":8.5}`,
	}, "\n") + "\n"

	provider := NewStreamProvider(strings.NewReader(input))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	fixes, errs := provider.Watch(ctx, DefaultWatchOptions())

	first := <-fixes
	assert.Equal(t, -6.20, first.Latitude)

	// The malformed line surfaces as a recoverable error, then parsing
	// continues.
	sawSecond := false
	for !sawSecond {
		select {
		case fix := <-fixes:
			assert.Equal(t, -6.21, fix.Latitude)
			require.NotNil(t, fix.Speed)
			sawSecond = true
		case err := <-errs:
			assert.NotErrorIs(t, err, ErrPositioningUnavailable)
		case <-time.After(time.Second):
			t.Fatal("expected the second fix")
		}
	}
}

func TestStreamProviderEndOfStreamIsFatal(t *testing.T) {
	provider := NewStreamProvider(strings.NewReader(""))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	_, errs := provider.Watch(ctx, DefaultWatchOptions())

	select {
	case err := <-errs:
		assert.ErrorIs(t, err, ErrPositioningUnavailable)
	case <-time.After(time.Second):
		t.Fatal("expected a fatal error when the stream ends")
	}
}

func TestStreamProviderReportsFixTimeout(t *testing.T) {
	// A reader that never yields keeps the watch alive with timeouts.
	provider := NewStreamProvider(blockingReader{})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	opts := DefaultWatchOptions()
	opts.Timeout = 20 * time.Millisecond

	_, errs := provider.Watch(ctx, opts)

	select {
	case err := <-errs:
		assert.ErrorIs(t, err, ErrFixTimeout)
	case <-time.After(time.Second):
		t.Fatal("expected a fix timeout")
	}
}

type blockingReader struct{}

func (blockingReader) Read(p []byte) (int, error) {
	select {}
}
