package livemap

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/hakobu-dev/hakobu-backend-go/internal/domain/location"
	"github.com/hakobu-dev/hakobu-backend-go/internal/domain/user"
	"github.com/hakobu-dev/hakobu-backend-go/internal/pkg/geo"
	"github.com/hakobu-dev/hakobu-backend-go/internal/pkg/ws"
	"github.com/patrickmn/go-cache"
)

const unknownUserLabel = "unknown user"

// Marker is the last-known position of one driver.
type Marker struct {
	UserID         string   `json:"user_id"`
	Name           string   `json:"name"`
	Email          string   `json:"email"`
	Latitude       float64  `json:"latitude"`
	Longitude      float64  `json:"longitude"`
	Accuracy       *float64 `json:"accuracy,omitempty"`
	Speed          *float64 `json:"speed,omitempty"`
	Heading        *float64 `json:"heading,omitempty"`
	UpdatedAt      string   `json:"updated_at"`
	DistanceMeters float64  `json:"distance_meters"` // moved since the previous fix
}

// Aggregator maintains one marker per driver. The marker map is owned by
// the aggregator and mutated only through Apply: move the marker when the
// user already has one, create it otherwise. Apply is last-write-wins
// with no staleness guard, matching the original map behavior.
type Aggregator struct {
	locationRepo location.LocationRepository
	userRepo     user.UserRepository
	feed         *location.Feed
	hub          *ws.Hub

	mu      sync.RWMutex
	markers map[string]Marker

	labels *cache.Cache

	cancel func()
	done   chan struct{}
}

func NewAggregator(locationRepo location.LocationRepository, userRepo user.UserRepository, feed *location.Feed, hub *ws.Hub) *Aggregator {
	return &Aggregator{
		locationRepo: locationRepo,
		userRepo:     userRepo,
		feed:         feed,
		hub:          hub,
		markers:      make(map[string]Marker),
		labels:       cache.New(5*time.Minute, 10*time.Minute),
	}
}

// Start loads the historical trail, replays every sample through Apply,
// then consumes the live feed until Close is called. Replay order does
// not matter for correctness of the final state because only the latest
// sample per user survives, but samples arrive oldest first.
func (a *Aggregator) Start(ctx context.Context) error {
	a.warmLabels(ctx)

	historical, err := a.locationRepo.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to load historical locations: %w", err)
	}
	for _, loc := range historical {
		a.Apply(ctx, loc)
	}

	ch, cleanup := a.feed.Subscribe()
	a.cancel = cleanup
	a.done = make(chan struct{})

	go func() {
		defer close(a.done)
		for loc := range ch {
			a.Apply(context.Background(), loc)
		}
	}()

	slog.Info("Live map aggregator started", "markers", len(a.markers))
	return nil
}

// Close releases the feed subscription and waits for the consumer to
// drain. Safe to call once after a successful Start.
func (a *Aggregator) Close() {
	if a.cancel != nil {
		a.cancel()
		<-a.done
		a.cancel = nil
	}
}

// Apply moves the user's marker to the sample's coordinates, creating
// the marker if it does not exist, and broadcasts the update to
// connected map viewers.
func (a *Aggregator) Apply(ctx context.Context, loc location.Location) {
	name, email := a.lookupLabel(ctx, loc.UserID)

	a.mu.Lock()
	prev, existed := a.markers[loc.UserID]

	marker := Marker{
		UserID:    loc.UserID,
		Name:      name,
		Email:     email,
		Latitude:  loc.Latitude,
		Longitude: loc.Longitude,
		Accuracy:  loc.Accuracy,
		Speed:     loc.Speed,
		Heading:   loc.Heading,
		UpdatedAt: loc.CreatedAt.Format(time.RFC3339),
	}
	if existed {
		marker.DistanceMeters = geo.HaversineDistance(prev.Latitude, prev.Longitude, loc.Latitude, loc.Longitude)
	}

	a.markers[loc.UserID] = marker
	a.mu.Unlock()

	a.broadcast(marker)
}

// Snapshot returns every marker, ordered by user id for stable output.
func (a *Aggregator) Snapshot() []Marker {
	a.mu.RLock()
	defer a.mu.RUnlock()

	markers := make([]Marker, 0, len(a.markers))
	for _, m := range a.markers {
		markers = append(markers, m)
	}
	sort.Slice(markers, func(i, j int) bool { return markers[i].UserID < markers[j].UserID })

	return markers
}

// MarkerCount returns the number of drivers currently on the map.
func (a *Aggregator) MarkerCount() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.markers)
}

// warmLabels seeds the label cache from the user directory so the
// historical replay does not fetch users one by one. Best effort; a
// failed load just means labels resolve lazily through lookupLabel.
func (a *Aggregator) warmLabels(ctx context.Context) {
	users, err := a.userRepo.ListDirectory(ctx)
	if err != nil {
		slog.Warn("Failed to preload user directory", "error", err)
		return
	}
	for _, u := range users {
		a.labels.Set(u.ID, u, cache.DefaultExpiration)
	}
}

// lookupLabel resolves a display name and email for a user id, falling
// back to "unknown user" when the directory has no match.
func (a *Aggregator) lookupLabel(ctx context.Context, userID string) (string, string) {
	if cached, found := a.labels.Get(userID); found {
		u := cached.(user.User)
		return u.Name, u.Email
	}

	u, err := a.userRepo.GetByID(ctx, userID)
	if err != nil {
		return unknownUserLabel, ""
	}

	a.labels.Set(userID, u, cache.DefaultExpiration)
	return u.Name, u.Email
}

func (a *Aggregator) broadcast(marker Marker) {
	if a.hub == nil {
		return
	}

	payload, err := json.Marshal(struct {
		Event  string `json:"event"`
		Marker Marker `json:"marker"`
	}{Event: "marker_update", Marker: marker})
	if err != nil {
		slog.Error("Failed to marshal marker update", "error", err)
		return
	}

	a.hub.Broadcast(payload)
}
