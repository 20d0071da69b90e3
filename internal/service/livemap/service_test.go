package livemap

import (
	"context"
	"testing"
	"time"

	"github.com/hakobu-dev/hakobu-backend-go/internal/domain/location"
	"github.com/hakobu-dev/hakobu-backend-go/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLocationRepo struct {
	samples []location.Location
}

func (f *fakeLocationRepo) Create(ctx context.Context, loc location.Location) (location.Location, error) {
	f.samples = append(f.samples, loc)
	return loc, nil
}

func (f *fakeLocationRepo) ListAll(ctx context.Context) ([]location.Location, error) {
	return f.samples, nil
}

type fakeUserRepo struct {
	users     map[string]user.User
	directory []user.User
}

func (f *fakeUserRepo) Create(ctx context.Context, u user.User) (user.User, error) {
	return u, nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (user.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return user.User{}, user.ErrUserNotFound
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (user.User, error) {
	return user.User{}, user.ErrUserNotFound
}

func (f *fakeUserRepo) ListDirectory(ctx context.Context) ([]user.User, error) {
	return f.directory, nil
}

func (f *fakeUserRepo) ListIDsByRole(ctx context.Context, role user.Role) ([]string, error) {
	return nil, nil
}

func sample(userID string, lat, lng float64, at time.Time) location.Location {
	return location.Location{
		UserID:    userID,
		Latitude:  lat,
		Longitude: lng,
		CreatedAt: at,
	}
}

func knownUsers() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]user.User{
		"driver-1": {ID: "driver-1", Name: "Dewi", Email: "dewi@example.com", Role: user.RoleDriver},
		"driver-2": {ID: "driver-2", Name: "Budi", Email: "budi@example.com", Role: user.RoleDriver},
	}}
}

func TestApplyCreatesMarker(t *testing.T) {
	agg := NewAggregator(&fakeLocationRepo{}, knownUsers(), location.NewFeed(), nil)

	agg.Apply(context.Background(), sample("driver-1", -6.2088, 106.8456, time.Now()))

	markers := agg.Snapshot()
	require.Len(t, markers, 1)
	assert.Equal(t, "driver-1", markers[0].UserID)
	assert.Equal(t, "Dewi", markers[0].Name)
	assert.Equal(t, -6.2088, markers[0].Latitude)
	assert.Zero(t, markers[0].DistanceMeters)
}

func TestApplyMovesExistingMarker(t *testing.T) {
	agg := NewAggregator(&fakeLocationRepo{}, knownUsers(), location.NewFeed(), nil)
	ctx := context.Background()

	agg.Apply(ctx, sample("driver-1", -6.2088, 106.8456, time.Now()))
	agg.Apply(ctx, sample("driver-1", -6.2000, 106.8456, time.Now()))

	markers := agg.Snapshot()
	require.Len(t, markers, 1)
	assert.Equal(t, -6.2000, markers[0].Latitude)
	// Roughly a kilometer north.
	assert.InDelta(t, 978, markers[0].DistanceMeters, 10)
}

func TestApplyKeepsOneMarkerPerDriver(t *testing.T) {
	agg := NewAggregator(&fakeLocationRepo{}, knownUsers(), location.NewFeed(), nil)
	ctx := context.Background()

	agg.Apply(ctx, sample("driver-1", -6.20, 106.84, time.Now()))
	agg.Apply(ctx, sample("driver-2", -6.30, 106.90, time.Now()))
	agg.Apply(ctx, sample("driver-1", -6.21, 106.85, time.Now()))

	markers := agg.Snapshot()
	require.Len(t, markers, 2)
	// Snapshot is ordered by user id.
	assert.Equal(t, "driver-1", markers[0].UserID)
	assert.Equal(t, -6.21, markers[0].Latitude)
	assert.Equal(t, "driver-2", markers[1].UserID)
	assert.Equal(t, -6.30, markers[1].Latitude)
}

func TestApplyFallsBackToUnknownUserLabel(t *testing.T) {
	agg := NewAggregator(&fakeLocationRepo{}, &fakeUserRepo{}, location.NewFeed(), nil)

	agg.Apply(context.Background(), sample("ghost", -6.20, 106.84, time.Now()))

	markers := agg.Snapshot()
	require.Len(t, markers, 1)
	assert.Equal(t, "unknown user", markers[0].Name)
	assert.Empty(t, markers[0].Email)
}

func TestStartReplaysHistoryThenConsumesFeed(t *testing.T) {
	now := time.Now()
	repo := &fakeLocationRepo{samples: []location.Location{
		sample("driver-1", -6.10, 106.80, now.Add(-2*time.Hour)),
		sample("driver-2", -6.20, 106.85, now.Add(-time.Hour)),
		sample("driver-1", -6.15, 106.82, now.Add(-time.Minute)),
	}}
	feed := location.NewFeed()
	agg := NewAggregator(repo, knownUsers(), feed, nil)

	require.NoError(t, agg.Start(context.Background()))
	defer agg.Close()

	markers := agg.Snapshot()
	require.Len(t, markers, 2)
	// The replay overwrote driver-1's first position with the later one.
	assert.Equal(t, -6.15, markers[0].Latitude)

	feed.Publish(sample("driver-2", -6.25, 106.88, now))

	require.Eventually(t, func() bool {
		for _, m := range agg.Snapshot() {
			if m.UserID == "driver-2" && m.Latitude == -6.25 {
				return true
			}
		}
		return false
	}, time.Second, 10*time.Millisecond)
}

func TestStartPreloadsLabelsFromDirectory(t *testing.T) {
	// GetByID finds nobody; only the directory preload can label markers.
	users := &fakeUserRepo{directory: []user.User{
		{ID: "driver-1", Name: "Dewi", Email: "dewi@example.com", Role: user.RoleDriver},
	}}
	repo := &fakeLocationRepo{samples: []location.Location{
		sample("driver-1", -6.20, 106.84, time.Now()),
	}}
	agg := NewAggregator(repo, users, location.NewFeed(), nil)

	require.NoError(t, agg.Start(context.Background()))
	defer agg.Close()

	markers := agg.Snapshot()
	require.Len(t, markers, 1)
	assert.Equal(t, "Dewi", markers[0].Name)
	assert.Equal(t, "dewi@example.com", markers[0].Email)
}

func TestCloseStopsConsumption(t *testing.T) {
	feed := location.NewFeed()
	agg := NewAggregator(&fakeLocationRepo{}, knownUsers(), feed, nil)

	require.NoError(t, agg.Start(context.Background()))
	assert.Equal(t, 1, feed.SubscriberCount())

	agg.Close()
	assert.Equal(t, 0, feed.SubscriberCount())
}
