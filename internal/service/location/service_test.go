package location

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/hakobu-dev/hakobu-backend-go/internal/domain/auth"
	"github.com/hakobu-dev/hakobu-backend-go/internal/domain/location"
	"github.com/hakobu-dev/hakobu-backend-go/internal/domain/user"
	"github.com/hakobu-dev/hakobu-backend-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLocationRepo struct {
	samples   []location.Location
	createErr error
	nextID    int
}

func (f *fakeLocationRepo) Create(ctx context.Context, loc location.Location) (location.Location, error) {
	if f.createErr != nil {
		return location.Location{}, f.createErr
	}
	f.nextID++
	loc.ID = fmt.Sprintf("loc-%d", f.nextID)
	loc.CreatedAt = time.Now().UTC()
	f.samples = append(f.samples, loc)
	return loc, nil
}

func (f *fakeLocationRepo) ListAll(ctx context.Context) ([]location.Location, error) {
	return f.samples, nil
}

func driver() auth.Identity {
	return auth.Identity{UserID: "driver-1", Name: "Test Driver", Role: user.RoleDriver}
}

func admin() auth.Identity {
	return auth.Identity{UserID: "admin-1", Name: "Test Admin", Role: user.RoleAdmin}
}

func ingestRequest(lat, lng float64) location.IngestRequest {
	return location.IngestRequest{Latitude: &lat, Longitude: &lng}
}

func TestIngestStoresSampleAndPublishes(t *testing.T) {
	repo := &fakeLocationRepo{}
	feed := location.NewFeed()
	svc := NewLocationService(repo, feed)

	ch, cleanup := feed.Subscribe()
	defer cleanup()

	resp, err := svc.Ingest(context.Background(), driver(), ingestRequest(-6.2088, 106.8456))
	require.NoError(t, err)

	assert.Equal(t, "driver-1", resp.UserID)
	assert.Equal(t, -6.2088, resp.Latitude)
	assert.NotEmpty(t, resp.ID)
	assert.Len(t, repo.samples, 1)

	select {
	case published := <-ch:
		assert.Equal(t, resp.ID, published.ID)
		assert.Equal(t, "driver-1", published.UserID)
	case <-time.After(time.Second):
		t.Fatal("expected a feed event")
	}
}

func TestIngestRequiresAuthentication(t *testing.T) {
	svc := NewLocationService(&fakeLocationRepo{}, location.NewFeed())

	_, err := svc.Ingest(context.Background(), auth.Identity{}, ingestRequest(0, 0))
	assert.ErrorIs(t, err, auth.ErrNotAuthenticated)
}

func TestIngestRejectsAdmins(t *testing.T) {
	repo := &fakeLocationRepo{}
	svc := NewLocationService(repo, location.NewFeed())

	_, err := svc.Ingest(context.Background(), admin(), ingestRequest(-6.2088, 106.8456))
	assert.ErrorIs(t, err, user.ErrDriverAccessRequired)
	assert.Empty(t, repo.samples)
}

func TestIngestValidatesCoordinates(t *testing.T) {
	repo := &fakeLocationRepo{}
	svc := NewLocationService(repo, location.NewFeed())
	ctx := context.Background()

	// Missing and non-finite coordinates are both rejected.
	nan := math.NaN()
	cases := []location.IngestRequest{
		{},
		{Latitude: &nan, Longitude: &nan},
	}

	for _, req := range cases {
		_, err := svc.Ingest(ctx, driver(), req)
		var validationErrs validator.ValidationErrors
		assert.ErrorAs(t, err, &validationErrs)
	}
	assert.Empty(t, repo.samples)
}

func TestIngestAcceptsOutOfRangeCoordinates(t *testing.T) {
	// Only presence and numeric type are checked, not geographic range.
	repo := &fakeLocationRepo{}
	svc := NewLocationService(repo, location.NewFeed())

	resp, err := svc.Ingest(context.Background(), driver(), ingestRequest(91, 181))
	require.NoError(t, err)

	assert.Equal(t, 91.0, resp.Latitude)
	assert.Equal(t, 181.0, resp.Longitude)
	assert.Len(t, repo.samples, 1)
}

func TestIngestWrapsStorageFailure(t *testing.T) {
	repo := &fakeLocationRepo{createErr: errors.New("connection refused")}
	svc := NewLocationService(repo, location.NewFeed())

	_, err := svc.Ingest(context.Background(), driver(), ingestRequest(-6.2088, 106.8456))
	assert.ErrorIs(t, err, location.ErrStorageFailure)
}

func TestIngestKeepsOptionalMotionMetadata(t *testing.T) {
	repo := &fakeLocationRepo{}
	svc := NewLocationService(repo, location.NewFeed())

	req := ingestRequest(-6.2088, 106.8456)
	accuracy, speed := 12.5, 8.3
	req.Accuracy = &accuracy
	req.Speed = &speed

	resp, err := svc.Ingest(context.Background(), driver(), req)
	require.NoError(t, err)

	require.NotNil(t, resp.Accuracy)
	assert.Equal(t, accuracy, *resp.Accuracy)
	require.NotNil(t, resp.Speed)
	assert.Equal(t, speed, *resp.Speed)
	assert.Nil(t, resp.Heading)
}
