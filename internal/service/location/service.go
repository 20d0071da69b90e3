package location

import (
	"context"
	"fmt"
	"time"

	"github.com/hakobu-dev/hakobu-backend-go/internal/domain/auth"
	"github.com/hakobu-dev/hakobu-backend-go/internal/domain/location"
	"github.com/hakobu-dev/hakobu-backend-go/internal/domain/user"
)

type LocationServiceImpl struct {
	locationRepo location.LocationRepository
	feed         *location.Feed
}

func NewLocationService(locationRepo location.LocationRepository, feed *location.Feed) location.LocationService {
	return &LocationServiceImpl{
		locationRepo: locationRepo,
		feed:         feed,
	}
}

// Ingest implements location.LocationService. Checks run in order:
// authentication, then role, then payload shape, then the insert. Each
// accepted sample becomes exactly one row and one feed event.
func (s *LocationServiceImpl) Ingest(ctx context.Context, id auth.Identity, req location.IngestRequest) (location.LocationResponse, error) {
	if !id.Authenticated() {
		return location.LocationResponse{}, auth.ErrNotAuthenticated
	}

	if !id.IsDriver() {
		return location.LocationResponse{}, user.ErrDriverAccessRequired
	}

	if err := req.Validate(); err != nil {
		return location.LocationResponse{}, err
	}

	created, err := s.locationRepo.Create(ctx, location.Location{
		UserID:    id.UserID,
		Latitude:  *req.Latitude,
		Longitude: *req.Longitude,
		Accuracy:  req.Accuracy,
		Altitude:  req.Altitude,
		Speed:     req.Speed,
		Heading:   req.Heading,
	})
	if err != nil {
		return location.LocationResponse{}, fmt.Errorf("%w: %v", location.ErrStorageFailure, err)
	}

	s.feed.Publish(created)

	return toResponse(created), nil
}

func toResponse(loc location.Location) location.LocationResponse {
	return location.LocationResponse{
		ID:        loc.ID,
		UserID:    loc.UserID,
		CreatedAt: loc.CreatedAt.Format(time.RFC3339),
		Latitude:  loc.Latitude,
		Longitude: loc.Longitude,
		Accuracy:  loc.Accuracy,
		Altitude:  loc.Altitude,
		Speed:     loc.Speed,
		Heading:   loc.Heading,
	}
}
