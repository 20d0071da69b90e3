package location

import (
	"context"

	"github.com/hakobu-dev/hakobu-backend-go/internal/domain/auth"
)

// LocationService accepts geolocation samples from driver devices.
type LocationService interface {
	// Ingest validates and persists one sample owned by the caller.
	// Only driver accounts may submit samples.
	Ingest(ctx context.Context, id auth.Identity, req IngestRequest) (LocationResponse, error)
}
