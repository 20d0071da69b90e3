package location

import "context"

// LocationRepository defines data access for the append-only location
// trail. Samples are retained indefinitely.
type LocationRepository interface {
	// Create appends one location sample
	Create(ctx context.Context, loc Location) (Location, error)

	// ListAll returns every stored sample. The live map replays them
	// through its marker logic on startup; order is irrelevant there, but
	// rows come back oldest first so the latest sample per user wins.
	ListAll(ctx context.Context) ([]Location, error)
}
