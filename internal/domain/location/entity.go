package location

import "time"

// Location is one immutable geolocation sample forwarded by a driver's
// device. Rows are append-only.
type Location struct {
	ID        string
	UserID    string
	CreatedAt time.Time // server-assigned
	Latitude  float64
	Longitude float64
	Accuracy  *float64
	Altitude  *float64
	Speed     *float64
	Heading   *float64
}
