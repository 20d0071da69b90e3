package attendance

import (
	"math"
	"testing"

	"github.com/hakobu-dev/hakobu-backend-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func payload(lat, lng float64) LocationPayload {
	return LocationPayload{Latitude: &lat, Longitude: &lng}
}

func TestLocationPayloadValid(t *testing.T) {
	p := payload(-6.2088, 106.8456)
	assert.NoError(t, p.Validate())
}

func TestLocationPayloadRequiresCoordinates(t *testing.T) {
	p := LocationPayload{}
	err := p.Validate()
	require.Error(t, err)

	var errs validator.ValidationErrors
	require.ErrorAs(t, err, &errs)
	details := errs.ToMap()
	assert.Contains(t, details, "latitude")
	assert.Contains(t, details, "longitude")
}

func TestLocationPayloadAcceptsAnyFiniteCoordinates(t *testing.T) {
	// Only presence and finiteness are checked, not geographic range.
	cases := []LocationPayload{
		payload(91, 106.8456),
		payload(-90.1, 0),
		payload(0, 180.1),
		payload(0, -999),
	}
	for _, p := range cases {
		assert.NoError(t, p.Validate())
	}
}

func TestLocationPayloadRejectsNonFiniteCoordinates(t *testing.T) {
	cases := []LocationPayload{
		payload(math.NaN(), 0),
		payload(0, math.Inf(1)),
		payload(math.Inf(-1), 0),
	}
	for _, p := range cases {
		assert.Error(t, p.Validate())
	}
}

func TestLocationPayloadRejectsNonFiniteOptionals(t *testing.T) {
	p := payload(-6.2088, 106.8456)
	nan := math.NaN()
	p.Speed = &nan
	assert.Error(t, p.Validate())
}

func TestDirectRequestNotesOptional(t *testing.T) {
	req := DirectRequest{LocationPayload: payload(-6.2088, 106.8456)}
	assert.NoError(t, req.Validate())

	req.Notes = "Visiting the warehouse first"
	assert.NoError(t, req.Validate())
}

func TestDirectRequestValidatesLocationFirst(t *testing.T) {
	req := DirectRequest{Notes: "valid notes"}
	err := req.Validate()
	require.Error(t, err)

	var errs validator.ValidationErrors
	require.ErrorAs(t, err, &errs)
	assert.Contains(t, errs.ToMap(), "latitude")
}

func TestTypeIsDirectRequest(t *testing.T) {
	assert.True(t, TypeDirectGo.IsDirectRequest())
	assert.True(t, TypeDirectReturn.IsDirectRequest())
	assert.False(t, TypeCheckIn.IsDirectRequest())
	assert.False(t, TypeCheckOut.IsDirectRequest())
}
