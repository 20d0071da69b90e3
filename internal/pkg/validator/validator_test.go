package validator

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsEmpty(t *testing.T) {
	assert.True(t, IsEmpty(""))
	assert.True(t, IsEmpty("   "))
	assert.True(t, IsEmpty("\t\n"))
	assert.False(t, IsEmpty("x"))
	assert.False(t, IsEmpty(" x "))
}

func TestIsValidEmail(t *testing.T) {
	valid := []string{
		"driver@example.com",
		"first.last@sub.example.co.id",
		"user+tag@example.org",
	}
	for _, email := range valid {
		assert.True(t, IsValidEmail(email), email)
	}

	invalid := []string{
		"",
		"plain",
		"@example.com",
		"user@",
		"user@example",
	}
	for _, email := range invalid {
		assert.False(t, IsValidEmail(email), email)
	}
}

func TestIsValidUUID(t *testing.T) {
	assert.True(t, IsValidUUID("01912e5c-35a1-7f3e-8c4d-1a2b3c4d5e6f"))
	assert.True(t, IsValidUUID("01912E5C-35A1-7F3E-8C4D-1A2B3C4D5E6F"))

	// wrong version nibble
	assert.False(t, IsValidUUID("01912e5c-35a1-4f3e-8c4d-1a2b3c4d5e6f"))
	assert.False(t, IsValidUUID("not-a-uuid"))
	assert.False(t, IsValidUUID(""))
}

func TestIsFinite(t *testing.T) {
	assert.True(t, IsFinite(0))
	assert.True(t, IsFinite(-90.5))
	assert.False(t, IsFinite(math.NaN()))
	assert.False(t, IsFinite(math.Inf(1)))
	assert.False(t, IsFinite(math.Inf(-1)))
}

func TestIsFiniteOrNil(t *testing.T) {
	assert.True(t, IsFiniteOrNil(nil))

	v := 12.5
	assert.True(t, IsFiniteOrNil(&v))

	nan := math.NaN()
	assert.False(t, IsFiniteOrNil(&nan))
}

func TestIsValidDate(t *testing.T) {
	date, ok := IsValidDate("2026-08-29")
	assert.True(t, ok)
	assert.Equal(t, 2026, date.Year())

	_, ok = IsValidDate("29-08-2026")
	assert.False(t, ok)
	_, ok = IsValidDate("")
	assert.False(t, ok)
}

func TestIsValidDateTime(t *testing.T) {
	_, ok := IsValidDateTime("2026-08-29T10:30:00Z")
	assert.True(t, ok)
	_, ok = IsValidDateTime("2026-08-29T10:30:00+07:00")
	assert.True(t, ok)
	_, ok = IsValidDateTime("2026-08-29")
	assert.False(t, ok)
}

func TestValidationErrorsFormatting(t *testing.T) {
	errs := ValidationErrors{
		{Field: "latitude", Message: "latitude is required"},
		{Field: "longitude", Message: "longitude is required"},
	}

	assert.Equal(t, "latitude: latitude is required; longitude: longitude is required", errs.Error())
	assert.Equal(t, map[string]string{
		"latitude":  "latitude is required",
		"longitude": "longitude is required",
	}, errs.ToMap())
}
