package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"EstateHub/models"
)

func TestIsValidListingStatus(t *testing.T) {
	for _, status := range []string{
		models.StatusAvailable,
		models.StatusUnderConstruction,
		models.StatusComingSoon,
		models.StatusSoldOut,
		models.StatusCompleted,
	} {
		assert.True(t, IsValidListingStatus(status), status)
	}
	assert.False(t, IsValidListingStatus("available"), "statuses are case sensitive")
	assert.False(t, IsValidListingStatus(""))
	assert.False(t, IsValidListingStatus("Archived"))
}

func TestIsValidContactStatus(t *testing.T) {
	for _, status := range []string{
		models.ContactStatusNew,
		models.ContactStatusInProgress,
		models.ContactStatusResolved,
		models.ContactStatusClosed,
	} {
		assert.True(t, IsValidContactStatus(status), status)
	}
	assert.False(t, IsValidContactStatus("spam"))
}

func TestRequestValidator(t *testing.T) {
	v := NewRequestValidator()

	assert.Error(t, v.Validate(&models.RegisterRequest{Email: "bad", Password: "hunter22", Name: "Sam"}))
	assert.Error(t, v.Validate(&models.RegisterRequest{Email: "sam@example.com", Password: "short", Name: "Sam"}))
	assert.NoError(t, v.Validate(&models.RegisterRequest{Email: "sam@example.com", Password: "hunter22", Name: "Sam"}))

	assert.Error(t, v.Validate(&models.RatingRequest{Value: 6}))
	assert.NoError(t, v.Validate(&models.RatingRequest{Value: 3}))
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("hunter22")
	assert.NoError(t, err)
	assert.NotEqual(t, "hunter22", hash)

	assert.NoError(t, CheckPassword(hash, "hunter22"))
	assert.Error(t, CheckPassword(hash, "wrong"))
}
