package utils

import (
	"github.com/go-playground/validator/v10"

	"EstateHub/models"
)

// RequestValidator plugs go-playground/validator into echo so handlers can
// call c.Validate on bound request structs.
type RequestValidator struct {
	validate *validator.Validate
}

func NewRequestValidator() *RequestValidator {
	return &RequestValidator{validate: validator.New()}
}

func (v *RequestValidator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}

var listingStatuses = map[string]bool{
	models.StatusAvailable:         true,
	models.StatusUnderConstruction: true,
	models.StatusComingSoon:        true,
	models.StatusSoldOut:           true,
	models.StatusCompleted:         true,
}

var contactStatuses = map[string]bool{
	models.ContactStatusNew:        true,
	models.ContactStatusInProgress: true,
	models.ContactStatusResolved:   true,
	models.ContactStatusClosed:     true,
}

func IsValidListingStatus(status string) bool {
	return listingStatuses[status]
}

func IsValidContactStatus(status string) bool {
	return contactStatuses[status]
}
