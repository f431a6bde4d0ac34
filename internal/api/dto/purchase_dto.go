package dto

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

// PurchaseForm orders units of a listing.
type PurchaseForm struct {
	ListingID int64 `form:"listing_id" json:"listing_id"`
	Quantity  int   `form:"quantity" json:"quantity"`
}

func (f PurchaseForm) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.ListingID, validation.Required, validation.Min(int64(1))),
		validation.Field(&f.Quantity, validation.Required, validation.Min(1), validation.Max(99)),
	)
}
