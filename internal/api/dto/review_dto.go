package dto

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/spec-kit/car-marketplace-client/internal/domain"
)

const maxCommentLength = 1000

// ReviewForm creates or edits a review.
type ReviewForm struct {
	ListingID int64  `form:"listing_id" json:"listing_id"`
	Rating    int    `form:"rating" json:"rating"`
	Comment   string `form:"comment" json:"comment"`
}

func (f *ReviewForm) Normalize() {
	f.Comment = strings.TrimSpace(f.Comment)
}

// Validate checks a new review; listing is required.
func (f ReviewForm) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.ListingID, validation.Required, validation.Min(int64(1))),
		validation.Field(&f.Rating, validation.Required, validation.Min(domain.MinReviewRating), validation.Max(domain.MaxReviewRating)),
		validation.Field(&f.Comment, validation.Length(0, maxCommentLength)),
	)
}

// ValidateUpdate checks an edit; the listing is fixed and not resent.
func (f ReviewForm) ValidateUpdate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.Rating, validation.Required, validation.Min(domain.MinReviewRating), validation.Max(domain.MaxReviewRating)),
		validation.Field(&f.Comment, validation.Length(0, maxCommentLength)),
	)
}
