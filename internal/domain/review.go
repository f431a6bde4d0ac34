package domain

// Review is a buyer's rating of a listing.
type Review struct {
	ID         int64  `json:"id"`
	ListingID  int64  `json:"listing_id"`
	BuyerID    int64  `json:"buyer_id,omitempty"`
	BuyerEmail string `json:"buyer_email,omitempty"`
	Brand      string `json:"brand,omitempty"`
	Model      string `json:"model,omitempty"`
	Rating     int    `json:"rating"`
	Comment    string `json:"comment"`
	CreatedAt  string `json:"created_at"`
}

const (
	MinReviewRating = 1
	MaxReviewRating = 5
)
