package domain

// Favorite links a buyer to a listing.
type Favorite struct {
	ID         int64  `json:"id"`
	ListingID  int64  `json:"listing_id"`
	BuyerID    int64  `json:"buyer_id,omitempty"`
	BuyerEmail string `json:"buyer_email,omitempty"`
	Brand      string `json:"brand,omitempty"`
	Model      string `json:"model,omitempty"`
	CreatedAt  string `json:"created_at"`
}
