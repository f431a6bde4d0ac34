package domain

// InventoryItem is a stock of one car model held by an agency. Listings are
// published from it.
type InventoryItem struct {
	ID        int64  `json:"id"`
	AgencyID  int64  `json:"agency_id,omitempty"`
	Brand     string `json:"brand"`
	Model     string `json:"model"`
	Quantity  int    `json:"quantity"`
	IsUsed    bool   `json:"is_used"`
	CreatedAt string `json:"created_at,omitempty"`
}
