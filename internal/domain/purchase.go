package domain

// PurchaseStatus enumerates purchase lifecycle states reported by the backend.
type PurchaseStatus string

const (
	PurchaseStatusActive    PurchaseStatus = "active"
	PurchaseStatusCancelled PurchaseStatus = "cancelled"
)

// Cancellable reports whether the purchase can still be cancelled; anything
// not cancelled is treated as active.
func (p Purchase) Cancellable() bool {
	return p.Status != PurchaseStatusCancelled
}

// Purchase is a buyer order for a listing. Agency sales and the admin
// purchase list return the same shape with the buyer and agency filled in.
type Purchase struct {
	ID                int64          `json:"id"`
	ListingID         int64          `json:"listing_id"`
	BuyerID           int64          `json:"buyer_id,omitempty"`
	BuyerEmail        string         `json:"buyer_email,omitempty"`
	AgencyID          int64          `json:"agency_id,omitempty"`
	AgencyName        string         `json:"agency_name,omitempty"`
	Brand             string         `json:"brand,omitempty"`
	Model             string         `json:"model,omitempty"`
	Quantity          int            `json:"quantity"`
	UnitPriceAmount   float64        `json:"unit_price_amount"`
	UnitPriceCurrency string         `json:"unit_price_currency"`
	TotalAmount       float64        `json:"total_amount"`
	Status            PurchaseStatus `json:"status"`
	CreatedAt         string         `json:"created_at"`
}

// Customer aggregates one buyer's purchases from the signed-in agency.
type Customer struct {
	CustomerID     int64   `json:"customer_id"`
	Email          string  `json:"email"`
	TotalPurchases int     `json:"total_purchases"`
	TotalSpent     float64 `json:"total_spent"`
	LastPurchaseAt string  `json:"last_purchase_at,omitempty"`
}
