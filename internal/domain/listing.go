package domain

// Listing is a vehicle offered by an agency.
type Listing struct {
	ID                   int64   `json:"id"`
	AgencyID             int64   `json:"agency_id,omitempty"`
	AgencyName           string  `json:"agency_name,omitempty"`
	InventoryID          int64   `json:"inventory_id,omitempty"`
	Brand                string  `json:"brand"`
	Model                string  `json:"model"`
	Year                 int     `json:"year,omitempty"`
	CurrentPriceAmount   float64 `json:"current_price_amount"`
	CurrentPriceCurrency string  `json:"current_price_currency"`
	Stock                int     `json:"stock"`
	SellerNotes          string  `json:"seller_notes,omitempty"`
	IsActive             bool    `json:"is_active"`
	IsFavorite           bool    `json:"is_favorite,omitempty"`
	ExpiresOn            string  `json:"expires_on,omitempty"`
	CreatedAt            string  `json:"created_at"`
}

// ListingSort enumerates server-side orderings.
type ListingSort string

const (
	ListingSortNewest    ListingSort = "newest"
	ListingSortPriceAsc  ListingSort = "price_asc"
	ListingSortPriceDesc ListingSort = "price_desc"
)

// Currencies accepted for listing prices.
var Currencies = []string{"ARS", "USD", "EUR"}

// ListingPage is one page of a listing search.
type ListingPage = Page[Listing]

// CarModel is a catalogue entry used by search and reviews.
type CarModel struct {
	ID    int64  `json:"id"`
	Brand string `json:"brand"`
	Model string `json:"model"`
	Year  int    `json:"year,omitempty"`
}
