package domain

// User is a marketplace account as listed to admins.
type User struct {
	ID         int64  `json:"id"`
	Email      string `json:"email"`
	Role       Role   `json:"role"`
	AgencyID   int64  `json:"agency_id,omitempty"`
	AgencyName string `json:"agency_name,omitempty"`
	CreatedAt  string `json:"created_at,omitempty"`
}

// Agency is an agency account created by an admin.
type Agency struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}
