package domain

// ReportKind names an admin dashboard report.
type ReportKind string

const (
	ReportTopSoldCars  ReportKind = "top-sold-cars"
	ReportTopBuyers    ReportKind = "top-buyers"
	ReportTopFavorites ReportKind = "top-favorites"
	ReportTopAgencies  ReportKind = "top-agencies"
)

// ReportKinds lists every admin report in dashboard order.
func ReportKinds() []ReportKind {
	return []ReportKind{ReportTopSoldCars, ReportTopBuyers, ReportTopFavorites, ReportTopAgencies}
}

// ReportRow is a loosely shaped aggregate row; columns differ per report.
type ReportRow map[string]any
