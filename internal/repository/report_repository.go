package repository

import (
	"context"
	"fmt"
	"net/url"

	"github.com/spec-kit/car-marketplace-client/internal/domain"
	"github.com/spec-kit/car-marketplace-client/internal/gateway"
)

// ReportFilter bounds an admin report.
type ReportFilter struct {
	DateRange
	Limit int
}

// ReportRepository reads the admin dashboard aggregates.
type ReportRepository interface {
	Report(ctx context.Context, kind domain.ReportKind, filter ReportFilter) ([]domain.ReportRow, error)
}

type reportRepository struct {
	backend Backend
}

// NewReportRepository constructs repository.
func NewReportRepository(backend Backend) ReportRepository {
	return &reportRepository{backend: backend}
}

func (r *reportRepository) Report(ctx context.Context, kind domain.ReportKind, filter ReportFilter) ([]domain.ReportRow, error) {
	if !knownReport(kind) {
		return nil, fmt.Errorf("unknown report %q", kind)
	}
	q := url.Values{}
	filter.DateRange.apply(q)
	setIntIf(q, "limit", filter.Limit)

	var rows []domain.ReportRow
	if err := r.backend.Do(ctx, gateway.Request{Path: "admin/reports/" + string(kind), Query: q}, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func knownReport(kind domain.ReportKind) bool {
	for _, k := range domain.ReportKinds() {
		if k == kind {
			return true
		}
	}
	return false
}
