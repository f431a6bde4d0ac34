package service

import (
	"context"

	"github.com/spec-kit/car-marketplace-client/internal/domain"
	"github.com/spec-kit/car-marketplace-client/internal/repository"
	apperrors "github.com/spec-kit/car-marketplace-client/pkg/util/errorutil"
)

// ReportSection is one report of the admin dashboard.
type ReportSection struct {
	Kind domain.ReportKind
	Rows []domain.ReportRow
	Err  error
}

// ReportService assembles the admin dashboard.
type ReportService struct {
	reports repository.ReportRepository
}

// NewReportService creates the service.
func NewReportService(reports repository.ReportRepository) *ReportService {
	return &ReportService{reports: reports}
}

// Dashboard loads every report in dashboard order. A failing report is kept
// with its error so the others still render; a forbidden or invalidated
// answer aborts the whole dashboard.
func (s *ReportService) Dashboard(ctx context.Context, filter repository.ReportFilter) ([]ReportSection, error) {
	kinds := domain.ReportKinds()
	sections := make([]ReportSection, 0, len(kinds))
	for _, kind := range kinds {
		rows, err := s.reports.Report(ctx, kind, filter)
		if apperrors.IsForbidden(err) || apperrors.IsCredentialInvalidated(err) {
			return nil, err
		}
		sections = append(sections, ReportSection{Kind: kind, Rows: rows, Err: err})
	}
	return sections, nil
}
