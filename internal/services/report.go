package services

import (
	"context"

	"hr-system/internal/dto"
	"hr-system/internal/repositories"
	apperrors "hr-system/pkg/errors"
	"hr-system/pkg/utils"

	"go.uber.org/zap"
)

type ReportServiceInterface interface {
	LeaveReport(ctx context.Context, f dto.ReportFilter) ([]dto.LeaveReportRow, uint64, error)
	PermissionReport(ctx context.Context, f dto.ReportFilter) ([]dto.PermissionReportRow, uint64, error)
	CompOffReport(ctx context.Context, f dto.ReportFilter) ([]dto.CompOffReportRow, uint64, error)
	TravelReport(ctx context.Context, f dto.ReportFilter) ([]dto.TravelReportRow, uint64, error)
	RosterReport(ctx context.Context, f dto.ReportFilter) ([]dto.RosterReportRow, uint64, error)
	LeaveBalanceReport(ctx context.Context, f dto.ReportFilter) ([]dto.LeaveBalanceReportRow, uint64, error)
}

type ReportService struct {
	repo   repositories.ReportRepositoryInterface
	logger *zap.Logger
}

func NewReportService(repo repositories.ReportRepositoryInterface, logger *zap.Logger) ReportServiceInterface {
	return &ReportService{repo: repo, logger: logger}
}

func checkReportRange(f dto.ReportFilter) error {
	if f.DateFrom != nil && f.DateTo != nil && f.DateFrom.After(*f.DateTo) {
		return apperrors.NewBadRequest("date_from позже date_to")
	}
	return nil
}

func (s *ReportService) LeaveReport(ctx context.Context, f dto.ReportFilter) ([]dto.LeaveReportRow, uint64, error) {
	if err := checkReportRange(f); err != nil {
		return nil, 0, err
	}
	return s.repo.Leave(ctx, f)
}

func (s *ReportService) PermissionReport(ctx context.Context, f dto.ReportFilter) ([]dto.PermissionReportRow, uint64, error) {
	if err := checkReportRange(f); err != nil {
		return nil, 0, err
	}
	return s.repo.Permission(ctx, f)
}

func (s *ReportService) CompOffReport(ctx context.Context, f dto.ReportFilter) ([]dto.CompOffReportRow, uint64, error) {
	if err := checkReportRange(f); err != nil {
		return nil, 0, err
	}
	return s.repo.CompOff(ctx, f)
}

func (s *ReportService) TravelReport(ctx context.Context, f dto.ReportFilter) ([]dto.TravelReportRow, uint64, error) {
	if err := checkReportRange(f); err != nil {
		return nil, 0, err
	}
	return s.repo.Travel(ctx, f)
}

func (s *ReportService) RosterReport(ctx context.Context, f dto.ReportFilter) ([]dto.RosterReportRow, uint64, error) {
	if err := checkReportRange(f); err != nil {
		return nil, 0, err
	}
	return s.repo.Roster(ctx, f)
}

// LeaveBalanceReport без года берёт текущий.
func (s *ReportService) LeaveBalanceReport(ctx context.Context, f dto.ReportFilter) ([]dto.LeaveBalanceReportRow, uint64, error) {
	if f.Year == 0 {
		f.Year = utils.Today().Year()
	}
	return s.repo.LeaveBalance(ctx, f)
}
