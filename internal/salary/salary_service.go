package salary

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"dayflow/internal/identity"
	salaryerrors "dayflow/internal/salary/errors"
	"dayflow/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

//go:generate mockgen -source=salary_service.go -destination=mock/salary_service_mock.go -package=mock
type Service interface {
	GetAll(ctx context.Context, p identity.Principal) ([]SalaryResponse, error)
	Get(ctx context.Context, p identity.Principal, employeeID string) (SalaryResponse, error)
	Create(ctx context.Context, p identity.Principal, req CreateSalaryRequest) (SalaryResponse, error)
	Update(ctx context.Context, p identity.Principal, employeeID string, req UpdateSalaryRequest) (SalaryResponse, error)
	Delete(ctx context.Context, p identity.Principal, employeeID string) error
	Slip(ctx context.Context, p identity.Principal, employeeID string) (SlipFile, error)
}

type service struct {
	db          *sql.DB
	repo        Repository
	companyName string
	now         func() time.Time
	logger      *zap.Logger
}

func NewService(db *sql.DB, repo Repository, companyName string, logger ...*zap.Logger) Service {
	l := zap.L().Named("salary.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("salary.service")
	}
	return &service{
		db:          db,
		repo:        repo,
		companyName: companyName,
		now:         func() time.Time { return time.Now().UTC() },
		logger:      l,
	}
}

func (s *service) GetAll(ctx context.Context, p identity.Principal) ([]SalaryResponse, error) {
	if !p.IsPrivileged() {
		return nil, salaryerrors.ErrForbidden
	}

	rows, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	res := make([]SalaryResponse, len(rows))
	for i := range rows {
		res[i] = mapToResponse(&rows[i])
	}
	return res, nil
}

func (s *service) Get(ctx context.Context, p identity.Principal, employeeID string) (SalaryResponse, error) {
	row, err := s.findVisible(ctx, p, employeeID)
	if err != nil {
		return SalaryResponse{}, err
	}
	return mapToResponse(row), nil
}

func (s *service) Create(ctx context.Context, p identity.Principal, req CreateSalaryRequest) (SalaryResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)

	if !p.IsPrivileged() {
		return SalaryResponse{}, salaryerrors.ErrForbidden
	}
	employeeID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return SalaryResponse{}, salaryerrors.ErrInvalidEmployeeID
	}
	if req.SalaryStructure == nil || req.SalaryStructure.BasicSalary == nil || !req.SalaryStructure.BasicSalary.IsPositive() {
		return SalaryResponse{}, salaryerrors.ErrBasicSalaryRequired
	}

	effectiveFrom := s.now().Truncate(24 * time.Hour)
	if v := strings.TrimSpace(req.EffectiveFrom); v != "" {
		effectiveFrom, err = time.Parse("2006-01-02", v)
		if err != nil {
			return SalaryResponse{}, salaryerrors.ErrInvalidEffectiveDate
		}
	}

	row := &SalaryStructure{
		ID:            uuid.New(),
		EmployeeID:    employeeID,
		EffectiveFrom: effectiveFrom,
		LastUpdatedBy: actorID(p),
	}
	row.apply(req.SalaryStructure, req.Deductions)
	if row.hasNegative() {
		return SalaryResponse{}, salaryerrors.ErrNegativeAmount
	}
	row.Recompute()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return SalaryResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	if err := qtx.Create(ctx, row); err != nil {
		log.Warn("create salary structure failed", zap.String("employee_id", req.EmployeeID), zap.Error(err))
		return SalaryResponse{}, mapRepositoryError(err)
	}
	created, err := qtx.FindByEmployeeID(ctx, employeeID.String())
	if err != nil {
		return SalaryResponse{}, mapRepositoryError(err)
	}
	if err := tx.Commit(); err != nil {
		return SalaryResponse{}, err
	}

	log.Info("salary structure created",
		zap.String("employee_id", req.EmployeeID),
		zap.String("gross_salary", created.GrossSalary.StringFixed(2)),
	)
	return mapToResponse(created), nil
}

func (s *service) Update(ctx context.Context, p identity.Principal, employeeID string, req UpdateSalaryRequest) (SalaryResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)

	if !p.IsPrivileged() {
		return SalaryResponse{}, salaryerrors.ErrForbidden
	}
	if _, err := uuid.Parse(employeeID); err != nil {
		return SalaryResponse{}, salaryerrors.ErrInvalidEmployeeID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return SalaryResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	row, err := qtx.FindByEmployeeID(ctx, employeeID)
	if err != nil {
		return SalaryResponse{}, mapRepositoryError(err)
	}

	row.apply(req.SalaryStructure, req.Deductions)
	if row.hasNegative() {
		return SalaryResponse{}, salaryerrors.ErrNegativeAmount
	}
	if !row.BasicSalary.IsPositive() {
		return SalaryResponse{}, salaryerrors.ErrBasicSalaryRequired
	}
	row.Recompute()
	row.EffectiveFrom = s.now().Truncate(24 * time.Hour)
	row.LastUpdatedBy = actorID(p)

	if err := qtx.Update(ctx, row); err != nil {
		return SalaryResponse{}, mapRepositoryError(err)
	}
	if err := tx.Commit(); err != nil {
		return SalaryResponse{}, err
	}

	log.Info("salary structure updated",
		zap.String("employee_id", employeeID),
		zap.String("net_salary", row.NetSalary.StringFixed(2)),
	)
	return mapToResponse(row), nil
}

func (s *service) Delete(ctx context.Context, p identity.Principal, employeeID string) error {
	if !p.IsAdmin() {
		return salaryerrors.ErrForbidden
	}
	if _, err := uuid.Parse(employeeID); err != nil {
		return salaryerrors.ErrInvalidEmployeeID
	}

	n, err := s.repo.DeleteByEmployeeID(ctx, employeeID)
	if err != nil {
		return mapRepositoryError(err)
	}
	if n == 0 {
		return salaryerrors.ErrSalaryNotFound
	}

	contextutil.GetLogger(ctx, s.logger).Info("salary structure deleted", zap.String("employee_id", employeeID))
	return nil
}

func (s *service) Slip(ctx context.Context, p identity.Principal, employeeID string) (SlipFile, error) {
	row, err := s.findVisible(ctx, p, employeeID)
	if err != nil {
		return SlipFile{}, err
	}

	period := s.now()
	content, err := renderSlipPDF(s.companyName, period, row)
	if err != nil {
		contextutil.GetLogger(ctx, s.logger).Error("render salary slip failed", zap.String("employee_id", employeeID), zap.Error(err))
		return SlipFile{}, err
	}

	return SlipFile{
		FileName: fmt.Sprintf("salary-slip-%s-%s.pdf", employeeID[:8], period.Format("2006-01")),
		Content:  content,
	}, nil
}

func (s *service) findVisible(ctx context.Context, p identity.Principal, employeeID string) (*SalaryStructure, error) {
	if _, err := uuid.Parse(employeeID); err != nil {
		return nil, salaryerrors.ErrInvalidEmployeeID
	}
	if !p.IsPrivileged() && !p.Owns(employeeID) {
		return nil, salaryerrors.ErrForbidden
	}

	row, err := s.repo.FindByEmployeeID(ctx, employeeID)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	return row, nil
}

func actorID(p identity.Principal) *uuid.UUID {
	id, err := uuid.Parse(p.UserID)
	if err != nil {
		return nil
	}
	return &id
}

func mapToResponse(s *SalaryStructure) SalaryResponse {
	resp := SalaryResponse{
		ID:           s.ID.String(),
		EmployeeID:   s.EmployeeID.String(),
		EmployeeName: s.Employee.FullName(),
		SalaryStructure: ComponentsResponse{
			BasicSalary:      s.BasicSalary,
			HRA:              s.HRA,
			DA:               s.DA,
			MedicalAllowance: s.MedicalAllowance,
			PerformanceBonus: s.PerformanceBonus,
			OtherAllowances:  s.OtherAllowances,
		},
		Deductions: DeductionsResponse{
			ProvidentFund:   s.ProvidentFund,
			ProfessionalTax: s.ProfessionalTax,
			IncomeTax:       s.IncomeTax,
			OtherDeductions: s.OtherDeductions,
		},
		TotalAllowances: s.TotalAllowances(),
		TotalDeductions: s.TotalDeductions(),
		GrossSalary:     s.GrossSalary,
		NetSalary:       s.NetSalary,
		EffectiveFrom:   s.EffectiveFrom.Format("2006-01-02"),
	}
	if s.LastUpdatedBy != nil {
		v := s.LastUpdatedBy.String()
		resp.LastUpdatedBy = &v
	}
	return resp
}
