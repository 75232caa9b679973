package leave

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"dayflow/internal/events"
	"dayflow/internal/identity"
	leaveerrors "dayflow/internal/leave/errors"
	"dayflow/internal/messaging/kafka"
	"dayflow/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

//go:generate mockgen -source=leave_service.go -destination=mock/leave_service_mock.go -package=mock
type Service interface {
	Submit(ctx context.Context, p identity.Principal, req CreateLeaveRequest) (LeaveResponse, error)
	Approve(ctx context.Context, p identity.Principal, id string, req DecisionRequest) (ApproveResult, error)
	Reject(ctx context.Context, p identity.Principal, id string, req DecisionRequest) (LeaveResponse, error)
	Cancel(ctx context.Context, p identity.Principal, id string) error
	GetAll(ctx context.Context, p identity.Principal, q ListQuery) (ListResult, error)
	GetByID(ctx context.Context, p identity.Principal, id string) (LeaveResponse, error)
	GetPending(ctx context.Context, p identity.Principal) ([]LeaveResponse, error)
	GetBalance(ctx context.Context, p identity.Principal, employeeID string) (BalanceResponse, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	outbox kafka.OutboxRepository
	now    func() time.Time
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, logger ...*zap.Logger) Service {
	return NewServiceWithOutbox(db, repo, nil, logger...)
}

// NewServiceWithOutbox emits LeaveApproved/LeaveRejected events through the
// outbox in the same transaction as the decision.
func NewServiceWithOutbox(db *sql.DB, repo Repository, outbox kafka.OutboxRepository, logger ...*zap.Logger) Service {
	l := zap.L().Named("leave.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.service")
	}
	return &service{
		db:     db,
		repo:   repo,
		outbox: outbox,
		now:    func() time.Time { return time.Now().UTC() },
		logger: l,
	}
}

func (s *service) log(ctx context.Context) *zap.Logger {
	return contextutil.GetLogger(ctx, s.logger)
}

func (s *service) Submit(ctx context.Context, p identity.Principal, req CreateLeaveRequest) (LeaveResponse, error) {
	log := s.log(ctx)
	log.Debug("submit leave requested",
		zap.String("user_id", p.UserID),
		zap.String("leave_type", req.LeaveType),
		zap.String("start_date", req.StartDate),
		zap.String("end_date", req.EndDate),
	)

	if req.StartDate == "" || req.EndDate == "" || req.LeaveType == "" || req.Reason == "" {
		return LeaveResponse{}, leaveerrors.ErrMissingFields
	}
	startDate, err := ParseDate(req.StartDate)
	if err != nil {
		return LeaveResponse{}, err
	}
	endDate, err := ParseDate(req.EndDate)
	if err != nil {
		return LeaveResponse{}, err
	}
	if startDate.After(endDate) {
		log.Warn("submit leave invalid date range",
			zap.String("start_date", req.StartDate),
			zap.String("end_date", req.EndDate),
		)
		return LeaveResponse{}, leaveerrors.ErrInvalidDateRange
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("submit leave begin tx failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	emp, err := qtx.FindEmployeeByUserID(ctx, p.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Warn("submit leave employee not found", zap.String("user_id", p.UserID))
			return LeaveResponse{}, leaveerrors.ErrEmployeeNotFound
		}
		log.Error("submit leave employee lookup failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	l, err := NewLeave(emp.ID, emp.FullName(), req.LeaveType, startDate, endDate, req.Reason, req.Attachment, s.now())
	if err != nil {
		log.Warn("submit leave validation failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	if !CheckSufficient(emp.Balance, l.LeaveType, l.NumberOfDays) {
		log.Warn("submit leave insufficient balance",
			zap.String("employee_id", emp.ID.String()),
			zap.String("leave_type", l.LeaveType),
			zap.Int("paid_leave", emp.Balance.PaidLeave),
			zap.Int("sick_leave", emp.Balance.SickLeave),
		)
		if l.LeaveType == TypeSick {
			return LeaveResponse{}, leaveerrors.ErrInsufficientSickLeave
		}
		return LeaveResponse{}, leaveerrors.ErrInsufficientPaidLeave
	}

	if err := qtx.Create(ctx, l); err != nil {
		log.Error("submit leave persist failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		log.Error("submit leave commit failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	log.Info("submit leave success",
		zap.String("leave_id", l.ID.String()),
		zap.String("employee_id", emp.ID.String()),
		zap.Int("number_of_days", l.NumberOfDays),
	)

	return mapToResponse(*l), nil
}

func (s *service) Approve(ctx context.Context, p identity.Principal, id string, req DecisionRequest) (ApproveResult, error) {
	l, balance, err := s.decide(ctx, p, id, StatusApproved, req.Comments)
	if err != nil {
		return ApproveResult{}, err
	}
	return ApproveResult{
		Leave:               mapToResponse(*l),
		UpdatedLeaveBalance: mapToBalanceResponse(l.EmployeeID.String(), balance),
	}, nil
}

func (s *service) Reject(ctx context.Context, p identity.Principal, id string, req DecisionRequest) (LeaveResponse, error) {
	comments := req.Comments
	if comments == "" {
		comments = defaultRejectComments
	}
	l, _, err := s.decide(ctx, p, id, StatusRejected, comments)
	if err != nil {
		return LeaveResponse{}, err
	}
	return mapToResponse(*l), nil
}

// decide runs the pending -> terminal transition. The conditional update,
// the ledger debit and the outbox event commit or roll back together.
func (s *service) decide(ctx context.Context, p identity.Principal, id, target, comments string) (*Leave, Balance, error) {
	log := s.log(ctx)
	log.Debug("leave decision requested",
		zap.String("leave_id", id),
		zap.String("actor_id", p.UserID),
		zap.String("target_status", target),
	)

	notPending := leaveerrors.ErrApproveNotPending
	if target == StatusRejected {
		notPending = leaveerrors.ErrRejectNotPending
	}

	if !p.IsPrivileged() {
		return nil, Balance{}, leaveerrors.ErrForbidden
	}
	approverID, err := uuid.Parse(p.UserID)
	if err != nil {
		return nil, Balance{}, leaveerrors.ErrForbidden
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, Balance{}, leaveerrors.ErrInvalidLeaveID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("leave decision begin tx failed", zap.Error(err))
		return nil, Balance{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	l, err := qtx.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, Balance{}, leaveerrors.ErrLeaveNotFound
		}
		log.Error("leave decision lookup failed", zap.String("leave_id", id), zap.Error(err))
		return nil, Balance{}, err
	}
	if !l.IsPending() {
		log.Warn("leave decision on terminal request",
			zap.String("leave_id", id),
			zap.String("from_status", l.Status),
			zap.String("to_status", target),
		)
		return nil, Balance{}, notPending
	}

	decision := Decision{
		Status:       target,
		ApprovedBy:   approverID,
		ApprovedDate: s.now(),
		Comments:     comments,
	}
	affected, err := qtx.Decide(ctx, id, decision)
	if err != nil {
		log.Error("leave decision persist failed", zap.String("leave_id", id), zap.Error(err))
		return nil, Balance{}, err
	}
	if affected == 0 {
		log.Warn("leave decision lost race", zap.String("leave_id", id))
		return nil, Balance{}, notPending
	}
	l.apply(decision)

	emp, err := qtx.LockEmployee(ctx, l.EmployeeID.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, Balance{}, leaveerrors.ErrEmployeeNotFound
		}
		log.Error("leave decision employee lock failed", zap.Error(err))
		return nil, Balance{}, err
	}

	balance := emp.Balance
	if target == StatusApproved && balance.Debit(l.LeaveType, l.NumberOfDays) {
		if err := qtx.UpdateBalance(ctx, emp.ID.String(), balance); err != nil {
			log.Error("leave decision balance persist failed",
				zap.String("employee_id", emp.ID.String()),
				zap.Error(err),
			)
			return nil, Balance{}, err
		}
	}

	if err := s.enqueueDecision(ctx, tx, l, emp, balance); err != nil {
		log.Error("leave decision outbox persist failed", zap.String("leave_id", id), zap.Error(err))
		return nil, Balance{}, err
	}

	if err := tx.Commit(); err != nil {
		log.Error("leave decision commit failed", zap.String("leave_id", id), zap.Error(err))
		return nil, Balance{}, err
	}
	log.Info("leave decision success",
		zap.String("leave_id", id),
		zap.String("status", target),
		zap.String("employee_id", emp.ID.String()),
		zap.Int("paid_leave", balance.PaidLeave),
		zap.Int("sick_leave", balance.SickLeave),
		zap.Int("unpaid_leave", balance.UnpaidLeave),
	)

	return l, balance, nil
}

func (s *service) enqueueDecision(ctx context.Context, tx *sql.Tx, l *Leave, emp *EmployeeRef, balance Balance) error {
	if s.outbox == nil {
		return nil
	}

	eventType := events.EventLeaveRejected
	var snapshot *events.LeaveBalanceSnapshot
	if l.Status == StatusApproved {
		eventType = events.EventLeaveApproved
		snapshot = &events.LeaveBalanceSnapshot{
			PaidLeave:   balance.PaidLeave,
			SickLeave:   balance.SickLeave,
			UnpaidLeave: balance.UnpaidLeave,
		}
	}

	payload := events.LeaveDecidedEvent{
		EventType:      eventType,
		RequestID:      contextutil.GetRequestID(ctx),
		LeaveID:        l.ID.String(),
		EmployeeID:     l.EmployeeID.String(),
		EmployeeName:   l.EmployeeName,
		RecipientEmail: emp.Email,
		LeaveType:      l.LeaveType,
		StartDate:      l.StartDate.Format(dateLayout),
		EndDate:        l.EndDate.Format(dateLayout),
		NumberOfDays:   l.NumberOfDays,
		Status:         l.Status,
		Comments:       derefString(l.Comments),
		DecidedBy:      l.ApprovedBy.String(),
		Balance:        snapshot,
		OccurredAt:     s.now(),
	}

	event, err := kafka.NewOutboxEvent(ctx, "leave_request", l.ID.String(), eventType, events.LeaveDecisionTopic, payload)
	if err != nil {
		return err
	}
	return s.outbox.WithTx(tx).Create(ctx, event)
}

func (s *service) Cancel(ctx context.Context, p identity.Principal, id string) error {
	log := s.log(ctx)
	log.Debug("cancel leave requested", zap.String("leave_id", id), zap.String("actor_id", p.UserID))

	if _, err := uuid.Parse(id); err != nil {
		return leaveerrors.ErrInvalidLeaveID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("cancel leave begin tx failed", zap.Error(err))
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	l, err := qtx.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return leaveerrors.ErrLeaveNotFound
		}
		return err
	}

	onlyPending := !p.IsPrivileged()
	if onlyPending {
		if !p.Owns(l.EmployeeID.String()) {
			log.Warn("cancel leave not owner",
				zap.String("leave_id", id),
				zap.String("employee_id", p.EmployeeID),
			)
			return leaveerrors.ErrForbidden
		}
		if !l.IsPending() {
			return leaveerrors.ErrDeleteNotPending
		}
	}

	affected, err := qtx.Delete(ctx, id, onlyPending)
	if err != nil {
		log.Error("cancel leave delete failed", zap.String("leave_id", id), zap.Error(err))
		return err
	}
	if affected == 0 {
		if onlyPending {
			return leaveerrors.ErrDeleteNotPending
		}
		return leaveerrors.ErrLeaveNotFound
	}

	if err := tx.Commit(); err != nil {
		log.Error("cancel leave commit failed", zap.Error(err))
		return err
	}
	log.Info("cancel leave success",
		zap.String("leave_id", id),
		zap.String("status", l.Status),
		zap.Bool("privileged", !onlyPending),
	)
	return nil
}

func (s *service) GetAll(ctx context.Context, p identity.Principal, q ListQuery) (ListResult, error) {
	filter, page, err := buildFilter(p, q)
	if err != nil {
		return ListResult{}, err
	}

	leaves, total, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		s.log(ctx).Error("list leaves failed", zap.Error(err))
		return ListResult{}, err
	}

	return ListResult{
		Items: mapToListResponse(leaves),
		Total: total,
		Page:  page,
		Limit: filter.Limit,
	}, nil
}

// buildFilter confines employees to their own requests and clamps paging.
func buildFilter(p identity.Principal, q ListQuery) (ListFilter, int, error) {
	page := q.Page
	if page < 1 {
		page = 1
	}
	limit := q.Limit
	if limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	filter := ListFilter{
		Status:    q.Status,
		LeaveType: q.LeaveType,
		Offset:    (page - 1) * limit,
		Limit:     limit,
	}

	if p.IsPrivileged() {
		filter.EmployeeID = q.EmployeeID
	} else {
		if p.EmployeeID == "" {
			return ListFilter{}, 0, leaveerrors.ErrForbidden
		}
		filter.EmployeeID = p.EmployeeID
	}

	if q.From != "" {
		from, err := ParseDate(q.From)
		if err != nil {
			return ListFilter{}, 0, err
		}
		filter.From = &from
	}
	if q.To != "" {
		to, err := ParseDate(q.To)
		if err != nil {
			return ListFilter{}, 0, err
		}
		filter.To = &to
	}
	if filter.From != nil && filter.To != nil && filter.From.After(*filter.To) {
		return ListFilter{}, 0, leaveerrors.ErrInvalidDateRange
	}

	return filter, page, nil
}

func (s *service) GetByID(ctx context.Context, p identity.Principal, id string) (LeaveResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidLeaveID
	}

	l, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, leaveerrors.ErrLeaveNotFound
		}
		return LeaveResponse{}, err
	}
	if !p.IsPrivileged() && !p.Owns(l.EmployeeID.String()) {
		return LeaveResponse{}, leaveerrors.ErrForbidden
	}
	return mapToResponse(*l), nil
}

func (s *service) GetPending(ctx context.Context, p identity.Principal) ([]LeaveResponse, error) {
	if !p.IsPrivileged() {
		return nil, leaveerrors.ErrForbidden
	}

	leaves, err := s.repo.FindPending(ctx)
	if err != nil {
		s.log(ctx).Error("list pending leaves failed", zap.Error(err))
		return nil, err
	}
	return mapToListResponse(leaves), nil
}

func (s *service) GetBalance(ctx context.Context, p identity.Principal, employeeID string) (BalanceResponse, error) {
	if _, err := uuid.Parse(employeeID); err != nil {
		return BalanceResponse{}, leaveerrors.ErrInvalidEmployeeID
	}
	if !p.IsPrivileged() && !p.Owns(employeeID) {
		return BalanceResponse{}, leaveerrors.ErrForbidden
	}

	emp, err := s.repo.FindEmployeeByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return BalanceResponse{}, leaveerrors.ErrEmployeeNotFound
		}
		return BalanceResponse{}, err
	}
	return mapToBalanceResponse(emp.ID.String(), emp.Balance), nil
}

func mapToResponse(l Leave) LeaveResponse {
	resp := LeaveResponse{
		ID:           l.ID.String(),
		EmployeeID:   l.EmployeeID.String(),
		EmployeeName: l.EmployeeName,
		LeaveType:    l.LeaveType,
		StartDate:    l.StartDate.Format(dateLayout),
		EndDate:      l.EndDate.Format(dateLayout),
		NumberOfDays: l.NumberOfDays,
		Reason:       l.Reason,
		Attachment:   l.Attachment,
		Status:       l.Status,
		Comments:     l.Comments,
		AppliedDate:  l.AppliedDate.Format(time.RFC3339),
	}
	if l.ApprovedBy != nil {
		v := l.ApprovedBy.String()
		resp.ApprovedBy = &v
	}
	if l.ApprovedDate != nil {
		v := l.ApprovedDate.Format(time.RFC3339)
		resp.ApprovedDate = &v
	}
	return resp
}

func mapToListResponse(leaves []Leave) []LeaveResponse {
	resp := make([]LeaveResponse, len(leaves))
	for i, l := range leaves {
		resp[i] = mapToResponse(l)
	}
	return resp
}

func mapToBalanceResponse(employeeID string, b Balance) BalanceResponse {
	return BalanceResponse{
		EmployeeID:  employeeID,
		PaidLeave:   b.PaidLeave,
		SickLeave:   b.SickLeave,
		UnpaidLeave: b.UnpaidLeave,
	}
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
