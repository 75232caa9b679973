package employee

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"dayflow/internal/auth"
	employeeerrors "dayflow/internal/employee/errors"
	"dayflow/internal/events"
	"dayflow/internal/identity"
	"dayflow/internal/leave"
	"dayflow/internal/messaging/kafka"
	"dayflow/internal/shared/contextutil"
	"dayflow/internal/shared/counter"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	EmployeeOptionsKey = "employees:options"

	credentialsMessage = "Please share these credentials securely with the employee"
	defaultPageLimit   = 10
	maxPageLimit       = 100
)

// Settings are the company-wide values applied to every new employee.
type Settings struct {
	CompanyName    string
	DefaultBalance leave.Balance
}

//go:generate mockgen -source=employee_service.go -destination=mock/employee_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, p identity.Principal, req CreateEmployeeRequest) (CreateEmployeeResult, error)
	GetAll(ctx context.Context, p identity.Principal, q ListQuery) (ListResult, error)
	GetOptions(ctx context.Context) ([]EmployeeOption, error)
	GetByID(ctx context.Context, p identity.Principal, id string) (EmployeeResponse, error)
	Update(ctx context.Context, p identity.Principal, id string, req UpdateEmployeeRequest) (EmployeeResponse, error)
	Delete(ctx context.Context, p identity.Principal, id string) error
}

type service struct {
	db       *sql.DB
	repo     Repository
	users    auth.Repository
	counter  counter.Repository
	outbox   kafka.OutboxRepository
	rdb      *redis.Client
	sf       *singleflight.Group
	settings Settings
	now      func() time.Time
	logger   *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	users auth.Repository,
	counter counter.Repository,
	rdb *redis.Client,
	settings Settings,
	logger ...*zap.Logger,
) Service {
	return NewServiceWithOutbox(db, repo, users, counter, nil, rdb, settings, logger...)
}

func NewServiceWithOutbox(
	db *sql.DB,
	repo Repository,
	users auth.Repository,
	counter counter.Repository,
	outboxRepo kafka.OutboxRepository,
	rdb *redis.Client,
	settings Settings,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("employee.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.service")
	}
	return &service{
		db:       db,
		repo:     repo,
		users:    users,
		counter:  counter,
		outbox:   outboxRepo,
		rdb:      rdb,
		sf:       &singleflight.Group{},
		settings: settings,
		now:      func() time.Time { return time.Now().UTC() },
		logger:   l,
	}
}

func (s *service) Create(
	ctx context.Context,
	p identity.Principal,
	req CreateEmployeeRequest,
) (CreateEmployeeResult, error) {
	log := contextutil.GetLogger(ctx, s.logger)
	rid := contextutil.GetRequestID(ctx)

	if !p.IsPrivileged() {
		return CreateEmployeeResult{}, employeeerrors.ErrForbidden
	}
	role := identity.NormalizeRole(req.Role)
	if role == identity.RoleAdmin && !p.IsAdmin() {
		log.Warn("create employee admin role denied", zap.String("actor_id", p.UserID))
		return CreateEmployeeResult{}, employeeerrors.ErrForbidden
	}

	firstName, lastName := SplitName(req.Name)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	phone := strings.TrimSpace(req.Phone)
	if firstName == "" || email == "" || phone == "" {
		return CreateEmployeeResult{}, employeeerrors.ErrMissingRequiredFields
	}

	now := s.now()
	joiningDate := now.Truncate(24 * time.Hour)
	if req.JoiningDate != "" {
		d, err := time.Parse("2006-01-02", req.JoiningDate)
		if err != nil {
			log.Warn("create employee invalid joining_date", zap.String("joining_date", req.JoiningDate))
			return CreateEmployeeResult{}, employeeerrors.ErrInvalidJoiningDate
		}
		joiningDate = d
	}

	company := strings.TrimSpace(req.CompanyName)
	if company == "" {
		company = s.settings.CompanyName
	}

	log.Debug("create employee requested",
		zap.String("request_id", rid),
		zap.String("email", email),
		zap.String("role", role),
	)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("create employee begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return CreateEmployeeResult{}, err
	}
	defer tx.Rollback()

	prefix := LoginIDPrefix(company, firstName, lastName, now.Year())
	serial, err := s.counter.WithTx(tx).GetNextValue(ctx, loginIDCounterKey(prefix))
	if err != nil {
		log.Error("create employee login id serial failed", zap.Error(err))
		return CreateEmployeeResult{}, err
	}
	loginID := FormatLoginID(prefix, serial)

	empl := &Employee{
		ID:          uuid.New(),
		FirstName:   firstName,
		LastName:    lastName,
		Email:       email,
		Phone:       phone,
		Designation: strings.TrimSpace(req.Designation),
		Department:  strings.TrimSpace(req.Department),
		JoiningDate: joiningDate,
		CompanyName: company,
		Address:     req.Address,
		Status:      StatusActive,
		Balance:     s.settings.DefaultBalance,
	}

	user, plainPassword, err := auth.NewProvisionedUser(empl.ID, loginID, email, role)
	if err != nil {
		log.Error("create employee provision user failed", zap.Error(err))
		return CreateEmployeeResult{}, err
	}
	empl.UserID = user.ID

	if err := s.users.WithTx(tx).Create(ctx, user); err != nil {
		log.Warn("create employee user persist failed", zap.Error(err))
		return CreateEmployeeResult{}, mapRepositoryError(err)
	}
	if err := s.repo.WithTx(tx).Create(ctx, empl); err != nil {
		log.Warn("create employee persist failed", zap.Error(err))
		return CreateEmployeeResult{}, mapRepositoryError(err)
	}

	if s.outbox != nil {
		event := events.EmployeeCreatedEvent{
			EventType:   events.EventEmployeeCreated,
			RequestID:   rid,
			EmployeeID:  empl.ID.String(),
			UserID:      user.ID.String(),
			LoginID:     loginID,
			Email:       email,
			FullName:    empl.FullName(),
			CompanyName: company,
			OccurredAt:  now,
		}
		outboxEvent, err := kafka.NewOutboxEvent(ctx, "employee", empl.ID.String(), event.EventType, events.EmployeeLifecycleTopic, event)
		if err != nil {
			log.Error("create employee build event failed", zap.Error(err))
			return CreateEmployeeResult{}, err
		}
		if err := s.outbox.WithTx(tx).Create(ctx, outboxEvent); err != nil {
			log.Error("create employee outbox persist failed",
				zap.String("employee_id", empl.ID.String()),
				zap.Error(err),
			)
			return CreateEmployeeResult{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		log.Error("create employee commit failed", zap.String("request_id", rid), zap.Error(err))
		return CreateEmployeeResult{}, err
	}

	s.invalidateOptions(ctx)

	log.Info("create employee success",
		zap.String("request_id", rid),
		zap.String("employee_id", empl.ID.String()),
		zap.String("login_id", loginID),
	)

	return CreateEmployeeResult{
		Employee: mapToResponse(*empl),
		LoginCredentials: LoginCredentials{
			LoginID:  loginID,
			Password: plainPassword,
			Message:  credentialsMessage,
		},
	}, nil
}

func (s *service) GetAll(ctx context.Context, p identity.Principal, q ListQuery) (ListResult, error) {
	if !p.IsPrivileged() {
		return ListResult{}, employeeerrors.ErrForbidden
	}

	page := q.Page
	if page < 1 {
		page = 1
	}
	limit := q.Limit
	if limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	employees, total, err := s.repo.FindAll(ctx, ListFilter{
		Search:     strings.TrimSpace(q.Search),
		Department: strings.TrimSpace(q.Department),
		Status:     q.Status,
		Offset:     (page - 1) * limit,
		Limit:      limit,
	})
	if err != nil {
		contextutil.GetLogger(ctx, s.logger).Error("get all employees failed", zap.Error(err))
		return ListResult{}, mapRepositoryError(err)
	}

	return ListResult{
		Items: mapToListResponse(employees),
		Total: total,
		Page:  page,
		Limit: limit,
	}, nil
}

func (s *service) GetOptions(ctx context.Context) ([]EmployeeOption, error) {
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, EmployeeOptionsKey).Result(); err == nil {
			var resp []EmployeeOption
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return resp, nil
			}
		}
	}

	// concurrent misses share one query
	v, err, _ := s.sf.Do(EmployeeOptionsKey, func() (any, error) {
		employees, err := s.repo.FindOptions(ctx)
		if err != nil {
			return nil, mapRepositoryError(err)
		}

		resp := make([]EmployeeOption, len(employees))
		for i, e := range employees {
			resp[i] = EmployeeOption{ID: e.ID.String(), FullName: e.FullName()}
		}

		if s.rdb != nil {
			if data, err := json.Marshal(resp); err == nil {
				if err := s.rdb.Set(ctx, EmployeeOptionsKey, data, time.Hour).Err(); err != nil {
					s.logger.Warn("cache employee options failed", zap.Error(err))
				}
			}
		}
		return resp, nil
	})
	if err != nil {
		return nil, err
	}

	return v.([]EmployeeOption), nil
}

func (s *service) GetByID(ctx context.Context, p identity.Principal, id string) (EmployeeResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return EmployeeResponse{}, employeeerrors.ErrInvalidEmployeeID
	}
	if !p.IsPrivileged() && !p.Owns(id) {
		return EmployeeResponse{}, employeeerrors.ErrForbidden
	}

	empl, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return EmployeeResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*empl), nil
}

func (s *service) Update(
	ctx context.Context,
	p identity.Principal,
	id string,
	req UpdateEmployeeRequest,
) (EmployeeResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)

	if _, err := uuid.Parse(id); err != nil {
		return EmployeeResponse{}, employeeerrors.ErrInvalidEmployeeID
	}
	if !p.IsPrivileged() {
		if !p.Owns(id) {
			return EmployeeResponse{}, employeeerrors.ErrForbidden
		}
		if req.touchesJobFields() {
			return EmployeeResponse{}, employeeerrors.ErrRestrictedFields
		}
	}

	var joiningDate *time.Time
	if req.JoiningDate != nil {
		d, err := time.Parse("2006-01-02", *req.JoiningDate)
		if err != nil {
			return EmployeeResponse{}, employeeerrors.ErrInvalidJoiningDate
		}
		joiningDate = &d
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("update employee begin tx failed", zap.Error(err))
		return EmployeeResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	empl, err := qtx.FindByID(ctx, id)
	if err != nil {
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	if req.FirstName != nil {
		empl.FirstName = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		empl.LastName = strings.TrimSpace(*req.LastName)
	}
	if req.Phone != nil {
		empl.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.Address != nil {
		empl.Address = req.Address
	}
	if req.Designation != nil {
		empl.Designation = strings.TrimSpace(*req.Designation)
	}
	if req.Department != nil {
		empl.Department = strings.TrimSpace(*req.Department)
	}
	if joiningDate != nil {
		empl.JoiningDate = *joiningDate
	}
	if req.Status != nil {
		empl.Status = *req.Status
	}

	if err := qtx.Update(ctx, empl); err != nil {
		log.Error("update employee persist failed", zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		log.Error("update employee commit failed", zap.Error(err))
		return EmployeeResponse{}, err
	}

	s.invalidateOptions(ctx)
	log.Info("update employee success", zap.String("employee_id", id), zap.String("actor_id", p.UserID))

	return mapToResponse(*empl), nil
}

// Delete removes the employee and its login. Leave, attendance and salary
// rows go with it through the foreign keys.
func (s *service) Delete(ctx context.Context, p identity.Principal, id string) error {
	log := contextutil.GetLogger(ctx, s.logger)

	if !p.IsAdmin() {
		return employeeerrors.ErrForbidden
	}
	if _, err := uuid.Parse(id); err != nil {
		return employeeerrors.ErrInvalidEmployeeID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("delete employee begin tx failed", zap.Error(err))
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	empl, err := qtx.FindByID(ctx, id)
	if err != nil {
		return mapRepositoryError(err)
	}
	if _, err := qtx.Delete(ctx, id); err != nil {
		log.Error("delete employee failed", zap.Error(err))
		return mapRepositoryError(err)
	}
	if err := s.users.WithTx(tx).Delete(ctx, empl.UserID); err != nil {
		log.Error("delete employee user failed", zap.Error(err))
		return err
	}

	if err := tx.Commit(); err != nil {
		log.Error("delete employee commit failed", zap.Error(err))
		return err
	}

	s.invalidateOptions(ctx)
	log.Info("delete employee success", zap.String("employee_id", id))
	return nil
}

func (s *service) invalidateOptions(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, EmployeeOptionsKey).Err(); err != nil {
		s.logger.Error("failed to invalidate employee options cache",
			zap.Error(err),
			zap.String("key", EmployeeOptionsKey),
		)
	}
}

func mapToResponse(e Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:          e.ID.String(),
		UserID:      e.UserID.String(),
		FirstName:   e.FirstName,
		LastName:    e.LastName,
		FullName:    e.FullName(),
		Email:       e.Email,
		Phone:       e.Phone,
		Designation: e.Designation,
		Department:  e.Department,
		JoiningDate: e.JoiningDate.Format("2006-01-02"),
		CompanyName: e.CompanyName,
		Address:     e.Address,
		Status:      e.Status,
		LeaveBalance: LeaveBalanceResponse{
			PaidLeave:   e.Balance.PaidLeave,
			SickLeave:   e.Balance.SickLeave,
			UnpaidLeave: e.Balance.UnpaidLeave,
		},
	}
}

func mapToListResponse(employees []Employee) []EmployeeResponse {
	res := make([]EmployeeResponse, len(employees))
	for i, e := range employees {
		res[i] = mapToResponse(e)
	}
	return res
}
