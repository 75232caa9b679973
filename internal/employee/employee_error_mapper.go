package employee

import (
	"errors"
	"strings"

	employeeerrors "dayflow/internal/employee/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return employeeerrors.ErrEmployeeNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" {
			switch pgErr.ConstraintName {
			case "uq_users_email", "uq_employees_email":
				return employeeerrors.ErrEmployeeAlreadyExists
			case "uq_users_login_id":
				return employeeerrors.ErrLoginIDAlreadyExists
			}
		}
	}

	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "duplicate key value") && strings.Contains(errMsg, "email") {
		return employeeerrors.ErrEmployeeAlreadyExists
	}
	if strings.Contains(errMsg, "duplicate key value") && strings.Contains(errMsg, "login_id") {
		return employeeerrors.ErrLoginIDAlreadyExists
	}

	return err
}
