package salary

import (
	"errors"
	"strings"

	salaryerrors "dayflow/internal/salary/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return salaryerrors.ErrSalaryNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == "23505" && pgErr.ConstraintName == "uq_salary_employee":
			return salaryerrors.ErrSalaryAlreadyExists
		case pgErr.Code == "23503":
			return salaryerrors.ErrEmployeeNotFound
		}
	}

	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "duplicate key value") && strings.Contains(errMsg, "uq_salary_employee") {
		return salaryerrors.ErrSalaryAlreadyExists
	}

	return err
}
