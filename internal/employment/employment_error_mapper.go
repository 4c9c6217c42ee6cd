package employment

import (
	"errors"
	"strings"

	employmenterrors "go-hrpay/internal/employment/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return employmenterrors.ErrEmploymentNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" {
			switch pgErr.ConstraintName {
			case "uq_employment_number":
				return employmenterrors.ErrEmployeeNumberAlreadyExists
			case "uq_employment_email":
				return employmenterrors.ErrEmploymentAlreadyExists
			}
		}
	}

	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "duplicate key value") && strings.Contains(errMsg, "uq_employment_number") {
		return employmenterrors.ErrEmployeeNumberAlreadyExists
	}
	if strings.Contains(errMsg, "duplicate key value") && strings.Contains(errMsg, "uq_employment_email") {
		return employmenterrors.ErrEmploymentAlreadyExists
	}

	return err
}
