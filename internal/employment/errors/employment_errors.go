package employmenterrors

import (
	"net/http"

	"go-hrpay/internal/shared/apperror"
)

var (
	ErrEmploymentNotFound = apperror.New(
		apperror.CodeNotFound,
		"Employment record not found",
		http.StatusNotFound,
	)
	ErrEmploymentAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"Employment with the same email already exists",
		http.StatusConflict,
	)
	ErrEmployeeNumberAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"Employee number already exists in this company",
		http.StatusConflict,
	)
	ErrInvalidEmploymentID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid employment ID",
		http.StatusBadRequest,
	)
	ErrInvalidCompanyID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid company ID",
		http.StatusBadRequest,
	)
	ErrInvalidHireDate = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid hire_date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidSeniorityDate = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid seniority_start_date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
)
