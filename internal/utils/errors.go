package utils

import (
	"errors"
	"net/http"

	"gorm.io/gorm"
)

// Domain-level errors returned by the workflow and account services.
var (
	ErrForbidden          = errors.New("forbidden")
	ErrNotFound           = errors.New("not_found")
	ErrConflict           = errors.New("conflict")
	ErrValidation         = errors.New("validation_error")
	ErrInvalidTransition  = errors.New("invalid_transition")
	ErrInvalidProjectType = errors.New("invalid_project_type")
	ErrUnknownService     = errors.New("unknown_service")
	ErrTooManyImages      = errors.New("too_many_images")
	ErrEmptyMessage       = errors.New("empty_message")
	ErrEmailTaken         = errors.New("email_taken")
	ErrInvalidCredentials = errors.New("invalid_credentials")
)

// AppError carries the HTTP mapping of a failure from services to handlers.
type AppError struct {
	StatusCode int
	Code       string
	Message    string
	Err        error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError wraps a sentinel with a user-facing notice.
func NewAppError(err error, message string) *AppError {
	status, code := classify(err)
	return &AppError{StatusCode: status, Code: code, Message: message, Err: err}
}

// TranslateDBError maps gorm errors onto the domain sentinels. Anything it
// does not recognise is returned unchanged.
func TranslateDBError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return errors.Join(ErrConflict, err)
	default:
		return err
	}
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden, ErrCodeForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound, ErrCodeNotFound
	case errors.Is(err, ErrConflict), errors.Is(err, ErrEmailTaken):
		return http.StatusConflict, ErrCodeConflict
	case errors.Is(err, ErrInvalidTransition):
		return http.StatusConflict, ErrCodeInvalidTransition
	case errors.Is(err, ErrInvalidCredentials):
		return http.StatusUnauthorized, ErrCodeInvalidCredentials
	case errors.Is(err, ErrValidation),
		errors.Is(err, ErrInvalidProjectType),
		errors.Is(err, ErrUnknownService),
		errors.Is(err, ErrTooManyImages),
		errors.Is(err, ErrEmptyMessage):
		return http.StatusBadRequest, ErrCodeValidation
	default:
		return http.StatusInternalServerError, ErrCodeInternal
	}
}

// HandleAppError centralizes responding to service errors.
func HandleAppError(w http.ResponseWriter, err error) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		RespondErrorWithCode(w, appErr.StatusCode, appErr.Code, appErr.Message, nil, appErr.Err)
		return
	}
	status, code := classify(err)
	if status == http.StatusInternalServerError {
		RespondErrorWithCode(w, status, code, "An unexpected error occurred", nil, err)
		return
	}
	RespondErrorWithCode(w, status, code, err.Error(), nil, err)
}
