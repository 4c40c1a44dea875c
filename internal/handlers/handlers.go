package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/petermazzocco/renovation-portal/internal/access"
	"github.com/petermazzocco/renovation-portal/internal/auth"
	"github.com/petermazzocco/renovation-portal/internal/storage"
	"github.com/petermazzocco/renovation-portal/internal/utils"
	"github.com/petermazzocco/renovation-portal/internal/workflow"
)

// DeniedNotice is flashed when an action is refused.
const DeniedNotice = "Access denied."

// ImageProcessor normalizes an uploaded photo before it is stored.
type ImageProcessor interface {
	Process(data []byte) ([]byte, error)
}

// Handler carries every dependency the routes need.
type Handler struct {
	Accounts  *auth.Accounts
	Sessions  *auth.Sessions
	Estimates *workflow.EstimateService
	Projects  *workflow.ProjectService
	Files     storage.FileStore
	// Images may be nil, in which case photos are stored as uploaded.
	Images ImageProcessor
	// OAuthEnabled turns on the /auth/{provider} routes.
	OAuthEnabled bool
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

type ValidationErrorDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func formatValidationErrors(errs validator.ValidationErrors) []ValidationErrorDetail {
	var details []ValidationErrorDetail
	for _, err := range errs {
		var message string
		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("Field '%s' is required", err.Field())
		case "email":
			message = fmt.Sprintf("Field '%s' must be a valid email address", err.Field())
		case "min":
			message = fmt.Sprintf("Field '%s' must be at least %s in length", err.Field(), err.Param())
		case "max":
			message = fmt.Sprintf("Field '%s' must not exceed %s in length", err.Field(), err.Param())
		case "eqfield":
			message = fmt.Sprintf("Field '%s' must match '%s'", err.Field(), err.Param())
		default:
			message = fmt.Sprintf("Field validation for '%s' failed on the '%s' tag", err.Field(), err.Tag())
		}
		details = append(details, ValidationErrorDetail{Field: err.Field(), Message: message})
	}
	return details
}

// decodeAndValidate reads a JSON body into dst. It writes the error
// response itself and reports whether the handler may continue.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid JSON payload", nil, err)
		return false
	}
	return validateStruct(w, dst)
}

func validateStruct(w http.ResponseWriter, dst any) bool {
	if err := validate.Struct(dst); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeValidation, "Validation failed", formatValidationErrors(validationErrs), err)
		} else {
			utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeValidation, "Validation error", nil, err)
		}
		return false
	}
	return true
}

// pathID parses the {id} URL parameter. Non-numeric ids are not found.
func pathID(w http.ResponseWriter, r *http.Request) (uint, bool) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id == 0 {
		utils.RespondErrorWithCode(w, http.StatusNotFound, utils.ErrCodeNotFound, "Not found", nil, err)
		return 0, false
	}
	return uint(id), true
}

// fail renders a service error. A refused action leaves state untouched
// and sends the actor back to their dashboard with a notice.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, utils.ErrForbidden) {
		h.deny(w, r)
		return
	}
	utils.HandleAppError(w, err)
}

func (h *Handler) deny(w http.ResponseWriter, r *http.Request) {
	actor := auth.ActorFrom(r.Context())
	utils.Logger.WithField("path", r.URL.Path).WithField("user", actor.UserID).Warn("Access denied")
	if err := h.Sessions.AddFlash(w, r, DeniedNotice); err != nil {
		utils.Logger.WithError(err).Warn("Failed to save flash")
	}
	http.Redirect(w, r, dashboardPath(actor), http.StatusSeeOther)
}

// dashboardPath is where an actor lands after login or a refused action.
func dashboardPath(a access.Actor) string {
	if a.IsAdmin() {
		return "/admin/dashboard"
	}
	return "/dashboard"
}

// Message is the body of responses that carry only a notice.
type Message struct {
	Message string `json:"message"`
}
