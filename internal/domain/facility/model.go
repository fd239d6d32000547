package facility

import (
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// RegistryStatusActive is the only registry status that permits registration.
const RegistryStatusActive = "Active"

// Account is a facility's login identity. One account per facility; the
// facility type is stamped from the regulatory registry at registration time,
// never supplied by the caller.
type Account struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	FacilityName string    `json:"facility_name"`
	FacilityType string    `json:"facility_type"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// RegistryEntry is one row of the regulatory facility registry. Registration
// is only open to facilities listed here with an Active status.
type RegistryEntry struct {
	ID           uuid.UUID `json:"id"`
	FacilityName string    `json:"facility_name"`
	FacilityType string    `json:"facility_type"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
}

func (e *RegistryEntry) Active() bool {
	return e.Status == RegistryStatusActive
}

// RegisterRequest is the registration payload.
type RegisterRequest struct {
	Email        string `json:"email" validate:"required,email"`
	Password     string `json:"password" validate:"required,min=8"`
	FacilityName string `json:"facility_name" validate:"required"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks the registration payload and reports the first offending
// field as a *ValidationError.
func (r *RegisterRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
			return fieldError(errs[0])
		}
		return &ValidationError{Field: "request", Reason: err.Error()}
	}
	return nil
}

func fieldError(fe validator.FieldError) *ValidationError {
	field := fe.Namespace()
	if i := strings.Index(field, "."); i >= 0 {
		field = field[i+1:]
	}

	var reason string
	switch fe.Tag() {
	case "required":
		reason = "is required"
	case "email":
		reason = "must be a valid email address"
	case "min":
		reason = "must be at least " + fe.Param() + " characters"
	default:
		reason = "failed " + fe.Tag() + " validation"
	}

	return &ValidationError{Field: field, Reason: reason}
}
