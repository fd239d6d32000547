package patient

import (
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// PatientBio carries the demographic snapshot taken at the visit. Age is a
// decimal so infant ages like 0.1 carry months.
type PatientBio struct {
	Name   string  `json:"name" validate:"required"`
	Age    float64 `json:"age" validate:"gte=0,lt=120"`
	Gender string  `json:"gender" validate:"required,oneof=male female"`
}

// VisitVitals records the vitals taken during the visit. BloodPressure is the
// usual "systolic/diastolic" string (e.g. "127/87").
type VisitVitals struct {
	BloodPressure string  `json:"blood_pressure" validate:"required"`
	Temperature   float64 `json:"temperature" validate:"gte=0"`
	Weight        float64 `json:"weight" validate:"gte=0"`
}

// TestReport is one lab or investigation result.
type TestReport struct {
	TestName    string `json:"test_name" validate:"required"`
	TestResults string `json:"test_results" validate:"required"`
}

// Medication is one prescription issued during the visit.
type Medication struct {
	MedicationName         string  `json:"medication_name" validate:"required"`
	MedicationDosage       float64 `json:"medication_dosage" validate:"gte=0"`
	MedicationDuration     float64 `json:"medication_duration" validate:"gte=0"`
	MedicationFrequency    float64 `json:"medication_frequency" validate:"gte=0"`
	MedicationInstructions string  `json:"medication_instructions,omitempty"`
}

// VisitDetails is the clinical payload of a submission, before the service
// stamps provenance onto it. The three sequence fields must be present in the
// payload but may be empty.
type VisitDetails struct {
	PatientBio          PatientBio   `json:"patient_bio"`
	VisitVitals         VisitVitals  `json:"visit_vitals"`
	VisitClinicalNotes  string       `json:"visit_clinical_notes" validate:"required"`
	VisitInvestigations []TestReport `json:"visit_investigations" validate:"dive"`
	VisitLabs           []TestReport `json:"visit_labs" validate:"dive"`
	VisitMedication     []Medication `json:"visit_medication" validate:"dive"`
}

// VisitRecord is one immutable clinical encounter. Records are append-only:
// there is no update or delete path, and a correction is a new record. Seq is
// the ingestion sequence number the store assigns, which breaks ordering ties
// between records sharing a visit_date.
type VisitRecord struct {
	ID                  uuid.UUID    `json:"id"`
	Seq                 int64        `json:"seq"`
	FacilityName        string       `json:"facility_name"`
	FacilityType        string       `json:"facility_type,omitempty"`
	VisitDate           time.Time    `json:"visit_date"`
	PatientBio          PatientBio   `json:"patient_bio"`
	VisitVitals         VisitVitals  `json:"visit_vitals"`
	VisitClinicalNotes  string       `json:"visit_clinical_notes"`
	VisitInvestigations []TestReport `json:"visit_investigations"`
	VisitLabs           []TestReport `json:"visit_labs"`
	VisitMedication     []Medication `json:"visit_medication"`
	CreatedAt           time.Time    `json:"created_at"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report field names as the caller sees them.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks the payload against the visit-record shape and reports the
// first offending field as a *ValidationError.
func (d *VisitDetails) Validate() error {
	// An absent sequence is a malformed payload; an empty one is valid.
	if d.VisitInvestigations == nil {
		return &ValidationError{Field: "visit_investigations", Reason: "must be present (may be empty)"}
	}
	if d.VisitLabs == nil {
		return &ValidationError{Field: "visit_labs", Reason: "must be present (may be empty)"}
	}
	if d.VisitMedication == nil {
		return &ValidationError{Field: "visit_medication", Reason: "must be present (may be empty)"}
	}

	if err := validate.Struct(d); err != nil {
		var errs validator.ValidationErrors
		if ok := errorsAs(err, &errs); ok && len(errs) > 0 {
			return fieldError(errs[0])
		}
		return &ValidationError{Field: "visit_details", Reason: err.Error()}
	}
	return nil
}

func errorsAs(err error, target *validator.ValidationErrors) bool {
	errs, ok := err.(validator.ValidationErrors)
	if ok {
		*target = errs
	}
	return ok
}

// fieldError converts a validator error into a ValidationError with the JSON
// field path, e.g. "patient_bio.age" or "visit_medication[0].medication_dosage".
func fieldError(fe validator.FieldError) *ValidationError {
	field := fe.Namespace()
	if i := strings.Index(field, "."); i >= 0 {
		field = field[i+1:]
	}

	var reason string
	switch fe.Tag() {
	case "required":
		reason = "is required"
	case "gte":
		reason = "must be at least " + fe.Param()
	case "lt":
		reason = "must be less than " + fe.Param()
	case "oneof":
		reason = "must be one of: " + fe.Param()
	default:
		reason = "failed " + fe.Tag() + " validation"
	}

	return &ValidationError{Field: field, Reason: reason}
}
