package validation

import (
	"errors"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/yigit/qpaper/internal/pkg/apperrors"
)

// Field limits for question papers and accounts
const (
	YearNameMaxLength    = 20
	SubjectNameMaxLength = 100
	SubjectCodeMaxLength = 20
	SemesterMin          = 1
	SemesterMax          = 12
	PaperYearMin         = 1900
	PaperYearMax         = 9999
	UsernameMaxLength    = 50
)

// Paper types accepted by the store
const (
	PaperTypeRegular = "Regular"
	PaperTypeArrear  = "Arrear"
)

// PaperTypes lists the accepted paper types in display order
var PaperTypes = []string{PaperTypeRegular, PaperTypeArrear}

// AllowedFileExtension is the only extension accepted for uploads
const AllowedFileExtension = ".pdf"

// Messages maps "Field.tag" (or a bare "tag") to the message shown to users
type Messages map[string]string

// QuestionPaperMessages are the user-facing messages for question paper input
var QuestionPaperMessages = Messages{
	"required":        "All required fields must be filled.",
	"max":             "Input exceeds maximum length.",
	"SemesterNo.min":  "Semester No must be between 1 and 12.",
	"SemesterNo.max":  "Semester No must be between 1 and 12.",
	"PaperType.oneof": "Invalid paper type.",
	"PaperYear.min":   "Paper Year must be between 1900 and 9999.",
	"PaperYear.max":   "Paper Year must be between 1900 and 9999.",
}

// CredentialMessages are the user-facing messages for signup and login input
var CredentialMessages = Messages{
	"required":     "Username and password are required.",
	"Username.max": "Username exceeds maximum length.",
}

// Validator wraps go-playground/validator and translates failures into user messages
type Validator struct {
	validate *validator.Validate
}

// New creates a Validator
func New() *Validator {
	return &Validator{validate: validator.New(validator.WithRequiredStructEnabled())}
}

// Struct validates s and returns a validation CustomError carrying the first applicable message.
// A missing required field always wins over other failures.
func (v *Validator) Struct(s interface{}, messages Messages) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) || len(fieldErrors) == 0 {
		return apperrors.NewValidationError("Invalid input.")
	}

	chosen := fieldErrors[0]
	for _, fe := range fieldErrors {
		if fe.Tag() == "required" {
			chosen = fe
			break
		}
	}

	return apperrors.NewValidationError(messageFor(chosen, messages)).WithField(chosen.StructField())
}

func messageFor(fe validator.FieldError, messages Messages) string {
	if msg, ok := messages[fe.StructField()+"."+fe.Tag()]; ok {
		return msg
	}
	if msg, ok := messages[fe.Tag()]; ok {
		return msg
	}
	return formatValidationError(fe)
}

// formatValidationError creates a human-readable validation error message
func formatValidationError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return e.Field() + " is required."
	case "min":
		return e.Field() + " must be at least " + e.Param() + "."
	case "max":
		return e.Field() + " must be at most " + e.Param() + "."
	case "oneof":
		return e.Field() + " must be one of: " + e.Param() + "."
	default:
		return e.Field() + " is invalid."
	}
}

// IsPDFFilename reports whether a filename carries the .pdf extension, ignoring case
func IsPDFFilename(filename string) bool {
	return strings.EqualFold(filepath.Ext(strings.TrimSpace(filename)), AllowedFileExtension)
}
