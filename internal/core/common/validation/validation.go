package validation

import (
	"fmt"
	"time"
	"unicode/utf8"

	errors "github.com/frahmantamala/expense-tracker/internal"
	"github.com/spf13/cast"
)

// DateLayout is the only accepted calendar date format.
const DateLayout = "2006-01-02"

const (
	MaxNoteLength      = 200
	MaxCategoryLength  = 50
	MaxCreatedByLength = 100
)

type ValidatorFunc func(interface{}) *errors.AppError

type FieldValidator struct {
	FieldName  string
	Value      interface{}
	Validators []ValidatorFunc
}

type ValidationBuilder struct {
	fields []*FieldValidator
}

func NewValidator() *ValidationBuilder {
	return &ValidationBuilder{
		fields: make([]*FieldValidator, 0),
	}
}

func (v *ValidationBuilder) Field(name string, value interface{}) *FieldValidator {
	fv := &FieldValidator{
		FieldName:  name,
		Value:      value,
		Validators: make([]ValidatorFunc, 0),
	}
	v.fields = append(v.fields, fv)
	return fv
}

func (fv *FieldValidator) Required() *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		missing := false
		switch v := value.(type) {
		case nil:
			missing = true
		case string:
			missing = v == ""
		case *string:
			missing = v == nil || *v == ""
		case float64:
			missing = v == 0
		case bool:
			missing = !v
		}
		if missing {
			return errors.NewValidationFieldError(fv.FieldName, fmt.Sprintf("%s is required", fv.FieldName), errors.ErrCodeMissingField)
		}
		return nil
	})
	return fv
}

// MaxLength counts runes, not bytes.
func (fv *FieldValidator) MaxLength(max int) *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		var s string
		switch v := value.(type) {
		case string:
			s = v
		case *string:
			if v == nil {
				return nil
			}
			s = *v
		default:
			return nil
		}
		if utf8.RuneCountInString(s) > max {
			message := fmt.Sprintf("%s must not exceed %d characters", fv.FieldName, max)
			return errors.NewValidationFieldError(fv.FieldName, message, errors.ErrCodeFieldTooLong)
		}
		return nil
	})
	return fv
}

// Numeric accepts anything cast can turn into a float64. nil passes so it can
// be combined with Required or used on optional fields.
func (fv *FieldValidator) Numeric() *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		if value == nil {
			return nil
		}
		if _, err := cast.ToFloat64E(value); err != nil {
			return errors.NewValidationFieldError(fv.FieldName, fmt.Sprintf("%s must be a number", fv.FieldName), errors.ErrCodeInvalidAmount)
		}
		return nil
	})
	return fv
}

// Date checks that a non-empty string parses as YYYY-MM-DD.
func (fv *FieldValidator) Date() *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		s, ok := value.(string)
		if !ok || s == "" {
			return nil
		}
		if _, err := ParseDate(s); err != nil {
			return errors.NewValidationFieldError(fv.FieldName, err.Error(), errors.ErrCodeInvalidDate)
		}
		return nil
	})
	return fv
}

func (fv *FieldValidator) Custom(validator func(interface{}) *errors.AppError) *FieldValidator {
	fv.Validators = append(fv.Validators, validator)
	return fv
}

// Validate runs every validator and reports the first failure of each field.
func (v *ValidationBuilder) Validate() *errors.AppError {
	var validationErrors []errors.ValidationError

	for _, field := range v.fields {
		for _, validator := range field.Validators {
			err := validator(field.Value)
			if err == nil {
				continue
			}
			if details, ok := err.Details.(errors.ValidationErrors); ok {
				validationErrors = append(validationErrors, details.Errors...)
			} else {
				validationErrors = append(validationErrors, errors.ValidationError{
					Field:   field.FieldName,
					Message: err.Message,
					Code:    string(err.Code),
				})
			}
			break
		}
	}

	if len(validationErrors) > 0 {
		return errors.NewValidationError("Validation failed", errors.ErrCodeValidationFailed).
			WithDetails(errors.ValidationErrors{Errors: validationErrors})
	}

	return nil
}

// ParseDate parses a YYYY-MM-DD string into a UTC midnight time.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("date %q does not match format YYYY-MM-DD", s)
	}
	return t, nil
}

// ValidateExpenseText applies the column length limits shared by create,
// update and import.
func ValidateExpenseText(note *string, category, createdBy string) *errors.AppError {
	validator := NewValidator()
	validator.Field("note", note).MaxLength(MaxNoteLength)
	validator.Field("category", category).MaxLength(MaxCategoryLength)
	validator.Field("created_by", createdBy).MaxLength(MaxCreatedByLength)
	return validator.Validate()
}

func ValidateExpenseDate(date string) *errors.AppError {
	validator := NewValidator()
	validator.Field("date", date).
		Required().
		Date()
	return validator.Validate()
}
