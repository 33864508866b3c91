package checks

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/ppiankov/oraspectre/internal/models"
)

// controlIDPattern matches dotted CIS control numbers such as "1.1" or "10.23".
var controlIDPattern = regexp.MustCompile(`^\d+\.\d+$`)

// newValidator builds the struct validator with the control_id rule registered.
func newValidator() *validator.Validate {
	v := validator.New()

	_ = v.RegisterValidation("control_id", func(fl validator.FieldLevel) bool {
		return controlIDPattern.MatchString(fl.Field().String())
	})

	return v
}

// Validate checks a single definition against the schema rules.
func Validate(def models.CheckDefinition) error {
	if err := newValidator().Struct(def); err != nil {
		return formatValidationErrors(def.ID, err)
	}
	return nil
}

// ValidateRegistry validates every entry and rejects duplicate control ids.
// Used by the doctor command and tests to catch registry drift.
func ValidateRegistry(defs []models.CheckDefinition) error {
	if len(defs) == 0 {
		return fmt.Errorf("registry is empty")
	}

	v := newValidator()
	seen := make(map[string]bool, len(defs))

	for i, def := range defs {
		if err := v.Struct(def); err != nil {
			return fmt.Errorf("entry %d: %w", i+1, formatValidationErrors(def.ID, err))
		}
		if seen[def.ID] {
			return fmt.Errorf("duplicate control id %q", def.ID)
		}
		seen[def.ID] = true
	}

	return nil
}

// formatValidationErrors converts validator errors into readable messages.
func formatValidationErrors(id string, err error) error {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	var messages []string
	for _, fe := range validationErrors {
		messages = append(messages, formatFieldError(fe))
	}

	if id == "" {
		id = "(no id)"
	}
	return fmt.Errorf("check %s: %s", id, strings.Join(messages, "; "))
}

// formatFieldError converts a single field validation error to a message.
func formatFieldError(fe validator.FieldError) string {
	field := fe.Field()

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	case "control_id":
		return fmt.Sprintf("%s must be a dotted control number like 1.1", field)
	default:
		return fmt.Sprintf("%s failed validation: %s", field, fe.Tag())
	}
}
