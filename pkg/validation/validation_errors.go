package validation

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldLabels maps form field names to user-friendly labels
var FieldLabels = map[string]string{
	"name":              "Name",
	"email":             "Email",
	"phone":             "Phone number",
	"subject":           "Subject",
	"message":           "Message",
	"position":          "Position",
	"experience":        "Experience",
	"expectedSalary":    "Expected salary",
	"currentSalary":     "Current salary",
	"portfolioUrl":      "Portfolio URL",
	"linkedinUrl":       "LinkedIn URL",
	"coverLetter":       "Cover letter",
	"program":           "Program",
	"tenthPercentage":   "10th percentage",
	"twelfthPercentage": "12th percentage",
	"collegePercentage": "College percentage",
	"schoolName":        "School name",
	"collegeName":       "College name",
	"motivation":        "Motivation",
	"goals":             "Goals",
	"company":           "Company",
	"service":           "Service",
	"budget":            "Budget",
	"resume":            "Resume",
}

// FormatValidationErrors converts validator.ValidationErrors to user-friendly messages
func FormatValidationErrors(err error) []string {
	var messages []string

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		// Not a validation error, return generic message
		return []string{err.Error()}
	}

	for _, e := range validationErrors {
		messages = append(messages, FormatFieldError(GetFieldLabel(e.Field()), e))
	}

	return messages
}

// FormatFieldError formats a single validation error for the given label.
// Used when a rule does not carry its own message.
func FormatFieldError(label string, e validator.FieldError) string {
	tag := e.Tag()
	param := e.Param()

	switch tag {
	case "required":
		return fmt.Sprintf("%s is required", label)

	case "min":
		if e.Kind().String() == "string" {
			return fmt.Sprintf("%s must be at least %s characters", label, param)
		}
		return fmt.Sprintf("%s must be at least %s", label, param)

	case "max":
		if e.Kind().String() == "string" {
			return fmt.Sprintf("%s must be at most %s characters", label, param)
		}
		return fmt.Sprintf("%s must be at most %s", label, param)

	case "email":
		return fmt.Sprintf("%s must be a valid email address", label)

	case "url":
		return fmt.Sprintf("%s must be a valid URL", label)

	case "contains":
		return fmt.Sprintf("%s must contain %s", label, param)

	case "person_name":
		return fmt.Sprintf("%s can only contain letters and spaces", label)

	case "in_phone":
		return fmt.Sprintf("%s must be a valid 10-digit mobile number", label)

	case "numeric_value":
		return fmt.Sprintf("%s must be a number", label)

	case "percentage":
		return fmt.Sprintf("%s must be between 0 and %d", label, MaxPercentage)

	case "years_experience":
		return fmt.Sprintf("%s must be between 0 and %d years", label, MaxYearsExperience)

	case "positive_amount":
		return fmt.Sprintf("%s must be greater than 0", label)

	case "non_negative_amount":
		return fmt.Sprintf("%s cannot be negative", label)

	default:
		return fmt.Sprintf("%s is invalid (%s)", label, tag)
	}
}

// GetFieldLabel returns the user-friendly label for a field
func GetFieldLabel(fieldName string) string {
	if label, ok := FieldLabels[fieldName]; ok {
		return label
	}
	return formatCamelCase(fieldName)
}

// formatCamelCase converts camelCase to spaced words
func formatCamelCase(s string) string {
	var result strings.Builder
	for i, r := range s {
		if i > 0 && r >= 'A' && r <= 'Z' {
			result.WriteRune(' ')
			r += 'a' - 'A'
		}
		if i == 0 && r >= 'a' && r <= 'z' {
			r -= 'a' - 'A'
		}
		result.WriteRune(r)
	}
	return result.String()
}
