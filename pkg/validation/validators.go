package validation

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Regex patterns
var (
	// Letters and spaces only
	personNameRegex = regexp.MustCompile(`^[A-Za-z ]+$`)

	// Optional +91 country code, then a 10-digit mobile number starting with 6-9
	indianPhoneRegex = regexp.MustCompile(`^(\+91[\s-]?)?[6-9]\d{9}$`)

	// Whole years with at most one decimal place
	yearsRegex = regexp.MustCompile(`^\d+(\.\d)?$`)
)

const (
	MaxPercentage      = 100
	MaxYearsExperience = 50
)

// RegisterValidators registers custom validators to the validator instance
func RegisterValidators(v *validator.Validate) {
	_ = v.RegisterValidation("person_name", PersonName)
	_ = v.RegisterValidation("in_phone", IndianPhone)
	_ = v.RegisterValidation("numeric_value", NumericValue)
	_ = v.RegisterValidation("percentage", Percentage)
	_ = v.RegisterValidation("years_experience", YearsExperience)
	_ = v.RegisterValidation("positive_amount", PositiveAmount)
	_ = v.RegisterValidation("non_negative_amount", NonNegativeAmount)
}

// ParseNumber parses a numeric form value. NaN and infinities are rejected
// even though strconv accepts their spellings.
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// PersonName validates that a name contains only letters and spaces
func PersonName(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	if val == "" {
		return true // Optional, use required if needed
	}
	return personNameRegex.MatchString(val)
}

// IndianPhone validates a mobile number with an optional +91 prefix
func IndianPhone(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	if val == "" {
		return true
	}
	return indianPhoneRegex.MatchString(val)
}

// NumericValue validates that the string parses to a finite number
func NumericValue(fl validator.FieldLevel) bool {
	_, ok := ParseNumber(fl.Field().String())
	return ok
}

// Percentage validates a numeric string within [0,100]
func Percentage(fl validator.FieldLevel) bool {
	n, ok := ParseNumber(fl.Field().String())
	return ok && n >= 0 && n <= MaxPercentage
}

// YearsExperience validates years of experience like "3" or "2.5" within [0,50]
func YearsExperience(fl validator.FieldLevel) bool {
	val := strings.TrimSpace(fl.Field().String())
	if !yearsRegex.MatchString(val) {
		return false
	}
	n, ok := ParseNumber(val)
	return ok && n <= MaxYearsExperience
}

// PositiveAmount validates a numeric string strictly greater than zero
func PositiveAmount(fl validator.FieldLevel) bool {
	n, ok := ParseNumber(fl.Field().String())
	return ok && n > 0
}

// NonNegativeAmount validates a numeric string greater than or equal to zero
func NonNegativeAmount(fl validator.FieldLevel) bool {
	n, ok := ParseNumber(fl.Field().String())
	return ok && n >= 0
}
