package validation

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Kind tells the engine how to normalize an accepted value
type Kind int

const (
	KindText Kind = iota
	KindNumber
)

func (k Kind) String() string {
	if k == KindNumber {
		return "number"
	}
	return "text"
}

// Rule is a validator tag paired with the message shown when it fails
type Rule struct {
	Tag     string
	Message string
}

// Field describes one form input. Rules run in order and the first failure
// becomes the field's only error.
type Field struct {
	Name            string
	Label           string
	Required        bool
	RequiredMessage string
	Trim            bool
	Kind            Kind
	Rules           []Rule
}

// Schema is the ordered rule set of one form
type Schema struct {
	Name   string
	Fields []Field
}

// Result of evaluating a raw field map against a schema
type Result struct {
	Valid  bool
	Values map[string]any    // trimmed strings and parsed numbers
	Errors map[string]string // only failing fields
}

// FieldDescription is the public view of a field's rules
type FieldDescription struct {
	Name     string   `json:"name"`
	Label    string   `json:"label"`
	Required bool     `json:"required"`
	Kind     string   `json:"kind"`
	Rules    []string `json:"rules"`
}

// Engine evaluates schemas with a shared validator instance
type Engine struct {
	validate *validator.Validate
}

// NewEngine wraps v (or a fresh validator) with the custom tags registered
func NewEngine(v *validator.Validate) *Engine {
	if v == nil {
		v = validator.New()
	}
	RegisterValidators(v)
	return &Engine{validate: v}
}

// Validate evaluates raw against every field of s. Keys not declared in the
// schema are dropped from the normalized values.
func (e *Engine) Validate(s Schema, raw map[string]string) Result {
	res := Result{
		Values: make(map[string]any, len(s.Fields)),
		Errors: make(map[string]string),
	}

	for _, f := range s.Fields {
		value, msg, present := e.CheckField(f, raw[f.Name])
		if msg != "" {
			res.Errors[f.Name] = msg
			continue
		}
		if present {
			res.Values[f.Name] = value
		}
	}

	res.Valid = len(res.Errors) == 0
	if !res.Valid {
		res.Values = nil
	}
	return res
}

// CheckField validates a single raw value. It returns the normalized value,
// an error message (empty when valid) and whether a value was present.
func (e *Engine) CheckField(f Field, raw string) (any, string, bool) {
	value := raw
	if f.Trim {
		value = strings.TrimSpace(raw)
	}

	if strings.TrimSpace(value) == "" {
		if f.Required {
			return nil, f.requiredMessage(), false
		}
		return nil, "", false
	}

	for _, rule := range f.Rules {
		if err := e.validate.Var(value, rule.Tag); err != nil {
			return nil, e.message(f, rule, err), false
		}
	}

	if f.Kind == KindNumber {
		n, ok := ParseNumber(value)
		if !ok {
			return nil, FormatFieldErrorTag(f.label(), "numeric_value"), false
		}
		return n, "", true
	}
	return value, "", true
}

func (e *Engine) message(f Field, rule Rule, err error) string {
	if rule.Message != "" {
		return rule.Message
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return FormatFieldError(f.label(), verrs[0])
	}
	return FormatFieldErrorTag(f.label(), rule.Tag)
}

// Describe lists the schema's fields with their messages
func Describe(s Schema) []FieldDescription {
	out := make([]FieldDescription, 0, len(s.Fields))
	for _, f := range s.Fields {
		d := FieldDescription{
			Name:     f.Name,
			Label:    f.label(),
			Required: f.Required,
			Kind:     f.Kind.String(),
			Rules:    make([]string, 0, len(f.Rules)+1),
		}
		if f.Required {
			d.Rules = append(d.Rules, f.requiredMessage())
		}
		for _, r := range f.Rules {
			if r.Message != "" {
				d.Rules = append(d.Rules, r.Message)
			} else {
				d.Rules = append(d.Rules, FormatFieldErrorTag(f.label(), r.Tag))
			}
		}
		out = append(out, d)
	}
	return out
}

// FormatFieldErrorTag formats a message from a bare tag when no
// validator.FieldError is at hand
func FormatFieldErrorTag(label, tag string) string {
	name, param, _ := strings.Cut(tag, "=")
	switch name {
	case "required":
		return label + " is required"
	case "min":
		return label + " must be at least " + param + " characters"
	case "max":
		return label + " must be at most " + param + " characters"
	case "email":
		return label + " must be a valid email address"
	case "url":
		return label + " must be a valid URL"
	case "numeric_value":
		return label + " must be a number"
	}
	return label + " is invalid"
}

func (f Field) label() string {
	if f.Label != "" {
		return f.Label
	}
	return GetFieldLabel(f.Name)
}

func (f Field) requiredMessage() string {
	if f.RequiredMessage != "" {
		return f.RequiredMessage
	}
	return f.label() + " is required"
}
