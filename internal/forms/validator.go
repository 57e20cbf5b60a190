package forms

import (
	"go-agency-backend/internal/domain"
	"go-agency-backend/pkg/security"
	"go-agency-backend/pkg/validation"

	"github.com/go-playground/validator/v10"
)

const ResumeField = "resume"

// Result is the outcome of validating one submit attempt
type Result struct {
	Valid      bool
	Values     map[string]any
	Errors     map[string]string
	Attachment *domain.Attachment
}

// Validator evaluates the per-form schemas and the resume rules
type Validator struct {
	engine *validation.Engine
}

func NewValidator(v *validator.Validate) *Validator {
	return &Validator{engine: validation.NewEngine(v)}
}

// Validate checks raw fields and the optional attachment for the form type.
// The error is non-nil only for an unknown form type.
func (fv *Validator) Validate(t domain.FormType, raw map[string]string, attachment any) (Result, error) {
	schema, policy, err := SchemaFor(t)
	if err != nil {
		return Result{}, err
	}

	res := fv.engine.Validate(schema, raw)
	out := Result{
		Values: res.Values,
		Errors: res.Errors,
	}

	if policy != ResumeNone {
		file, msg := checkResume(attachment, policy)
		if msg != "" {
			out.Errors[ResumeField] = msg
		} else {
			out.Attachment = file
		}
	}

	out.Valid = len(out.Errors) == 0
	if !out.Valid {
		out.Values = nil
		out.Attachment = nil
	}
	return out, nil
}

func checkResume(attachment any, policy ResumePolicy) (*domain.Attachment, string) {
	file, err := NormalizeAttachment(attachment)
	if err != nil {
		return nil, "Unable to read the uploaded resume"
	}
	if file == nil || len(file.Data) == 0 {
		if policy == ResumeRequired {
			return nil, "Resume is required"
		}
		return nil, ""
	}

	check := security.ValidateResume(file.Filename, file.Data, file.ContentType)
	if !check.Valid {
		if check.TooLarge {
			return nil, "Resume must be 5MB or smaller"
		}
		return nil, "Resume must be a PDF, DOC or DOCX file"
	}
	return file, ""
}

// Describe lists the fields of a form type, including the resume when the
// form accepts one
func (fv *Validator) Describe(t domain.FormType) ([]validation.FieldDescription, error) {
	schema, policy, err := SchemaFor(t)
	if err != nil {
		return nil, err
	}
	fields := validation.Describe(schema)
	if policy != ResumeNone {
		fields = append(fields, validation.FieldDescription{
			Name:     ResumeField,
			Label:    "Resume",
			Required: policy == ResumeRequired,
			Kind:     "file",
			Rules:    []string{"PDF, DOC or DOCX", "5MB or smaller"},
		})
	}
	return fields, nil
}
