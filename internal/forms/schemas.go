package forms

import (
	"strconv"

	"go-agency-backend/internal/domain"
	v "go-agency-backend/pkg/validation"
)

// Shared field definitions. Trim runs before length checks on the fields
// that set it.
var (
	nameField = v.Field{
		Name: "name", Required: true, Trim: true,
		RequiredMessage: "Name is required",
		Rules: []v.Rule{
			{Tag: "min=2", Message: "Name must be at least 2 characters"},
			{Tag: "max=50", Message: "Name must be at most 50 characters"},
			{Tag: "person_name", Message: "Name can only contain letters and spaces"},
		},
	}
	emailField = v.Field{
		Name: "email", Required: true, Trim: true,
		RequiredMessage: "Email is required",
		Rules: []v.Rule{
			{Tag: "email", Message: "Please enter a valid email address"},
		},
	}
	phoneRule = v.Rule{Tag: "in_phone", Message: "Please enter a valid 10-digit mobile number"}
)

func phoneField(required bool) v.Field {
	return v.Field{
		Name: "phone", Required: required, Trim: true,
		RequiredMessage: "Phone number is required",
		Rules:           []v.Rule{phoneRule},
	}
}

func textField(name, label string, required, trim bool, min, max int) v.Field {
	f := v.Field{Name: name, Label: label, Required: required, Trim: trim}
	if min > 0 {
		f.Rules = append(f.Rules, v.Rule{Tag: "min=" + strconv.Itoa(min), Message: label + " must be at least " + strconv.Itoa(min) + " characters"})
	}
	f.Rules = append(f.Rules, v.Rule{Tag: "max=" + strconv.Itoa(max), Message: label + " must be at most " + strconv.Itoa(max) + " characters"})
	return f
}

func percentageField(name, label string) v.Field {
	return v.Field{
		Name: name, Label: label, Required: true, Trim: true, Kind: v.KindNumber,
		Rules: []v.Rule{
			{Tag: "numeric_value", Message: label + " must be a number"},
			{Tag: "percentage", Message: label + " must be between 0 and 100"},
		},
	}
}

var contactSchema = v.Schema{
	Name: string(domain.FormContact),
	Fields: []v.Field{
		nameField,
		emailField,
		phoneField(false),
		textField("subject", "Subject", true, true, 2, 100),
		textField("message", "Message", true, true, 10, 1000),
	},
}

var jobApplicationSchema = v.Schema{
	Name: string(domain.FormJobApplication),
	Fields: []v.Field{
		nameField,
		emailField,
		phoneField(true),
		textField("position", "Position", true, true, 2, 100),
		{
			Name: "experience", Label: "Experience", Required: true, Trim: true, Kind: v.KindNumber,
			Rules: []v.Rule{
				{Tag: "years_experience", Message: "Experience must be a number of years between 0 and 50"},
			},
		},
		{
			Name: "expectedSalary", Label: "Expected salary", Required: true, Trim: true, Kind: v.KindNumber,
			Rules: []v.Rule{
				{Tag: "numeric_value", Message: "Expected salary must be a number"},
				{Tag: "positive_amount", Message: "Expected salary must be greater than 0"},
			},
		},
		{
			Name: "currentSalary", Label: "Current salary", Trim: true, Kind: v.KindNumber,
			Rules: []v.Rule{
				{Tag: "numeric_value", Message: "Current salary must be a number"},
				{Tag: "non_negative_amount", Message: "Current salary cannot be negative"},
			},
		},
		{
			Name: "portfolioUrl", Label: "Portfolio URL", Trim: true,
			Rules: []v.Rule{
				{Tag: "url", Message: "Please enter a valid URL"},
			},
		},
		{
			Name: "linkedinUrl", Label: "LinkedIn URL", Trim: true,
			Rules: []v.Rule{
				{Tag: "url", Message: "Please enter a valid URL"},
				{Tag: "contains=linkedin.com", Message: "Please enter a valid LinkedIn URL"},
			},
		},
		textField("coverLetter", "Cover letter", false, false, 0, 2000),
	},
}

var programApplicationSchema = v.Schema{
	Name: string(domain.FormProgramApplication),
	Fields: []v.Field{
		nameField,
		emailField,
		phoneField(true),
		textField("program", "Program", true, true, 2, 100),
		percentageField("tenthPercentage", "10th percentage"),
		percentageField("twelfthPercentage", "12th percentage"),
		percentageField("collegePercentage", "College percentage"),
		textField("schoolName", "School name", true, true, 2, 100),
		textField("collegeName", "College name", true, true, 2, 100),
		textField("experience", "Experience", true, false, 10, 500),
		textField("motivation", "Motivation", true, false, 20, 1000),
		textField("goals", "Goals", true, false, 20, 1000),
	},
}

var quoteRequestSchema = v.Schema{
	Name: string(domain.FormQuoteRequest),
	Fields: []v.Field{
		nameField,
		emailField,
		phoneField(false),
		textField("company", "Company", false, true, 0, 100),
		textField("service", "Service", true, true, 2, 100),
		{
			Name: "budget", Label: "Budget", Trim: true, Kind: v.KindNumber,
			Rules: []v.Rule{
				{Tag: "numeric_value", Message: "Budget must be a number"},
				{Tag: "non_negative_amount", Message: "Budget cannot be negative"},
			},
		},
		textField("message", "Message", true, false, 20, 1000),
	},
}

// ResumePolicy says whether a form takes a resume and whether it must
type ResumePolicy int

const (
	ResumeNone ResumePolicy = iota
	ResumeOptional
	ResumeRequired
)

type definition struct {
	schema v.Schema
	resume ResumePolicy
}

var definitions = map[domain.FormType]definition{
	domain.FormContact:            {schema: contactSchema, resume: ResumeNone},
	domain.FormJobApplication:     {schema: jobApplicationSchema, resume: ResumeRequired},
	domain.FormProgramApplication: {schema: programApplicationSchema, resume: ResumeOptional},
	domain.FormQuoteRequest:       {schema: quoteRequestSchema, resume: ResumeNone},
}

// SchemaFor returns the rule set of a form type
func SchemaFor(t domain.FormType) (v.Schema, ResumePolicy, error) {
	def, ok := definitions[t]
	if !ok {
		return v.Schema{}, ResumeNone, domain.ErrUnknownFormType
	}
	return def.schema, def.resume, nil
}
