package domain

import (
	"context"
	"fmt"
	"go-agency-backend/pkg/validation"
	"sort"
	"strings"
	"time"
)

// FormType identifies one of the website's lead forms
type FormType string

const (
	FormContact            FormType = "contact"
	FormJobApplication     FormType = "job"
	FormProgramApplication FormType = "program"
	FormQuoteRequest       FormType = "quote"
)

// defaultRoutes maps each form to its backend route
var defaultRoutes = map[FormType]string{
	FormContact:            "/contact",
	FormJobApplication:     "/apply-job",
	FormProgramApplication: "/apply-course-internship",
	FormQuoteRequest:       "/quote-request",
}

// ParseFormType accepts the canonical name plus the aliases used by the website
func ParseFormType(s string) (FormType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "contact":
		return FormContact, nil
	case "job", "apply-job", "job-application":
		return FormJobApplication, nil
	case "program", "apply-course-internship", "program-application", "internship", "course":
		return FormProgramApplication, nil
	case "quote", "quote-request":
		return FormQuoteRequest, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormType, s)
}

// DefaultRoute returns the backend route the form posts to
func (t FormType) DefaultRoute() string {
	return defaultRoutes[t]
}

// FormTypes lists every known form type in a stable order
func FormTypes() []FormType {
	types := make([]FormType, 0, len(defaultRoutes))
	for t := range defaultRoutes {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}

// Attachment is an uploaded resume held in memory
type Attachment struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Size returns the attachment size in bytes
func (a *Attachment) Size() int64 {
	if a == nil {
		return 0
	}
	return int64(len(a.Data))
}

// SubmissionStatus is the lifecycle state of one form instance
type SubmissionStatus string

const (
	StatusIdle       SubmissionStatus = "idle"
	StatusSubmitting SubmissionStatus = "submitting"
	StatusSuccess    SubmissionStatus = "success"
	StatusError      SubmissionStatus = "error"
)

// FormSnapshot is the user-visible state of a form instance
type FormSnapshot struct {
	InstanceID  string            `json:"instance_id"`
	FormType    FormType          `json:"form_type"`
	Status      SubmissionStatus  `json:"status"`
	Message     string            `json:"message,omitempty"`
	Fields      map[string]string `json:"fields,omitempty"`
	FieldErrors map[string]string `json:"field_errors,omitempty"`
	RedirectTo  string            `json:"redirect_to,omitempty"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// SubmitRequest is one submit action coming from the website
type SubmitRequest struct {
	InstanceID string
	FormType   FormType
	Fields     map[string]string
	Attachment any // bare file or single-element collection
	ClientIP   string
	RequestID  string
}

// FormUsecase drives the form pipeline for the gateway
type FormUsecase interface {
	Submit(ctx context.Context, req *SubmitRequest) (*FormSnapshot, error)
	GetInstance(ctx context.Context, instanceID string) (*FormSnapshot, error)
	Dismiss(ctx context.Context, instanceID string) (*FormSnapshot, error)
	Schema(formType FormType) ([]validation.FieldDescription, error)
}
