package domain

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrUnknownFormType     = errors.New("unknown form type")
	ErrValidation          = errors.New("form validation failed")
	ErrSubmissionInFlight  = errors.New("submission already in progress")
	ErrAttachmentRejected  = errors.New("attachment rejected")
	ErrInstanceNotFound    = errors.New("form instance not found")
	ErrInvalidInstanceID   = errors.New("invalid form instance id")
	ErrInstanceFormType    = errors.New("form instance belongs to another form")
	ErrInstanceClosed      = errors.New("form instance closed")
	ErrUploadLimitExceeded = errors.New("upload limit exceeded")
	ErrRelayFailed         = errors.New("submission relay failed")
)

// ValidationError carries the per-field messages of a rejected submit
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return ErrValidation.Error() + ": " + strings.Join(names, ", ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
