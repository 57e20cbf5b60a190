package usecase

import (
	"context"
	"errors"
	"fmt"
	"go-agency-backend/internal/domain"
	"go-agency-backend/internal/forms"
	"go-agency-backend/internal/submission"
	"go-agency-backend/pkg/email"
	"go-agency-backend/pkg/logger"
	"go-agency-backend/pkg/security"
	"go-agency-backend/pkg/security/antivirus"
	"go-agency-backend/pkg/validation"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ResumeScanner checks a resume for malware
type ResumeScanner interface {
	Scan(ctx context.Context, filename string, data []byte) antivirus.ScanResult
}

// UploadGate enforces the resume upload quota
type UploadGate interface {
	AllowUpload(ctx context.Context, ip, email string) (bool, int, error)
}

// ResumeArchiver keeps a copy of relayed resumes
type ResumeArchiver interface {
	Archive(ctx context.Context, formType, instanceID, filename, contentType string, data []byte) (string, error)
}

// LeadNotifier emails the sales inbox
type LeadNotifier interface {
	IsConfigured() bool
	SendLeadEmail(data email.LeadEmailData) error
}

// FormDeps wires the form usecase. Everything except Registry and Validator
// is optional.
type FormDeps struct {
	Registry       *submission.Registry
	Validator      *forms.Validator
	Scanner        ResumeScanner
	ScanFailClosed bool
	Uploads        UploadGate
	Archive        ResumeArchiver
	Notifier       LeadNotifier
	Events         domain.EventPublisher
	SubmissionLog  domain.SubmissionLogRepository
	SecurityLogger *security.SecurityLogger
}

type formUsecase struct {
	deps     FormDeps
	inflight sync.Map // instance ID -> struct{} while a submit is being screened or relayed
}

// leadForms are announced by email once relayed
var leadForms = map[domain.FormType]string{
	domain.FormContact:      "Contact Message",
	domain.FormQuoteRequest: "Quote Request",
}

func NewFormUsecase(deps FormDeps) domain.FormUsecase {
	if deps.SecurityLogger == nil {
		deps.SecurityLogger = security.DefaultLogger()
	}
	return &formUsecase{deps: deps}
}

func (uc *formUsecase) Submit(ctx context.Context, req *domain.SubmitRequest) (*domain.FormSnapshot, error) {
	ctrl, err := uc.deps.Registry.Acquire(req.InstanceID, req.FormType)
	if err != nil {
		return nil, err
	}

	checked, err := ctrl.Validate(req.Fields, req.Attachment)
	if err != nil {
		return nil, err
	}

	if !checked.Valid {
		// Submit records the field errors on the instance
		_, err := ctrl.Submit(ctx, req.Fields, req.Attachment)
		var vErr *domain.ValidationError
		if errors.As(err, &vErr) {
			uc.deps.SecurityLogger.LogValidationFailed(ctx, string(req.FormType), ctrl.InstanceID(), req.ClientIP, req.RequestID, vErr.Fields)
		}
		snap := ctrl.Snapshot()
		return &snap, err
	}

	// Held from before screening until the relay settles
	if !uc.claim(ctrl.InstanceID()) {
		uc.logDuplicate(ctx, req, ctrl.InstanceID())
		return nil, domain.ErrSubmissionInFlight
	}
	defer uc.inflight.Delete(ctrl.InstanceID())

	if ctrl.Status() == domain.StatusSubmitting {
		uc.logDuplicate(ctx, req, ctrl.InstanceID())
		return nil, domain.ErrSubmissionInFlight
	}

	if checked.Attachment != nil {
		if err := uc.screenResume(ctx, req, checked); err != nil {
			return nil, err
		}
	}

	// The normalized attachment is passed on so the upload is read only once
	res, err := ctrl.Submit(ctx, req.Fields, checked.Attachment)
	if err != nil {
		if errors.Is(err, domain.ErrSubmissionInFlight) {
			uc.logDuplicate(ctx, req, ctrl.InstanceID())
		}
		return nil, err
	}

	snap := ctrl.Snapshot()
	snap.Message = res.Data.Message
	if res.Success {
		snap.Status = domain.StatusSuccess
	} else {
		snap.Status = domain.StatusError
	}

	uc.afterSettled(ctx, req, ctrl.InstanceID(), checked, res)

	if !res.Success {
		return &snap, fmt.Errorf("%w: %s", domain.ErrRelayFailed, res.Data.Message)
	}
	return &snap, nil
}

func (uc *formUsecase) claim(instanceID string) bool {
	_, busy := uc.inflight.LoadOrStore(instanceID, struct{}{})
	return !busy
}

func (uc *formUsecase) logDuplicate(ctx context.Context, req *domain.SubmitRequest, instanceID string) {
	uc.deps.SecurityLogger.Log(ctx, security.SecurityEvent{
		Event:        security.EventDuplicateSubmission,
		SubjectType:  "instance",
		SubjectValue: instanceID,
		IP:           req.ClientIP,
		RequestID:    req.RequestID,
	})
}

// screenResume applies the upload quota and the malware scan
func (uc *formUsecase) screenResume(ctx context.Context, req *domain.SubmitRequest, checked forms.Result) error {
	att := checked.Attachment
	applicant, _ := checked.Values["email"].(string)

	if uc.deps.Uploads != nil {
		allowed, retryAfter, err := uc.deps.Uploads.AllowUpload(ctx, req.ClientIP, applicant)
		if err != nil {
			logger.L().Warn("Upload limiter unavailable", "error", err, "request_id", req.RequestID)
		}
		if !allowed {
			uc.deps.SecurityLogger.LogUploadLimited(ctx, req.ClientIP, req.RequestID, applicant, retryAfter)
			return fmt.Errorf("%w: retry after %d seconds", domain.ErrUploadLimitExceeded, retryAfter)
		}
	}

	if uc.deps.Scanner == nil {
		return nil
	}

	result := uc.deps.Scanner.Scan(ctx, att.Filename, att.Data)
	if result.Error != nil {
		uc.deps.SecurityLogger.LogUploadRejected(ctx, security.EventScannerUnavailable, req.ClientIP, req.RequestID, att.Filename, result.Error.Error())
		if uc.deps.ScanFailClosed {
			return fmt.Errorf("%w: resume could not be scanned", domain.ErrAttachmentRejected)
		}
		return nil
	}
	if result.Infected {
		uc.deps.SecurityLogger.LogUploadRejected(ctx, security.EventMalwareDetected, req.ClientIP, req.RequestID, att.Filename, result.ThreatName)
		return fmt.Errorf("%w: resume failed the malware scan", domain.ErrAttachmentRejected)
	}
	return nil
}

// afterSettled runs the optional side effects of a settled submission.
// Failures are logged and never change the outcome.
func (uc *formUsecase) afterSettled(ctx context.Context, req *domain.SubmitRequest, instanceID string, checked forms.Result, res submission.Result) {
	ctx = context.WithoutCancel(ctx)
	status := domain.StatusError
	if res.Success {
		status = domain.StatusSuccess
	}
	log := logger.L().With("form", req.FormType, "instance_id", instanceID, "request_id", req.RequestID)

	if uc.deps.SubmissionLog != nil {
		fieldNames := slices.Sorted(maps.Keys(checked.Values))
		rec := &domain.SubmissionRecord{
			InstanceID:    instanceID,
			FormType:      req.FormType,
			Status:        status,
			Message:       res.Data.Message,
			FieldNames:    fieldNames,
			HasAttachment: checked.Attachment != nil,
			RequestID:     req.RequestID,
			CreatedAt:     time.Now(),
		}
		if err := uc.deps.SubmissionLog.Create(ctx, rec); err != nil {
			log.Warn("Failed to record submission", "error", err)
		}
	}

	if uc.deps.Events != nil {
		event := domain.LeadEvent{
			InstanceID: instanceID,
			FormType:   req.FormType,
			Status:     status,
			Message:    res.Data.Message,
			OccurredAt: time.Now().UTC(),
		}
		if err := uc.deps.Events.PublishLead(ctx, event); err != nil {
			log.Warn("Failed to publish lead event", "error", err)
		}
	}

	if !res.Success {
		return
	}

	if att := checked.Attachment; att != nil && uc.deps.Archive != nil {
		key, err := uc.deps.Archive.Archive(ctx, string(req.FormType), instanceID, att.Filename, att.ContentType, att.Data)
		if err != nil {
			log.Warn("Failed to archive resume", "error", err)
		} else {
			log.Info("Resume archived", "key", key)
		}
	}

	formName, isLead := leadForms[req.FormType]
	if isLead && uc.deps.Notifier != nil && uc.deps.Notifier.IsConfigured() {
		name, _ := checked.Values["name"].(string)
		sender, _ := checked.Values["email"].(string)
		data := email.LeadEmailData{
			FormName:    formName,
			SenderName:  name,
			SenderEmail: sender,
			Fields:      email.LeadFields(checked.Values, validation.GetFieldLabel),
		}
		if err := uc.deps.Notifier.SendLeadEmail(data); err != nil {
			log.Warn("Failed to send lead email", "error", err)
		}
	}
}

func (uc *formUsecase) GetInstance(ctx context.Context, instanceID string) (*domain.FormSnapshot, error) {
	ctrl, err := uc.lookup(instanceID)
	if err != nil {
		return nil, err
	}
	snap := ctrl.Snapshot()
	return &snap, nil
}

// Dismiss clears the outcome of an instance. Dismissing an idle instance
// is a no-op.
func (uc *formUsecase) Dismiss(ctx context.Context, instanceID string) (*domain.FormSnapshot, error) {
	ctrl, err := uc.lookup(instanceID)
	if err != nil {
		return nil, err
	}
	snap, _ := ctrl.Dismiss()
	return &snap, nil
}

func (uc *formUsecase) Schema(formType domain.FormType) ([]validation.FieldDescription, error) {
	return uc.deps.Validator.Describe(formType)
}

func (uc *formUsecase) lookup(instanceID string) (*submission.Controller, error) {
	if _, err := uuid.Parse(instanceID); err != nil {
		return nil, domain.ErrInvalidInstanceID
	}
	ctrl, ok := uc.deps.Registry.Get(instanceID)
	if !ok {
		return nil, domain.ErrInstanceNotFound
	}
	return ctrl, nil
}
