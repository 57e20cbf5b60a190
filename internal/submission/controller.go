package submission

import (
	"context"
	"fmt"
	"go-agency-backend/internal/domain"
	"go-agency-backend/internal/forms"
	"maps"
	"sync"
	"time"
)

// DefaultResetAfter is how long a success or error indicator stays up
const DefaultResetAfter = 5 * time.Second

// Options configure one form instance
type Options struct {
	InstanceID        string
	FormType          domain.FormType
	Route             string        // defaults to the form type's route
	ResetAfter        time.Duration // 0 disables the auto-dismiss
	RedirectOnSuccess string
	OnChange          func(domain.FormSnapshot)
}

// Controller owns the lifecycle of a single form instance. Only one
// submission can be in flight at a time.
type Controller struct {
	mu        sync.Mutex
	opts      Options
	validator *forms.Validator
	sender    Sender

	status      domain.SubmissionStatus
	fields      map[string]string
	fieldErrors map[string]string
	message     string
	redirect    string
	updatedAt   time.Time

	timer  *time.Timer
	gen    uint64 // bumped on each outcome so stale timers do nothing
	closed bool
}

func NewController(v *forms.Validator, sender Sender, opts Options) *Controller {
	if opts.Route == "" {
		opts.Route = opts.FormType.DefaultRoute()
	}
	return &Controller{
		opts:      opts,
		validator: v,
		sender:    sender,
		status:    domain.StatusIdle,
		updatedAt: time.Now(),
	}
}

func (c *Controller) InstanceID() string { return c.opts.InstanceID }

func (c *Controller) FormType() domain.FormType { return c.opts.FormType }

func (c *Controller) Status() domain.SubmissionStatus {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// LastActivity is the time of the latest state change
func (c *Controller) LastActivity() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.updatedAt
}

func (c *Controller) Snapshot() domain.FormSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller) snapshotLocked() domain.FormSnapshot {
	return domain.FormSnapshot{
		InstanceID:  c.opts.InstanceID,
		FormType:    c.opts.FormType,
		Status:      c.status,
		Message:     c.message,
		Fields:      maps.Clone(c.fields),
		FieldErrors: maps.Clone(c.fieldErrors),
		RedirectTo:  c.redirect,
		UpdatedAt:   c.updatedAt,
	}
}

// Validate evaluates the form without touching the instance state
func (c *Controller) Validate(fields map[string]string, attachment any) (forms.Result, error) {
	return c.validator.Validate(c.opts.FormType, fields, attachment)
}

// Submit validates and, when valid, sends the form. Invalid input returns a
// *domain.ValidationError and never reaches the network. A submit while
// another is pending returns domain.ErrSubmissionInFlight.
func (c *Controller) Submit(ctx context.Context, fields map[string]string, attachment any) (Result, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return Result{}, domain.ErrInstanceClosed
	}
	if c.status == domain.StatusSubmitting {
		c.mu.Unlock()
		return Result{}, domain.ErrSubmissionInFlight
	}
	if Settled(c.status) {
		c.resetLocked(EventDismiss)
	}

	checked, err := c.validator.Validate(c.opts.FormType, fields, attachment)
	if err != nil {
		c.mu.Unlock()
		return Result{}, err
	}
	if !checked.Valid {
		c.fields = maps.Clone(fields)
		c.fieldErrors = checked.Errors
		c.updatedAt = time.Now()
		snap := c.snapshotLocked()
		c.mu.Unlock()
		c.notify(snap)
		return Result{}, &domain.ValidationError{Fields: checked.Errors}
	}

	if err := c.moveLocked(EventSubmit); err != nil {
		c.mu.Unlock()
		return Result{}, err
	}
	c.fields = maps.Clone(fields)
	c.fieldErrors = nil
	c.message = ""
	snap := c.snapshotLocked()
	c.mu.Unlock()
	c.notify(snap)

	res := c.sender.Send(ctx, Request{
		Route:      c.opts.Route,
		Fields:     checked.Values,
		Attachment: checked.Attachment,
	})

	c.mu.Lock()
	if c.closed {
		// The instance went away while the request was in flight
		c.mu.Unlock()
		return res, nil
	}
	if res.Success {
		_ = c.moveLocked(EventSucceeded)
		c.fields = nil
		c.redirect = c.opts.RedirectOnSuccess
	} else {
		_ = c.moveLocked(EventFailed)
	}
	c.message = res.Data.Message
	c.gen++
	c.armTimerLocked(c.gen)
	snap = c.snapshotLocked()
	c.mu.Unlock()
	c.notify(snap)

	return res, nil
}

// Dismiss clears a success or error indicator. It reports false when there
// was nothing to dismiss.
func (c *Controller) Dismiss() (domain.FormSnapshot, bool) {
	c.mu.Lock()
	if c.closed || !Settled(c.status) {
		snap := c.snapshotLocked()
		c.mu.Unlock()
		return snap, false
	}
	c.resetLocked(EventDismiss)
	snap := c.snapshotLocked()
	c.mu.Unlock()
	c.notify(snap)
	return snap, true
}

// Close marks the instance as gone. Late results and timers are ignored.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.stopTimerLocked()
}

func (c *Controller) moveLocked(ev Event) error {
	next, ok := Transition(c.status, ev)
	if !ok {
		return fmt.Errorf("form %s: %s not allowed while %s", c.opts.InstanceID, ev, c.status)
	}
	c.status = next
	c.updatedAt = time.Now()
	return nil
}

func (c *Controller) resetLocked(ev Event) {
	c.stopTimerLocked()
	c.gen++
	_ = c.moveLocked(ev)
	c.message = ""
	c.redirect = ""
}

func (c *Controller) armTimerLocked(gen uint64) {
	c.stopTimerLocked()
	if c.opts.ResetAfter <= 0 {
		return
	}
	c.timer = time.AfterFunc(c.opts.ResetAfter, func() { c.expire(gen) })
}

func (c *Controller) stopTimerLocked() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

func (c *Controller) expire(gen uint64) {
	c.mu.Lock()
	if c.closed || gen != c.gen || !Settled(c.status) {
		c.mu.Unlock()
		return
	}
	c.timer = nil
	c.gen++
	_ = c.moveLocked(EventTimeout)
	c.message = ""
	c.redirect = ""
	snap := c.snapshotLocked()
	c.mu.Unlock()
	c.notify(snap)
}

func (c *Controller) notify(snap domain.FormSnapshot) {
	if c.opts.OnChange != nil {
		c.opts.OnChange(snap)
	}
}
