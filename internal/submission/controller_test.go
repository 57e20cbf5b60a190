package submission_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go-agency-backend/internal/domain"
	"go-agency-backend/internal/forms"
	"go-agency-backend/internal/submission"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

// gatedSender blocks every Send until release is closed
type gatedSender struct {
	calls   atomic.Int32
	release chan struct{}
	result  submission.Result
	last    atomic.Pointer[submission.Request]
}

func newGatedSender(result submission.Result) *gatedSender {
	return &gatedSender{release: make(chan struct{}), result: result}
}

func (s *gatedSender) Send(ctx context.Context, req submission.Request) submission.Result {
	s.calls.Add(1)
	s.last.Store(&req)
	<-s.release
	return s.result
}

// instantSender answers immediately
type instantSender struct {
	calls  atomic.Int32
	result submission.Result
}

func (s *instantSender) Send(ctx context.Context, req submission.Request) submission.Result {
	s.calls.Add(1)
	return s.result
}

// recorder collects the statuses passed to OnChange
type recorder struct {
	mu    sync.Mutex
	snaps []domain.FormSnapshot
}

func (r *recorder) observe(s domain.FormSnapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snaps = append(r.snaps, s)
}

func (r *recorder) statuses() []domain.SubmissionStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.SubmissionStatus, 0, len(r.snaps))
	for _, s := range r.snaps {
		out = append(out, s.Status)
	}
	return out
}

var (
	okResult = submission.Result{Success: true, Data: submission.ResultData{Message: "ok"}}
	failed   = submission.Result{Success: false, Data: submission.ResultData{Message: submission.FallbackMessage}}
)

func contactFields() map[string]string {
	return map[string]string{
		"name":    "Jane Doe",
		"email":   "jane@example.com",
		"subject": "Project inquiry",
		"message": "I would like a quote for a website.",
	}
}

func newController(sender submission.Sender, opts submission.Options) *submission.Controller {
	if opts.InstanceID == "" {
		opts.InstanceID = "6f1c1d52-58a4-4d6e-9a0c-1f1b5f0f7a10"
	}
	if opts.FormType == "" {
		opts.FormType = domain.FormContact
	}
	return submission.NewController(forms.NewValidator(validator.New()), sender, opts)
}

func TestControllerContactEndToEnd(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, "/contact", r.URL.Path)
		io.WriteString(w, `{"success":true,"message":"ok"}`)
	}))
	defer srv.Close()

	rec := &recorder{}
	ctrl := newController(submission.NewClient(srv.URL, srv.Client()), submission.Options{OnChange: rec.observe})
	defer ctrl.Close()

	assert.Equal(t, domain.StatusIdle, ctrl.Status())

	res, err := ctrl.Submit(context.Background(), contactFields(), nil)
	require.NoError(t, err)
	assert.True(t, res.Success)

	assert.Equal(t, []domain.SubmissionStatus{domain.StatusSubmitting, domain.StatusSuccess}, rec.statuses())
	assert.EqualValues(t, 1, calls.Load())

	snap := ctrl.Snapshot()
	assert.Equal(t, domain.StatusSuccess, snap.Status)
	assert.Equal(t, "ok", snap.Message)
	assert.Empty(t, snap.Fields, "form is cleared after success")
	assert.Empty(t, snap.FieldErrors)
}

func TestControllerDuplicateSubmit(t *testing.T) {
	sender := newGatedSender(okResult)
	ctrl := newController(sender, submission.Options{})
	defer ctrl.Close()

	done := make(chan error, 1)
	go func() {
		_, err := ctrl.Submit(context.Background(), contactFields(), nil)
		done <- err
	}()

	require.Eventually(t, func() bool { return ctrl.Status() == domain.StatusSubmitting }, time.Second, time.Millisecond)

	for i := 0; i < 2; i++ {
		_, err := ctrl.Submit(context.Background(), contactFields(), nil)
		assert.ErrorIs(t, err, domain.ErrSubmissionInFlight)
	}

	close(sender.release)
	require.NoError(t, <-done)
	assert.EqualValues(t, 1, sender.calls.Load())
	assert.Equal(t, domain.StatusSuccess, ctrl.Status())
}

func TestControllerInvalidSubmit(t *testing.T) {
	sender := &instantSender{result: okResult}
	rec := &recorder{}
	ctrl := newController(sender, submission.Options{OnChange: rec.observe})
	defer ctrl.Close()

	fields := contactFields()
	fields["phone"] = "12345"

	_, err := ctrl.Submit(context.Background(), fields, nil)

	var vErr *domain.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, []string{"phone"}, keys(vErr.Fields))
	assert.Zero(t, sender.calls.Load(), "invalid forms never reach the network")

	snap := ctrl.Snapshot()
	assert.Equal(t, domain.StatusIdle, snap.Status)
	assert.Equal(t, "12345", snap.Fields["phone"])
	assert.Contains(t, snap.FieldErrors, "phone")
	assert.Equal(t, []domain.SubmissionStatus{domain.StatusIdle}, rec.statuses())
}

func TestControllerFailedSubmitKeepsFields(t *testing.T) {
	ctrl := newController(&instantSender{result: failed}, submission.Options{})
	defer ctrl.Close()

	res, err := ctrl.Submit(context.Background(), contactFields(), nil)
	require.NoError(t, err)
	assert.False(t, res.Success)

	snap := ctrl.Snapshot()
	assert.Equal(t, domain.StatusError, snap.Status)
	assert.Equal(t, submission.FallbackMessage, snap.Message)
	assert.Equal(t, "Jane Doe", snap.Fields["name"])
}

func TestControllerRedirectOnSuccess(t *testing.T) {
	ctrl := newController(&instantSender{result: okResult}, submission.Options{RedirectOnSuccess: "/thank-you"})
	defer ctrl.Close()

	_, err := ctrl.Submit(context.Background(), contactFields(), nil)
	require.NoError(t, err)
	assert.Equal(t, "/thank-you", ctrl.Snapshot().RedirectTo)

	_, dismissed := ctrl.Dismiss()
	assert.True(t, dismissed)
	assert.Empty(t, ctrl.Snapshot().RedirectTo)
}

func TestControllerRouteOverride(t *testing.T) {
	sender := newGatedSender(okResult)
	close(sender.release)
	ctrl := newController(sender, submission.Options{Route: "/v2/contact"})
	defer ctrl.Close()

	_, err := ctrl.Submit(context.Background(), contactFields(), nil)
	require.NoError(t, err)
	assert.Equal(t, "/v2/contact", sender.last.Load().Route)
	assert.Equal(t, "Jane Doe", sender.last.Load().Fields["name"])
}

func TestControllerAutoReset(t *testing.T) {
	defer goleak.VerifyNone(t)

	rec := &recorder{}
	ctrl := newController(&instantSender{result: okResult}, submission.Options{ResetAfter: 20 * time.Millisecond, OnChange: rec.observe})
	defer ctrl.Close()

	_, err := ctrl.Submit(context.Background(), contactFields(), nil)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusSuccess, ctrl.Status())

	require.Eventually(t, func() bool { return ctrl.Status() == domain.StatusIdle }, time.Second, 5*time.Millisecond)

	snap := ctrl.Snapshot()
	assert.Empty(t, snap.Message)
	assert.Equal(t, []domain.SubmissionStatus{domain.StatusSubmitting, domain.StatusSuccess, domain.StatusIdle}, rec.statuses())
}

func TestControllerDismissCancelsReset(t *testing.T) {
	defer goleak.VerifyNone(t)

	rec := &recorder{}
	ctrl := newController(&instantSender{result: failed}, submission.Options{ResetAfter: 30 * time.Millisecond, OnChange: rec.observe})
	defer ctrl.Close()

	_, err := ctrl.Submit(context.Background(), contactFields(), nil)
	require.NoError(t, err)

	snap, dismissed := ctrl.Dismiss()
	assert.True(t, dismissed)
	assert.Equal(t, domain.StatusIdle, snap.Status)

	_, again := ctrl.Dismiss()
	assert.False(t, again, "nothing left to dismiss")

	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, []domain.SubmissionStatus{domain.StatusSubmitting, domain.StatusError, domain.StatusIdle}, rec.statuses(),
		"the stale timer must not fire a second reset")
}

func TestControllerResubmitAfterOutcome(t *testing.T) {
	sender := &instantSender{result: failed}
	ctrl := newController(sender, submission.Options{})
	defer ctrl.Close()

	_, err := ctrl.Submit(context.Background(), contactFields(), nil)
	require.NoError(t, err)
	require.Equal(t, domain.StatusError, ctrl.Status())

	sender.result = okResult
	res, err := ctrl.Submit(context.Background(), contactFields(), nil)
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, domain.StatusSuccess, ctrl.Status())
	assert.EqualValues(t, 2, sender.calls.Load())
}

func TestControllerCloseIgnoresLateResult(t *testing.T) {
	defer goleak.VerifyNone(t)

	sender := newGatedSender(okResult)
	rec := &recorder{}
	ctrl := newController(sender, submission.Options{ResetAfter: 10 * time.Millisecond, OnChange: rec.observe})

	done := make(chan struct{})
	go func() {
		defer close(done)
		ctrl.Submit(context.Background(), contactFields(), nil)
	}()
	require.Eventually(t, func() bool { return ctrl.Status() == domain.StatusSubmitting }, time.Second, time.Millisecond)

	ctrl.Close()
	close(sender.release)
	<-done

	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, []domain.SubmissionStatus{domain.StatusSubmitting}, rec.statuses())

	_, err := ctrl.Submit(context.Background(), contactFields(), nil)
	assert.True(t, errors.Is(err, domain.ErrInstanceClosed))
}

func keys(m map[string]string) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
