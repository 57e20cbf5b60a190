package submission_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"go-agency-backend/internal/domain"
	"go-agency-backend/internal/submission"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func backend(t *testing.T, status int, body string) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func TestClientSendSuccess(t *testing.T) {
	type received struct {
		method, path string
		fields       map[string][]string
		filename     string
		fileType     string
		file         []byte
	}
	got := make(chan received, 1)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		rec := received{method: r.Method, path: r.URL.Path, fields: r.MultipartForm.Value}
		if fh := r.MultipartForm.File["resume"]; len(fh) == 1 {
			f, err := fh[0].Open()
			require.NoError(t, err)
			rec.file, _ = io.ReadAll(f)
			f.Close()
			rec.filename = fh[0].Filename
			rec.fileType = fh[0].Header.Get("Content-Type")
		}
		got <- rec
		io.WriteString(w, `{"success":true,"message":"ok"}`)
	}))
	defer srv.Close()

	client := submission.NewClient(srv.URL+"/", srv.Client())
	res := client.Send(context.Background(), submission.Request{
		Route: "/apply-job",
		Fields: map[string]any{
			"name":           "Ravi Kumar",
			"expectedSalary": 600000.0,
			"currentSalary":  nil,
		},
		Attachment: &domain.Attachment{Filename: "cv.pdf", ContentType: "application/pdf", Data: []byte("%PDF-1.4 body")},
	})

	assert.Equal(t, submission.Result{Success: true, Data: submission.ResultData{Message: "ok"}}, res)

	rec := <-got
	assert.Equal(t, http.MethodPost, rec.method)
	assert.Equal(t, "/apply-job", rec.path)
	assert.Equal(t, []string{"Ravi Kumar"}, rec.fields["name"])
	assert.Equal(t, []string{"600000"}, rec.fields["expectedSalary"])
	assert.NotContains(t, rec.fields, "currentSalary")
	assert.Equal(t, "cv.pdf", rec.filename)
	assert.Equal(t, "application/pdf", rec.fileType)
	assert.Equal(t, []byte("%PDF-1.4 body"), rec.file)
}

func TestClientSendFailures(t *testing.T) {
	cases := []struct {
		name    string
		status  int
		body    string
		message string
	}{
		{"backend reports failure", http.StatusOK, `{"success":false,"message":"Position closed"}`, "Position closed"},
		{"server error with message", http.StatusInternalServerError, `{"success":false,"message":"Database down"}`, "Database down"},
		{"non-2xx claiming success", http.StatusBadRequest, `{"success":true,"message":"ok"}`, submission.FallbackMessage},
		{"malformed body", http.StatusOK, `<html>oops</html>`, submission.FallbackMessage},
		{"failure without message", http.StatusServiceUnavailable, `{}`, submission.FallbackMessage},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv, calls := backend(t, tc.status, tc.body)
			res := submission.NewClient(srv.URL, srv.Client()).Send(context.Background(), submission.Request{
				Route:  "/contact",
				Fields: map[string]any{"name": "Jane Doe"},
			})
			assert.False(t, res.Success)
			assert.Equal(t, tc.message, res.Data.Message)
			assert.EqualValues(t, 1, calls.Load())
		})
	}
}

func TestClientSendDefaultSuccessMessage(t *testing.T) {
	srv, _ := backend(t, http.StatusCreated, `{"success":true}`)
	res := submission.NewClient(srv.URL, srv.Client()).Send(context.Background(), submission.Request{Route: "/contact"})
	assert.True(t, res.Success)
	assert.Equal(t, submission.SuccessMessage, res.Data.Message)
}

func TestClientSendNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	res := submission.NewClient(url, nil).Send(context.Background(), submission.Request{
		Route:  "/contact",
		Fields: map[string]any{"name": "Jane Doe"},
	})
	assert.Equal(t, submission.Result{Success: false, Data: submission.ResultData{Message: submission.FallbackMessage}}, res)
}

func TestClientSendMethod(t *testing.T) {
	method := make(chan string, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method <- r.Method
		io.WriteString(w, `{"success":true,"message":"updated"}`)
	}))
	defer srv.Close()

	res := submission.NewClient(srv.URL, srv.Client()).Send(context.Background(), submission.Request{Route: "/quote-request", Method: http.MethodPut})
	assert.True(t, res.Success)
	assert.Equal(t, http.MethodPut, <-method)
}
