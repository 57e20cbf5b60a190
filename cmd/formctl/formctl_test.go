package main

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadFields(t *testing.T) {
	t.Run("Should keep scalars as text", func(t *testing.T) {
		fields, err := readFields(strings.NewReader("name: Jane Doe\nexperience: 3.5\nphone: '0123456789'\nnote: ~\n"))
		require.NoError(t, err)
		assert.Equal(t, map[string]string{
			"name":       "Jane Doe",
			"experience": "3.5",
			"phone":      "0123456789",
		}, fields)
	})

	t.Run("Should treat an empty file as no fields", func(t *testing.T) {
		fields, err := readFields(strings.NewReader(""))
		require.NoError(t, err)
		assert.Empty(t, fields)
	})

	t.Run("Should reject nested values", func(t *testing.T) {
		_, err := readFields(strings.NewReader("name:\n  first: Jane\n"))
		assert.ErrorContains(t, err, `field "name"`)
	})
}

func TestFormatErrors(t *testing.T) {
	var out bytes.Buffer
	formatErrors(&out, []string{"name", "email", "message"}, map[string]string{
		"message": "Message is required",
		"email":   "Please enter a valid email address",
	})

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "email")
	assert.Contains(t, lines[1], "Message is required")
}

func newTestCmd(out io.Writer) *cobra.Command {
	cmd := &cobra.Command{}
	cmd.SetOut(out)
	return cmd
}

func writeFields(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fields.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func withFlags(t *testing.T, base, fields, resume string) {
	t.Helper()
	oldBase, oldFields, oldResume := baseURL, fieldsPath, resumePath
	baseURL, fieldsPath, resumePath = base, fields, resume
	t.Cleanup(func() { baseURL, fieldsPath, resumePath = oldBase, oldFields, oldResume })
}

const contactYAML = `name: Jane Doe
email: jane@example.com
subject: Project inquiry
message: I would like a quote for a website.
`

func TestRunSchema(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, runSchema(newTestCmd(&out), nil))
	assert.Contains(t, out.String(), "contact  /contact")
	assert.Contains(t, out.String(), "quote    /quote-request")

	out.Reset()
	require.NoError(t, runSchema(newTestCmd(&out), []string{"contact"}))
	assert.Contains(t, out.String(), "FIELD")
	assert.Contains(t, out.String(), "email")

	assert.Error(t, runSchema(newTestCmd(&out), []string{"newsletter"}))
}

func TestRunValidate(t *testing.T) {
	t.Run("Should accept a valid file", func(t *testing.T) {
		withFlags(t, "", writeFields(t, contactYAML), "")
		var out bytes.Buffer
		require.NoError(t, runValidate(newTestCmd(&out), []string{"contact"}))
		assert.Equal(t, "contact form is valid\n", out.String())
	})

	t.Run("Should list invalid fields", func(t *testing.T) {
		withFlags(t, "", writeFields(t, "name: Jane Doe\nemail: not-an-email\n"), "")
		var out bytes.Buffer
		err := runValidate(newTestCmd(&out), []string{"contact"})
		assert.ErrorIs(t, err, errInvalid)
		assert.Contains(t, out.String(), "email")
		assert.Contains(t, out.String(), "message")
	})
}

func TestRunSubmit(t *testing.T) {
	t.Run("Should print each transition", func(t *testing.T) {
		var gotPath string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"success":true,"message":"Thanks, we will be in touch"}`))
		}))
		defer srv.Close()

		withFlags(t, srv.URL, writeFields(t, contactYAML), "")
		var out bytes.Buffer
		require.NoError(t, runSubmit(newTestCmd(&out), []string{"contact"}))

		assert.Equal(t, "/contact", gotPath)
		assert.Equal(t, "idle\nsubmitting\nsuccess \"Thanks, we will be in touch\"\n", out.String())
	})

	t.Run("Should report a backend failure", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"success":false,"message":"Mailbox full"}`))
		}))
		defer srv.Close()

		withFlags(t, srv.URL, writeFields(t, contactYAML), "")
		var out bytes.Buffer
		err := runSubmit(newTestCmd(&out), []string{"contact"})
		assert.ErrorIs(t, err, errSubmitFailed)
		assert.Contains(t, out.String(), "error \"Mailbox full\"")
	})

	t.Run("Should not send invalid fields", func(t *testing.T) {
		calls := 0
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { calls++ }))
		defer srv.Close()

		withFlags(t, srv.URL, writeFields(t, "name: Jane Doe\n"), "")
		var out bytes.Buffer
		err := runSubmit(newTestCmd(&out), []string{"contact"})
		assert.ErrorIs(t, err, errInvalid)
		assert.Zero(t, calls)
		assert.Contains(t, out.String(), "not sent, invalid fields:")
	})

	t.Run("Should require a backend", func(t *testing.T) {
		withFlags(t, "", writeFields(t, contactYAML), "")
		assert.Error(t, runSubmit(newTestCmd(io.Discard), []string{"contact"}))
	})
}
