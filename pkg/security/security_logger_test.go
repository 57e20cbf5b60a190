package security_test

import (
	"context"
	"testing"

	"go-agency-backend/pkg/security"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestSecurityLogger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	sl := security.NewSecurityLogger(zap.New(core), "agency-forms", "test")

	t.Run("Should log field names but not values", func(t *testing.T) {
		sl.LogValidationFailed(context.Background(), "contact", "inst-1", "203.0.113.7", "req-1", map[string]string{
			"phone": "Please enter a valid 10-digit mobile number",
			"email": "Please enter a valid email address",
		})

		entries := logs.TakeAll()
		require.Len(t, entries, 1)
		assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
		assert.Equal(t, "validation_failed", entries[0].Message)

		fields := entries[0].ContextMap()
		assert.Equal(t, "inst-1", fields["subject_value"])
		assert.Contains(t, fields["details"], `"fields":"email,phone"`)
		assert.NotContains(t, fields["details"], "mobile number")
	})

	t.Run("Should log malware at error level", func(t *testing.T) {
		sl.LogUploadRejected(context.Background(), security.EventMalwareDetected, "203.0.113.7", "req-2", "cv.pdf", "Eicar-Test-Signature")

		entries := logs.TakeAll()
		require.Len(t, entries, 1)
		assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
		assert.Equal(t, security.HashValue("cv.pdf"), entries[0].ContextMap()["subject_value"])
		assert.Equal(t, "CRITICAL", entries[0].ContextMap()["severity"])
	})

	t.Run("Should mask the applicant on upload limits", func(t *testing.T) {
		sl.LogUploadLimited(context.Background(), "203.0.113.7", "req-3", "ravi@example.com", 42)

		entries := logs.TakeAll()
		require.Len(t, entries, 1)
		assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
		assert.Equal(t, "r***@example.com", entries[0].ContextMap()["subject_value"])
	})
}

func TestGetSeverity(t *testing.T) {
	assert.Equal(t, security.SeverityINFO, security.GetSeverity(security.EventDuplicateSubmission))
	assert.Equal(t, security.SeverityMEDIUM, security.GetSeverity(security.EventType("unknown")))
	assert.True(t, security.IsHighOrAbove(security.EventScannerUnavailable))
	assert.False(t, security.IsHighOrAbove(security.EventRateLimitTriggered))
}
