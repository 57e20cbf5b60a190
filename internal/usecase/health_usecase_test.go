package usecase_test

import (
	"context"
	"errors"
	"testing"

	"go-agency-backend/internal/usecase"

	"github.com/stretchr/testify/assert"
)

func TestHealthCheck(t *testing.T) {
	t.Run("Should report ok without dependencies", func(t *testing.T) {
		assert.Equal(t, map[string]string{"status": "ok"}, usecase.NewHealthUsecase(nil).Check(context.Background()))
	})

	t.Run("Should degrade when a dependency fails", func(t *testing.T) {
		uc := usecase.NewHealthUsecase(map[string]usecase.HealthCheck{
			"redis":  func(ctx context.Context) error { return nil },
			"clamav": func(ctx context.Context) error { return errors.New("no PONG") },
		})
		assert.Equal(t, map[string]string{
			"status": "degraded",
			"redis":  "ok",
			"clamav": "unavailable",
		}, uc.Check(context.Background()))
	})
}
