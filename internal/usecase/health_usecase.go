package usecase

import (
	"context"
	"sort"
	"time"
)

// HealthCheck probes one optional dependency
type HealthCheck func(ctx context.Context) error

type HealthUsecase interface {
	Check(ctx context.Context) map[string]string
}

type healthUsecase struct {
	checks map[string]HealthCheck
}

// NewHealthUsecase reports "ok" plus the state of each registered dependency.
// Dependencies are optional, so a failing one degrades the report instead of
// failing it.
func NewHealthUsecase(checks map[string]HealthCheck) HealthUsecase {
	return &healthUsecase{checks: checks}
}

func (u *healthUsecase) Check(ctx context.Context) map[string]string {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	status := map[string]string{"status": "ok"}

	names := make([]string, 0, len(u.checks))
	for name := range u.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := u.checks[name](ctx); err != nil {
			status[name] = "unavailable"
			status["status"] = "degraded"
			continue
		}
		status[name] = "ok"
	}
	return status
}
