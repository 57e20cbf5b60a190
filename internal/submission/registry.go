package submission

import (
	"go-agency-backend/internal/domain"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Factory builds the controller for a new form instance
type Factory func(instanceID string, formType domain.FormType) *Controller

// Registry maps form instance IDs to their controllers. Instances share
// nothing but this lookup table.
type Registry struct {
	mu        sync.Mutex
	instances map[string]*Controller
	factory   Factory
}

func NewRegistry(factory Factory) *Registry {
	return &Registry{
		instances: make(map[string]*Controller),
		factory:   factory,
	}
}

// Acquire returns the controller for instanceID, creating it on first use.
// An empty ID starts a new instance with a generated UUID.
func (r *Registry) Acquire(instanceID string, formType domain.FormType) (*Controller, error) {
	if instanceID == "" {
		instanceID = uuid.NewString()
	} else if _, err := uuid.Parse(instanceID); err != nil {
		return nil, domain.ErrInvalidInstanceID
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if ctrl, ok := r.instances[instanceID]; ok {
		if ctrl.FormType() != formType {
			return nil, domain.ErrInstanceFormType
		}
		return ctrl, nil
	}

	ctrl := r.factory(instanceID, formType)
	r.instances[instanceID] = ctrl
	return ctrl, nil
}

func (r *Registry) Get(instanceID string) (*Controller, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ctrl, ok := r.instances[instanceID]
	return ctrl, ok
}

// Remove closes and forgets an instance
func (r *Registry) Remove(instanceID string) {
	r.mu.Lock()
	ctrl, ok := r.instances[instanceID]
	delete(r.instances, instanceID)
	r.mu.Unlock()
	if ok {
		ctrl.Close()
	}
}

// Sweep closes instances idle for longer than maxIdle. Instances with a
// submission in flight are kept. It returns the number removed.
func (r *Registry) Sweep(maxIdle time.Duration) int {
	cutoff := time.Now().Add(-maxIdle)
	var stale []*Controller

	r.mu.Lock()
	for id, ctrl := range r.instances {
		if ctrl.Status() == domain.StatusSubmitting {
			continue
		}
		if ctrl.LastActivity().Before(cutoff) {
			stale = append(stale, ctrl)
			delete(r.instances, id)
		}
	}
	r.mu.Unlock()

	for _, ctrl := range stale {
		ctrl.Close()
	}
	return len(stale)
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.instances)
}

// Close closes every instance
func (r *Registry) Close() {
	r.mu.Lock()
	all := r.instances
	r.instances = make(map[string]*Controller)
	r.mu.Unlock()
	for _, ctrl := range all {
		ctrl.Close()
	}
}
