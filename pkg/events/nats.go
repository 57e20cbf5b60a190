package events

import (
	"context"
	"encoding/json"
	"fmt"
	"go-agency-backend/internal/domain"

	"github.com/nats-io/nats.go"
)

// SubjectPrefix namespaces every lead event: forms.<type>.<status>
const SubjectPrefix = "forms"

// NATSClient interface to allow mocking
type NATSClient interface {
	Publish(subject string, data []byte) error
}

// NATSPublisher implements domain.EventPublisher
type NATSPublisher struct {
	nc NATSClient
}

var _ domain.EventPublisher = (*NATSPublisher)(nil)

// NewNATSPublisher creates a new publisher
func NewNATSPublisher(conn *nats.Conn) *NATSPublisher {
	return &NATSPublisher{nc: conn}
}

// Connect dials NATS with reconnects enabled
func Connect(url string) (*nats.Conn, error) {
	conn, err := nats.Connect(url,
		nats.Name("agency-forms"),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}
	return conn, nil
}

// Subject returns the subject a lead event is published on
func Subject(event domain.LeadEvent) string {
	return fmt.Sprintf("%s.%s.%s", SubjectPrefix, event.FormType, event.Status)
}

// PublishLead publishes a settled submission event
func (p *NATSPublisher) PublishLead(ctx context.Context, event domain.LeadEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	if err := p.nc.Publish(Subject(event), data); err != nil {
		return fmt.Errorf("publish event: %w", err)
	}

	return nil
}
