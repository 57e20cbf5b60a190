package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"go-agency-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockNATSClient struct {
	mock.Mock
}

func (m *MockNATSClient) Publish(subject string, data []byte) error {
	return m.Called(subject, data).Error(0)
}

func TestPublishLead(t *testing.T) {
	client := new(MockNATSClient)
	publisher := &NATSPublisher{nc: client}

	event := domain.LeadEvent{
		InstanceID: "inst-1",
		FormType:   domain.FormQuoteRequest,
		Status:     domain.StatusSuccess,
		Message:    "ok",
		OccurredAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}

	client.On("Publish", "forms.quote.success", mock.MatchedBy(func(data []byte) bool {
		var got domain.LeadEvent
		return json.Unmarshal(data, &got) == nil &&
			got.InstanceID == "inst-1" &&
			got.Message == "ok" &&
			got.OccurredAt.Equal(event.OccurredAt)
	})).Return(nil)

	require.NoError(t, publisher.PublishLead(context.Background(), event))
	client.AssertExpectations(t)
}

func TestPublishLeadError(t *testing.T) {
	client := new(MockNATSClient)
	publisher := &NATSPublisher{nc: client}
	client.On("Publish", mock.Anything, mock.Anything).Return(errors.New("nats: connection closed"))

	err := publisher.PublishLead(context.Background(), domain.LeadEvent{FormType: domain.FormContact, Status: domain.StatusError})
	assert.ErrorContains(t, err, "publish event")
}

func TestSubject(t *testing.T) {
	assert.Equal(t, "forms.job.error", Subject(domain.LeadEvent{FormType: domain.FormJobApplication, Status: domain.StatusError}))
}
