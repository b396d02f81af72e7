package outbox_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	membershipDomain "github.com/gymgate/gymgate/internal/membership/domain"
	"github.com/gymgate/gymgate/internal/shared/infrastructure/outbox"
)

func TestNewMessageFromDomainEvent(t *testing.T) {
	memberID := uuid.New()
	planID := uuid.New()
	event := membershipDomain.NewMemberRegistered(memberID, "Ada Lovelace", "ada@example.com", planID, mustTime(t, "2024-02-16T23:59:59.999Z"))

	msg, err := outbox.NewMessage(event)

	require.NoError(t, err)
	assert.Equal(t, event.EventID(), msg.EventID)
	assert.Equal(t, memberID, msg.AggregateID)
	assert.Equal(t, "member", msg.AggregateType)
	assert.Equal(t, "membership.member.registered", msg.RoutingKey)
	assert.False(t, msg.IsPublished())

	var payload map[string]any
	require.NoError(t, json.Unmarshal(msg.Payload, &payload))
	assert.Equal(t, "Ada Lovelace", payload["name"])
	assert.Equal(t, memberID.String(), payload["member_id"])
}

func mustTime(t *testing.T, value string) time.Time {
	t.Helper()

	parsed, err := time.Parse(time.RFC3339Nano, value)
	require.NoError(t, err)
	return parsed
}

func TestMessageCanRetry(t *testing.T) {
	msg := &outbox.Message{RetryCount: 4}

	assert.True(t, msg.CanRetry(5))
	msg.RetryCount = 5
	assert.False(t, msg.CanRetry(5))
}
