package outbox_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gymgate/gymgate/internal/shared/infrastructure/outbox"
)

// mockRepository is a test double for outbox.Repository
type mockRepository struct {
	mu           sync.Mutex
	messages     []*outbox.Message
	publishedIDs []int64
	failedIDs    []int64
}

func newMockRepository() *mockRepository {
	return &mockRepository{}
}

func (r *mockRepository) Save(ctx context.Context, msg *outbox.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	msg.ID = int64(len(r.messages) + 1)
	r.messages = append(r.messages, msg)
	return nil
}

func (r *mockRepository) SaveBatch(ctx context.Context, msgs []*outbox.Message) error {
	for _, msg := range msgs {
		if err := r.Save(ctx, msg); err != nil {
			return err
		}
	}
	return nil
}

func (r *mockRepository) GetUnpublished(ctx context.Context, limit int) ([]*outbox.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result []*outbox.Message
	now := time.Now()
	for _, msg := range r.messages {
		if msg.PublishedAt != nil {
			continue
		}
		if msg.NextRetryAt != nil && msg.NextRetryAt.After(now) {
			continue
		}
		result = append(result, msg)
		if len(result) >= limit {
			break
		}
	}
	return result, nil
}

func (r *mockRepository) MarkPublished(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.publishedIDs = append(r.publishedIDs, id)
	for _, msg := range r.messages {
		if msg.ID == id {
			now := time.Now()
			msg.PublishedAt = &now
			break
		}
	}
	return nil
}

func (r *mockRepository) MarkFailed(ctx context.Context, id int64, errMsg string, nextRetryAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failedIDs = append(r.failedIDs, id)
	for _, msg := range r.messages {
		if msg.ID == id {
			msg.RetryCount++
			msg.LastError = &errMsg
			msg.NextRetryAt = &nextRetryAt
			break
		}
	}
	return nil
}

func (r *mockRepository) DeleteOld(ctx context.Context, olderThanDays int) (int64, error) {
	return 0, nil
}

// mockPublisher is a test double for eventbus.Publisher
type mockPublisher struct {
	mu          sync.Mutex
	published   []string
	failForKeys map[string]bool
}

func newMockPublisher() *mockPublisher {
	return &mockPublisher{failForKeys: make(map[string]bool)}
}

func (p *mockPublisher) Publish(ctx context.Context, routingKey string, payload []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.failForKeys[routingKey] {
		return errors.New("publish failed")
	}

	p.published = append(p.published, routingKey)
	return nil
}

func (p *mockPublisher) Close() error {
	return nil
}

func (p *mockPublisher) PublishedCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.published)
}

func createTestMessage(routingKey string) *outbox.Message {
	payload, _ := json.Marshal(map[string]string{"memberId": uuid.NewString()})
	return &outbox.Message{
		EventID:       uuid.New(),
		AggregateType: "member",
		AggregateID:   uuid.New(),
		EventType:     routingKey,
		RoutingKey:    routingKey,
		Payload:       payload,
		CreatedAt:     time.Now(),
	}
}

func TestProcessorPublishesBatch(t *testing.T) {
	repo := newMockRepository()
	publisher := newMockPublisher()
	processor := outbox.NewProcessor(repo, publisher, outbox.DefaultProcessorConfig(), nil)

	require.NoError(t, repo.Save(context.Background(), createTestMessage("membership.member.registered")))
	require.NoError(t, repo.Save(context.Background(), createTestMessage("membership.member.renewed")))

	err := processor.ProcessBatch(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 2, publisher.PublishedCount())
	assert.Len(t, repo.publishedIDs, 2)
}

func TestProcessorRetriesFailedPublish(t *testing.T) {
	repo := newMockRepository()
	publisher := newMockPublisher()
	publisher.failForKeys["membership.plan.updated"] = true
	processor := outbox.NewProcessor(repo, publisher, outbox.DefaultProcessorConfig(), nil)

	require.NoError(t, repo.Save(context.Background(), createTestMessage("membership.member.registered")))
	require.NoError(t, repo.Save(context.Background(), createTestMessage("membership.plan.updated")))

	err := processor.ProcessBatch(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, publisher.PublishedCount())
	assert.Len(t, repo.publishedIDs, 1)
	require.Len(t, repo.failedIDs, 1)

	failed := repo.messages[1]
	assert.Equal(t, 1, failed.RetryCount)
	require.NotNil(t, failed.NextRetryAt)
	assert.True(t, failed.NextRetryAt.After(time.Now()))

	t.Run("message waits for its backoff", func(t *testing.T) {
		require.NoError(t, processor.ProcessBatch(context.Background()))
		assert.Len(t, repo.failedIDs, 1)
	})

	t.Run("recovers once the broker accepts", func(t *testing.T) {
		delete(publisher.failForKeys, "membership.plan.updated")
		past := time.Now().Add(-time.Second)
		failed.NextRetryAt = &past

		require.NoError(t, processor.ProcessBatch(context.Background()))
		assert.Equal(t, 2, publisher.PublishedCount())
	})
}

func TestProcessorStartStop(t *testing.T) {
	repo := newMockRepository()
	publisher := newMockPublisher()
	cfg := outbox.DefaultProcessorConfig()
	cfg.PollInterval = 5 * time.Millisecond
	processor := outbox.NewProcessor(repo, publisher, cfg, nil)

	require.NoError(t, repo.Save(context.Background(), createTestMessage("membership.member.registered")))
	require.NoError(t, processor.Start(context.Background()))

	assert.Eventually(t, func() bool {
		return publisher.PublishedCount() == 1
	}, time.Second, 5*time.Millisecond)

	processor.Stop()
	processor.Stop() // second stop is a no-op
}
