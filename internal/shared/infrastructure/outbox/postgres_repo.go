package outbox

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	sharedPersistence "github.com/gymgate/gymgate/internal/shared/infrastructure/persistence"
)

// PostgresRepository implements Repository with PostgreSQL.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

func (r *PostgresRepository) Save(ctx context.Context, msg *Message) error {
	db := sharedPersistence.Executor(ctx, r.pool)

	query := `
		INSERT INTO outbox_messages (
			event_id, aggregate_type, aggregate_id, event_type, routing_key,
			payload, created_at, retry_count
		) VALUES ($1, $2, $3, $4, $5, $6, $7, 0)
	`
	_, err := db.Exec(ctx, query,
		msg.EventID,
		msg.AggregateType,
		msg.AggregateID,
		msg.EventType,
		msg.RoutingKey,
		msg.Payload,
		msg.CreatedAt,
	)
	return err
}

func (r *PostgresRepository) SaveBatch(ctx context.Context, msgs []*Message) error {
	for _, msg := range msgs {
		if err := r.Save(ctx, msg); err != nil {
			return err
		}
	}
	return nil
}

func (r *PostgresRepository) GetUnpublished(ctx context.Context, limit int) ([]*Message, error) {
	db := sharedPersistence.Executor(ctx, r.pool)

	query := `
		SELECT id, event_id, aggregate_type, aggregate_id, event_type, routing_key,
		       payload, created_at, retry_count, last_error
		FROM outbox_messages
		WHERE published_at IS NULL
		  AND (next_retry_at IS NULL OR next_retry_at <= NOW())
		ORDER BY created_at
		LIMIT $1
	`
	rows, err := db.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var msgs []*Message
	for rows.Next() {
		var msg Message
		if err := rows.Scan(
			&msg.ID, &msg.EventID, &msg.AggregateType, &msg.AggregateID, &msg.EventType,
			&msg.RoutingKey, &msg.Payload, &msg.CreatedAt, &msg.RetryCount, &msg.LastError,
		); err != nil {
			return nil, err
		}
		msgs = append(msgs, &msg)
	}
	return msgs, rows.Err()
}

func (r *PostgresRepository) MarkPublished(ctx context.Context, id int64) error {
	db := sharedPersistence.Executor(ctx, r.pool)

	_, err := db.Exec(ctx,
		`UPDATE outbox_messages SET published_at = NOW() WHERE id = $1`, id)
	return err
}

func (r *PostgresRepository) MarkFailed(ctx context.Context, id int64, errMsg string, nextRetryAt time.Time) error {
	db := sharedPersistence.Executor(ctx, r.pool)

	_, err := db.Exec(ctx,
		`UPDATE outbox_messages
		 SET retry_count = retry_count + 1, last_error = $1, next_retry_at = $2
		 WHERE id = $3`,
		errMsg, nextRetryAt, id,
	)
	return err
}

func (r *PostgresRepository) DeleteOld(ctx context.Context, olderThanDays int) (int64, error) {
	db := sharedPersistence.Executor(ctx, r.pool)

	tag, err := db.Exec(ctx,
		`DELETE FROM outbox_messages
		 WHERE published_at IS NOT NULL AND published_at < NOW() - make_interval(days => $1)`,
		olderThanDays,
	)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
