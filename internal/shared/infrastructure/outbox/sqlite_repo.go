package outbox

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	sharedPersistence "github.com/gymgate/gymgate/internal/shared/infrastructure/persistence"
)

// SQLiteRepository implements Repository with SQLite.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new repository.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Save(ctx context.Context, msg *Message) error {
	db := sharedPersistence.SQLiteQuerier(ctx, r.db)

	query := `
		INSERT INTO outbox_messages (
			event_id, aggregate_type, aggregate_id, event_type, routing_key,
			payload, created_at, retry_count
		) VALUES (?, ?, ?, ?, ?, ?, ?, 0)
	`
	_, err := db.ExecContext(ctx, query,
		msg.EventID.String(),
		msg.AggregateType,
		msg.AggregateID.String(),
		msg.EventType,
		msg.RoutingKey,
		string(msg.Payload),
		msg.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	return err
}

func (r *SQLiteRepository) SaveBatch(ctx context.Context, msgs []*Message) error {
	for _, msg := range msgs {
		if err := r.Save(ctx, msg); err != nil {
			return err
		}
	}
	return nil
}

func (r *SQLiteRepository) GetUnpublished(ctx context.Context, limit int) ([]*Message, error) {
	db := sharedPersistence.SQLiteQuerier(ctx, r.db)

	query := `
		SELECT id, event_id, aggregate_type, aggregate_id, event_type, routing_key,
		       payload, created_at, retry_count, last_error
		FROM outbox_messages
		WHERE published_at IS NULL
		  AND (next_retry_at IS NULL OR next_retry_at <= ?)
		ORDER BY created_at
		LIMIT ?
	`
	rows, err := db.QueryContext(ctx, query, time.Now().UTC().Format(time.RFC3339Nano), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var msgs []*Message
	for rows.Next() {
		var (
			msg          Message
			eventIDStr   string
			aggIDStr     string
			payload      string
			createdAtStr string
			lastError    sql.NullString
		)
		if err := rows.Scan(
			&msg.ID, &eventIDStr, &msg.AggregateType, &aggIDStr, &msg.EventType,
			&msg.RoutingKey, &payload, &createdAtStr, &msg.RetryCount, &lastError,
		); err != nil {
			return nil, err
		}
		msg.EventID, _ = uuid.Parse(eventIDStr)
		msg.AggregateID, _ = uuid.Parse(aggIDStr)
		msg.Payload = []byte(payload)
		msg.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAtStr)
		if lastError.Valid {
			msg.LastError = &lastError.String
		}
		msgs = append(msgs, &msg)
	}
	return msgs, rows.Err()
}

func (r *SQLiteRepository) MarkPublished(ctx context.Context, id int64) error {
	db := sharedPersistence.SQLiteQuerier(ctx, r.db)

	_, err := db.ExecContext(ctx,
		`UPDATE outbox_messages SET published_at = ? WHERE id = ?`,
		time.Now().UTC().Format(time.RFC3339Nano), id,
	)
	return err
}

func (r *SQLiteRepository) MarkFailed(ctx context.Context, id int64, errMsg string, nextRetryAt time.Time) error {
	db := sharedPersistence.SQLiteQuerier(ctx, r.db)

	_, err := db.ExecContext(ctx,
		`UPDATE outbox_messages
		 SET retry_count = retry_count + 1, last_error = ?, next_retry_at = ?
		 WHERE id = ?`,
		errMsg, nextRetryAt.UTC().Format(time.RFC3339Nano), id,
	)
	return err
}

func (r *SQLiteRepository) DeleteOld(ctx context.Context, olderThanDays int) (int64, error) {
	db := sharedPersistence.SQLiteQuerier(ctx, r.db)

	cutoff := time.Now().UTC().AddDate(0, 0, -olderThanDays).Format(time.RFC3339Nano)
	res, err := db.ExecContext(ctx,
		`DELETE FROM outbox_messages WHERE published_at IS NOT NULL AND published_at < ?`,
		cutoff,
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
