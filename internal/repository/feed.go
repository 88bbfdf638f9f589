package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/bigkaa/filmorate/film-module/internal/domain/model"
)

// FeedRepository — журнал действий пользователей (append-only).
type FeedRepository interface {
	// Record добавляет событие, заполняет e.ID и e.Timestamp.
	Record(ctx context.Context, e *model.FeedEvent) error
	// ListByUser возвращает события пользователя в хронологическом порядке.
	ListByUser(ctx context.Context, userID int64) ([]*model.FeedEvent, error)
}

// feedRepo — реализация FeedRepository через pgx.
type feedRepo struct {
	db DBTX
}

// NewFeedRepository создаёт репозиторий ленты событий.
func NewFeedRepository(db DBTX) FeedRepository {
	return &feedRepo{db: db}
}

func (r *feedRepo) Record(ctx context.Context, e *model.FeedEvent) error {
	query := `
		INSERT INTO feed (user_id, entity_id, event_type, operation)
		VALUES ($1, $2, $3, $4)
		RETURNING event_id, created_at`

	err := r.db.QueryRow(ctx, query,
		e.UserID, e.EntityID, string(e.EventType), string(e.Operation),
	).Scan(&e.ID, &e.Timestamp)
	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrNotFound
		}
		return fmt.Errorf("ошибка записи события ленты: %w", err)
	}
	return nil
}

func (r *feedRepo) ListByUser(ctx context.Context, userID int64) ([]*model.FeedEvent, error) {
	rows, err := r.db.Query(ctx, `
		SELECT event_id, user_id, entity_id, event_type, operation, created_at
		FROM feed
		WHERE user_id = $1
		ORDER BY created_at, event_id`, userID)
	if err != nil {
		return nil, fmt.Errorf("ошибка выборки ленты: %w", err)
	}
	events, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*model.FeedEvent, error) {
		e := &model.FeedEvent{}
		var eventType, operation string
		if err := row.Scan(&e.ID, &e.UserID, &e.EntityID, &eventType, &operation, &e.Timestamp); err != nil {
			return nil, err
		}
		e.EventType = model.EventType(eventType)
		e.Operation = model.Operation(operation)
		return e, nil
	})
	if err != nil {
		return nil, fmt.Errorf("ошибка сканирования ленты: %w", err)
	}
	return events, nil
}
