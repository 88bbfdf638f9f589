package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/bigkaa/filmorate/film-module/internal/domain/model"
	"github.com/bigkaa/filmorate/film-module/internal/repository"
)

// FeedService — запись и чтение ленты действий пользователей.
type FeedService struct {
	feed   repository.FeedRepository
	users  repository.UserRepository
	logger *slog.Logger
}

// NewFeedService создаёт сервис ленты событий.
func NewFeedService(
	feed repository.FeedRepository,
	users repository.UserRepository,
	logger *slog.Logger,
) *FeedService {
	return &FeedService{
		feed:   feed,
		users:  users,
		logger: logger.With(slog.String("component", "feed_service")),
	}
}

// Record добавляет событие в ленту. Запись best-effort: ошибка
// логируется и учитывается в fm_feed_errors_total, но не возвращается,
// мутация, породившая событие, не откатывается.
func (s *FeedService) Record(ctx context.Context, userID, entityID int64, eventType model.EventType, op model.Operation) {
	event := &model.FeedEvent{
		UserID:    userID,
		EntityID:  entityID,
		EventType: eventType,
		Operation: op,
	}
	if err := s.feed.Record(ctx, event); err != nil {
		feedErrorsTotal.Inc()
		s.logger.Warn("Не удалось записать событие в ленту",
			slog.Int64("user_id", userID),
			slog.Int64("entity_id", entityID),
			slog.String("event_type", string(eventType)),
			slog.String("operation", string(op)),
			slog.String("error", err.Error()),
		)
		return
	}
	s.logger.Debug("Событие записано в ленту",
		slog.Int64("event_id", event.ID),
		slog.Int64("user_id", userID),
		slog.String("event_type", string(eventType)),
		slog.String("operation", string(op)),
	)
}

// List возвращает ленту пользователя в хронологическом порядке.
func (s *FeedService) List(ctx context.Context, userID int64) ([]*model.FeedEvent, error) {
	if err := ensureUser(ctx, s.users, userID); err != nil {
		return nil, err
	}
	events, err := s.feed.ListByUser(ctx, userID)
	if err != nil {
		return nil, storeError(err, "получение ленты")
	}
	return events, nil
}

// ensureUser возвращает ErrNotFound, если пользователя нет.
func ensureUser(ctx context.Context, users repository.UserRepository, id int64) error {
	ok, err := users.Exists(ctx, id)
	if err != nil {
		return storeError(err, "проверка пользователя")
	}
	if !ok {
		return notFoundError("пользователь с id %d не найден", id)
	}
	return nil
}

// isNotFound сообщает, что ошибка репозитория — отсутствие записи.
func isNotFound(err error) bool {
	return errors.Is(err, repository.ErrNotFound)
}
