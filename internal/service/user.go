package service

import (
	"context"
	"log/slog"

	"github.com/bigkaa/filmorate/film-module/internal/domain/model"
	"github.com/bigkaa/filmorate/film-module/internal/repository"
)

// UserService — пользователи и направленный граф дружбы.
type UserService struct {
	users  repository.UserRepository
	feed   *FeedService
	logger *slog.Logger
}

// NewUserService создаёт сервис пользователей.
func NewUserService(users repository.UserRepository, feed *FeedService, logger *slog.Logger) *UserService {
	return &UserService{
		users:  users,
		feed:   feed,
		logger: logger.With(slog.String("component", "user_service")),
	}
}

// Create сохраняет пользователя. Пустое имя заменяется логином.
// ErrConflict — email уже занят.
func (s *UserService) Create(ctx context.Context, u *model.User) (*model.User, error) {
	created := *u
	created.ID = 0
	if created.Name == "" {
		created.Name = created.Login
	}
	if err := s.checkEmail(ctx, created.Email, 0); err != nil {
		return nil, err
	}
	if err := s.users.Create(ctx, &created); err != nil {
		return nil, storeError(err, "создание пользователя")
	}
	s.logger.Info("Пользователь создан", slog.Int64("user_id", created.ID))
	return &created, nil
}

// Update перезаписывает пользователя.
func (s *UserService) Update(ctx context.Context, u *model.User) (*model.User, error) {
	if u.ID == 0 {
		return nil, validationError("id пользователя обязателен")
	}
	if err := ensureUser(ctx, s.users, u.ID); err != nil {
		return nil, err
	}
	updated := *u
	if updated.Name == "" {
		updated.Name = updated.Login
	}
	if err := s.checkEmail(ctx, updated.Email, updated.ID); err != nil {
		return nil, err
	}
	if err := s.users.Update(ctx, &updated); err != nil {
		return nil, storeError(err, "обновление пользователя")
	}
	s.logger.Info("Пользователь обновлён", slog.Int64("user_id", updated.ID))
	return &updated, nil
}

// GetByID возвращает пользователя.
func (s *UserService) GetByID(ctx context.Context, id int64) (*model.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, notFoundError("пользователь с id %d не найден", id)
		}
		return nil, storeError(err, "получение пользователя")
	}
	return u, nil
}

// List возвращает всех пользователей.
func (s *UserService) List(ctx context.Context) ([]*model.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, storeError(err, "получение пользователей")
	}
	return users, nil
}

// Delete удаляет пользователя вместе с его лайками, дружбой и лентой.
func (s *UserService) Delete(ctx context.Context, id int64) error {
	if err := s.users.Delete(ctx, id); err != nil {
		if isNotFound(err) {
			return notFoundError("пользователь с id %d не найден", id)
		}
		return storeError(err, "удаление пользователя")
	}
	s.logger.Info("Пользователь удалён", slog.Int64("user_id", id))
	return nil
}

// AddFriend добавляет friendID в друзья userID (одностороннее ребро).
// Повторное добавление — no-op, событие в ленту пишется в любом случае.
func (s *UserService) AddFriend(ctx context.Context, userID, friendID int64) error {
	if err := s.checkPair(ctx, userID, friendID); err != nil {
		return err
	}
	if err := s.users.AddFriend(ctx, userID, friendID); err != nil {
		return storeError(err, "добавление в друзья")
	}
	s.feed.Record(ctx, userID, friendID, model.EventFriend, model.OperationAdd)
	s.logger.Debug("Друг добавлен", slog.Int64("user_id", userID), slog.Int64("friend_id", friendID))
	return nil
}

// RemoveFriend удаляет ребро userID → friendID. Отсутствие ребра — no-op.
func (s *UserService) RemoveFriend(ctx context.Context, userID, friendID int64) error {
	if err := s.checkPair(ctx, userID, friendID); err != nil {
		return err
	}
	if err := s.users.RemoveFriend(ctx, userID, friendID); err != nil {
		return storeError(err, "удаление из друзей")
	}
	s.feed.Record(ctx, userID, friendID, model.EventFriend, model.OperationRemove)
	s.logger.Debug("Друг удалён", slog.Int64("user_id", userID), slog.Int64("friend_id", friendID))
	return nil
}

// Friends возвращает друзей пользователя.
func (s *UserService) Friends(ctx context.Context, userID int64) ([]*model.User, error) {
	if err := ensureUser(ctx, s.users, userID); err != nil {
		return nil, err
	}
	friends, err := s.users.Friends(ctx, userID)
	if err != nil {
		return nil, storeError(err, "получение друзей")
	}
	return friends, nil
}

// CommonFriends возвращает общих друзей двух пользователей.
func (s *UserService) CommonFriends(ctx context.Context, userID, otherID int64) ([]*model.User, error) {
	if err := ensureUser(ctx, s.users, userID); err != nil {
		return nil, err
	}
	if err := ensureUser(ctx, s.users, otherID); err != nil {
		return nil, err
	}
	common, err := s.users.CommonFriends(ctx, userID, otherID)
	if err != nil {
		return nil, storeError(err, "получение общих друзей")
	}
	return common, nil
}

// checkPair проверяет пару для операций дружбы.
func (s *UserService) checkPair(ctx context.Context, userID, friendID int64) error {
	if userID == friendID {
		return validationError("пользователь не может добавить в друзья самого себя")
	}
	if err := ensureUser(ctx, s.users, userID); err != nil {
		return err
	}
	return ensureUser(ctx, s.users, friendID)
}

// checkEmail возвращает ErrConflict, если email занят другим пользователем.
func (s *UserService) checkEmail(ctx context.Context, email string, excludeID int64) error {
	taken, err := s.users.EmailTaken(ctx, email, excludeID)
	if err != nil {
		return storeError(err, "проверка email")
	}
	if taken {
		return conflictError("пользователь с email %s уже существует", email)
	}
	return nil
}
