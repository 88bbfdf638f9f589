package memory

import (
	"context"
	"slices"
	"strings"

	"github.com/bigkaa/filmorate/film-module/internal/domain/model"
	"github.com/bigkaa/filmorate/film-module/internal/repository"
)

// userRepo — in-memory реализация repository.UserRepository.
type userRepo struct {
	s *Store
}

func (r *userRepo) Create(_ context.Context, u *model.User) error {
	r.s.Lock()
	defer r.s.Unlock()

	if r.s.emailTaken(u.Email, 0) {
		return repository.ErrConflict
	}
	r.s.nextUserID++
	u.ID = r.s.nextUserID
	stored := *u
	r.s.users[u.ID] = &stored
	return nil
}

func (r *userRepo) Update(_ context.Context, u *model.User) error {
	r.s.Lock()
	defer r.s.Unlock()

	if _, ok := r.s.users[u.ID]; !ok {
		return repository.ErrNotFound
	}
	if r.s.emailTaken(u.Email, u.ID) {
		return repository.ErrConflict
	}
	stored := *u
	r.s.users[u.ID] = &stored
	return nil
}

func (r *userRepo) GetByID(_ context.Context, id int64) (*model.User, error) {
	r.s.RLock()
	defer r.s.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *userRepo) List(_ context.Context) ([]*model.User, error) {
	r.s.RLock()
	defer r.s.RUnlock()

	ids := make([]int64, 0, len(r.s.users))
	for id := range r.s.users {
		ids = append(ids, id)
	}
	return r.s.usersByIDs(ids), nil
}

// Delete удаляет пользователя вместе с его лайками, дружбой и лентой.
func (r *userRepo) Delete(_ context.Context, id int64) error {
	r.s.Lock()
	defer r.s.Unlock()

	if _, ok := r.s.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.users, id)
	for filmID := range r.s.likes {
		removeEdge(r.s.likes, filmID, id)
	}
	delete(r.s.friends, id)
	for userID := range r.s.friends {
		removeEdge(r.s.friends, userID, id)
	}
	r.s.feed = slices.DeleteFunc(r.s.feed, func(e *model.FeedEvent) bool {
		return e.UserID == id
	})
	return nil
}

func (r *userRepo) Exists(_ context.Context, id int64) (bool, error) {
	r.s.RLock()
	defer r.s.RUnlock()

	_, ok := r.s.users[id]
	return ok, nil
}

func (r *userRepo) EmailTaken(_ context.Context, email string, excludeID int64) (bool, error) {
	r.s.RLock()
	defer r.s.RUnlock()

	return r.s.emailTaken(email, excludeID), nil
}

func (r *userRepo) AddFriend(_ context.Context, userID, friendID int64) error {
	r.s.Lock()
	defer r.s.Unlock()

	if _, ok := r.s.users[userID]; !ok {
		return repository.ErrNotFound
	}
	if _, ok := r.s.users[friendID]; !ok {
		return repository.ErrNotFound
	}
	addEdge(r.s.friends, userID, friendID)
	return nil
}

func (r *userRepo) RemoveFriend(_ context.Context, userID, friendID int64) error {
	r.s.Lock()
	defer r.s.Unlock()

	removeEdge(r.s.friends, userID, friendID)
	return nil
}

func (r *userRepo) Friends(_ context.Context, userID int64) ([]*model.User, error) {
	r.s.RLock()
	defer r.s.RUnlock()

	ids := make([]int64, 0, len(r.s.friends[userID]))
	for id := range r.s.friends[userID] {
		ids = append(ids, id)
	}
	return r.s.usersByIDs(ids), nil
}

func (r *userRepo) CommonFriends(_ context.Context, firstID, secondID int64) ([]*model.User, error) {
	r.s.RLock()
	defer r.s.RUnlock()

	var ids []int64
	second := r.s.friends[secondID]
	for id := range r.s.friends[firstID] {
		if _, ok := second[id]; ok {
			ids = append(ids, id)
		}
	}
	return r.s.usersByIDs(ids), nil
}

// emailTaken сравнивает email без учёта регистра, как уникальный индекс LOWER(email).
func (s *Store) emailTaken(email string, excludeID int64) bool {
	for id, u := range s.users {
		if id != excludeID && strings.EqualFold(u.Email, email) {
			return true
		}
	}
	return false
}

// usersByIDs возвращает копии пользователей по возрастанию id.
func (s *Store) usersByIDs(ids []int64) []*model.User {
	slices.Sort(ids)
	var result []*model.User
	for _, id := range ids {
		if u, ok := s.users[id]; ok {
			cp := *u
			result = append(result, &cp)
		}
	}
	return result
}
