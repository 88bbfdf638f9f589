package memory

import (
	"context"

	"github.com/bigkaa/filmorate/film-module/internal/domain/model"
	"github.com/bigkaa/filmorate/film-module/internal/repository"
)

// feedRepo — in-memory реализация repository.FeedRepository.
type feedRepo struct {
	s *Store
}

func (r *feedRepo) Record(_ context.Context, e *model.FeedEvent) error {
	r.s.Lock()
	defer r.s.Unlock()

	if _, ok := r.s.users[e.UserID]; !ok {
		return repository.ErrNotFound
	}
	r.s.nextEventID++
	e.ID = r.s.nextEventID
	e.Timestamp = r.s.now()
	stored := *e
	r.s.feed = append(r.s.feed, &stored)
	return nil
}

// ListByUser возвращает события в порядке записи.
func (r *feedRepo) ListByUser(_ context.Context, userID int64) ([]*model.FeedEvent, error) {
	r.s.RLock()
	defer r.s.RUnlock()

	var events []*model.FeedEvent
	for _, e := range r.s.feed {
		if e.UserID == userID {
			cp := *e
			events = append(events, &cp)
		}
	}
	return events, nil
}
