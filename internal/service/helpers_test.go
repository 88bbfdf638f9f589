package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/bigkaa/filmorate/film-module/internal/domain/model"
	"github.com/bigkaa/filmorate/film-module/internal/repository"
	"github.com/bigkaa/filmorate/film-module/internal/repository/memory"
)

// testEnv — сервисы поверх общего in-memory хранилища.
type testEnv struct {
	t       *testing.T
	store   *memory.Store
	films   *FilmService
	users   *UserService
	lookups *LookupService
	feed    *FeedService
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvWithFeed(t, nil)
}

// newTestEnvWithFeed позволяет подменить репозиторий ленты (nil — in-memory).
func newTestEnvWithFeed(t *testing.T, feedRepo repository.FeedRepository) *testEnv {
	t.Helper()
	store := memory.New()
	if feedRepo == nil {
		feedRepo = store.Feed()
	}
	logger := discardLogger()
	feed := NewFeedService(feedRepo, store.Users(), logger)
	return &testEnv{
		t:       t,
		store:   store,
		films:   NewFilmService(store.Films(), store.Users(), store.Lookups(), store.Directors(), feed, logger),
		users:   NewUserService(store.Users(), feed, logger),
		lookups: NewLookupService(store.Lookups(), store.Directors(), 100, time.Minute, logger),
		feed:    feed,
	}
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// director создаёт режиссёра.
func (e *testEnv) director(name string) model.Director {
	e.t.Helper()
	d, err := e.lookups.CreateDirector(context.Background(), &model.Director{Name: name})
	if err != nil {
		e.t.Fatalf("CreateDirector(%s) ошибка: %v", name, err)
	}
	return *d
}

// film создаёт фильм с жанрами genreIDs и режиссёрами dirs.
func (e *testEnv) film(name string, release time.Time, genreIDs []int64, dirs ...model.Director) *model.Film {
	e.t.Helper()
	f := &model.Film{Name: name, ReleaseDate: release, Duration: 100, MPA: &model.MPA{ID: 1}, Directors: dirs}
	for _, id := range genreIDs {
		f.Genres = append(f.Genres, model.Genre{ID: id})
	}
	created, err := e.films.Create(context.Background(), f)
	if err != nil {
		e.t.Fatalf("Create(%s) ошибка: %v", name, err)
	}
	return created
}

// user создаёт пользователя с уникальным email.
func (e *testEnv) user() int64 {
	e.t.Helper()
	n := len(e.mustUsers()) + 1
	u, err := e.users.Create(context.Background(), &model.User{
		Email: fmt.Sprintf("user%d@example.com", n),
		Login: fmt.Sprintf("user%d", n),
	})
	if err != nil {
		e.t.Fatalf("users.Create() ошибка: %v", err)
	}
	return u.ID
}

func (e *testEnv) mustUsers() []*model.User {
	e.t.Helper()
	users, err := e.users.List(context.Background())
	if err != nil {
		e.t.Fatalf("users.List() ошибка: %v", err)
	}
	return users
}

// likes ставит фильму n лайков от новых пользователей.
func (e *testEnv) likes(f *model.Film, n int) {
	e.t.Helper()
	for range n {
		e.like(f.ID, e.user())
	}
}

func (e *testEnv) like(filmID, userID int64) {
	e.t.Helper()
	if err := e.films.Like(context.Background(), filmID, userID); err != nil {
		e.t.Fatalf("Like(%d, %d) ошибка: %v", filmID, userID, err)
	}
}

func filmIDs(films []*model.Film) []int64 {
	var ids []int64
	for _, f := range films {
		ids = append(ids, f.ID)
	}
	return ids
}

// --- Mock repository ---

// mockFeedRepo — мок FeedRepository для проверки best-effort записи в ленту.
type mockFeedRepo struct {
	recordFn func(ctx context.Context, e *model.FeedEvent) error
	calls    int
}

func (m *mockFeedRepo) Record(ctx context.Context, e *model.FeedEvent) error {
	m.calls++
	if m.recordFn != nil {
		return m.recordFn(ctx, e)
	}
	return nil
}

func (m *mockFeedRepo) ListByUser(_ context.Context, _ int64) ([]*model.FeedEvent, error) {
	return nil, nil
}
