// Пакет memory — in-memory реализация репозиториев Film Module.
// Используется в тестах сервисного слоя и при FM_STORAGE=memory.
// Семантика фильтров, сортировки и ошибок совпадает с PostgreSQL-реализацией.
package memory

import (
	"sync"
	"time"

	"github.com/bigkaa/filmorate/film-module/internal/domain/model"
	"github.com/bigkaa/filmorate/film-module/internal/repository"
)

// filmRecord — каноническая запись фильма: связи хранятся идентификаторами,
// имена жанров и режиссёров подставляются при чтении.
type filmRecord struct {
	film        model.Film
	genreIDs    []int64
	directorIDs []int64
}

// Store — общее хранилище всех таблиц под одной блокировкой.
// Репозитории, полученные из одного Store, видят одни и те же данные.
type Store struct {
	sync.RWMutex

	films     map[int64]*filmRecord
	users     map[int64]*model.User
	genres    map[int64]model.Genre
	mpa       map[int64]model.MPA
	directors map[int64]model.Director
	// likes: film_id → множество user_id
	likes map[int64]map[int64]struct{}
	// friends: user_id → множество friend_id (направленные рёбра)
	friends map[int64]map[int64]struct{}
	feed    []*model.FeedEvent

	nextFilmID     int64
	nextUserID     int64
	nextDirectorID int64
	nextEventID    int64

	now func() time.Time
}

// New создаёт хранилище, заполненное справочниками MPA и жанров.
func New() *Store {
	s := &Store{
		films:     map[int64]*filmRecord{},
		users:     map[int64]*model.User{},
		genres:    map[int64]model.Genre{},
		mpa:       map[int64]model.MPA{},
		directors: map[int64]model.Director{},
		likes:     map[int64]map[int64]struct{}{},
		friends:   map[int64]map[int64]struct{}{},
		now:       func() time.Time { return time.Now().UTC() },
	}
	for i, name := range []string{"G", "PG", "PG-13", "R", "NC-17"} {
		id := int64(i + 1)
		s.mpa[id] = model.MPA{ID: id, Name: name}
	}
	for i, name := range []string{"Комедия", "Драма", "Мультфильм", "Триллер", "Документальный", "Боевик"} {
		id := int64(i + 1)
		s.genres[id] = model.Genre{ID: id, Name: name}
	}
	return s
}

// Films возвращает репозиторий фильмов поверх хранилища.
func (s *Store) Films() repository.FilmRepository { return &filmRepo{s: s} }

// Users возвращает репозиторий пользователей поверх хранилища.
func (s *Store) Users() repository.UserRepository { return &userRepo{s: s} }

// Lookups возвращает репозиторий справочников поверх хранилища.
func (s *Store) Lookups() repository.LookupRepository { return &lookupRepo{s: s} }

// Directors возвращает репозиторий режиссёров поверх хранилища.
func (s *Store) Directors() repository.DirectorRepository { return &directorRepo{s: s} }

// Feed возвращает репозиторий ленты событий поверх хранилища.
func (s *Store) Feed() repository.FeedRepository { return &feedRepo{s: s} }

// addEdge добавляет a → b в множество рёбер.
func addEdge(m map[int64]map[int64]struct{}, a, b int64) {
	set, ok := m[a]
	if !ok {
		set = map[int64]struct{}{}
		m[a] = set
	}
	set[b] = struct{}{}
}

// removeEdge удаляет a → b из множества рёбер.
func removeEdge(m map[int64]map[int64]struct{}, a, b int64) {
	if set, ok := m[a]; ok {
		delete(set, b)
		if len(set) == 0 {
			delete(m, a)
		}
	}
}


// CheckReady — in-memory хранилище готово всегда, пока жив процесс.
func (s *Store) CheckReady() (status, message string) {
	return "ok", "in-memory хранилище"
}
