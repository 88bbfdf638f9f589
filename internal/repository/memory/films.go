package memory

import (
	"cmp"
	"context"
	"slices"
	"strings"

	"github.com/bigkaa/filmorate/film-module/internal/domain/model"
	"github.com/bigkaa/filmorate/film-module/internal/repository"
)

// filmRepo — in-memory реализация repository.FilmRepository.
type filmRepo struct {
	s *Store
}

func (r *filmRepo) Create(_ context.Context, f *model.Film) error {
	r.s.Lock()
	defer r.s.Unlock()

	if err := r.s.checkFilmRefs(f); err != nil {
		return err
	}
	r.s.nextFilmID++
	f.ID = r.s.nextFilmID
	r.s.films[f.ID] = newFilmRecord(f)
	return nil
}

func (r *filmRepo) Update(_ context.Context, f *model.Film) error {
	r.s.Lock()
	defer r.s.Unlock()

	if _, ok := r.s.films[f.ID]; !ok {
		return repository.ErrNotFound
	}
	if err := r.s.checkFilmRefs(f); err != nil {
		return err
	}
	r.s.films[f.ID] = newFilmRecord(f)
	return nil
}

func (r *filmRepo) GetByID(_ context.Context, id int64) (*model.Film, error) {
	r.s.RLock()
	defer r.s.RUnlock()

	rec, ok := r.s.films[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return r.s.hydrate(rec), nil
}

func (r *filmRepo) List(_ context.Context, filter repository.FilmFilter) ([]*model.Film, error) {
	r.s.RLock()
	defer r.s.RUnlock()

	var ids map[int64]struct{}
	if len(filter.IDs) > 0 {
		ids = make(map[int64]struct{}, len(filter.IDs))
		for _, id := range filter.IDs {
			ids[id] = struct{}{}
		}
	}

	var films []*model.Film
	for id, rec := range r.s.films {
		if ids != nil {
			if _, ok := ids[id]; !ok {
				continue
			}
		}
		f := r.s.hydrate(rec)
		if matches(f, filter) {
			films = append(films, f)
		}
	}

	sortFilms(films, filter.OrderBy)
	if filter.Limit > 0 && len(films) > filter.Limit {
		films = films[:filter.Limit]
	}
	return films, nil
}

func (r *filmRepo) Delete(_ context.Context, id int64) error {
	r.s.Lock()
	defer r.s.Unlock()

	if _, ok := r.s.films[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.films, id)
	delete(r.s.likes, id)
	return nil
}

func (r *filmRepo) Exists(_ context.Context, id int64) (bool, error) {
	r.s.RLock()
	defer r.s.RUnlock()

	_, ok := r.s.films[id]
	return ok, nil
}

func (r *filmRepo) LikedFilmIDs(_ context.Context, userID int64) ([]int64, error) {
	r.s.RLock()
	defer r.s.RUnlock()

	var ids []int64
	for filmID, users := range r.s.likes {
		if _, ok := users[userID]; ok {
			ids = append(ids, filmID)
		}
	}
	slices.Sort(ids)
	return ids, nil
}

func (r *filmRepo) AddLike(_ context.Context, filmID, userID int64) error {
	r.s.Lock()
	defer r.s.Unlock()

	if _, ok := r.s.films[filmID]; !ok {
		return repository.ErrNotFound
	}
	if _, ok := r.s.users[userID]; !ok {
		return repository.ErrNotFound
	}
	addEdge(r.s.likes, filmID, userID)
	return nil
}

func (r *filmRepo) RemoveLike(_ context.Context, filmID, userID int64) error {
	r.s.Lock()
	defer r.s.Unlock()

	removeEdge(r.s.likes, filmID, userID)
	return nil
}

// newFilmRecord копирует фильм в каноническую запись хранилища.
func newFilmRecord(f *model.Film) *filmRecord {
	rec := &filmRecord{
		film:        *f,
		genreIDs:    f.GenreIDs(),
		directorIDs: f.DirectorIDs(),
	}
	rec.film.Genres = nil
	rec.film.Directors = nil
	rec.film.Likes = 0
	if f.MPA != nil {
		rec.film.MPA = &model.MPA{ID: f.MPA.ID}
	}
	return rec
}

// checkFilmRefs проверяет ссылки фильма на MPA, жанры и режиссёров.
// Вызывается под блокировкой записи.
func (s *Store) checkFilmRefs(f *model.Film) error {
	if f.MPA != nil {
		if _, ok := s.mpa[f.MPA.ID]; !ok {
			return repository.ErrNotFound
		}
	}
	for _, id := range f.GenreIDs() {
		if _, ok := s.genres[id]; !ok {
			return repository.ErrNotFound
		}
	}
	for _, id := range f.DirectorIDs() {
		if _, ok := s.directors[id]; !ok {
			return repository.ErrNotFound
		}
	}
	return nil
}

// hydrate собирает независимую копию фильма с актуальными именами связей
// и количеством лайков. Вызывается под блокировкой чтения.
func (s *Store) hydrate(rec *filmRecord) *model.Film {
	f := rec.film
	if rec.film.MPA != nil {
		m := s.mpa[rec.film.MPA.ID]
		f.MPA = &m
	}
	f.Genres = nil
	genreIDs := slices.Clone(rec.genreIDs)
	slices.Sort(genreIDs)
	for _, id := range genreIDs {
		f.Genres = append(f.Genres, s.genres[id])
	}
	f.Directors = nil
	directorIDs := slices.Clone(rec.directorIDs)
	slices.Sort(directorIDs)
	for _, id := range directorIDs {
		if d, ok := s.directors[id]; ok {
			f.Directors = append(f.Directors, d)
		}
	}
	f.Likes = len(s.likes[rec.film.ID])
	return &f
}

// matches проверяет фильм по всем условиям фильтра (логическое И).
func matches(f *model.Film, filter repository.FilmFilter) bool {
	if filter.GenreID != nil && !f.HasGenre(*filter.GenreID) {
		return false
	}
	if filter.Year != nil && f.ReleaseDate.Year() != *filter.Year {
		return false
	}
	if filter.DirectorID != nil && !f.HasDirector(*filter.DirectorID) {
		return false
	}
	if s := filter.Search; s != nil && (s.ByTitle || s.ByDirector) {
		q := strings.ToLower(s.Query)
		hit := s.ByTitle && strings.Contains(strings.ToLower(f.Name), q)
		if !hit && s.ByDirector {
			for _, d := range f.Directors {
				if strings.Contains(strings.ToLower(d.Name), q) {
					hit = true
					break
				}
			}
		}
		if !hit {
			return false
		}
	}
	return true
}

// sortFilms упорядочивает фильмы; вторичный ключ — id по возрастанию.
func sortFilms(films []*model.Film, order repository.FilmOrder) {
	slices.SortFunc(films, func(a, b *model.Film) int {
		switch order {
		case repository.OrderByLikes:
			if a.Likes != b.Likes {
				return b.Likes - a.Likes
			}
		case repository.OrderByReleaseDate:
			if c := a.ReleaseDate.Compare(b.ReleaseDate); c != 0 {
				return c
			}
		}
		return cmp.Compare(a.ID, b.ID)
	})
}
