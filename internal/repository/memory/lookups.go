package memory

import (
	"cmp"
	"context"
	"maps"
	"slices"

	"github.com/bigkaa/filmorate/film-module/internal/domain/model"
	"github.com/bigkaa/filmorate/film-module/internal/repository"
)

// lookupRepo — in-memory реализация repository.LookupRepository.
type lookupRepo struct {
	s *Store
}

func (r *lookupRepo) Genres(_ context.Context) ([]model.Genre, error) {
	r.s.RLock()
	defer r.s.RUnlock()

	return slices.SortedFunc(maps.Values(r.s.genres), func(a, b model.Genre) int {
		return cmp.Compare(a.ID, b.ID)
	}), nil
}

func (r *lookupRepo) GenreByID(_ context.Context, id int64) (*model.Genre, error) {
	r.s.RLock()
	defer r.s.RUnlock()

	g, ok := r.s.genres[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &g, nil
}

func (r *lookupRepo) GenresExist(_ context.Context, ids []int64) (bool, error) {
	r.s.RLock()
	defer r.s.RUnlock()

	for _, id := range ids {
		if _, ok := r.s.genres[id]; !ok {
			return false, nil
		}
	}
	return true, nil
}

func (r *lookupRepo) MPAs(_ context.Context) ([]model.MPA, error) {
	r.s.RLock()
	defer r.s.RUnlock()

	return slices.SortedFunc(maps.Values(r.s.mpa), func(a, b model.MPA) int {
		return cmp.Compare(a.ID, b.ID)
	}), nil
}

func (r *lookupRepo) MPAByID(_ context.Context, id int64) (*model.MPA, error) {
	r.s.RLock()
	defer r.s.RUnlock()

	m, ok := r.s.mpa[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &m, nil
}

func (r *lookupRepo) MPAExists(_ context.Context, id int64) (bool, error) {
	r.s.RLock()
	defer r.s.RUnlock()

	_, ok := r.s.mpa[id]
	return ok, nil
}

// directorRepo — in-memory реализация repository.DirectorRepository.
type directorRepo struct {
	s *Store
}

func (r *directorRepo) Create(_ context.Context, d *model.Director) error {
	r.s.Lock()
	defer r.s.Unlock()

	r.s.nextDirectorID++
	d.ID = r.s.nextDirectorID
	r.s.directors[d.ID] = *d
	return nil
}

func (r *directorRepo) Update(_ context.Context, d *model.Director) error {
	r.s.Lock()
	defer r.s.Unlock()

	if _, ok := r.s.directors[d.ID]; !ok {
		return repository.ErrNotFound
	}
	r.s.directors[d.ID] = *d
	return nil
}

func (r *directorRepo) GetByID(_ context.Context, id int64) (*model.Director, error) {
	r.s.RLock()
	defer r.s.RUnlock()

	d, ok := r.s.directors[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &d, nil
}

func (r *directorRepo) List(_ context.Context) ([]model.Director, error) {
	r.s.RLock()
	defer r.s.RUnlock()

	return slices.SortedFunc(maps.Values(r.s.directors), func(a, b model.Director) int {
		return cmp.Compare(a.ID, b.ID)
	}), nil
}

// Delete удаляет режиссёра и его связи с фильмами.
func (r *directorRepo) Delete(_ context.Context, id int64) error {
	r.s.Lock()
	defer r.s.Unlock()

	if _, ok := r.s.directors[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.directors, id)
	for _, rec := range r.s.films {
		rec.directorIDs = slices.DeleteFunc(rec.directorIDs, func(d int64) bool { return d == id })
	}
	return nil
}

func (r *directorRepo) Exists(_ context.Context, id int64) (bool, error) {
	r.s.RLock()
	defer r.s.RUnlock()

	_, ok := r.s.directors[id]
	return ok, nil
}

func (r *directorRepo) AllExist(_ context.Context, ids []int64) (bool, error) {
	r.s.RLock()
	defer r.s.RUnlock()

	for _, id := range ids {
		if _, ok := r.s.directors[id]; !ok {
			return false, nil
		}
	}
	return true, nil
}
