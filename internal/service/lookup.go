package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/bigkaa/filmorate/film-module/internal/domain/model"
	"github.com/bigkaa/filmorate/film-module/internal/repository"
)

// LookupService — справочники жанров, рейтингов MPA и режиссёров.
// Чтение по id идёт через LRU-кэш; изменение режиссёра инвалидирует запись.
type LookupService struct {
	lookups   repository.LookupRepository
	directors repository.DirectorRepository

	genreCache    *CacheService[int64, model.Genre]
	mpaCache      *CacheService[int64, model.MPA]
	directorCache *CacheService[int64, model.Director]

	logger *slog.Logger
}

// NewLookupService создаёт сервис справочников.
// cacheSize и cacheTTL применяются к каждому из трёх кэшей.
func NewLookupService(
	lookups repository.LookupRepository,
	directors repository.DirectorRepository,
	cacheSize int,
	cacheTTL time.Duration,
	logger *slog.Logger,
) *LookupService {
	return &LookupService{
		lookups:       lookups,
		directors:     directors,
		genreCache:    NewCacheService[int64, model.Genre]("genres", cacheSize, cacheTTL),
		mpaCache:      NewCacheService[int64, model.MPA]("mpa", cacheSize, cacheTTL),
		directorCache: NewCacheService[int64, model.Director]("directors", cacheSize, cacheTTL),
		logger:        logger.With(slog.String("component", "lookup_service")),
	}
}

// Genres возвращает все жанры по возрастанию id.
func (s *LookupService) Genres(ctx context.Context) ([]model.Genre, error) {
	genres, err := s.lookups.Genres(ctx)
	if err != nil {
		return nil, storeError(err, "получение жанров")
	}
	for _, g := range genres {
		s.genreCache.Set(g.ID, g)
	}
	return genres, nil
}

// Genre возвращает жанр по id.
func (s *LookupService) Genre(ctx context.Context, id int64) (*model.Genre, error) {
	if g, ok := s.genreCache.Get(id); ok {
		return &g, nil
	}
	g, err := s.lookups.GenreByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, notFoundError("жанр с id %d не найден", id)
		}
		return nil, storeError(err, "получение жанра")
	}
	s.genreCache.Set(id, *g)
	return g, nil
}

// MPAs возвращает все рейтинги по возрастанию id.
func (s *LookupService) MPAs(ctx context.Context) ([]model.MPA, error) {
	mpas, err := s.lookups.MPAs(ctx)
	if err != nil {
		return nil, storeError(err, "получение рейтингов MPA")
	}
	for _, m := range mpas {
		s.mpaCache.Set(m.ID, m)
	}
	return mpas, nil
}

// MPA возвращает рейтинг по id.
func (s *LookupService) MPA(ctx context.Context, id int64) (*model.MPA, error) {
	if m, ok := s.mpaCache.Get(id); ok {
		return &m, nil
	}
	m, err := s.lookups.MPAByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, notFoundError("рейтинг MPA с id %d не найден", id)
		}
		return nil, storeError(err, "получение рейтинга MPA")
	}
	s.mpaCache.Set(id, *m)
	return m, nil
}

// Directors возвращает всех режиссёров по возрастанию id.
func (s *LookupService) Directors(ctx context.Context) ([]model.Director, error) {
	directors, err := s.directors.List(ctx)
	if err != nil {
		return nil, storeError(err, "получение режиссёров")
	}
	return directors, nil
}

// Director возвращает режиссёра по id.
func (s *LookupService) Director(ctx context.Context, id int64) (*model.Director, error) {
	if d, ok := s.directorCache.Get(id); ok {
		return &d, nil
	}
	d, err := s.directors.GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, notFoundError("режиссёр с id %d не найден", id)
		}
		return nil, storeError(err, "получение режиссёра")
	}
	s.directorCache.Set(id, *d)
	return d, nil
}

// CreateDirector сохраняет нового режиссёра.
func (s *LookupService) CreateDirector(ctx context.Context, d *model.Director) (*model.Director, error) {
	if strings.TrimSpace(d.Name) == "" {
		return nil, validationError("имя режиссёра не может быть пустым")
	}
	created := &model.Director{Name: d.Name}
	if err := s.directors.Create(ctx, created); err != nil {
		return nil, storeError(err, "создание режиссёра")
	}
	s.logger.Info("Режиссёр создан", slog.Int64("director_id", created.ID))
	return created, nil
}

// UpdateDirector переименовывает режиссёра.
func (s *LookupService) UpdateDirector(ctx context.Context, d *model.Director) (*model.Director, error) {
	if d.ID == 0 {
		return nil, validationError("id режиссёра обязателен")
	}
	if strings.TrimSpace(d.Name) == "" {
		return nil, validationError("имя режиссёра не может быть пустым")
	}
	if err := s.directors.Update(ctx, d); err != nil {
		if isNotFound(err) {
			return nil, notFoundError("режиссёр с id %d не найден", d.ID)
		}
		return nil, storeError(err, "обновление режиссёра")
	}
	s.directorCache.Delete(d.ID)
	s.logger.Info("Режиссёр обновлён", slog.Int64("director_id", d.ID))
	return &model.Director{ID: d.ID, Name: d.Name}, nil
}

// DeleteDirector удаляет режиссёра; его связи с фильмами удаляются вместе с ним.
func (s *LookupService) DeleteDirector(ctx context.Context, id int64) error {
	if err := s.directors.Delete(ctx, id); err != nil {
		if isNotFound(err) {
			return notFoundError("режиссёр с id %d не найден", id)
		}
		return storeError(err, "удаление режиссёра")
	}
	s.directorCache.Delete(id)
	s.logger.Info("Режиссёр удалён", slog.Int64("director_id", id))
	return nil
}
