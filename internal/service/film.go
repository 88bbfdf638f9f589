// film.go — движок выборок и рейтингов фильмов.
// Координирует репозитории, индекс лайков, ленту событий и Prometheus-метрики.
package service

import (
	"cmp"
	"context"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/bigkaa/filmorate/film-module/internal/domain/model"
	"github.com/bigkaa/filmorate/film-module/internal/repository"
)

// PopularQuery — параметры рейтинга популярных фильмов.
type PopularQuery struct {
	// Count — максимальное количество фильмов (> 0)
	Count int
	// GenreID — только фильмы с указанным жанром (nil — без фильтра)
	GenreID *int64
	// Year — только фильмы указанного года выхода (nil — без фильтра)
	Year *int
}

// FilmService — движок выборок фильмов и индекс лайков.
// Не хранит состояния между вызовами: все данные живут в репозиториях.
type FilmService struct {
	films     repository.FilmRepository
	users     repository.UserRepository
	lookups   repository.LookupRepository
	directors repository.DirectorRepository
	feed      *FeedService
	logger    *slog.Logger
}

// NewFilmService создаёт движок выборок фильмов.
func NewFilmService(
	films repository.FilmRepository,
	users repository.UserRepository,
	lookups repository.LookupRepository,
	directors repository.DirectorRepository,
	feed *FeedService,
	logger *slog.Logger,
) *FilmService {
	return &FilmService{
		films:     films,
		users:     users,
		lookups:   lookups,
		directors: directors,
		feed:      feed,
		logger:    logger.With(slog.String("component", "film_service")),
	}
}

// ListPopular возвращает не более q.Count фильмов по убыванию лайков.
// Фильмы без лайков участвуют в рейтинге. Несуществующий жанр даёт пустой результат.
func (s *FilmService) ListPopular(ctx context.Context, q PopularQuery) ([]*model.Film, error) {
	defer observeQuery("popular", time.Now())

	if q.Count <= 0 {
		return nil, validationError("count должен быть положительным, получено: %d", q.Count)
	}

	films, err := s.films.List(ctx, repository.FilmFilter{
		GenreID: q.GenreID,
		Year:    q.Year,
		OrderBy: repository.OrderByLikes,
		Limit:   q.Count,
	})
	if err != nil {
		return nil, storeError(err, "выборка популярных фильмов")
	}

	rankByLikes(films)
	if len(films) > q.Count {
		films = films[:q.Count]
	}

	s.logger.Debug("Популярные фильмы выбраны",
		slog.Int("count", q.Count),
		slog.Int("returned", len(films)),
	)
	return films, nil
}

// ListCommon возвращает фильмы, которые лайкнули оба пользователя,
// по убыванию общего количества лайков.
func (s *FilmService) ListCommon(ctx context.Context, userID, friendID int64) ([]*model.Film, error) {
	defer observeQuery("common", time.Now())

	if err := ensureUser(ctx, s.users, userID); err != nil {
		return nil, err
	}
	if err := ensureUser(ctx, s.users, friendID); err != nil {
		return nil, err
	}

	first, err := s.films.LikedFilmIDs(ctx, userID)
	if err != nil {
		return nil, storeError(err, "выборка лайков пользователя")
	}
	second, err := s.films.LikedFilmIDs(ctx, friendID)
	if err != nil {
		return nil, storeError(err, "выборка лайков пользователя")
	}

	common := intersect(first, second)
	if len(common) == 0 {
		return []*model.Film{}, nil
	}

	films, err := s.films.List(ctx, repository.FilmFilter{
		IDs:     common,
		OrderBy: repository.OrderByLikes,
	})
	if err != nil {
		return nil, storeError(err, "выборка общих фильмов")
	}
	rankByLikes(films)
	return films, nil
}

// ListByDirector возвращает фильмографию режиссёра.
// sortBy: "year" — по дате выхода, "likes" — по убыванию лайков.
// Ключ сортировки проверяется раньше существования режиссёра.
func (s *FilmService) ListByDirector(ctx context.Context, directorID int64, sortBy string) ([]*model.Film, error) {
	defer observeQuery("director", time.Now())

	sortKey, err := model.ParseDirectorSort(sortBy)
	if err != nil {
		return nil, validationError("%s", err.Error())
	}

	ok, err := s.directors.Exists(ctx, directorID)
	if err != nil {
		return nil, storeError(err, "проверка режиссёра")
	}
	if !ok {
		return nil, notFoundError("режиссёр с id %d не найден", directorID)
	}

	order := repository.OrderByLikes
	if sortKey == model.DirectorSortYear {
		order = repository.OrderByReleaseDate
	}

	films, err := s.films.List(ctx, repository.FilmFilter{
		DirectorID: &directorID,
		OrderBy:    order,
	})
	if err != nil {
		return nil, storeError(err, "выборка фильмов режиссёра")
	}

	if sortKey == model.DirectorSortYear {
		rankByReleaseDate(films)
	} else {
		rankByLikes(films)
	}
	return films, nil
}

// Search ищет фильмы по подстроке без учёта регистра в названии и/или
// именах режиссёров. Результат без повторов, по убыванию лайков.
func (s *FilmService) Search(ctx context.Context, query string, scope model.SearchScope) ([]*model.Film, error) {
	defer observeQuery("search", time.Now())

	if strings.TrimSpace(query) == "" {
		return nil, validationError("поисковый запрос не может быть пустым")
	}
	if scope.Empty() {
		return nil, validationError("не выбрано ни одного поля для поиска")
	}

	films, err := s.films.List(ctx, repository.FilmFilter{
		Search: &repository.TextSearch{
			Query:      query,
			ByTitle:    scope.ByTitle,
			ByDirector: scope.ByDirector,
		},
		OrderBy: repository.OrderByLikes,
	})
	if err != nil {
		return nil, storeError(err, "поиск фильмов")
	}
	rankByLikes(films)

	s.logger.Debug("Поиск выполнен",
		slog.String("query", query),
		slog.String("by", scope.String()),
		slog.Int("returned", len(films)),
	)
	return films, nil
}

// Like добавляет лайк пользователя фильму. Повторный лайк — no-op.
// После успешного вызова в ленту пишется событие LIKE ADD.
func (s *FilmService) Like(ctx context.Context, filmID, userID int64) error {
	if err := s.ensureLikePair(ctx, filmID, userID); err != nil {
		return err
	}
	if err := s.films.AddLike(ctx, filmID, userID); err != nil {
		return storeError(err, "добавление лайка")
	}
	likesTotal.WithLabelValues("add").Inc()
	s.feed.Record(ctx, userID, filmID, model.EventLike, model.OperationAdd)
	s.logger.Debug("Лайк добавлен", slog.Int64("film_id", filmID), slog.Int64("user_id", userID))
	return nil
}

// Unlike убирает лайк. Отсутствующий лайк — no-op.
// После успешного вызова в ленту пишется событие LIKE REMOVE.
func (s *FilmService) Unlike(ctx context.Context, filmID, userID int64) error {
	if err := s.ensureLikePair(ctx, filmID, userID); err != nil {
		return err
	}
	if err := s.films.RemoveLike(ctx, filmID, userID); err != nil {
		return storeError(err, "удаление лайка")
	}
	likesTotal.WithLabelValues("remove").Inc()
	s.feed.Record(ctx, userID, filmID, model.EventLike, model.OperationRemove)
	s.logger.Debug("Лайк удалён", slog.Int64("film_id", filmID), slog.Int64("user_id", userID))
	return nil
}

// Create сохраняет фильм. MPA, жанры и режиссёры должны существовать.
// Возвращает фильм в том виде, в каком его отдаёт хранилище.
func (s *FilmService) Create(ctx context.Context, f *model.Film) (*model.Film, error) {
	if err := s.checkRefs(ctx, f); err != nil {
		return nil, err
	}
	created := *f
	created.ID = 0
	if err := s.films.Create(ctx, &created); err != nil {
		return nil, storeError(err, "создание фильма")
	}
	s.logger.Info("Фильм создан", slog.Int64("film_id", created.ID), slog.String("name", created.Name))
	return s.GetByID(ctx, created.ID)
}

// Update перезаписывает фильм целиком, включая жанры и режиссёров.
func (s *FilmService) Update(ctx context.Context, f *model.Film) (*model.Film, error) {
	if f.ID == 0 {
		return nil, validationError("id фильма обязателен")
	}
	if err := s.ensureFilm(ctx, f.ID); err != nil {
		return nil, err
	}
	if err := s.checkRefs(ctx, f); err != nil {
		return nil, err
	}
	if err := s.films.Update(ctx, f); err != nil {
		if isNotFound(err) {
			return nil, notFoundError("фильм с id %d не найден", f.ID)
		}
		return nil, storeError(err, "обновление фильма")
	}
	s.logger.Info("Фильм обновлён", slog.Int64("film_id", f.ID))
	return s.GetByID(ctx, f.ID)
}

// GetByID возвращает фильм с количеством лайков.
func (s *FilmService) GetByID(ctx context.Context, id int64) (*model.Film, error) {
	f, err := s.films.GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, notFoundError("фильм с id %d не найден", id)
		}
		return nil, storeError(err, "получение фильма")
	}
	return f, nil
}

// List возвращает все фильмы по возрастанию id.
func (s *FilmService) List(ctx context.Context) ([]*model.Film, error) {
	defer observeQuery("all", time.Now())

	films, err := s.films.List(ctx, repository.FilmFilter{OrderBy: repository.OrderByID})
	if err != nil {
		return nil, storeError(err, "получение фильмов")
	}
	return films, nil
}

// Delete удаляет фильм вместе с его лайками.
func (s *FilmService) Delete(ctx context.Context, id int64) error {
	if err := s.films.Delete(ctx, id); err != nil {
		if isNotFound(err) {
			return notFoundError("фильм с id %d не найден", id)
		}
		return storeError(err, "удаление фильма")
	}
	s.logger.Info("Фильм удалён", slog.Int64("film_id", id))
	return nil
}

// ensureFilm возвращает ErrNotFound, если фильма нет.
func (s *FilmService) ensureFilm(ctx context.Context, id int64) error {
	ok, err := s.films.Exists(ctx, id)
	if err != nil {
		return storeError(err, "проверка фильма")
	}
	if !ok {
		return notFoundError("фильм с id %d не найден", id)
	}
	return nil
}

// ensureLikePair проверяет фильм и пользователя до изменения индекса лайков.
func (s *FilmService) ensureLikePair(ctx context.Context, filmID, userID int64) error {
	if err := s.ensureFilm(ctx, filmID); err != nil {
		return err
	}
	return ensureUser(ctx, s.users, userID)
}

// checkRefs проверяет, что MPA, жанры и режиссёры фильма существуют.
func (s *FilmService) checkRefs(ctx context.Context, f *model.Film) error {
	if f.MPA != nil {
		ok, err := s.lookups.MPAExists(ctx, f.MPA.ID)
		if err != nil {
			return storeError(err, "проверка рейтинга MPA")
		}
		if !ok {
			return notFoundError("рейтинг MPA с id %d не найден", f.MPA.ID)
		}
	}
	if ids := f.GenreIDs(); len(ids) > 0 {
		ok, err := s.lookups.GenresExist(ctx, ids)
		if err != nil {
			return storeError(err, "проверка жанров")
		}
		if !ok {
			return notFoundError("жанры не найдены: %v", ids)
		}
	}
	if ids := f.DirectorIDs(); len(ids) > 0 {
		ok, err := s.directors.AllExist(ctx, ids)
		if err != nil {
			return storeError(err, "проверка режиссёров")
		}
		if !ok {
			return notFoundError("режиссёры не найдены: %v", ids)
		}
	}
	return nil
}

// rankByLikes упорядочивает по убыванию лайков, при равенстве — по id.
func rankByLikes(films []*model.Film) {
	slices.SortFunc(films, func(a, b *model.Film) int {
		if c := cmp.Compare(b.Likes, a.Likes); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
}

// rankByReleaseDate упорядочивает по дате выхода, при равенстве — по id.
func rankByReleaseDate(films []*model.Film) {
	slices.SortFunc(films, func(a, b *model.Film) int {
		if c := a.ReleaseDate.Compare(b.ReleaseDate); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
}

// intersect возвращает общие элементы двух списков id без повторов.
func intersect(a, b []int64) []int64 {
	set := make(map[int64]struct{}, len(a))
	for _, id := range a {
		set[id] = struct{}{}
	}
	var out []int64
	for _, id := range b {
		if _, ok := set[id]; ok {
			out = append(out, id)
			delete(set, id)
		}
	}
	slices.Sort(out)
	return out
}
