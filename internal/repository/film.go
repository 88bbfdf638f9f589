package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/bigkaa/filmorate/film-module/internal/domain/model"
)

// filmSelect — SELECT фильмов с рейтингом MPA и количеством лайков.
// %s — WHERE, %s — ORDER BY, %s — LIMIT.
const filmSelect = `
	SELECT f.film_id, f.name, f.description, f.release_date, f.duration,
		m.mpa_id, m.name, COUNT(l.user_id) AS likes
	FROM films f
	LEFT JOIN mpa m ON m.mpa_id = f.mpa_id
	LEFT JOIN likes l ON l.film_id = f.film_id
	%s
	GROUP BY f.film_id, m.mpa_id
	%s %s`

// FilmOrder — порядок выдачи фильмов.
type FilmOrder int

const (
	// OrderByID — по идентификатору, по возрастанию (по умолчанию)
	OrderByID FilmOrder = iota
	// OrderByLikes — по количеству лайков по убыванию, затем по id
	OrderByLikes
	// OrderByReleaseDate — по дате выхода по возрастанию, затем по id
	OrderByReleaseDate
)

// TextSearch — подстрочный поиск без учёта регистра.
type TextSearch struct {
	// Query — искомая подстрока
	Query string
	// ByTitle — искать в названии фильма
	ByTitle bool
	// ByDirector — искать в именах режиссёров
	ByDirector bool
}

// FilmFilter — параметры выборки фильмов.
// Указатели и пустые срезы означают: фильтр не применяется.
type FilmFilter struct {
	// IDs — только фильмы из списка
	IDs []int64
	// GenreID — только фильмы с указанным жанром
	GenreID *int64
	// Year — только фильмы, вышедшие в указанном году
	Year *int
	// DirectorID — только фильмы указанного режиссёра
	DirectorID *int64
	// Search — текстовый поиск (nil — не применяется)
	Search *TextSearch
	// OrderBy — порядок выдачи
	OrderBy FilmOrder
	// Limit — максимальное количество (0 — без ограничения)
	Limit int
}

// FilmRepository — интерфейс доступа к фильмам и индексу лайков.
type FilmRepository interface {
	// Create сохраняет фильм вместе с жанрами и режиссёрами, заполняет f.ID.
	Create(ctx context.Context, f *model.Film) error
	// Update перезаписывает фильм, жанры и режиссёров. ErrNotFound, если фильма нет.
	Update(ctx context.Context, f *model.Film) error
	// GetByID возвращает фильм по id или ErrNotFound.
	GetByID(ctx context.Context, id int64) (*model.Film, error)
	// List возвращает фильмы по фильтру с заполненными Likes, Genres, Directors.
	List(ctx context.Context, filter FilmFilter) ([]*model.Film, error)
	// Delete удаляет фильм. ErrNotFound, если фильма нет.
	Delete(ctx context.Context, id int64) error
	// Exists проверяет существование фильма.
	Exists(ctx context.Context, id int64) (bool, error)
	// LikedFilmIDs возвращает id фильмов, которые лайкнул пользователь.
	LikedFilmIDs(ctx context.Context, userID int64) ([]int64, error)
	// AddLike добавляет лайк. Повторный лайк — no-op.
	AddLike(ctx context.Context, filmID, userID int64) error
	// RemoveLike убирает лайк. Отсутствующий лайк — no-op.
	RemoveLike(ctx context.Context, filmID, userID int64) error
}

// filmRepo — реализация FilmRepository через pgx.
type filmRepo struct {
	db DB
}

// NewFilmRepository создаёт репозиторий фильмов.
func NewFilmRepository(db DB) FilmRepository {
	return &filmRepo{db: db}
}

func (r *filmRepo) Create(ctx context.Context, f *model.Film) error {
	query := `
		INSERT INTO films (name, description, release_date, duration, mpa_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING film_id`

	return pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx, query,
			f.Name, f.Description, f.ReleaseDate, f.Duration, mpaID(f),
		).Scan(&f.ID); err != nil {
			if isForeignKeyViolation(err) {
				return ErrNotFound
			}
			return fmt.Errorf("ошибка создания фильма: %w", err)
		}
		return replaceFilmLinks(ctx, tx, f)
	})
}

func (r *filmRepo) Update(ctx context.Context, f *model.Film) error {
	query := `
		UPDATE films
		SET name = $1, description = $2, release_date = $3, duration = $4, mpa_id = $5
		WHERE film_id = $6`

	return pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, query,
			f.Name, f.Description, f.ReleaseDate, f.Duration, mpaID(f), f.ID,
		)
		if err != nil {
			if isForeignKeyViolation(err) {
				return ErrNotFound
			}
			return fmt.Errorf("ошибка обновления фильма: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return ErrNotFound
		}
		return replaceFilmLinks(ctx, tx, f)
	})
}

// replaceFilmLinks перезаписывает связи фильма с жанрами и режиссёрами.
func replaceFilmLinks(ctx context.Context, tx pgx.Tx, f *model.Film) error {
	if _, err := tx.Exec(ctx, `DELETE FROM film_genres WHERE film_id = $1`, f.ID); err != nil {
		return fmt.Errorf("ошибка очистки жанров фильма: %w", err)
	}
	if ids := f.GenreIDs(); len(ids) > 0 {
		_, err := tx.Exec(ctx, `
			INSERT INTO film_genres (film_id, genre_id)
			SELECT $1, unnest($2::bigint[])
			ON CONFLICT DO NOTHING`, f.ID, ids)
		if err != nil {
			if isForeignKeyViolation(err) {
				return ErrNotFound
			}
			return fmt.Errorf("ошибка сохранения жанров фильма: %w", err)
		}
	}

	if _, err := tx.Exec(ctx, `DELETE FROM film_directors WHERE film_id = $1`, f.ID); err != nil {
		return fmt.Errorf("ошибка очистки режиссёров фильма: %w", err)
	}
	if ids := f.DirectorIDs(); len(ids) > 0 {
		_, err := tx.Exec(ctx, `
			INSERT INTO film_directors (film_id, director_id)
			SELECT $1, unnest($2::bigint[])
			ON CONFLICT DO NOTHING`, f.ID, ids)
		if err != nil {
			if isForeignKeyViolation(err) {
				return ErrNotFound
			}
			return fmt.Errorf("ошибка сохранения режиссёров фильма: %w", err)
		}
	}
	return nil
}

func (r *filmRepo) GetByID(ctx context.Context, id int64) (*model.Film, error) {
	films, err := r.List(ctx, FilmFilter{IDs: []int64{id}})
	if err != nil {
		return nil, err
	}
	if len(films) == 0 {
		return nil, ErrNotFound
	}
	return films[0], nil
}

// List выполняет выборку фильмов с динамическими фильтрами и догружает
// жанры и режиссёров одним запросом на каждую связь.
func (r *filmRepo) List(ctx context.Context, filter FilmFilter) ([]*model.Film, error) {
	where, args := buildFilmWhere(filter, 1)
	orderBy := buildFilmOrderBy(filter.OrderBy)

	limit := ""
	if filter.Limit > 0 {
		limit = fmt.Sprintf("LIMIT $%d", len(args)+1)
		args = append(args, filter.Limit)
	}

	rows, err := r.db.Query(ctx, fmt.Sprintf(filmSelect, where, orderBy, limit), args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка выборки фильмов: %w", err)
	}
	defer rows.Close()

	var films []*model.Film
	for rows.Next() {
		f := &model.Film{}
		var (
			mpaID   *int64
			mpaName *string
		)
		if err := rows.Scan(
			&f.ID, &f.Name, &f.Description, &f.ReleaseDate, &f.Duration,
			&mpaID, &mpaName, &f.Likes,
		); err != nil {
			return nil, fmt.Errorf("ошибка сканирования фильма: %w", err)
		}
		if mpaID != nil {
			f.MPA = &model.MPA{ID: *mpaID}
			if mpaName != nil {
				f.MPA.Name = *mpaName
			}
		}
		films = append(films, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка итерации результатов: %w", err)
	}

	if err := r.loadLinks(ctx, films); err != nil {
		return nil, err
	}
	return films, nil
}

// loadLinks заполняет Genres и Directors у найденных фильмов.
func (r *filmRepo) loadLinks(ctx context.Context, films []*model.Film) error {
	if len(films) == 0 {
		return nil
	}
	byID := make(map[int64]*model.Film, len(films))
	ids := make([]int64, 0, len(films))
	for _, f := range films {
		byID[f.ID] = f
		ids = append(ids, f.ID)
	}

	rows, err := r.db.Query(ctx, `
		SELECT fg.film_id, g.genre_id, g.name
		FROM film_genres fg
		JOIN genres g ON g.genre_id = fg.genre_id
		WHERE fg.film_id = ANY($1)
		ORDER BY fg.film_id, g.genre_id`, ids)
	if err != nil {
		return fmt.Errorf("ошибка выборки жанров: %w", err)
	}
	for rows.Next() {
		var filmID int64
		var g model.Genre
		if err := rows.Scan(&filmID, &g.ID, &g.Name); err != nil {
			rows.Close()
			return fmt.Errorf("ошибка сканирования жанра: %w", err)
		}
		byID[filmID].Genres = append(byID[filmID].Genres, g)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("ошибка итерации жанров: %w", err)
	}

	rows, err = r.db.Query(ctx, `
		SELECT fd.film_id, d.director_id, d.name
		FROM film_directors fd
		JOIN directors d ON d.director_id = fd.director_id
		WHERE fd.film_id = ANY($1)
		ORDER BY fd.film_id, d.director_id`, ids)
	if err != nil {
		return fmt.Errorf("ошибка выборки режиссёров: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var filmID int64
		var d model.Director
		if err := rows.Scan(&filmID, &d.ID, &d.Name); err != nil {
			return fmt.Errorf("ошибка сканирования режиссёра: %w", err)
		}
		byID[filmID].Directors = append(byID[filmID].Directors, d)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("ошибка итерации режиссёров: %w", err)
	}
	return nil
}

func (r *filmRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM films WHERE film_id = $1`, id)
	if err != nil {
		return fmt.Errorf("ошибка удаления фильма: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *filmRepo) Exists(ctx context.Context, id int64) (bool, error) {
	ok, err := exists(ctx, r.db, `SELECT EXISTS(SELECT 1 FROM films WHERE film_id = $1)`, id)
	if err != nil {
		return false, fmt.Errorf("ошибка проверки фильма: %w", err)
	}
	return ok, nil
}

func (r *filmRepo) LikedFilmIDs(ctx context.Context, userID int64) ([]int64, error) {
	rows, err := r.db.Query(ctx, `SELECT film_id FROM likes WHERE user_id = $1 ORDER BY film_id`, userID)
	if err != nil {
		return nil, fmt.Errorf("ошибка выборки лайков пользователя: %w", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, fmt.Errorf("ошибка сканирования лайков пользователя: %w", err)
	}
	return ids, nil
}

// AddLike идемпотентен за счёт первичного ключа (film_id, user_id).
func (r *filmRepo) AddLike(ctx context.Context, filmID, userID int64) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO likes (film_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING`, filmID, userID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrNotFound
		}
		return fmt.Errorf("ошибка добавления лайка: %w", err)
	}
	return nil
}

func (r *filmRepo) RemoveLike(ctx context.Context, filmID, userID int64) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM likes WHERE film_id = $1 AND user_id = $2`, filmID, userID); err != nil {
		return fmt.Errorf("ошибка удаления лайка: %w", err)
	}
	return nil
}

// mpaID возвращает идентификатор рейтинга для INSERT/UPDATE (nil — NULL).
func mpaID(f *model.Film) *int64 {
	if f.MPA == nil {
		return nil
	}
	id := f.MPA.ID
	return &id
}

// buildFilmWhere строит WHERE-условие и аргументы для выборки фильмов.
// startArg — номер первого $-параметра (для корректной нумерации).
func buildFilmWhere(filter FilmFilter, startArg int) (whereClause string, args []any) {
	var conditions []string
	argNum := startArg

	// Фильтр по списку id
	if len(filter.IDs) > 0 {
		conditions = append(conditions, fmt.Sprintf("f.film_id = ANY($%d)", argNum))
		args = append(args, filter.IDs)
		argNum++
	}

	// Фильтр по жанру — чистый предикат, несуществующий жанр даёт пустой результат
	if filter.GenreID != nil {
		conditions = append(conditions, fmt.Sprintf(
			"EXISTS (SELECT 1 FROM film_genres fg WHERE fg.film_id = f.film_id AND fg.genre_id = $%d)", argNum))
		args = append(args, *filter.GenreID)
		argNum++
	}

	// Фильтр по году выхода
	if filter.Year != nil {
		conditions = append(conditions, fmt.Sprintf("EXTRACT(YEAR FROM f.release_date) = $%d", argNum))
		args = append(args, *filter.Year)
		argNum++
	}

	// Фильтр по режиссёру
	if filter.DirectorID != nil {
		conditions = append(conditions, fmt.Sprintf(
			"EXISTS (SELECT 1 FROM film_directors fd WHERE fd.film_id = f.film_id AND fd.director_id = $%d)", argNum))
		args = append(args, *filter.DirectorID)
		argNum++
	}

	// Текстовый поиск: объединение совпадений по названию и по режиссёрам
	if s := filter.Search; s != nil && (s.ByTitle || s.ByDirector) {
		var fields []string
		if s.ByTitle {
			fields = append(fields, fmt.Sprintf("f.name ILIKE $%d", argNum))
		}
		if s.ByDirector {
			fields = append(fields, fmt.Sprintf(
				"EXISTS (SELECT 1 FROM film_directors sd JOIN directors d ON d.director_id = sd.director_id "+
					"WHERE sd.film_id = f.film_id AND d.name ILIKE $%d)", argNum))
		}
		conditions = append(conditions, "("+strings.Join(fields, " OR ")+")")
		args = append(args, "%"+escapeLike(s.Query)+"%")
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}
	return where, args
}

// buildFilmOrderBy строит ORDER BY. Вторичный ключ — всегда film_id ASC,
// чтобы порядок был детерминированным при равных значениях.
func buildFilmOrderBy(order FilmOrder) string {
	switch order {
	case OrderByLikes:
		return "ORDER BY likes DESC, f.film_id ASC"
	case OrderByReleaseDate:
		return "ORDER BY f.release_date ASC, f.film_id ASC"
	default:
		return "ORDER BY f.film_id ASC"
	}
}

// likeEscaper экранирует спецсимволы шаблона LIKE (экранирующий символ по умолчанию — \).
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike экранирует пользовательский ввод для подстановки в шаблон ILIKE.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
