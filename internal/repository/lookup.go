package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/bigkaa/filmorate/film-module/internal/domain/model"
)

// LookupRepository — справочники жанров и возрастных рейтингов.
// Записи справочников заполняются миграцией и только читаются.
type LookupRepository interface {
	// Genres возвращает все жанры по возрастанию id.
	Genres(ctx context.Context) ([]model.Genre, error)
	// GenreByID возвращает жанр или ErrNotFound.
	GenreByID(ctx context.Context, id int64) (*model.Genre, error)
	// GenresExist проверяет, что существуют все жанры из списка.
	GenresExist(ctx context.Context, ids []int64) (bool, error)
	// MPAs возвращает все рейтинги по возрастанию id.
	MPAs(ctx context.Context) ([]model.MPA, error)
	// MPAByID возвращает рейтинг или ErrNotFound.
	MPAByID(ctx context.Context, id int64) (*model.MPA, error)
	// MPAExists проверяет существование рейтинга.
	MPAExists(ctx context.Context, id int64) (bool, error)
}

// lookupRepo — реализация LookupRepository через pgx.
type lookupRepo struct {
	db DBTX
}

// NewLookupRepository создаёт репозиторий справочников.
func NewLookupRepository(db DBTX) LookupRepository {
	return &lookupRepo{db: db}
}

func (r *lookupRepo) Genres(ctx context.Context) ([]model.Genre, error) {
	rows, err := r.db.Query(ctx, `SELECT genre_id, name FROM genres ORDER BY genre_id`)
	if err != nil {
		return nil, fmt.Errorf("ошибка выборки жанров: %w", err)
	}
	genres, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.Genre, error) {
		var g model.Genre
		err := row.Scan(&g.ID, &g.Name)
		return g, err
	})
	if err != nil {
		return nil, fmt.Errorf("ошибка сканирования жанров: %w", err)
	}
	return genres, nil
}

func (r *lookupRepo) GenreByID(ctx context.Context, id int64) (*model.Genre, error) {
	g := &model.Genre{}
	err := r.db.QueryRow(ctx, `SELECT genre_id, name FROM genres WHERE genre_id = $1`, id).Scan(&g.ID, &g.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка получения жанра: %w", err)
	}
	return g, nil
}

func (r *lookupRepo) GenresExist(ctx context.Context, ids []int64) (bool, error) {
	ok, err := allExist(ctx, r.db, `SELECT COUNT(*) FROM genres WHERE genre_id = ANY($1)`, ids)
	if err != nil {
		return false, fmt.Errorf("ошибка проверки жанров: %w", err)
	}
	return ok, nil
}

func (r *lookupRepo) MPAs(ctx context.Context) ([]model.MPA, error) {
	rows, err := r.db.Query(ctx, `SELECT mpa_id, name FROM mpa ORDER BY mpa_id`)
	if err != nil {
		return nil, fmt.Errorf("ошибка выборки рейтингов: %w", err)
	}
	ratings, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.MPA, error) {
		var m model.MPA
		err := row.Scan(&m.ID, &m.Name)
		return m, err
	})
	if err != nil {
		return nil, fmt.Errorf("ошибка сканирования рейтингов: %w", err)
	}
	return ratings, nil
}

func (r *lookupRepo) MPAByID(ctx context.Context, id int64) (*model.MPA, error) {
	m := &model.MPA{}
	err := r.db.QueryRow(ctx, `SELECT mpa_id, name FROM mpa WHERE mpa_id = $1`, id).Scan(&m.ID, &m.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка получения рейтинга: %w", err)
	}
	return m, nil
}

func (r *lookupRepo) MPAExists(ctx context.Context, id int64) (bool, error) {
	ok, err := exists(ctx, r.db, `SELECT EXISTS(SELECT 1 FROM mpa WHERE mpa_id = $1)`, id)
	if err != nil {
		return false, fmt.Errorf("ошибка проверки рейтинга: %w", err)
	}
	return ok, nil
}
