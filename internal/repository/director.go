package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/bigkaa/filmorate/film-module/internal/domain/model"
)

// DirectorRepository — интерфейс CRUD для таблицы directors.
type DirectorRepository interface {
	// Create сохраняет режиссёра и заполняет d.ID.
	Create(ctx context.Context, d *model.Director) error
	// Update переименовывает режиссёра. ErrNotFound, если его нет.
	Update(ctx context.Context, d *model.Director) error
	// GetByID возвращает режиссёра или ErrNotFound.
	GetByID(ctx context.Context, id int64) (*model.Director, error)
	// List возвращает всех режиссёров по возрастанию id.
	List(ctx context.Context) ([]model.Director, error)
	// Delete удаляет режиссёра (связи с фильмами удаляются каскадно).
	Delete(ctx context.Context, id int64) error
	// Exists проверяет существование режиссёра.
	Exists(ctx context.Context, id int64) (bool, error)
	// AllExist проверяет, что существуют все режиссёры из списка.
	AllExist(ctx context.Context, ids []int64) (bool, error)
}

// directorRepo — реализация DirectorRepository через pgx.
type directorRepo struct {
	db DBTX
}

// NewDirectorRepository создаёт репозиторий режиссёров.
func NewDirectorRepository(db DBTX) DirectorRepository {
	return &directorRepo{db: db}
}

func (r *directorRepo) Create(ctx context.Context, d *model.Director) error {
	err := r.db.QueryRow(ctx, `INSERT INTO directors (name) VALUES ($1) RETURNING director_id`, d.Name).Scan(&d.ID)
	if err != nil {
		return fmt.Errorf("ошибка создания режиссёра: %w", err)
	}
	return nil
}

func (r *directorRepo) Update(ctx context.Context, d *model.Director) error {
	tag, err := r.db.Exec(ctx, `UPDATE directors SET name = $1 WHERE director_id = $2`, d.Name, d.ID)
	if err != nil {
		return fmt.Errorf("ошибка обновления режиссёра: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *directorRepo) GetByID(ctx context.Context, id int64) (*model.Director, error) {
	d := &model.Director{}
	err := r.db.QueryRow(ctx, `SELECT director_id, name FROM directors WHERE director_id = $1`, id).Scan(&d.ID, &d.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка получения режиссёра: %w", err)
	}
	return d, nil
}

func (r *directorRepo) List(ctx context.Context) ([]model.Director, error) {
	rows, err := r.db.Query(ctx, `SELECT director_id, name FROM directors ORDER BY director_id`)
	if err != nil {
		return nil, fmt.Errorf("ошибка выборки режиссёров: %w", err)
	}
	directors, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.Director, error) {
		var d model.Director
		err := row.Scan(&d.ID, &d.Name)
		return d, err
	})
	if err != nil {
		return nil, fmt.Errorf("ошибка сканирования режиссёров: %w", err)
	}
	return directors, nil
}

func (r *directorRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM directors WHERE director_id = $1`, id)
	if err != nil {
		return fmt.Errorf("ошибка удаления режиссёра: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *directorRepo) Exists(ctx context.Context, id int64) (bool, error) {
	ok, err := exists(ctx, r.db, `SELECT EXISTS(SELECT 1 FROM directors WHERE director_id = $1)`, id)
	if err != nil {
		return false, fmt.Errorf("ошибка проверки режиссёра: %w", err)
	}
	return ok, nil
}

func (r *directorRepo) AllExist(ctx context.Context, ids []int64) (bool, error) {
	ok, err := allExist(ctx, r.db, `SELECT COUNT(*) FROM directors WHERE director_id = ANY($1)`, ids)
	if err != nil {
		return false, fmt.Errorf("ошибка проверки режиссёров: %w", err)
	}
	return ok, nil
}
