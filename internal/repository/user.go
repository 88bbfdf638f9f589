package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/bigkaa/filmorate/film-module/internal/domain/model"
)

// userColumns — список столбцов таблицы users для SELECT-запросов.
const userColumns = `u.user_id, u.email, u.login, u.name, u.birthday`

// UserRepository — интерфейс доступа к пользователям и графу дружбы.
type UserRepository interface {
	// Create сохраняет пользователя и заполняет u.ID. ErrConflict — email занят.
	Create(ctx context.Context, u *model.User) error
	// Update перезаписывает пользователя. ErrNotFound, если его нет.
	Update(ctx context.Context, u *model.User) error
	// GetByID возвращает пользователя или ErrNotFound.
	GetByID(ctx context.Context, id int64) (*model.User, error)
	// List возвращает всех пользователей по возрастанию id.
	List(ctx context.Context) ([]*model.User, error)
	// Delete удаляет пользователя. ErrNotFound, если его нет.
	Delete(ctx context.Context, id int64) error
	// Exists проверяет существование пользователя.
	Exists(ctx context.Context, id int64) (bool, error)
	// EmailTaken проверяет, занят ли email другим пользователем (excludeID — 0, если не нужен).
	EmailTaken(ctx context.Context, email string, excludeID int64) (bool, error)
	// AddFriend добавляет направленную связь userID → friendID. Повтор — no-op.
	AddFriend(ctx context.Context, userID, friendID int64) error
	// RemoveFriend удаляет направленную связь userID → friendID. Отсутствие — no-op.
	RemoveFriend(ctx context.Context, userID, friendID int64) error
	// Friends возвращает друзей пользователя.
	Friends(ctx context.Context, userID int64) ([]*model.User, error)
	// CommonFriends возвращает пересечение друзей двух пользователей.
	CommonFriends(ctx context.Context, firstID, secondID int64) ([]*model.User, error)
}

// userRepo — реализация UserRepository через pgx.
type userRepo struct {
	db DBTX
}

// NewUserRepository создаёт репозиторий пользователей.
func NewUserRepository(db DBTX) UserRepository {
	return &userRepo{db: db}
}

func (r *userRepo) Create(ctx context.Context, u *model.User) error {
	query := `
		INSERT INTO users (email, login, name, birthday)
		VALUES ($1, $2, $3, $4)
		RETURNING user_id`

	if err := r.db.QueryRow(ctx, query, u.Email, u.Login, u.Name, u.Birthday).Scan(&u.ID); err != nil {
		if isUniqueViolation(err) {
			return ErrConflict
		}
		return fmt.Errorf("ошибка создания пользователя: %w", err)
	}
	return nil
}

func (r *userRepo) Update(ctx context.Context, u *model.User) error {
	query := `
		UPDATE users
		SET email = $1, login = $2, name = $3, birthday = $4
		WHERE user_id = $5`

	tag, err := r.db.Exec(ctx, query, u.Email, u.Login, u.Name, u.Birthday, u.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrConflict
		}
		return fmt.Errorf("ошибка обновления пользователя: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *userRepo) GetByID(ctx context.Context, id int64) (*model.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users u WHERE u.user_id = $1`, userColumns)

	u := &model.User{}
	err := r.db.QueryRow(ctx, query, id).Scan(&u.ID, &u.Email, &u.Login, &u.Name, &u.Birthday)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка получения пользователя: %w", err)
	}
	return u, nil
}

func (r *userRepo) List(ctx context.Context) ([]*model.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users u ORDER BY u.user_id`, userColumns)
	return r.queryUsers(ctx, query)
}

func (r *userRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM users WHERE user_id = $1`, id)
	if err != nil {
		return fmt.Errorf("ошибка удаления пользователя: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *userRepo) Exists(ctx context.Context, id int64) (bool, error) {
	ok, err := exists(ctx, r.db, `SELECT EXISTS(SELECT 1 FROM users WHERE user_id = $1)`, id)
	if err != nil {
		return false, fmt.Errorf("ошибка проверки пользователя: %w", err)
	}
	return ok, nil
}

func (r *userRepo) EmailTaken(ctx context.Context, email string, excludeID int64) (bool, error) {
	var taken bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE LOWER(email) = LOWER($1) AND user_id <> $2)`,
		email, excludeID,
	).Scan(&taken)
	if err != nil {
		return false, fmt.Errorf("ошибка проверки email: %w", err)
	}
	return taken, nil
}

func (r *userRepo) AddFriend(ctx context.Context, userID, friendID int64) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO friendship (user_id, friend_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING`, userID, friendID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrNotFound
		}
		return fmt.Errorf("ошибка добавления в друзья: %w", err)
	}
	return nil
}

func (r *userRepo) RemoveFriend(ctx context.Context, userID, friendID int64) error {
	_, err := r.db.Exec(ctx, `DELETE FROM friendship WHERE user_id = $1 AND friend_id = $2`, userID, friendID)
	if err != nil {
		return fmt.Errorf("ошибка удаления из друзей: %w", err)
	}
	return nil
}

func (r *userRepo) Friends(ctx context.Context, userID int64) ([]*model.User, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM users u
		JOIN friendship fr ON fr.friend_id = u.user_id
		WHERE fr.user_id = $1
		ORDER BY u.user_id`, userColumns)
	return r.queryUsers(ctx, query, userID)
}

func (r *userRepo) CommonFriends(ctx context.Context, firstID, secondID int64) ([]*model.User, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM users u
		WHERE u.user_id IN (
			SELECT friend_id FROM friendship WHERE user_id = $1
			INTERSECT
			SELECT friend_id FROM friendship WHERE user_id = $2
		)
		ORDER BY u.user_id`, userColumns)
	return r.queryUsers(ctx, query, firstID, secondID)
}

// queryUsers выполняет запрос, возвращающий столбцы userColumns.
func (r *userRepo) queryUsers(ctx context.Context, query string, args ...any) ([]*model.User, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка выборки пользователей: %w", err)
	}
	defer rows.Close()

	var result []*model.User
	for rows.Next() {
		u := &model.User{}
		if err := rows.Scan(&u.ID, &u.Email, &u.Login, &u.Name, &u.Birthday); err != nil {
			return nil, fmt.Errorf("ошибка сканирования пользователя: %w", err)
		}
		result = append(result, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка итерации результатов: %w", err)
	}
	return result, nil
}
