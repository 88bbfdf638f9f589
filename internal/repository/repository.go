// Пакет repository — слой доступа к данным PostgreSQL для Film Module.
// Хранилище владеет каноническими записями Film, User, Genre, MPA, Director;
// индекс лайков и граф дружбы читаются «вживую» через JOIN-запросы.
// Все запросы — чистый SQL через pgx, без ORM.
package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Ошибки слоя репозиториев.
var (
	// ErrNotFound — запись не найдена.
	ErrNotFound = errors.New("запись не найдена")
	// ErrConflict — нарушение уникальности.
	ErrConflict = errors.New("запись уже существует")
)

// DBTX — интерфейс для выполнения SQL-запросов.
// Реализуется как *pgxpool.Pool, так и pgx.Tx, что позволяет
// использовать репозитории как внутри, так и вне транзакций.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// DB — DBTX с возможностью открыть транзакцию.
// Нужен репозиториям, которые пишут в несколько таблиц (фильм + жанры + режиссёры).
type DB interface {
	DBTX
	Begin(ctx context.Context) (pgx.Tx, error)
}

// isUniqueViolation сообщает, что ошибка — нарушение UNIQUE (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// isForeignKeyViolation сообщает, что ошибка — нарушение внешнего ключа (SQLSTATE 23503).
func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}

// exists выполняет запрос вида SELECT EXISTS(...) с одним аргументом.
func exists(ctx context.Context, db DBTX, query string, arg any) (bool, error) {
	var ok bool
	if err := db.QueryRow(ctx, query, arg).Scan(&ok); err != nil {
		return false, err
	}
	return ok, nil
}

// allExist проверяет, что все идентификаторы ids присутствуют в таблице.
// countQuery должен возвращать COUNT(*) по условию "id = ANY($1)".
// Пустой список считается существующим.
func allExist(ctx context.Context, db DBTX, countQuery string, ids []int64) (bool, error) {
	unique := dedup(ids)
	if len(unique) == 0 {
		return true, nil
	}
	var n int
	if err := db.QueryRow(ctx, countQuery, unique).Scan(&n); err != nil {
		return false, err
	}
	return n == len(unique), nil
}

// dedup возвращает идентификаторы без повторов в порядке первого появления.
func dedup(ids []int64) []int64 {
	if len(ids) == 0 {
		return nil
	}
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
