// Пакет service — бизнес-логика Film Module: движок выборок и рейтингов
// фильмов, индекс лайков, граф дружбы, справочники и лента событий.
package service

import (
	"errors"
	"fmt"

	"github.com/bigkaa/filmorate/film-module/internal/repository"
)

// Ошибки сервисного слоя. Проверяются через errors.Is.
var (
	// ErrValidation — некорректные входные данные (неизвестный ключ сортировки, пустой запрос).
	ErrValidation = errors.New("ошибка валидации")
	// ErrNotFound — объект, на который ссылается запрос, отсутствует.
	ErrNotFound = errors.New("объект не найден")
	// ErrConflict — нарушение уникальности (email пользователя).
	ErrConflict = errors.New("конфликт данных")
)

// validationError оборачивает ErrValidation с описанием причины.
func validationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// notFoundError оборачивает ErrNotFound с описанием объекта.
func notFoundError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

// storeError переводит ошибки репозитория в ошибки сервиса.
// what — описание операции для контекста.
func storeError(err error, what string) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return fmt.Errorf("%w: %s", ErrNotFound, what)
	case errors.Is(err, repository.ErrConflict):
		return fmt.Errorf("%w: %s", ErrConflict, what)
	default:
		return fmt.Errorf("%s: %w", what, err)
	}
}

// conflictError оборачивает ErrConflict с описанием причины.
func conflictError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConflict, fmt.Sprintf(format, args...))
}
