package model

import (
	"fmt"
	"strings"
)

// DirectorSort — ключ сортировки фильмографии режиссёра.
type DirectorSort string

// Допустимые ключи сортировки фильмографии.
const (
	// DirectorSortYear — по дате выхода, по возрастанию
	DirectorSortYear DirectorSort = "year"
	// DirectorSortLikes — по количеству лайков, по убыванию
	DirectorSortLikes DirectorSort = "likes"
)

// ParseDirectorSort проверяет ключ сортировки. Допустимы только точные литералы
// "year" и "likes".
func ParseDirectorSort(s string) (DirectorSort, error) {
	switch DirectorSort(s) {
	case DirectorSortYear, DirectorSortLikes:
		return DirectorSort(s), nil
	default:
		return "", fmt.Errorf("параметр sortBy должен быть 'year' или 'likes', получен: %q", s)
	}
}

// SearchScope — поля фильма, участвующие в текстовом поиске.
type SearchScope struct {
	// ByTitle — поиск по названию фильма
	ByTitle bool
	// ByDirector — поиск по именам режиссёров
	ByDirector bool
}

// Empty сообщает, что ни одно поле не выбрано.
func (s SearchScope) Empty() bool {
	return !s.ByTitle && !s.ByDirector
}

// String возвращает каноническое представление области поиска.
func (s SearchScope) String() string {
	switch {
	case s.ByTitle && s.ByDirector:
		return "title,director"
	case s.ByTitle:
		return "title"
	case s.ByDirector:
		return "director"
	default:
		return ""
	}
}

// ParseSearchScope разбирает параметр by: список через запятую из "title" и "director".
// Пустая строка и неизвестные значения — ошибка.
func ParseSearchScope(by string) (SearchScope, error) {
	var scope SearchScope
	if strings.TrimSpace(by) == "" {
		return scope, fmt.Errorf("параметр by не может быть пустым")
	}
	for _, part := range strings.Split(by, ",") {
		switch strings.ToLower(strings.TrimSpace(part)) {
		case "title":
			scope.ByTitle = true
		case "director":
			scope.ByDirector = true
		default:
			return SearchScope{}, fmt.Errorf("параметр by содержит недопустимое значение %q, допустимые: title, director", part)
		}
	}
	return scope, nil
}
