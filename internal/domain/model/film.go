// Пакет model — доменные модели Film Module.
// Film, User и справочники (Genre, MPA, Director) — канонические записи хранилища,
// FeedEvent — запись журнала действий пользователей.
package model

import "time"

// Film — фильм каталога.
type Film struct {
	// ID — идентификатор фильма (назначается хранилищем)
	ID int64
	// Name — название фильма
	Name string
	// Description — описание (до 200 символов)
	Description string
	// ReleaseDate — дата выхода
	ReleaseDate time.Time
	// Duration — продолжительность в минутах
	Duration int
	// MPA — возрастной рейтинг (nil — не задан)
	MPA *MPA
	// Genres — жанры фильма, без повторов, порядок не важен
	Genres []Genre
	// Directors — режиссёры фильма
	Directors []Director
	// Likes — количество уникальных пользователей, поставивших лайк.
	// Производное значение, заполняется хранилищем при каждом чтении.
	Likes int
}

// GenreIDs возвращает идентификаторы жанров фильма без повторов.
func (f *Film) GenreIDs() []int64 {
	return uniqueIDs(len(f.Genres), func(i int) int64 { return f.Genres[i].ID })
}

// DirectorIDs возвращает идентификаторы режиссёров фильма без повторов.
func (f *Film) DirectorIDs() []int64 {
	return uniqueIDs(len(f.Directors), func(i int) int64 { return f.Directors[i].ID })
}

// HasGenre сообщает, отмечен ли фильм жанром genreID.
func (f *Film) HasGenre(genreID int64) bool {
	for _, g := range f.Genres {
		if g.ID == genreID {
			return true
		}
	}
	return false
}

// HasDirector сообщает, снят ли фильм режиссёром directorID.
func (f *Film) HasDirector(directorID int64) bool {
	for _, d := range f.Directors {
		if d.ID == directorID {
			return true
		}
	}
	return false
}

// uniqueIDs собирает идентификаторы в порядке первого появления.
func uniqueIDs(n int, id func(i int) int64) []int64 {
	if n == 0 {
		return nil
	}
	seen := make(map[int64]struct{}, n)
	ids := make([]int64, 0, n)
	for i := range n {
		v := id(i)
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		ids = append(ids, v)
	}
	return ids
}
