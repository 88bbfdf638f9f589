// dto.go — JSON-представления моделей Film Module.
package handlers

import (
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/bigkaa/filmorate/film-module/internal/domain/model"
)

// GenreDTO — жанр.
type GenreDTO struct {
	ID   int64  `json:"id"`
	Name string `json:"name,omitempty"`
}

// MPADTO — возрастной рейтинг.
type MPADTO struct {
	ID   int64  `json:"id"`
	Name string `json:"name,omitempty"`
}

// DirectorDTO — режиссёр.
type DirectorDTO struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// FilmDTO — фильм. В ответах genres и directors всегда массивы.
type FilmDTO struct {
	ID          int64              `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
	ReleaseDate openapi_types.Date `json:"releaseDate"`
	Duration    int                `json:"duration"`
	MPA         *MPADTO            `json:"mpa,omitempty"`
	Genres      []GenreDTO         `json:"genres"`
	Directors   []DirectorDTO      `json:"directors"`
	Likes       int                `json:"likes"`
}

// UserDTO — пользователь.
type UserDTO struct {
	ID       int64               `json:"id"`
	Email    openapi_types.Email `json:"email"`
	Login    string              `json:"login"`
	Name     string              `json:"name"`
	Birthday *openapi_types.Date `json:"birthday,omitempty"`
}

// FeedEventDTO — событие ленты. timestamp — миллисекунды Unix.
type FeedEventDTO struct {
	EventID   int64  `json:"eventId"`
	UserID    int64  `json:"userId"`
	EntityID  int64  `json:"entityId"`
	EventType string `json:"eventType"`
	Operation string `json:"operation"`
	Timestamp int64  `json:"timestamp"`
}

// --- Конвертация model → DTO ---

func toFilmDTO(f *model.Film) FilmDTO {
	dto := FilmDTO{
		ID:          f.ID,
		Name:        f.Name,
		Description: f.Description,
		ReleaseDate: openapi_types.Date{Time: f.ReleaseDate},
		Duration:    f.Duration,
		Genres:      make([]GenreDTO, 0, len(f.Genres)),
		Directors:   make([]DirectorDTO, 0, len(f.Directors)),
		Likes:       f.Likes,
	}
	if f.MPA != nil {
		dto.MPA = &MPADTO{ID: f.MPA.ID, Name: f.MPA.Name}
	}
	for _, g := range f.Genres {
		dto.Genres = append(dto.Genres, GenreDTO{ID: g.ID, Name: g.Name})
	}
	for _, d := range f.Directors {
		dto.Directors = append(dto.Directors, DirectorDTO{ID: d.ID, Name: d.Name})
	}
	return dto
}

func toFilmDTOs(films []*model.Film) []FilmDTO {
	out := make([]FilmDTO, 0, len(films))
	for _, f := range films {
		out = append(out, toFilmDTO(f))
	}
	return out
}

func toUserDTO(u *model.User) UserDTO {
	dto := UserDTO{
		ID:    u.ID,
		Email: openapi_types.Email(u.Email),
		Login: u.Login,
		Name:  u.Name,
	}
	if !u.Birthday.IsZero() {
		dto.Birthday = &openapi_types.Date{Time: u.Birthday}
	}
	return dto
}

func toUserDTOs(users []*model.User) []UserDTO {
	out := make([]UserDTO, 0, len(users))
	for _, u := range users {
		out = append(out, toUserDTO(u))
	}
	return out
}

func toFeedDTOs(events []*model.FeedEvent) []FeedEventDTO {
	out := make([]FeedEventDTO, 0, len(events))
	for _, e := range events {
		out = append(out, FeedEventDTO{
			EventID:   e.ID,
			UserID:    e.UserID,
			EntityID:  e.EntityID,
			EventType: string(e.EventType),
			Operation: string(e.Operation),
			Timestamp: e.Timestamp.UnixMilli(),
		})
	}
	return out
}

// --- Конвертация DTO → model ---

func (d FilmDTO) toModel() *model.Film {
	f := &model.Film{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
		ReleaseDate: d.ReleaseDate.Time,
		Duration:    d.Duration,
	}
	if d.MPA != nil {
		f.MPA = &model.MPA{ID: d.MPA.ID}
	}
	for _, g := range d.Genres {
		f.Genres = append(f.Genres, model.Genre{ID: g.ID})
	}
	for _, dir := range d.Directors {
		f.Directors = append(f.Directors, model.Director{ID: dir.ID})
	}
	return f
}

func (d UserDTO) toModel() *model.User {
	u := &model.User{
		ID:    d.ID,
		Email: string(d.Email),
		Login: d.Login,
		Name:  d.Name,
	}
	if d.Birthday != nil {
		u.Birthday = d.Birthday.Time
	}
	return u
}
