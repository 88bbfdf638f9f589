// films.go — обработчики фильмов, лайков и выборок.
package handlers

import (
	"net/http"

	apierrors "github.com/bigkaa/filmorate/film-module/internal/api/errors"
	"github.com/bigkaa/filmorate/film-module/internal/domain/model"
	"github.com/bigkaa/filmorate/film-module/internal/service"
)

// defaultPopularCount — размер рейтинга, если count не передан.
const defaultPopularCount = 10

// ListFilms — GET /films.
func (h *APIHandler) ListFilms(w http.ResponseWriter, r *http.Request) {
	films, err := h.films.List(r.Context())
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toFilmDTOs(films))
}

// CreateFilm — POST /films.
func (h *APIHandler) CreateFilm(w http.ResponseWriter, r *http.Request) {
	var body FilmDTO
	if err := decodeJSON(r, &body); err != nil {
		apierrors.ValidationError(w, "некорректное тело запроса: "+err.Error())
		return
	}
	film, err := h.films.Create(r.Context(), body.toModel())
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toFilmDTO(film))
}

// UpdateFilm — PUT /films.
func (h *APIHandler) UpdateFilm(w http.ResponseWriter, r *http.Request) {
	var body FilmDTO
	if err := decodeJSON(r, &body); err != nil {
		apierrors.ValidationError(w, "некорректное тело запроса: "+err.Error())
		return
	}
	film, err := h.films.Update(r.Context(), body.toModel())
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toFilmDTO(film))
}

// GetFilm — GET /films/{id}.
func (h *APIHandler) GetFilm(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		apierrors.ValidationError(w, err.Error())
		return
	}
	film, err := h.films.GetByID(r.Context(), id)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toFilmDTO(film))
}

// DeleteFilm — DELETE /films/{id}.
func (h *APIHandler) DeleteFilm(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		apierrors.ValidationError(w, err.Error())
		return
	}
	if err := h.films.Delete(r.Context(), id); err != nil {
		h.serviceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// LikeFilm — PUT /films/{id}/like/{userId}.
func (h *APIHandler) LikeFilm(w http.ResponseWriter, r *http.Request) {
	filmID, userID, ok := h.likePair(w, r)
	if !ok {
		return
	}
	if err := h.films.Like(r.Context(), filmID, userID); err != nil {
		h.serviceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UnlikeFilm — DELETE /films/{id}/like/{userId}.
func (h *APIHandler) UnlikeFilm(w http.ResponseWriter, r *http.Request) {
	filmID, userID, ok := h.likePair(w, r)
	if !ok {
		return
	}
	if err := h.films.Unlike(r.Context(), filmID, userID); err != nil {
		h.serviceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// likePair разбирает {id} и {userId}; при ошибке ответ уже записан.
func (h *APIHandler) likePair(w http.ResponseWriter, r *http.Request) (filmID, userID int64, ok bool) {
	filmID, err := pathID(r, "id")
	if err != nil {
		apierrors.ValidationError(w, err.Error())
		return 0, 0, false
	}
	userID, err = pathID(r, "userId")
	if err != nil {
		apierrors.ValidationError(w, err.Error())
		return 0, 0, false
	}
	return filmID, userID, true
}

// ListPopular — GET /films/popular?count&genreId&year.
func (h *APIHandler) ListPopular(w http.ResponseWriter, r *http.Request) {
	count, err := queryInt(r, "count")
	if err != nil {
		apierrors.ValidationError(w, err.Error())
		return
	}
	genreID, err := queryInt64(r, "genreId")
	if err != nil {
		apierrors.ValidationError(w, err.Error())
		return
	}
	year, err := queryInt(r, "year")
	if err != nil {
		apierrors.ValidationError(w, err.Error())
		return
	}

	q := service.PopularQuery{Count: defaultPopularCount, GenreID: genreID, Year: year}
	if count != nil {
		q.Count = *count
	}
	films, err := h.films.ListPopular(r.Context(), q)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toFilmDTOs(films))
}

// ListCommon — GET /films/common?userId&friendId.
func (h *APIHandler) ListCommon(w http.ResponseWriter, r *http.Request) {
	userID, err := requiredQueryInt64(r, "userId")
	if err != nil {
		apierrors.ValidationError(w, err.Error())
		return
	}
	friendID, err := requiredQueryInt64(r, "friendId")
	if err != nil {
		apierrors.ValidationError(w, err.Error())
		return
	}
	films, err := h.films.ListCommon(r.Context(), userID, friendID)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toFilmDTOs(films))
}

// ListByDirector — GET /films/director/{directorId}?sortBy=year|likes.
func (h *APIHandler) ListByDirector(w http.ResponseWriter, r *http.Request) {
	directorID, err := pathID(r, "directorId")
	if err != nil {
		apierrors.ValidationError(w, err.Error())
		return
	}
	sortBy, err := queryString(r, "sortBy")
	if err != nil {
		apierrors.ValidationError(w, err.Error())
		return
	}
	films, err := h.films.ListByDirector(r.Context(), directorID, sortBy)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toFilmDTOs(films))
}

// SearchFilms — GET /films/search?query&by=title,director.
func (h *APIHandler) SearchFilms(w http.ResponseWriter, r *http.Request) {
	query, err := queryString(r, "query")
	if err != nil {
		apierrors.ValidationError(w, err.Error())
		return
	}
	by, err := queryString(r, "by")
	if err != nil {
		apierrors.ValidationError(w, err.Error())
		return
	}
	scope, err := model.ParseSearchScope(by)
	if err != nil {
		apierrors.ValidationError(w, err.Error())
		return
	}
	films, err := h.films.Search(r.Context(), query, scope)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toFilmDTOs(films))
}
