// lookups.go — обработчики справочников: жанры, MPA, режиссёры.
package handlers

import (
	"net/http"

	apierrors "github.com/bigkaa/filmorate/film-module/internal/api/errors"
	"github.com/bigkaa/filmorate/film-module/internal/domain/model"
)

// ListGenres — GET /genres.
func (h *APIHandler) ListGenres(w http.ResponseWriter, r *http.Request) {
	genres, err := h.lookups.Genres(r.Context())
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	out := make([]GenreDTO, 0, len(genres))
	for _, g := range genres {
		out = append(out, GenreDTO{ID: g.ID, Name: g.Name})
	}
	writeJSON(w, http.StatusOK, out)
}

// GetGenre — GET /genres/{id}.
func (h *APIHandler) GetGenre(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		apierrors.ValidationError(w, err.Error())
		return
	}
	g, err := h.lookups.Genre(r.Context(), id)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, GenreDTO{ID: g.ID, Name: g.Name})
}

// ListMPA — GET /mpa.
func (h *APIHandler) ListMPA(w http.ResponseWriter, r *http.Request) {
	mpas, err := h.lookups.MPAs(r.Context())
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	out := make([]MPADTO, 0, len(mpas))
	for _, m := range mpas {
		out = append(out, MPADTO{ID: m.ID, Name: m.Name})
	}
	writeJSON(w, http.StatusOK, out)
}

// GetMPA — GET /mpa/{id}.
func (h *APIHandler) GetMPA(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		apierrors.ValidationError(w, err.Error())
		return
	}
	m, err := h.lookups.MPA(r.Context(), id)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MPADTO{ID: m.ID, Name: m.Name})
}

// ListDirectors — GET /directors.
func (h *APIHandler) ListDirectors(w http.ResponseWriter, r *http.Request) {
	directors, err := h.lookups.Directors(r.Context())
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	out := make([]DirectorDTO, 0, len(directors))
	for _, d := range directors {
		out = append(out, DirectorDTO{ID: d.ID, Name: d.Name})
	}
	writeJSON(w, http.StatusOK, out)
}

// GetDirector — GET /directors/{id}.
func (h *APIHandler) GetDirector(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		apierrors.ValidationError(w, err.Error())
		return
	}
	d, err := h.lookups.Director(r.Context(), id)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, DirectorDTO{ID: d.ID, Name: d.Name})
}

// CreateDirector — POST /directors.
func (h *APIHandler) CreateDirector(w http.ResponseWriter, r *http.Request) {
	var body DirectorDTO
	if err := decodeJSON(r, &body); err != nil {
		apierrors.ValidationError(w, "некорректное тело запроса: "+err.Error())
		return
	}
	d, err := h.lookups.CreateDirector(r.Context(), &model.Director{Name: body.Name})
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, DirectorDTO{ID: d.ID, Name: d.Name})
}

// UpdateDirector — PUT /directors.
func (h *APIHandler) UpdateDirector(w http.ResponseWriter, r *http.Request) {
	var body DirectorDTO
	if err := decodeJSON(r, &body); err != nil {
		apierrors.ValidationError(w, "некорректное тело запроса: "+err.Error())
		return
	}
	d, err := h.lookups.UpdateDirector(r.Context(), &model.Director{ID: body.ID, Name: body.Name})
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, DirectorDTO{ID: d.ID, Name: d.Name})
}

// DeleteDirector — DELETE /directors/{id}.
func (h *APIHandler) DeleteDirector(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		apierrors.ValidationError(w, err.Error())
		return
	}
	if err := h.lookups.DeleteDirector(r.Context(), id); err != nil {
		h.serviceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
