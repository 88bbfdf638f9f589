// users.go — обработчики пользователей, дружбы и ленты.
package handlers

import (
	"net/http"

	apierrors "github.com/bigkaa/filmorate/film-module/internal/api/errors"
)

// ListUsers — GET /users.
func (h *APIHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserDTOs(users))
}

// CreateUser — POST /users.
func (h *APIHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var body UserDTO
	if err := decodeJSON(r, &body); err != nil {
		apierrors.ValidationError(w, "некорректное тело запроса: "+err.Error())
		return
	}
	user, err := h.users.Create(r.Context(), body.toModel())
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toUserDTO(user))
}

// UpdateUser — PUT /users.
func (h *APIHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	var body UserDTO
	if err := decodeJSON(r, &body); err != nil {
		apierrors.ValidationError(w, "некорректное тело запроса: "+err.Error())
		return
	}
	user, err := h.users.Update(r.Context(), body.toModel())
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserDTO(user))
}

// GetUser — GET /users/{id}.
func (h *APIHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		apierrors.ValidationError(w, err.Error())
		return
	}
	user, err := h.users.GetByID(r.Context(), id)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserDTO(user))
}

// DeleteUser — DELETE /users/{id}.
func (h *APIHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		apierrors.ValidationError(w, err.Error())
		return
	}
	if err := h.users.Delete(r.Context(), id); err != nil {
		h.serviceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListFriends — GET /users/{id}/friends.
func (h *APIHandler) ListFriends(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		apierrors.ValidationError(w, err.Error())
		return
	}
	friends, err := h.users.Friends(r.Context(), id)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserDTOs(friends))
}

// AddFriend — PUT /users/{id}/friends/{friendId}.
func (h *APIHandler) AddFriend(w http.ResponseWriter, r *http.Request) {
	userID, friendID, ok := h.userPair(w, r, "friendId")
	if !ok {
		return
	}
	if err := h.users.AddFriend(r.Context(), userID, friendID); err != nil {
		h.serviceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RemoveFriend — DELETE /users/{id}/friends/{friendId}.
func (h *APIHandler) RemoveFriend(w http.ResponseWriter, r *http.Request) {
	userID, friendID, ok := h.userPair(w, r, "friendId")
	if !ok {
		return
	}
	if err := h.users.RemoveFriend(r.Context(), userID, friendID); err != nil {
		h.serviceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListCommonFriends — GET /users/{id}/friends/common/{otherId}.
func (h *APIHandler) ListCommonFriends(w http.ResponseWriter, r *http.Request) {
	userID, otherID, ok := h.userPair(w, r, "otherId")
	if !ok {
		return
	}
	common, err := h.users.CommonFriends(r.Context(), userID, otherID)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserDTOs(common))
}

// ListFeed — GET /users/{id}/feed.
func (h *APIHandler) ListFeed(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		apierrors.ValidationError(w, err.Error())
		return
	}
	events, err := h.feed.List(r.Context(), id)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toFeedDTOs(events))
}

// userPair разбирает {id} и второй идентификатор пользователя из пути.
func (h *APIHandler) userPair(w http.ResponseWriter, r *http.Request, other string) (userID, otherID int64, ok bool) {
	userID, err := pathID(r, "id")
	if err != nil {
		apierrors.ValidationError(w, err.Error())
		return 0, 0, false
	}
	otherID, err = pathID(r, other)
	if err != nil {
		apierrors.ValidationError(w, err.Error())
		return 0, 0, false
	}
	return userID, otherID, true
}
