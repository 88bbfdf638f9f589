// handler.go — основной обработчик API Film Module.
// Регистрирует маршруты chi и делегирует запросы в сервисный слой.
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	apierrors "github.com/bigkaa/filmorate/film-module/internal/api/errors"
	"github.com/bigkaa/filmorate/film-module/internal/service"
)

// APIHandler — основной обработчик API Film Module.
type APIHandler struct {
	health  *HealthHandler
	films   *service.FilmService
	users   *service.UserService
	lookups *service.LookupService
	feed    *service.FeedService
	logger  *slog.Logger
}

// NewAPIHandler создаёт основной обработчик API.
func NewAPIHandler(
	health *HealthHandler,
	films *service.FilmService,
	users *service.UserService,
	lookups *service.LookupService,
	feed *service.FeedService,
	logger *slog.Logger,
) *APIHandler {
	return &APIHandler{
		health:  health,
		films:   films,
		users:   users,
		lookups: lookups,
		feed:    feed,
		logger:  logger.With(slog.String("component", "api_handler")),
	}
}

// Register регистрирует все маршруты API в роутере.
// Статические сегменты (/films/popular) в chi приоритетнее параметров (/films/{id}).
func (h *APIHandler) Register(r chi.Router) {
	r.Get("/health/live", h.health.HealthLive)
	r.Get("/health/ready", h.health.HealthReady)
	r.Get("/metrics", h.health.GetMetrics)

	r.Route("/films", func(r chi.Router) {
		r.Get("/", h.ListFilms)
		r.Post("/", h.CreateFilm)
		r.Put("/", h.UpdateFilm)
		r.Get("/popular", h.ListPopular)
		r.Get("/common", h.ListCommon)
		r.Get("/search", h.SearchFilms)
		r.Get("/director/{directorId}", h.ListByDirector)
		r.Get("/{id}", h.GetFilm)
		r.Delete("/{id}", h.DeleteFilm)
		r.Put("/{id}/like/{userId}", h.LikeFilm)
		r.Delete("/{id}/like/{userId}", h.UnlikeFilm)
	})

	r.Route("/users", func(r chi.Router) {
		r.Get("/", h.ListUsers)
		r.Post("/", h.CreateUser)
		r.Put("/", h.UpdateUser)
		r.Get("/{id}", h.GetUser)
		r.Delete("/{id}", h.DeleteUser)
		r.Get("/{id}/friends", h.ListFriends)
		r.Put("/{id}/friends/{friendId}", h.AddFriend)
		r.Delete("/{id}/friends/{friendId}", h.RemoveFriend)
		r.Get("/{id}/friends/common/{otherId}", h.ListCommonFriends)
		r.Get("/{id}/feed", h.ListFeed)
	})

	r.Get("/genres", h.ListGenres)
	r.Get("/genres/{id}", h.GetGenre)
	r.Get("/mpa", h.ListMPA)
	r.Get("/mpa/{id}", h.GetMPA)

	r.Route("/directors", func(r chi.Router) {
		r.Get("/", h.ListDirectors)
		r.Post("/", h.CreateDirector)
		r.Put("/", h.UpdateDirector)
		r.Get("/{id}", h.GetDirector)
		r.Delete("/{id}", h.DeleteDirector)
	})
}

// --- Вспомогательные функции ---

// writeJSON записывает JSON-ответ с указанным статусом.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// decodeJSON читает тело запроса в dst. Неизвестные поля игнорируются.
func decodeJSON(r *http.Request, dst any) error {
	return json.NewDecoder(r.Body).Decode(dst)
}

// serviceError отвечает клиенту по ошибке сервиса; 5xx логируются.
func (h *APIHandler) serviceError(w http.ResponseWriter, r *http.Request, err error) {
	status := apierrors.FromService(w, err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("Ошибка обработки запроса",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
	}
}
