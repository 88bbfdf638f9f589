// Пакет errors — конструкторы стандартных ошибок Film Module.
// Единый формат: {"error": {"code": "...", "message": "..."}}.
// Все HTTP-ответы с ошибками должны использовать WriteError.
package errors

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/bigkaa/filmorate/film-module/internal/service"
)

// Машиночитаемые коды ошибок.
const (
	CodeValidationError = "VALIDATION_ERROR"
	CodeNotFound        = "NOT_FOUND"
	CodeConflict        = "CONFLICT"
	CodeTimeout         = "TIMEOUT"
	CodeInternalError   = "INTERNAL_ERROR"
)

// errorBody — структура тела ответа ошибки.
type errorBody struct {
	Error errorDetail `json:"error"`
}

// errorDetail — детали ошибки.
type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// WriteError записывает ответ ошибки в стандартном формате.
// statusCode — HTTP статус-код, code — машиночитаемый код, message — описание.
func WriteError(w http.ResponseWriter, statusCode int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(errorBody{
		Error: errorDetail{
			Code:    code,
			Message: message,
		},
	})
}

// FromService выбирает HTTP-ответ по ошибке сервисного слоя.
// Возвращает HTTP статус, чтобы вызывающий мог решить, логировать ли ошибку.
func FromService(w http.ResponseWriter, err error) int {
	switch {
	case stderrors.Is(err, service.ErrValidation):
		ValidationError(w, err.Error())
		return http.StatusBadRequest
	case stderrors.Is(err, service.ErrNotFound):
		NotFound(w, err.Error())
		return http.StatusNotFound
	case stderrors.Is(err, service.ErrConflict):
		Conflict(w, err.Error())
		return http.StatusConflict
	case stderrors.Is(err, context.DeadlineExceeded):
		Timeout(w, "превышено время обработки запроса")
		return http.StatusGatewayTimeout
	default:
		InternalError(w, "внутренняя ошибка сервера")
		return http.StatusInternalServerError
	}
}

// --- Конструкторы для типичных ошибок ---

// ValidationError — 400 некорректные входные данные.
func ValidationError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusBadRequest, CodeValidationError, message)
}

// NotFound — 404 ресурс не найден.
func NotFound(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusNotFound, CodeNotFound, message)
}

// Conflict — 409 конфликт (дублирующийся ресурс).
func Conflict(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusConflict, CodeConflict, message)
}

// Timeout — 504 истёк дедлайн запроса.
func Timeout(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusGatewayTimeout, CodeTimeout, message)
}

// InternalError — 500 внутренняя ошибка.
func InternalError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusInternalServerError, CodeInternalError, message)
}
