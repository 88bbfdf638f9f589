package errors

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bigkaa/filmorate/film-module/internal/service"
)

// TestFromService проверяет соответствие ошибок сервиса HTTP-статусам и кодам.
func TestFromService(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"валидация", fmt.Errorf("%w: sortBy", service.ErrValidation), http.StatusBadRequest, CodeValidationError},
		{"не найдено", fmt.Errorf("%w: фильм", service.ErrNotFound), http.StatusNotFound, CodeNotFound},
		{"конфликт", service.ErrConflict, http.StatusConflict, CodeConflict},
		{"дедлайн", fmt.Errorf("выборка: %w", context.DeadlineExceeded), http.StatusGatewayTimeout, CodeTimeout},
		{"прочее", fmt.Errorf("connection refused"), http.StatusInternalServerError, CodeInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			status := FromService(rec, tt.err)

			if status != tt.wantStatus || rec.Code != tt.wantStatus {
				t.Errorf("status = %d (записан %d), ожидался %d", status, rec.Code, tt.wantStatus)
			}

			var body errorBody
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("ошибка декодирования тела: %v", err)
			}
			if body.Error.Code != tt.wantCode {
				t.Errorf("code = %q, ожидался %q", body.Error.Code, tt.wantCode)
			}
		})
	}
}

// TestFromService_HidesInternalDetails проверяет, что текст внутренней ошибки не уходит клиенту.
func TestFromService_HidesInternalDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	FromService(rec, fmt.Errorf("pq: password authentication failed"))

	var body errorBody
	_ = json.NewDecoder(rec.Body).Decode(&body)
	if body.Error.Message != "внутренняя ошибка сервера" {
		t.Errorf("message = %q, ожидалось обобщённое сообщение", body.Error.Message)
	}
}
