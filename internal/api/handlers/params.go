// params.go — разбор path и query параметров через oapi-codegen runtime,
// теми же функциями, что использует сгенерированный chi-server.
package handlers

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
)

// pathID разбирает обязательный числовой path-параметр.
func pathID(r *http.Request, name string) (int64, error) {
	var id int64
	err := runtime.BindStyledParameterWithOptions("simple", name, chi.URLParam(r, name), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return 0, fmt.Errorf("некорректный параметр %s: %w", name, err)
	}
	return id, nil
}

// queryInt разбирает необязательный целочисленный query-параметр.
// Отсутствующий параметр — nil.
func queryInt(r *http.Request, name string) (*int, error) {
	var v *int
	if err := runtime.BindQueryParameter("form", true, false, name, r.URL.Query(), &v); err != nil {
		return nil, fmt.Errorf("некорректный параметр %s: %w", name, err)
	}
	return v, nil
}

// queryInt64 разбирает необязательный query-параметр-идентификатор.
func queryInt64(r *http.Request, name string) (*int64, error) {
	var v *int64
	if err := runtime.BindQueryParameter("form", true, false, name, r.URL.Query(), &v); err != nil {
		return nil, fmt.Errorf("некорректный параметр %s: %w", name, err)
	}
	return v, nil
}

// requiredQueryInt64 разбирает обязательный query-параметр-идентификатор.
func requiredQueryInt64(r *http.Request, name string) (int64, error) {
	var v int64
	if err := runtime.BindQueryParameter("form", true, true, name, r.URL.Query(), &v); err != nil {
		return 0, fmt.Errorf("некорректный параметр %s: %w", name, err)
	}
	return v, nil
}

// queryString разбирает необязательный строковый query-параметр.
// Отсутствующий параметр — пустая строка.
func queryString(r *http.Request, name string) (string, error) {
	var v *string
	if err := runtime.BindQueryParameter("form", true, false, name, r.URL.Query(), &v); err != nil {
		return "", fmt.Errorf("некорректный параметр %s: %w", name, err)
	}
	if v == nil {
		return "", nil
	}
	return *v, nil
}
