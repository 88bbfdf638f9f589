package service

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/bigkaa/filmorate/film-module/internal/domain/model"
)

// --- ListPopular ---

// TestFilmService_ListPopular_Order проверяет порядок по убыванию лайков
// и ограничение количества.
func TestFilmService_ListPopular_Order(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	a := env.film("A", date(2000, 1, 1), nil)
	b := env.film("B", date(2001, 1, 1), nil)
	c := env.film("C", date(2002, 1, 1), nil)
	d := env.film("D", date(2003, 1, 1), nil)
	env.likes(a, 1)
	env.likes(b, 3)
	env.likes(d, 1)
	// c — без лайков, тоже участвует в рейтинге

	tests := []struct {
		name  string
		count int
		want  []int64
	}{
		{"все", 10, []int64{b.ID, a.ID, d.ID, c.ID}},
		{"ровно столько, сколько фильмов", 4, []int64{b.ID, a.ID, d.ID, c.ID}},
		{"три, равные лайки по id", 3, []int64{b.ID, a.ID, d.ID}},
		{"один", 1, []int64{b.ID}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := env.films.ListPopular(ctx, PopularQuery{Count: tt.count})
			if err != nil {
				t.Fatalf("ListPopular ошибка: %v", err)
			}
			if diff := cmp.Diff(tt.want, filmIDs(got)); diff != "" {
				t.Errorf("ListPopular (-want +got):\n%s", diff)
			}
			if len(got) != min(tt.count, 4) {
				t.Errorf("len = %d, ожидалось min(%d, 4)", len(got), tt.count)
			}
			for i := 1; i < len(got); i++ {
				if got[i-1].Likes < got[i].Likes {
					t.Errorf("фильм %d (%d лайков) выше фильма %d (%d лайков)",
						got[i-1].ID, got[i-1].Likes, got[i].ID, got[i].Likes)
				}
			}
		})
	}
}

// TestFilmService_ListPopular_Filters проверяет фильтры по жанру и году.
func TestFilmService_ListPopular_Filters(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	comedy2020 := env.film("Comedy 2020", date(2020, 5, 1), []int64{1})
	drama2020 := env.film("Drama 2020", date(2020, 6, 1), []int64{2})
	comedy2021 := env.film("Comedy 2021", date(2021, 1, 1), []int64{1, 2})
	env.likes(comedy2021, 2)
	env.likes(drama2020, 1)

	genre := func(id int64) *int64 { return &id }
	year := func(y int) *int { return &y }

	tests := []struct {
		name  string
		query PopularQuery
		want  []int64
	}{
		{"жанр", PopularQuery{Count: 10, GenreID: genre(1)}, []int64{comedy2021.ID, comedy2020.ID}},
		{"год", PopularQuery{Count: 10, Year: year(2020)}, []int64{drama2020.ID, comedy2020.ID}},
		{"жанр и год", PopularQuery{Count: 10, GenreID: genre(2), Year: year(2020)}, []int64{drama2020.ID}},
		{"несуществующий жанр", PopularQuery{Count: 10, GenreID: genre(999)}, nil},
		{"год без фильмов", PopularQuery{Count: 10, Year: year(1999)}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := env.films.ListPopular(ctx, tt.query)
			if err != nil {
				t.Fatalf("ListPopular ошибка: %v", err)
			}
			if diff := cmp.Diff(tt.want, filmIDs(got)); diff != "" {
				t.Errorf("ListPopular (-want +got):\n%s", diff)
			}
		})
	}
}

// TestFilmService_ListPopular_InvalidCount проверяет отказ при count <= 0.
func TestFilmService_ListPopular_InvalidCount(t *testing.T) {
	env := newTestEnv(t)
	for _, count := range []int{0, -1} {
		_, err := env.films.ListPopular(context.Background(), PopularQuery{Count: count})
		if !errors.Is(err, ErrValidation) {
			t.Errorf("ListPopular(count=%d): ошибка = %v, ожидалась ErrValidation", count, err)
		}
	}
}

// --- ListCommon ---

// TestFilmService_ListCommon проверяет пересечение лайков двух пользователей:
// U1 лайкнул {A,B,C}, U2 — {B,C,D}; результат {B,C} по популярности.
func TestFilmService_ListCommon(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	a := env.film("A", date(2000, 1, 1), nil)
	b := env.film("B", date(2000, 1, 1), nil)
	c := env.film("C", date(2000, 1, 1), nil)
	d := env.film("D", date(2000, 1, 1), nil)
	u1, u2 := env.user(), env.user()
	for _, f := range []*model.Film{a, b, c} {
		env.like(f.ID, u1)
	}
	for _, f := range []*model.Film{b, c, d} {
		env.like(f.ID, u2)
	}
	// C популярнее B за счёт постороннего лайка
	env.likes(c, 1)

	got, err := env.films.ListCommon(ctx, u1, u2)
	if err != nil {
		t.Fatalf("ListCommon ошибка: %v", err)
	}
	if diff := cmp.Diff([]int64{c.ID, b.ID}, filmIDs(got)); diff != "" {
		t.Errorf("ListCommon (-want +got):\n%s", diff)
	}

	// Симметричность по содержимому
	reverse, err := env.films.ListCommon(ctx, u2, u1)
	if err != nil {
		t.Fatalf("ListCommon ошибка: %v", err)
	}
	gotIDs, reverseIDs := filmIDs(got), filmIDs(reverse)
	slices.Sort(gotIDs)
	slices.Sort(reverseIDs)
	if diff := cmp.Diff(gotIDs, reverseIDs); diff != "" {
		t.Errorf("ListCommon несимметричен (-u1,u2 +u2,u1):\n%s", diff)
	}
}

// TestFilmService_ListCommon_Empty проверяет пустое пересечение.
func TestFilmService_ListCommon_Empty(t *testing.T) {
	env := newTestEnv(t)
	a := env.film("A", date(2000, 1, 1), nil)
	u1, u2 := env.user(), env.user()
	env.like(a.ID, u1)

	got, err := env.films.ListCommon(context.Background(), u1, u2)
	if err != nil {
		t.Fatalf("ListCommon ошибка: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("ListCommon = %v, ожидался пустой срез, не nil", got)
	}
}

// TestFilmService_ListCommon_UnknownUser проверяет ErrNotFound для любого из пользователей.
func TestFilmService_ListCommon_UnknownUser(t *testing.T) {
	env := newTestEnv(t)
	u := env.user()

	for _, pair := range [][2]int64{{u, 999}, {999, u}} {
		_, err := env.films.ListCommon(context.Background(), pair[0], pair[1])
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("ListCommon(%d, %d): ошибка = %v, ожидалась ErrNotFound", pair[0], pair[1], err)
		}
	}
}

// --- ListByDirector ---

// TestFilmService_ListByDirector проверяет фильмографию:
// A(5 лайков, 2023), B(9, 2023), C(9, 2021) режиссёра D.
func TestFilmService_ListByDirector(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	dir := env.director("D")
	other := env.director("Other")
	a := env.film("A", date(2023, 3, 1), nil, dir)
	b := env.film("B", date(2023, 6, 1), nil, dir)
	c := env.film("C", date(2021, 1, 1), nil, dir)
	foreign := env.film("Foreign", date(2022, 1, 1), nil, other)
	env.likes(a, 5)
	env.likes(b, 9)
	env.likes(c, 9)
	env.likes(foreign, 20)

	tests := []struct {
		sortBy string
		want   []int64
	}{
		{"likes", []int64{b.ID, c.ID, a.ID}},
		{"year", []int64{c.ID, a.ID, b.ID}},
	}
	for _, tt := range tests {
		t.Run(tt.sortBy, func(t *testing.T) {
			got, err := env.films.ListByDirector(ctx, dir.ID, tt.sortBy)
			if err != nil {
				t.Fatalf("ListByDirector ошибка: %v", err)
			}
			if diff := cmp.Diff(tt.want, filmIDs(got)); diff != "" {
				t.Errorf("ListByDirector(%s) (-want +got):\n%s", tt.sortBy, diff)
			}
		})
	}
}

// TestFilmService_ListByDirector_Errors проверяет ошибки и порядок проверок.
func TestFilmService_ListByDirector_Errors(t *testing.T) {
	env := newTestEnv(t)
	dir := env.director("D")

	tests := []struct {
		name       string
		directorID int64
		sortBy     string
		wantErr    error
	}{
		{"неизвестный ключ", dir.ID, "popularity", ErrValidation},
		{"ключ в другом регистре", dir.ID, "Year", ErrValidation},
		{"пустой ключ", dir.ID, "", ErrValidation},
		{"ключ проверяется раньше режиссёра", 999, "popularity", ErrValidation},
		{"несуществующий режиссёр", 999, "year", ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.films.ListByDirector(context.Background(), tt.directorID, tt.sortBy)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ошибка = %v, ожидалась %v", err, tt.wantErr)
			}
		})
	}
}

// TestFilmService_ListByDirector_NoFilms проверяет режиссёра без фильмов.
func TestFilmService_ListByDirector_NoFilms(t *testing.T) {
	env := newTestEnv(t)
	dir := env.director("Newcomer")

	got, err := env.films.ListByDirector(context.Background(), dir.ID, "likes")
	if err != nil {
		t.Fatalf("ListByDirector ошибка: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("ListByDirector = %v, ожидался пустой результат", filmIDs(got))
	}
}

// --- Search ---

// TestFilmService_Search проверяет поиск по названию и режиссёру.
func TestFilmService_Search(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	wachowski := env.director("Lana Wachowski")
	matrix := env.film("The Matrix", date(1999, 3, 31), nil, wachowski)
	reloaded := env.film("Matrix Reloaded", date(2003, 5, 15), nil, wachowski)
	cloud := env.film("Cloud Atlas", date(2012, 10, 26), nil, wachowski)
	up := env.film("Up", date(2009, 5, 29), nil)
	env.likes(matrix, 1)
	env.likes(reloaded, 2)

	tests := []struct {
		name  string
		query string
		scope model.SearchScope
		want  []int64
	}{
		{"по названию", "matrix", model.SearchScope{ByTitle: true}, []int64{reloaded.ID, matrix.ID}},
		{"регистр не важен", "MaTrIx", model.SearchScope{ByTitle: true}, []int64{reloaded.ID, matrix.ID}},
		{"по режиссёру", "wachow", model.SearchScope{ByDirector: true}, []int64{reloaded.ID, matrix.ID, cloud.ID}},
		{"объединение без повторов", "a", model.SearchScope{ByTitle: true, ByDirector: true}, []int64{reloaded.ID, matrix.ID, cloud.ID}},
		{"только название не находит по режиссёру", "lana", model.SearchScope{ByTitle: true}, nil},
		{"подстрока в конце слова", "p", model.SearchScope{ByTitle: true}, []int64{up.ID}},
		{"нет совпадений", "terminator", model.SearchScope{ByTitle: true, ByDirector: true}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := env.films.Search(ctx, tt.query, tt.scope)
			if err != nil {
				t.Fatalf("Search ошибка: %v", err)
			}
			if diff := cmp.Diff(tt.want, filmIDs(got)); diff != "" {
				t.Errorf("Search(%q) (-want +got):\n%s", tt.query, diff)
			}
		})
	}

	// Повторный вызов на неизменных данных даёт тот же порядок
	first, _ := env.films.Search(ctx, "a", model.SearchScope{ByTitle: true, ByDirector: true})
	second, _ := env.films.Search(ctx, "a", model.SearchScope{ByTitle: true, ByDirector: true})
	if diff := cmp.Diff(filmIDs(first), filmIDs(second)); diff != "" {
		t.Errorf("порядок поиска нестабилен:\n%s", diff)
	}
}

// TestFilmService_Search_Invalid проверяет пустой запрос и пустую область поиска.
func TestFilmService_Search_Invalid(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	if _, err := env.films.Search(ctx, "  ", model.SearchScope{ByTitle: true}); !errors.Is(err, ErrValidation) {
		t.Errorf("пустой запрос: ошибка = %v, ожидалась ErrValidation", err)
	}
	if _, err := env.films.Search(ctx, "matrix", model.SearchScope{}); !errors.Is(err, ErrValidation) {
		t.Errorf("пустая область: ошибка = %v, ожидалась ErrValidation", err)
	}
}

// --- Like / Unlike ---

// TestFilmService_Like_Idempotent проверяет идемпотентность лайка и события ленты.
func TestFilmService_Like_Idempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	f := env.film("A", date(2000, 1, 1), nil)
	u := env.user()

	env.like(f.ID, u)
	env.like(f.ID, u)

	got, err := env.films.GetByID(ctx, f.ID)
	if err != nil {
		t.Fatalf("GetByID ошибка: %v", err)
	}
	if got.Likes != 1 {
		t.Errorf("Likes = %d после двух лайков, ожидался 1", got.Likes)
	}

	if err := env.films.Unlike(ctx, f.ID, u); err != nil {
		t.Fatalf("Unlike ошибка: %v", err)
	}
	if err := env.films.Unlike(ctx, f.ID, u); err != nil {
		t.Fatalf("повторный Unlike ошибка: %v", err)
	}
	got, _ = env.films.GetByID(ctx, f.ID)
	if got.Likes != 0 {
		t.Errorf("Likes = %d после Unlike, ожидался 0", got.Likes)
	}

	events, err := env.feed.List(ctx, u)
	if err != nil {
		t.Fatalf("feed.List ошибка: %v", err)
	}
	var ops []model.Operation
	for _, e := range events {
		if e.EventType != model.EventLike || e.EntityID != f.ID || e.UserID != u {
			t.Errorf("неожиданное событие: %+v", e)
		}
		ops = append(ops, e.Operation)
	}
	want := []model.Operation{model.OperationAdd, model.OperationAdd, model.OperationRemove, model.OperationRemove}
	if diff := cmp.Diff(want, ops); diff != "" {
		t.Errorf("события ленты (-want +got):\n%s", diff)
	}
}

// TestFilmService_Unlike_WithoutLike проверяет, что снятие несуществующего
// лайка не меняет состояние.
func TestFilmService_Unlike_WithoutLike(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	f := env.film("A", date(2000, 1, 1), nil)
	env.likes(f, 2)
	u := env.user()

	if err := env.films.Unlike(ctx, f.ID, u); err != nil {
		t.Fatalf("Unlike ошибка: %v", err)
	}
	got, _ := env.films.GetByID(ctx, f.ID)
	if got.Likes != 2 {
		t.Errorf("Likes = %d, ожидалось 2", got.Likes)
	}
}

// TestFilmService_Like_NotFound проверяет проверку существования до изменения.
func TestFilmService_Like_NotFound(t *testing.T) {
	feed := &mockFeedRepo{}
	env := newTestEnvWithFeed(t, feed)
	ctx := context.Background()

	f := env.film("A", date(2000, 1, 1), nil)
	u := env.user()

	tests := []struct {
		name   string
		filmID int64
		userID int64
	}{
		{"фильм", 999, u},
		{"пользователь", f.ID, 999},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := env.films.Like(ctx, tt.filmID, tt.userID); !errors.Is(err, ErrNotFound) {
				t.Errorf("Like: ошибка = %v, ожидалась ErrNotFound", err)
			}
			if err := env.films.Unlike(ctx, tt.filmID, tt.userID); !errors.Is(err, ErrNotFound) {
				t.Errorf("Unlike: ошибка = %v, ожидалась ErrNotFound", err)
			}
		})
	}
	if feed.calls != 0 {
		t.Errorf("в ленту записано %d событий, ожидалось 0", feed.calls)
	}
}

// TestFilmService_Like_FeedFailure проверяет, что ошибка ленты не откатывает лайк.
func TestFilmService_Like_FeedFailure(t *testing.T) {
	feed := &mockFeedRepo{
		recordFn: func(_ context.Context, _ *model.FeedEvent) error {
			return errors.New("лента недоступна")
		},
	}
	env := newTestEnvWithFeed(t, feed)
	ctx := context.Background()

	f := env.film("A", date(2000, 1, 1), nil)
	u := env.user()

	if err := env.films.Like(ctx, f.ID, u); err != nil {
		t.Fatalf("Like вернул ошибку ленты: %v", err)
	}
	if feed.calls != 1 {
		t.Errorf("Record вызван %d раз, ожидался 1", feed.calls)
	}
	got, _ := env.films.GetByID(ctx, f.ID)
	if got.Likes != 1 {
		t.Errorf("Likes = %d, ожидался 1", got.Likes)
	}
}

// --- CRUD ---

// TestFilmService_CreateAndUpdate проверяет проверку ссылок и обновление.
func TestFilmService_CreateAndUpdate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	dir := env.director("Nolan")

	created, err := env.films.Create(ctx, &model.Film{
		Name:        "Inception",
		ReleaseDate: date(2010, 7, 16),
		Duration:    148,
		MPA:         &model.MPA{ID: 3},
		Genres:      []model.Genre{{ID: 4}, {ID: 4}},
		Directors:   []model.Director{{ID: dir.ID}},
	})
	if err != nil {
		t.Fatalf("Create ошибка: %v", err)
	}
	want := &model.Film{
		ID:          created.ID,
		Name:        "Inception",
		ReleaseDate: date(2010, 7, 16),
		Duration:    148,
		MPA:         &model.MPA{ID: 3, Name: "PG-13"},
		Genres:      []model.Genre{{ID: 4, Name: "Триллер"}},
		Directors:   []model.Director{{ID: dir.ID, Name: "Nolan"}},
	}
	if diff := cmp.Diff(want, created); diff != "" {
		t.Errorf("Create (-want +got):\n%s", diff)
	}

	created.Name = "Inception (2010)"
	created.Genres = nil
	updated, err := env.films.Update(ctx, created)
	if err != nil {
		t.Fatalf("Update ошибка: %v", err)
	}
	if updated.Name != "Inception (2010)" || len(updated.Genres) != 0 {
		t.Errorf("Update: name = %q, genres = %v", updated.Name, updated.Genres)
	}

	all, err := env.films.List(ctx)
	if err != nil {
		t.Fatalf("List ошибка: %v", err)
	}
	if len(all) != 1 {
		t.Errorf("List: %d фильмов, ожидался 1", len(all))
	}
}

// TestFilmService_CreateUpdate_Errors проверяет ошибки создания и обновления.
func TestFilmService_CreateUpdate_Errors(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	existing := env.film("A", date(2000, 1, 1), nil)

	createTests := []struct {
		name string
		film *model.Film
	}{
		{"несуществующий MPA", &model.Film{Name: "x", MPA: &model.MPA{ID: 99}}},
		{"несуществующий жанр", &model.Film{Name: "x", Genres: []model.Genre{{ID: 1}, {ID: 99}}}},
		{"несуществующий режиссёр", &model.Film{Name: "x", Directors: []model.Director{{ID: 99}}}},
	}
	for _, tt := range createTests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := env.films.Create(ctx, tt.film); !errors.Is(err, ErrNotFound) {
				t.Errorf("Create: ошибка = %v, ожидалась ErrNotFound", err)
			}
		})
	}

	if _, err := env.films.Update(ctx, &model.Film{Name: "no id"}); !errors.Is(err, ErrValidation) {
		t.Errorf("Update без id: ошибка = %v, ожидалась ErrValidation", err)
	}
	if _, err := env.films.Update(ctx, &model.Film{ID: 999, Name: "x"}); !errors.Is(err, ErrNotFound) {
		t.Errorf("Update несуществующего: ошибка = %v, ожидалась ErrNotFound", err)
	}
	if _, err := env.films.Update(ctx, &model.Film{ID: existing.ID, Name: "x", MPA: &model.MPA{ID: 99}}); !errors.Is(err, ErrNotFound) {
		t.Errorf("Update с несуществующим MPA: ошибка = %v, ожидалась ErrNotFound", err)
	}

	if err := env.films.Delete(ctx, existing.ID); err != nil {
		t.Fatalf("Delete ошибка: %v", err)
	}
	if _, err := env.films.GetByID(ctx, existing.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetByID после Delete: ошибка = %v, ожидалась ErrNotFound", err)
	}
	if err := env.films.Delete(ctx, existing.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("повторный Delete: ошибка = %v, ожидалась ErrNotFound", err)
	}
}
