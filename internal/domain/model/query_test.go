package model

import "testing"

func TestParseDirectorSort(t *testing.T) {
	tests := []struct {
		input   string
		want    DirectorSort
		wantErr bool
	}{
		{input: "year", want: DirectorSortYear},
		{input: "likes", want: DirectorSortLikes},
		{input: "popularity", wantErr: true},
		{input: "Year", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDirectorSort(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseDirectorSort(%q) = %q, ожидалась ошибка", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDirectorSort(%q) ошибка: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseDirectorSort(%q) = %q, ожидался %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseSearchScope(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    SearchScope
		wantErr bool
	}{
		{name: "только название", input: "title", want: SearchScope{ByTitle: true}},
		{name: "только режиссёр", input: "director", want: SearchScope{ByDirector: true}},
		{name: "оба поля", input: "title,director", want: SearchScope{ByTitle: true, ByDirector: true}},
		{name: "обратный порядок с пробелами", input: " director , title ", want: SearchScope{ByTitle: true, ByDirector: true}},
		{name: "пустая строка", input: "", wantErr: true},
		{name: "неизвестное поле", input: "title,actor", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSearchScope(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseSearchScope(%q) = %+v, ожидалась ошибка", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseSearchScope(%q) ошибка: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseSearchScope(%q) = %+v, ожидался %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestFilm_GenreIDs_Unique(t *testing.T) {
	f := &Film{Genres: []Genre{{ID: 2}, {ID: 1}, {ID: 2}}}
	ids := f.GenreIDs()
	if len(ids) != 2 || ids[0] != 2 || ids[1] != 1 {
		t.Errorf("GenreIDs() = %v, ожидался [2 1]", ids)
	}
	if !f.HasGenre(1) || f.HasGenre(3) {
		t.Error("HasGenre вернул неверный результат")
	}
}
