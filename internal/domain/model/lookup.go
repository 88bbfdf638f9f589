package model

// Genre — жанр фильма.
type Genre struct {
	ID   int64
	Name string
}

// MPA — возрастной рейтинг фильма (G, PG, PG-13, R, NC-17).
type MPA struct {
	ID   int64
	Name string
}

// Director — режиссёр.
type Director struct {
	ID   int64
	Name string
}
