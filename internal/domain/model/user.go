package model

import "time"

// User — пользователь каталога.
type User struct {
	// ID — идентификатор пользователя (назначается хранилищем)
	ID int64
	// Email — адрес электронной почты, уникален
	Email string
	// Login — логин
	Login string
	// Name — отображаемое имя
	Name string
	// Birthday — дата рождения
	Birthday time.Time
}
