package model

import "time"

// EventType — тип события ленты.
type EventType string

// Типы событий ленты.
const (
	EventLike   EventType = "LIKE"
	EventFriend EventType = "FRIEND"
	EventReview EventType = "REVIEW"
)

// Operation — операция, совершённая пользователем.
type Operation string

// Операции событий ленты.
const (
	OperationAdd    Operation = "ADD"
	OperationRemove Operation = "REMOVE"
	OperationUpdate Operation = "UPDATE"
)

// FeedEvent — неизменяемая запись журнала действий пользователя.
type FeedEvent struct {
	// ID — идентификатор события (назначается хранилищем)
	ID int64
	// UserID — автор действия
	UserID int64
	// EntityID — объект действия (фильм, друг, отзыв)
	EntityID int64
	// EventType — тип события
	EventType EventType
	// Operation — операция
	Operation Operation
	// Timestamp — время события (UTC)
	Timestamp time.Time
}
