// Package store defines the persistence boundary used by the auth and todo
// components. Backends live in store/memory, database and database/mongostore.
package store

import (
	"context"
	"errors"
	"io"

	"todo-ledger/internal/models"
)

var (
	// ErrNotFound is returned when a record does not exist or is owned by
	// someone else. Backends never distinguish the two.
	ErrNotFound = errors.New("record not found")
	// ErrConflict is returned when a unique key is already taken.
	ErrConflict = errors.New("record already exists")
)

// UserStore persists users.
type UserStore interface {
	// CreateUser inserts u and sets its ID. Duplicate usernames yield ErrConflict.
	CreateUser(ctx context.Context, u *models.User) error
	UserByUsername(ctx context.Context, username string) (models.User, error)
}

// TaskStore persists tasks. Every read, update and delete is scoped to ownerID.
type TaskStore interface {
	// ListTasks returns the owner's tasks in ascending id order.
	ListTasks(ctx context.Context, ownerID uint) ([]models.Task, error)
	// CreateTask inserts t with a freshly allocated id. Ids are never reused.
	CreateTask(ctx context.Context, t *models.Task) error
	UpdateTask(ctx context.Context, ownerID, id uint, patch models.TaskPatch) (models.Task, error)
	DeleteTask(ctx context.Context, ownerID, id uint) error
}

// Store is a complete backend.
type Store interface {
	UserStore
	TaskStore
	io.Closer
}
