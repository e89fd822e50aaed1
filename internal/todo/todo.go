// Package todo manages tasks on behalf of a verified identity. Every
// operation is scoped to the caller; tasks owned by someone else behave as
// if they did not exist.
package todo

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"todo-ledger/internal/apperr"
	"todo-ledger/internal/auth"
	"todo-ledger/internal/logging"
	"todo-ledger/internal/models"
	"todo-ledger/internal/store"
	"todo-ledger/internal/util"
)

const msgNotFound = "todo not found"

// Patch is a partial update. Nil fields are left unchanged.
type Patch struct {
	Title     *string
	Completed *bool
}

type Service struct {
	tasks store.TaskStore
	log   *slog.Logger
}

// NewService builds the component. log may be nil.
func NewService(tasks store.TaskStore, log *slog.Logger) *Service {
	if log == nil {
		log = logging.Discard()
	}
	return &Service{tasks: tasks, log: log}
}

// List returns the caller's tasks in creation order.
func (s *Service) List(ctx context.Context, id auth.Identity) ([]models.Task, error) {
	tasks, err := s.tasks.ListTasks(ctx, id.UserID)
	if err != nil {
		return nil, apperr.Internal("list todos", err)
	}
	return tasks, nil
}

// Create adds an incomplete task owned by the caller.
func (s *Service) Create(ctx context.Context, id auth.Identity, title string) (models.Task, error) {
	title = strings.TrimSpace(title)
	if err := util.ValidateTitle(title); err != nil {
		return models.Task{}, apperr.Validation(err.Error())
	}

	task := models.Task{Title: title, Completed: false, OwnerID: id.UserID}
	if err := s.tasks.CreateTask(ctx, &task); err != nil {
		return models.Task{}, apperr.Internal("create todo", err)
	}
	s.log.Debug("todo created", "user_id", id.UserID, "todo_id", task.ID)
	return task, nil
}

// Update applies the provided fields of p to one of the caller's tasks.
func (s *Service) Update(ctx context.Context, id auth.Identity, taskID uint, p Patch) (models.Task, error) {
	patch := models.TaskPatch{Completed: p.Completed}
	if p.Title != nil {
		title := strings.TrimSpace(*p.Title)
		if err := util.ValidateTitle(title); err != nil {
			return models.Task{}, apperr.Validation(err.Error())
		}
		patch.Title = &title
	}

	task, err := s.tasks.UpdateTask(ctx, id.UserID, taskID, patch)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return models.Task{}, apperr.NotFound(msgNotFound)
		}
		return models.Task{}, apperr.Internal("update todo", err)
	}
	s.log.Debug("todo updated", "user_id", id.UserID, "todo_id", task.ID)
	return task, nil
}

// Delete removes one of the caller's tasks permanently.
func (s *Service) Delete(ctx context.Context, id auth.Identity, taskID uint) error {
	if err := s.tasks.DeleteTask(ctx, id.UserID, taskID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperr.NotFound(msgNotFound)
		}
		return apperr.Internal("delete todo", err)
	}
	s.log.Debug("todo deleted", "user_id", id.UserID, "todo_id", taskID)
	return nil
}
