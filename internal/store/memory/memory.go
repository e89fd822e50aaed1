// Package memory is an in-process Store backend, used for tests and for
// running the server without a database.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"todo-ledger/internal/models"
	"todo-ledger/internal/store"
)

type Store struct {
	mu sync.Mutex

	users      map[uint]models.User
	byUsername map[string]uint
	tasks      map[uint]models.Task

	lastUserID uint
	lastTaskID uint

	now func() time.Time
}

var _ store.Store = (*Store)(nil)

func New() *Store {
	return &Store{
		users:      make(map[uint]models.User),
		byUsername: make(map[string]uint),
		tasks:      make(map[uint]models.Task),
		now:        time.Now,
	}
}

func (s *Store) CreateUser(_ context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byUsername[u.Username]; ok {
		return store.ErrConflict
	}
	s.lastUserID++
	u.ID = s.lastUserID
	u.CreatedAt = s.now()
	s.users[u.ID] = *u
	s.byUsername[u.Username] = u.ID
	return nil
}

func (s *Store) UserByUsername(_ context.Context, username string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.byUsername[username]
	if !ok {
		return models.User{}, store.ErrNotFound
	}
	return s.users[id], nil
}

func (s *Store) ListTasks(_ context.Context, ownerID uint) ([]models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Task, 0)
	for _, t := range s.tasks {
		if t.OwnerID == ownerID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) CreateTask(_ context.Context, t *models.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastTaskID++
	now := s.now()
	t.ID = s.lastTaskID
	t.CreatedAt = now
	t.UpdatedAt = now
	s.tasks[t.ID] = *t
	return nil
}

func (s *Store) UpdateTask(_ context.Context, ownerID, id uint, patch models.TaskPatch) (models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[id]
	if !ok || t.OwnerID != ownerID {
		return models.Task{}, store.ErrNotFound
	}
	if patch.Empty() {
		return t, nil
	}
	patch.Apply(&t)
	t.UpdatedAt = s.now()
	s.tasks[id] = t
	return t, nil
}

func (s *Store) DeleteTask(_ context.Context, ownerID, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[id]
	if !ok || t.OwnerID != ownerID {
		return store.ErrNotFound
	}
	delete(s.tasks, id)
	return nil
}

func (s *Store) Close() error { return nil }
