// Package storetest holds behaviour checks shared by every store backend.
package storetest

import (
	"context"
	"errors"
	"sync"
	"testing"

	"todo-ledger/internal/models"
	"todo-ledger/internal/store"
)

// Run exercises s against the store.Store contract. newStore must return an
// empty store.
func Run(t *testing.T, newStore func(t *testing.T) store.Store) {
	t.Helper()

	t.Run("UsernameUnique", func(t *testing.T) { testUsernameUnique(t, newStore(t)) })
	t.Run("ConcurrentRegistration", func(t *testing.T) { testConcurrentRegistration(t, newStore(t)) })
	t.Run("UserByUsername", func(t *testing.T) { testUserByUsername(t, newStore(t)) })
	t.Run("OwnerScoping", func(t *testing.T) { testOwnerScoping(t, newStore(t)) })
	t.Run("PartialUpdate", func(t *testing.T) { testPartialUpdate(t, newStore(t)) })
	t.Run("DeleteIsFinal", func(t *testing.T) { testDeleteIsFinal(t, newStore(t)) })
	t.Run("IdsNeverReused", func(t *testing.T) { testIdsNeverReused(t, newStore(t)) })
}

func mustUser(t *testing.T, s store.Store, name string) models.User {
	t.Helper()
	u := models.User{Username: name, PasswordHash: "hash-" + name}
	if err := s.CreateUser(context.Background(), &u); err != nil {
		t.Fatalf("create user %q: %v", name, err)
	}
	if u.ID == 0 {
		t.Fatalf("create user %q: id not assigned", name)
	}
	return u
}

func mustTask(t *testing.T, s store.Store, owner uint, title string) models.Task {
	t.Helper()
	task := models.Task{Title: title, OwnerID: owner}
	if err := s.CreateTask(context.Background(), &task); err != nil {
		t.Fatalf("create task %q: %v", title, err)
	}
	if task.ID == 0 {
		t.Fatalf("create task %q: id not assigned", title)
	}
	return task
}

func testUsernameUnique(t *testing.T, s store.Store) {
	mustUser(t, s, "alice")
	dup := models.User{Username: "alice", PasswordHash: "other"}
	err := s.CreateUser(context.Background(), &dup)
	if !errors.Is(err, store.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func testConcurrentRegistration(t *testing.T, s store.Store) {
	const n = 8
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			u := models.User{Username: "racer", PasswordHash: "hash"}
			errs[i] = s.CreateUser(context.Background(), &u)
		}(i)
	}
	wg.Wait()

	created := 0
	for _, err := range errs {
		switch {
		case err == nil:
			created++
		case errors.Is(err, store.ErrConflict):
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if created != 1 {
		t.Fatalf("%d registrations succeeded, want 1", created)
	}
}

func testUserByUsername(t *testing.T, s store.Store) {
	ctx := context.Background()
	alice := mustUser(t, s, "alice")

	got, err := s.UserByUsername(ctx, "alice")
	if err != nil {
		t.Fatalf("lookup alice: %v", err)
	}
	if got.ID != alice.ID || got.PasswordHash != alice.PasswordHash {
		t.Fatalf("unexpected user %+v", got)
	}

	if _, err := s.UserByUsername(ctx, "nobody"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func testOwnerScoping(t *testing.T, s store.Store) {
	ctx := context.Background()
	alice := mustUser(t, s, "alice")
	bob := mustUser(t, s, "bob")

	a1 := mustTask(t, s, alice.ID, "A")
	mustTask(t, s, alice.ID, "B")
	mustTask(t, s, bob.ID, "C")

	tasks, err := s.ListTasks(ctx, bob.ID)
	if err != nil {
		t.Fatalf("list bob: %v", err)
	}
	if len(tasks) != 1 || tasks[0].Title != "C" {
		t.Fatalf("bob sees %+v", tasks)
	}

	done := true
	if _, err := s.UpdateTask(ctx, bob.ID, a1.ID, models.TaskPatch{Completed: &done}); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("cross-owner update: expected ErrNotFound, got %v", err)
	}
	if _, err := s.UpdateTask(ctx, bob.ID, a1.ID, models.TaskPatch{}); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("cross-owner empty update: expected ErrNotFound, got %v", err)
	}
	if err := s.DeleteTask(ctx, bob.ID, a1.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("cross-owner delete: expected ErrNotFound, got %v", err)
	}

	tasks, err = s.ListTasks(ctx, alice.ID)
	if err != nil {
		t.Fatalf("list alice: %v", err)
	}
	if len(tasks) != 2 || tasks[0].Title != "A" || tasks[1].Title != "B" {
		t.Fatalf("alice sees %+v", tasks)
	}
	if tasks[0].Completed {
		t.Fatalf("bob's update leaked into alice's task")
	}
}

func testPartialUpdate(t *testing.T, s store.Store) {
	ctx := context.Background()
	alice := mustUser(t, s, "alice")
	task := mustTask(t, s, alice.ID, "X")

	done := true
	got, err := s.UpdateTask(ctx, alice.ID, task.ID, models.TaskPatch{Completed: &done})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.Title != "X" || !got.Completed {
		t.Fatalf("expected {X true}, got {%s %v}", got.Title, got.Completed)
	}

	title := "Y"
	got, err = s.UpdateTask(ctx, alice.ID, task.ID, models.TaskPatch{Title: &title})
	if err != nil {
		t.Fatalf("update title: %v", err)
	}
	if got.Title != "Y" || !got.Completed {
		t.Fatalf("expected {Y true}, got {%s %v}", got.Title, got.Completed)
	}

	undone := false
	got, err = s.UpdateTask(ctx, alice.ID, task.ID, models.TaskPatch{Completed: &undone})
	if err != nil {
		t.Fatalf("update completed=false: %v", err)
	}
	if got.Completed {
		t.Fatalf("completed=false was not applied")
	}

	got, err = s.UpdateTask(ctx, alice.ID, task.ID, models.TaskPatch{})
	if err != nil {
		t.Fatalf("empty update: %v", err)
	}
	if got.Title != "Y" || got.Completed {
		t.Fatalf("empty patch changed the task: %+v", got)
	}
}

func testDeleteIsFinal(t *testing.T, s store.Store) {
	ctx := context.Background()
	alice := mustUser(t, s, "alice")
	task := mustTask(t, s, alice.ID, "gone")

	if err := s.DeleteTask(ctx, alice.ID, task.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := s.DeleteTask(ctx, alice.ID, task.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("second delete: expected ErrNotFound, got %v", err)
	}
	done := true
	if _, err := s.UpdateTask(ctx, alice.ID, task.ID, models.TaskPatch{Completed: &done}); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("update after delete: expected ErrNotFound, got %v", err)
	}
	tasks, err := s.ListTasks(ctx, alice.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(tasks) != 0 {
		t.Fatalf("expected no tasks, got %+v", tasks)
	}
}

func testIdsNeverReused(t *testing.T, s store.Store) {
	ctx := context.Background()
	alice := mustUser(t, s, "alice")

	first := mustTask(t, s, alice.ID, "one")
	last := mustTask(t, s, alice.ID, "two")
	if last.ID <= first.ID {
		t.Fatalf("ids not increasing: %d then %d", first.ID, last.ID)
	}
	// Deleting the highest id is the case where a rowid-style allocator
	// would hand the same id out again.
	if err := s.DeleteTask(ctx, alice.ID, last.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	next := mustTask(t, s, alice.ID, "three")
	if next.ID <= last.ID {
		t.Fatalf("id %d reissued after delete of %d", next.ID, last.ID)
	}
}
