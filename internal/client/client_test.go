package client_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"todo-ledger/internal/auth"
	"todo-ledger/internal/client"
	"todo-ledger/internal/config"
	"todo-ledger/internal/logging"
	"todo-ledger/internal/router"
	"todo-ledger/internal/store/memory"
	"todo-ledger/internal/todo"
	"todo-ledger/internal/util"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newServer(t *testing.T) (*httptest.Server, *clock) {
	t.Helper()

	clk := &clock{now: time.Now()}
	st := memory.New()
	log := logging.Discard()
	tokens := util.NewTokenManager("client-test-secret", "todo-ledger", time.Hour, clk.Now)
	authSvc, err := auth.NewService(st, tokens, bcrypt.MinCost, log)
	if err != nil {
		t.Fatalf("auth service: %v", err)
	}
	cfg := &config.Config{Server: config.ServerConfig{Mode: gin.TestMode}}
	engine := router.SetupRouter(cfg, router.Deps{Auth: authSvc, Todos: todo.NewService(st, log), Log: log})

	srv := httptest.NewServer(engine)
	t.Cleanup(srv.Close)
	return srv, clk
}

func TestClientScenario(t *testing.T) {
	srv, _ := newServer(t)
	ctx := context.Background()
	c := client.New(srv.URL, srv.Client())

	if err := c.Register(ctx, "alice", "pw1"); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := c.Login(ctx, "alice", "pw1"); err != nil {
		t.Fatalf("login: %v", err)
	}
	if c.Token() == "" || c.ExpiresAt().IsZero() {
		t.Fatal("login did not keep the session")
	}

	a, err := c.Create(ctx, "A")
	if err != nil {
		t.Fatalf("create A: %v", err)
	}
	if _, err := c.Create(ctx, "B"); err != nil {
		t.Fatalf("create B: %v", err)
	}

	list, err := c.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 || list[0].Title != "A" || list[1].Title != "B" {
		t.Fatalf("expected [A B], got %+v", list)
	}

	done := true
	updated, err := c.Update(ctx, a.ID, client.Update{Completed: &done})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !updated.Completed || updated.Title != "A" {
		t.Fatalf("unexpected update result %+v", updated)
	}

	if err := c.Delete(ctx, a.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	list, err = c.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || list[0].Title != "B" {
		t.Fatalf("expected [B], got %+v", list)
	}
}

func TestClientAPIErrors(t *testing.T) {
	srv, _ := newServer(t)
	ctx := context.Background()
	c := client.New(srv.URL, nil)

	if err := c.Register(ctx, "alice", "pw1"); err != nil {
		t.Fatalf("register: %v", err)
	}

	var apiErr *client.APIError
	err := c.Register(ctx, "alice", "pw1")
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusConflict || apiErr.Message == "" {
		t.Fatalf("expected 409 api error, got %v", err)
	}

	err = c.Login(ctx, "alice", "nope")
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusUnauthorized {
		t.Fatalf("expected 401 api error, got %v", err)
	}
	if c.Token() != "" {
		t.Fatal("failed login must not store a token")
	}

	if _, err := c.List(ctx); !errors.Is(err, client.ErrNotLoggedIn) {
		t.Fatalf("expected ErrNotLoggedIn, got %v", err)
	}

	if err := c.Login(ctx, "alice", "pw1"); err != nil {
		t.Fatalf("login: %v", err)
	}
	err = c.Delete(ctx, 9999)
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusNotFound || apiErr.Code != util.CodeNotFound {
		t.Fatalf("expected 404 api error, got %v", err)
	}
	if c.Token() == "" {
		t.Fatal("404 must not drop the session")
	}
}

func TestClientDropsExpiredSession(t *testing.T) {
	srv, clk := newServer(t)
	ctx := context.Background()
	c := client.New(srv.URL, srv.Client())

	if err := c.Register(ctx, "alice", "pw1"); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := c.Login(ctx, "alice", "pw1"); err != nil {
		t.Fatalf("login: %v", err)
	}

	clk.Advance(2 * time.Hour)

	var apiErr *client.APIError
	if _, err := c.List(ctx); !errors.As(err, &apiErr) || apiErr.Status != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
	if c.Token() != "" {
		t.Fatal("token kept after 401")
	}
	if _, err := c.List(ctx); !errors.Is(err, client.ErrNotLoggedIn) {
		t.Fatalf("expected ErrNotLoggedIn, got %v", err)
	}
}
