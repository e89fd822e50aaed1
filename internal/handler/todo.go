package handler

import (
	"log/slog"
	"net/http"

	"todo-ledger/internal/models"
	"todo-ledger/internal/todo"
	"todo-ledger/internal/util"

	"github.com/gin-gonic/gin"
)

// TodoHandler serves the owner-scoped /todos endpoints.
type TodoHandler struct {
	Todos *todo.Service
	Log   *slog.Logger
}

func NewTodoHandler(svc *todo.Service, log *slog.Logger) *TodoHandler {
	return &TodoHandler{Todos: svc, Log: log}
}

type createTodoReq struct {
	Title *string `json:"title" binding:"required"`
}

type updateTodoReq struct {
	Title     optional[string] `json:"title"`
	Completed optional[bool]   `json:"completed"`
}

type todoResp struct {
	ID        uint   `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

func toTodoResp(t models.Task) todoResp {
	return todoResp{ID: t.ID, Title: t.Title, Completed: t.Completed}
}

// List handles GET /todos.
func (h *TodoHandler) List(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}

	tasks, err := h.Todos.List(c.Request.Context(), id)
	if err != nil {
		util.Fail(c, h.Log, err)
		return
	}

	items := make([]todoResp, 0, len(tasks))
	for _, t := range tasks {
		items = append(items, toTodoResp(t))
	}
	util.Success(c, http.StatusOK, items)
}

// Create handles POST /todos.
func (h *TodoHandler) Create(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}

	var req createTodoReq
	if err := bindJSON(c, &req); err != nil {
		util.Fail(c, h.Log, err)
		return
	}

	task, err := h.Todos.Create(c.Request.Context(), id, *req.Title)
	if err != nil {
		util.Fail(c, h.Log, err)
		return
	}
	util.Success(c, http.StatusCreated, toTodoResp(task))
}

// Update handles PUT /todos/:id. Only the fields present in the body change.
func (h *TodoHandler) Update(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}

	taskID, err := parseID(c)
	if err != nil {
		util.Fail(c, h.Log, err)
		return
	}

	var req updateTodoReq
	if err := bindJSON(c, &req); err != nil {
		util.Fail(c, h.Log, err)
		return
	}

	task, err := h.Todos.Update(c.Request.Context(), id, taskID, todo.Patch{
		Title:     req.Title.Value,
		Completed: req.Completed.Value,
	})
	if err != nil {
		util.Fail(c, h.Log, err)
		return
	}
	util.Success(c, http.StatusOK, toTodoResp(task))
}

// Delete handles DELETE /todos/:id.
func (h *TodoHandler) Delete(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}

	taskID, err := parseID(c)
	if err != nil {
		util.Fail(c, h.Log, err)
		return
	}

	if err := h.Todos.Delete(c.Request.Context(), id, taskID); err != nil {
		util.Fail(c, h.Log, err)
		return
	}
	c.Status(http.StatusNoContent)
}
