package util

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"todo-ledger/internal/apperr"

	"github.com/gin-gonic/gin"
)

func TestStatusOf(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   int
	}{
		{apperr.Validation("title is required"), http.StatusBadRequest, CodeInvalidParam},
		{apperr.Auth("invalid credentials", nil), http.StatusUnauthorized, CodeAuth},
		{apperr.NotFound("todo not found"), http.StatusNotFound, CodeNotFound},
		{apperr.Conflict("username already exists"), http.StatusConflict, CodeConflict},
		{fmt.Errorf("wrapped: %w", apperr.NotFound("todo not found")), http.StatusNotFound, CodeNotFound},
		{errors.New("disk on fire"), http.StatusInternalServerError, CodeServerErr},
	}
	for _, tc := range cases {
		status, code := StatusOf(tc.err)
		if status != tc.status || code != tc.code {
			t.Errorf("StatusOf(%v) = %d/%d, want %d/%d", tc.err, status, code, tc.status, tc.code)
		}
	}
}

func failBody(t *testing.T, err error) (int, map[string]any) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/todos", nil)

	Fail(c, nil, err)

	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body %q: %v", w.Body, err)
	}
	return w.Code, body
}

func TestFailClassified(t *testing.T) {
	status, body := failBody(t, apperr.Conflict("username already exists"))
	if status != http.StatusConflict {
		t.Fatalf("status = %d, want 409", status)
	}
	if body["error"] != "username already exists" || body["code"] != float64(CodeConflict) {
		t.Fatalf("unexpected body %v", body)
	}
}

func TestFailHidesInternalDetail(t *testing.T) {
	status, body := failBody(t, apperr.Internal("insert task", errors.New("pq: relation \"tasks\" does not exist")))
	if status != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", status)
	}
	if body["error"] != "internal server error" {
		t.Fatalf("internal detail leaked: %v", body)
	}
}
