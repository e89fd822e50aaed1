package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"todo-ledger/internal/apperr"
	"todo-ledger/internal/auth"
	"todo-ledger/internal/middleware"
	"todo-ledger/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// bindJSON decodes the body strictly into req. Unknown fields are rejected
// by the router-wide DisallowUnknownFields setting.
func bindJSON(c *gin.Context, req any) error {
	err := c.ShouldBindJSON(req)
	if err == nil {
		return nil
	}

	if errors.Is(err, errNullField) {
		return apperr.Validation("fields must not be null")
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return apperr.Validation(jsonFieldName(verrs[0]) + " is required")
	}
	if msg := err.Error(); strings.HasPrefix(msg, "json: unknown field ") {
		return apperr.Validation("unknown field " + strings.TrimPrefix(msg, "json: unknown field "))
	}
	return apperr.Validation("invalid request body")
}

var errNullField = errors.New("null field")

// optional is a body field that may be omitted but not sent as null.
type optional[T any] struct {
	Value *T
}

func (o *optional[T]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return errNullField
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	o.Value = &v
	return nil
}

func jsonFieldName(fe validator.FieldError) string {
	return strings.ToLower(fe.Field())
}

// parseID reads a positive integer path parameter.
func parseID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, apperr.Validation("invalid id")
	}
	return uint(id), nil
}

// identity returns the caller or writes a 401. Routes using it sit behind
// AuthMiddleware, so the failure branch only guards misconfiguration.
func identity(c *gin.Context) (auth.Identity, bool) {
	id, ok := middleware.CurrentIdentity(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, apperr.MessageOf(apperr.ErrAuth))
		c.Abort()
	}
	return id, ok
}
