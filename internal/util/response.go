package util

import (
	"log/slog"
	"net/http"

	"todo-ledger/internal/apperr"

	"github.com/gin-gonic/gin"
)

// Business error codes carried next to the HTTP status.
const (
	CodeOK           = 0
	CodeInvalidParam = 40001
	CodeAuth         = 40101
	CodeNotFound     = 40401
	CodeConflict     = 40901
	CodeServerErr    = 50001
)

// Success writes data as the JSON body.
func Success(c *gin.Context, httpStatus int, data any) {
	c.JSON(httpStatus, data)
}

// Error writes the error body {"code": ..., "error": msg}.
func Error(c *gin.Context, httpStatus int, code int, msg string) {
	c.JSON(httpStatus, gin.H{
		"code":  code,
		"error": msg,
	})
}

// Fail maps a classified error to its status. Unclassified errors are
// logged and answered with a generic 500.
func Fail(c *gin.Context, log *slog.Logger, err error) {
	status, code := StatusOf(err)
	if status == http.StatusInternalServerError {
		if log != nil {
			log.Error("request failed",
				"method", c.Request.Method,
				"path", c.FullPath(),
				"error", err,
			)
		}
		_ = c.Error(err)
		Error(c, status, code, "internal server error")
		return
	}
	Error(c, status, code, apperr.MessageOf(err))
}

// StatusOf returns the HTTP status and business code for err.
func StatusOf(err error) (int, int) {
	switch apperr.KindOf(err) {
	case apperr.KindValidation:
		return http.StatusBadRequest, CodeInvalidParam
	case apperr.KindAuth:
		return http.StatusUnauthorized, CodeAuth
	case apperr.KindNotFound:
		return http.StatusNotFound, CodeNotFound
	case apperr.KindConflict:
		return http.StatusConflict, CodeConflict
	default:
		return http.StatusInternalServerError, CodeServerErr
	}
}
