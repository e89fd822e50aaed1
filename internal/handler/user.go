package handler

import (
	"net/http"

	"todo-ledger/internal/util"

	"github.com/gin-gonic/gin"
)

// GetMe returns the identity carried by the caller's token.
func GetMe(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}
	util.Success(c, http.StatusOK, id)
}
