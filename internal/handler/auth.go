package handler

import (
	"log/slog"
	"net/http"

	"todo-ledger/internal/auth"
	"todo-ledger/internal/util"

	"github.com/gin-gonic/gin"
)

// AuthHandler serves registration and login.
type AuthHandler struct {
	Auth *auth.Service
	Log  *slog.Logger
}

func NewAuthHandler(svc *auth.Service, log *slog.Logger) *AuthHandler {
	return &AuthHandler{Auth: svc, Log: log}
}

type credentialsReq struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type registerResp struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
}

// Register handles POST /register.
func (h *AuthHandler) Register(c *gin.Context) {
	var req credentialsReq
	if err := bindJSON(c, &req); err != nil {
		util.Fail(c, h.Log, err)
		return
	}

	user, err := h.Auth.Register(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		util.Fail(c, h.Log, err)
		return
	}

	util.Success(c, http.StatusCreated, registerResp{ID: user.ID, Username: user.Username})
}

// Login handles POST /login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req credentialsReq
	if err := bindJSON(c, &req); err != nil {
		util.Fail(c, h.Log, err)
		return
	}

	token, err := h.Auth.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		util.Fail(c, h.Log, err)
		return
	}

	util.Success(c, http.StatusOK, token)
}
