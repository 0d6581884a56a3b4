package auth

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/akira-dev/gif-bed/api/common"
	"github.com/akira-dev/gif-bed/api/middleware"
	"github.com/akira-dev/gif-bed/database/models"
	"github.com/akira-dev/gif-bed/database/repo/accounts"
	authsvc "github.com/akira-dev/gif-bed/internal/auth"
)

// Handler 账号相关接口
type Handler struct {
	loginService *authsvc.LoginService
}

// NewHandler 创建账号处理器
func NewHandler(loginService *authsvc.LoginService) *Handler {
	return &Handler{loginService: loginService}
}

type registerRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Name     string `json:"name" binding:"required"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// userView 对外的用户形态，密码散列不出网
type userView struct {
	ID    uint   `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

func newUserView(user *models.User) userView {
	return userView{ID: user.ID, Email: user.Email, Name: user.Name}
}

// Register 注册新用户
func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.loginService.Register(strings.ToLower(req.Email), req.Password, req.Name)
	if err != nil {
		if errors.Is(err, accounts.ErrEmailTaken) {
			common.RespondError(c, http.StatusBadRequest, "Email already registered")
			return
		}
		log.Printf("[Auth] Register failed: %v", err)
		common.RespondError(c, http.StatusInternalServerError, "Failed to register")
		return
	}

	common.RespondCreated(c, newUserView(user))
}

// Login 登录并签发会话令牌
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.loginService.Login(strings.ToLower(req.Email), req.Password)
	if err != nil {
		if errors.Is(err, authsvc.ErrInvalidCredentials) {
			common.RespondError(c, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		log.Printf("[Auth] Login failed: %v", err)
		common.RespondError(c, http.StatusInternalServerError, "Failed to login")
		return
	}

	common.RespondSuccess(c, gin.H{
		"token":     result.Token,
		"expiresAt": result.ExpiresAt,
		"user":      newUserView(result.User),
	})
}

// Logout 删除当前会话
func (h *Handler) Logout(c *gin.Context) {
	authHeader := c.GetHeader("Authorization")
	token := ""
	if parts := strings.SplitN(authHeader, " ", 2); len(parts) == 2 {
		token = strings.TrimSpace(parts[1])
	}

	if err := h.loginService.Logout(token); err != nil {
		log.Printf("[Auth] Logout failed: %v", err)
		common.RespondError(c, http.StatusInternalServerError, "Failed to logout")
		return
	}

	common.RespondSuccessMessage(c, "Logged out", nil)
}

// Me 返回当前登录用户
func (h *Handler) Me(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		common.RespondError(c, http.StatusUnauthorized, "Authentication required")
		return
	}
	common.RespondSuccess(c, newUserView(user))
}
