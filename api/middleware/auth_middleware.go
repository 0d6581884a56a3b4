package middleware

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/akira-dev/gif-bed/api/common"
	"github.com/akira-dev/gif-bed/database/models"
	"github.com/akira-dev/gif-bed/internal/auth"
)

const (
	ContextUserIDKey = "user_id"
	ContextUserKey   = "current_user"
)

// AuthMiddleware 会话认证中间件，认证器通过构造函数显式注入
type AuthMiddleware struct {
	authenticator *auth.Authenticator
}

// NewAuthMiddleware 创建认证中间件
func NewAuthMiddleware(authenticator *auth.Authenticator) *AuthMiddleware {
	return &AuthMiddleware{authenticator: authenticator}
}

// Required 强制认证，失败时中断请求
func (m *AuthMiddleware) Required() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractBearerToken(c)
		result, err := m.authenticator.Authenticate(token)
		if err != nil {
			status, message := mapAuthError(err)
			common.RespondError(c, status, message)
			c.Abort()
			return
		}

		c.Set(ContextUserIDKey, result.User.ID)
		c.Set(ContextUserKey, result.User)
		c.Next()
	}
}

// Optional 可选认证：令牌有效就附上用户，无效或缺失按匿名放行
func (m *AuthMiddleware) Optional() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractBearerToken(c)
		if token == "" {
			c.Next()
			return
		}

		result, err := m.authenticator.Authenticate(token)
		if err != nil {
			c.Next()
			return
		}

		c.Set(ContextUserIDKey, result.User.ID)
		c.Set(ContextUserKey, result.User)
		c.Next()
	}
}

// extractBearerToken 解析 Authorization: Bearer 头，无令牌返回空串
func extractBearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// mapAuthError 错误种类到状态码与对外文案的映射
func mapAuthError(err error) (int, string) {
	switch {
	case errors.Is(err, auth.ErrNoToken):
		return http.StatusUnauthorized, "Authentication required"
	case errors.Is(err, auth.ErrInvalidSession):
		return http.StatusUnauthorized, "Invalid or expired session"
	case errors.Is(err, auth.ErrUserMissing):
		return http.StatusUnauthorized, "User not found"
	default:
		log.Printf("[Auth] Unexpected authentication error: %v", err)
		return http.StatusInternalServerError, "Authentication failed"
	}
}

// CurrentUserID 从上下文取当前用户 ID，未认证返回 0
func CurrentUserID(c *gin.Context) uint {
	if v, ok := c.Get(ContextUserIDKey); ok {
		if id, ok := v.(uint); ok {
			return id
		}
	}
	return 0
}

// CurrentUser 从上下文取当前用户，未认证返回 nil
func CurrentUser(c *gin.Context) *models.User {
	if v, ok := c.Get(ContextUserKey); ok {
		if user, ok := v.(*models.User); ok {
			return user
		}
	}
	return nil
}
