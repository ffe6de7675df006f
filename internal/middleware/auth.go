package middleware

import (
	"net/http"
	"strings"

	auth "linkwrap-platform/pkg/jwt"

	"github.com/gin-gonic/gin"
)

// ContextUserID 认证通过后写入上下文的用户 ID
const ContextUserID = "user_id"

// OptionalAuth 可选认证: 没有 Authorization 头按匿名处理,
// 带了但无效直接返回 401
func OptionalAuth(tokenManager *auth.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		// 提取Bearer token
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "认证格式错误"})
			c.Abort()
			return
		}

		claims, err := tokenManager.ValidateToken(strings.TrimSpace(parts[1]))
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "无效的认证令牌"})
			c.Abort()
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Next()
	}
}

// UserID 取当前用户, 匿名时返回空串
func UserID(c *gin.Context) string {
	return c.GetString(ContextUserID)
}
