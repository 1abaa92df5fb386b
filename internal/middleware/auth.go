package middleware

import (
	"net/http"
	"strings"

	"domainhub/internal/database"
	"domainhub/internal/models"
	"domainhub/internal/response"

	"github.com/gin-gonic/gin"
)

// UserAuthMiddleware 用户令牌认证，通过后在上下文写入 user_id 与 user
func UserAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader("Authorization")
		token = strings.TrimPrefix(token, "Bearer ")

		// 支付回调跳转等场景允许query传递
		if token == "" {
			token = c.Query("api_token")
		}

		if token == "" {
			response.Error(c, http.StatusUnauthorized, response.CodeBadParams, "缺少认证令牌")
			c.Abort()
			return
		}

		user, err := database.GetUserByToken(token)
		if err != nil {
			response.Error(c, http.StatusUnauthorized, response.CodeBadParams, "认证令牌无效")
			c.Abort()
			return
		}

		c.Set("user_id", user.ID)
		c.Set("user", user)
		c.Next()
	}
}

// AdminAuthMiddleware 管理员校验，必须在 UserAuthMiddleware 之后
func AdminAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		value, exists := c.Get("user")
		user, ok := value.(*models.User)
		if !exists || !ok || !user.IsAdmin {
			response.Error(c, http.StatusForbidden, response.CodeBadParams, "需要管理员权限")
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentUserID 从上下文取当前用户ID
func CurrentUserID(c *gin.Context) uint {
	return c.GetUint("user_id")
}
