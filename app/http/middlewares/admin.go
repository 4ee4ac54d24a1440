package middlewares

import (
	"errors"

	"ecell/pkg/auth"
	"ecell/pkg/logger"
	"ecell/pkg/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AdminEmailKey 上下文中管理员邮箱的键
const AdminEmailKey = "admin_email"

// AdminAuth 校验管理端 Bearer 令牌，secret 为空时接口关闭
func AdminAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			response.Abort403(c, "Payment verification is disabled")
			return
		}

		token := auth.BearerToken(c.GetHeader("Authorization"))
		if token == "" {
			response.Abort401(c)
			return
		}

		claims, err := auth.ParseAdminToken(secret, token)
		if err != nil {
			logger.Warn("AdminAuth", zap.String("ip", c.ClientIP()), zap.Error(err))
			if errors.Is(err, auth.ErrForbidden) {
				response.Abort403(c)
				return
			}
			response.Abort401(c, "Invalid or expired token")
			return
		}

		c.Set(AdminEmailKey, claims.Email)
		c.Next()
	}
}
