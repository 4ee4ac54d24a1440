// Package middlewares 存放系统中间件
package middlewares

import (
	"time"

	"ecell/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Logger 记录请求日志，请求体可能包含个人信息，不写入日志
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		cost := time.Since(start)

		fields := []zap.Field{
			zap.Int("status", c.Writer.Status()),
			zap.String("method", c.Request.Method),
			zap.String("url", c.Request.URL.Path),
			zap.String("ip", c.ClientIP()),
			zap.String("user-agent", c.Request.UserAgent()),
			zap.String("time", cost.String()),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.ByType(gin.ErrorTypePrivate).String()))
		}

		switch status := c.Writer.Status(); {
		case status >= 500:
			logger.Error("HTTP Error "+c.Request.Method, fields...)
		case status >= 400:
			logger.Warn("HTTP Warning "+c.Request.Method, fields...)
		default:
			logger.Debug("HTTP Access Log", fields...)
		}
	}
}
