// Package v1 处理业务逻辑, v1 版本的 controller
package v1

import (
	"errors"

	"ecell/app/requests"
	"ecell/pkg/payment/types"
	"ecell/pkg/response"

	"github.com/gin-gonic/gin"
)

// RenderError 将业务错误映射为统一的 HTTP 响应
func RenderError(c *gin.Context, err error) {
	var (
		formErr    requests.ValidationError
		missingErr *types.ValidationError
		backendErr *types.BackendError
	)

	switch {
	case errors.As(err, &formErr):
		response.ValidationError(c, formErr.Errors)
	case errors.As(err, &missingErr):
		response.ValidationError(c, missingErr.Errors)
	case types.IsNotFound(err):
		response.Abort404(c)
	case errors.As(err, &backendErr):
		response.ServerError(c, backendErr)
	default:
		response.ServerError(c, err)
	}
}

// RenderRequestError 请求解析或表单验证失败
func RenderRequestError(c *gin.Context, err error) {
	var formErr requests.ValidationError
	if errors.As(err, &formErr) {
		response.ValidationError(c, formErr.Errors)
		return
	}
	response.BadRequest(c, err)
}
