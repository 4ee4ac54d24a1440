package types

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrNotFound 订单或交易号不存在
var ErrNotFound = errors.New("record not found")

// ValidationError 必填字段缺失，提交者可见
type ValidationError struct {
	Errors map[string][]string
}

// Error 实现 error 接口
func (v *ValidationError) Error() string {
	fields := make([]string, 0, len(v.Errors))
	for field := range v.Errors {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return fmt.Sprintf("validation failed: %s", strings.Join(fields, ", "))
}

// NewMissingFieldsError 由缺失字段列表构造 ValidationError
func NewMissingFieldsError(fields []string) *ValidationError {
	errs := make(map[string][]string, len(fields))
	for _, f := range fields {
		errs[f] = append(errs[f], fmt.Sprintf("The %s field is required", f))
	}
	return &ValidationError{Errors: errs}
}

// BackendError 存储或网络故障，提示用户重试
type BackendError struct {
	Op  string
	Err error
}

// Error 实现 error 接口
func (b *BackendError) Error() string {
	return fmt.Sprintf("%s: %v", b.Op, b.Err)
}

// Unwrap 支持 errors.Is / errors.As
func (b *BackendError) Unwrap() error {
	return b.Err
}

// NotFound 包装 ErrNotFound 并附带上下文
func NotFound(format string, args ...interface{}) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrNotFound)
}

// IsNotFound 判断是否为不存在错误
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
