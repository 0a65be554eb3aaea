package response

import "fmt"

// AppError 业务错误：携带响应码与对外消息，原始错误仅用于日志
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// WrapError 包装为业务错误
func WrapError(code int, message string, err error) *AppError {
	if message == "" {
		message = "internal error"
	}
	return &AppError{Code: code, Message: message, Err: err}
}
