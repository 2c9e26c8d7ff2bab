package response

// AppError 统一错误包装
type AppError struct {
	Code    int
	Message string
	Reason  string // 抽奖拒绝原因码，如 TOKEN_USED
	Err     error
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Data 返回写入响应 data 的附加字段
func (e *AppError) Data() interface{} {
	if e == nil || e.Reason == "" {
		return nil
	}
	return map[string]interface{}{"reason": e.Reason}
}

// WrapError 包装错误
func WrapError(code int, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// NewRejection 创建带原因码的业务拒绝
func NewRejection(code int, message, reason string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Reason:  reason,
	}
}
