package identity

import "fmt"

// ErrorCode: 인증 흐름에서 발생하는 오류 코드
type ErrorCode string

const (
	CodeInvalidInput  ErrorCode = "INVALID_INPUT"
	CodeStateMismatch ErrorCode = "STATE_MISMATCH"
	CodeUnauthorized  ErrorCode = "UNAUTHORIZED"
	CodeProvider      ErrorCode = "PROVIDER_ERROR"
	CodeInternal      ErrorCode = "INTERNAL_ERROR"
)

// Error: 서비스 레벨 에러 (HTTP 레이어에서 status/code로 매핑)
type Error struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err == nil && e.Message == "" {
		return fmt.Sprintf("identity error code=%s", e.Code)
	}
	if e.Err == nil {
		return fmt.Sprintf("identity error code=%s: %s", e.Code, e.Message)
	}
	if e.Message == "" {
		return fmt.Sprintf("identity error code=%s: %v", e.Code, e.Err)
	}
	return fmt.Sprintf("identity error code=%s: %s: %v", e.Code, e.Message, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func newError(code ErrorCode, message string, err error) *Error {
	return &Error{Code: code, Message: message, Err: err}
}
