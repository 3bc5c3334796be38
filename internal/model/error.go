// internal/model/error.go
package model

import "errors"

// アプリケーション固有のエラー
var (
	ErrNotFound       = errors.New("resource not found")
	ErrInvalidInput   = errors.New("invalid input")
	ErrInternalServer = errors.New("internal server error")
	ErrForbidden      = errors.New("forbidden")
	ErrTenantNotFound = errors.New("Tenant not found")
	ErrConflict       = errors.New("resource conflict") // 重複エラー用
	ErrPrecondition   = errors.New("prerequisite not satisfied")
)

// ErrorDetail はエラーレスポンスの詳細部です。
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// APIErrorResponse はAPIエラーレスポンスの構造体
type APIErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// AppError はエラーコードと詳細を保持するカスタムエラー型です。
// errors.Is / errors.As で根本原因 (ラップされたセンチネルエラー) を判定できます。
type AppError struct {
	Detail ErrorDetail
	err    error
}

func NewAppError(code, message, field string, wrapped error) *AppError {
	return &AppError{
		Detail: ErrorDetail{Code: code, Message: message, Field: field},
		err:    wrapped,
	}
}

func (e *AppError) Error() string {
	if e.Detail.Message != "" {
		return e.Detail.Message
	}
	return e.err.Error()
}

func (e *AppError) Unwrap() error {
	return e.err
}
