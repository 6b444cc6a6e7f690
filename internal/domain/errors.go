package domain

import (
	"errors"
	"fmt"
)

// 业务错误分类：transport 层据此映射稳定的业务码，
// 不允许通过解析错误文本来分支。
var (
	ErrNotFound     = errors.New("record not found")
	ErrUnauthorized = errors.New("only the author may modify this resource")
	ErrQueryClosed  = errors.New("query is closed and no longer accepts responses")
	ErrConflict     = errors.New("conflicting concurrent update")
)

// ValidationError 表示调用方输入不合法，修正输入后可重试。
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func Invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
