package rag

import (
	"errors"
	"fmt"
)

// ErrKind 摄取/查询链路的错误类别，作为显式返回值传播
type ErrKind int

const (
	ErrKindUnknown ErrKind = iota
	ErrKindFetch
	ErrKindUnsupportedContent
	ErrKindExtraction
	ErrKindConfiguration
	ErrKindEmptyInput
	ErrKindIndex
	ErrKindUnavailable
	ErrKindNotFound
)

func (k ErrKind) String() string {
	switch k {
	case ErrKindFetch:
		return "fetch_error"
	case ErrKindUnsupportedContent:
		return "unsupported_content"
	case ErrKindExtraction:
		return "extraction_error"
	case ErrKindConfiguration:
		return "configuration_error"
	case ErrKindEmptyInput:
		return "empty_input"
	case ErrKindIndex:
		return "index_error"
	case ErrKindUnavailable:
		return "unavailable"
	case ErrKindNotFound:
		return "not_found"
	}
	return "unknown"
}

// Error 带类别的领域错误
type Error struct {
	Kind    ErrKind
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

func NewError(kind ErrKind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

func NewErrorf(kind ErrKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func WrapError(kind ErrKind, msg string, cause error) *Error {
	return &Error{Kind: kind, Message: msg, cause: cause}
}

// KindOf 提取错误类别；非领域错误返回 ErrKindUnknown
func KindOf(err error) ErrKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ErrKindUnknown
}

// IsKind 判断错误（含包装链）是否属于指定类别
func IsKind(err error, kind ErrKind) bool {
	return KindOf(err) == kind
}
