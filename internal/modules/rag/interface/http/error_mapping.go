package http

import (
	"errors"

	"WebMind/internal/modules/rag/domain/rag"
	"WebMind/pkg/xerr"
)

// mapDomainError 把领域错误类别翻译成统一错误码，交给 back.Result 渲染
//
// 已是 CodeError 的原样透传；未知错误落到系统错误。
func mapDomainError(err error) error {
	if err == nil {
		return nil
	}

	var ce *xerr.CodeError
	if errors.As(err, &ce) {
		return err
	}

	var de *rag.Error
	if !errors.As(err, &de) {
		return err
	}

	switch de.Kind {
	case rag.ErrKindNotFound:
		return xerr.New(xerr.NotFound, de.Message)
	case rag.ErrKindConfiguration, rag.ErrKindEmptyInput:
		return xerr.New(xerr.BadRequest, de.Message)
	case rag.ErrKindUnavailable:
		return xerr.New(xerr.ServiceUnavailable, de.Message)
	default:
		return xerr.New(xerr.InternalServerError, de.Message)
	}
}
