package errors

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrInvalid            = errors.New("invalid")
	ErrConflict           = errors.New("conflict")
	ErrInternal           = errors.New("internal")
	ErrUnsupportedFormat  = errors.New("unsupported document format")
	ErrParse              = errors.New("document parse failed")
	ErrIndexUnavailable   = errors.New("vector index unavailable")
	ErrEmptyKnowledgeBase = errors.New("knowledge base is empty")
	ErrContextTooLarge    = errors.New("context too large")
	ErrExternalService    = errors.New("external service failed")
)

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}
