package errcode

const (
	ErrUnknown = 10000000 + iota
	ErrNotFound
	ErrInvalid
	ErrConflict
	ErrInternal
	ErrInvalidFile
	ErrUnsupportedFormat
	ErrParseFailed
	ErrIndexUnavailable
	ErrEmptyKnowledgeBase
	ErrContextTooLarge
	ErrAIUnavailable
	ErrUploadFailed
)
