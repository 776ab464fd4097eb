package internaltypes

import "errors"

var (
	ErrNotFound        = errors.New("not found")
	ErrSessionClosed   = errors.New("session closed")
	ErrDraftIncomplete = errors.New("order draft is incomplete")
	ErrDraftSubmitted  = errors.New("order draft already submitted")
)
