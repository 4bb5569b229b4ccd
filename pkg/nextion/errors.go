package nextion

import "errors"

var (
	// ErrEmptyFrame indicates a frame without any content.
	ErrEmptyFrame = errors.New("empty frame")
	// ErrNotToken indicates a frame that is not a valid token.
	ErrNotToken = errors.New("not a token")
	// ErrNoPort indicates the link has no port attached.
	ErrNoPort = errors.New("no port")
)
