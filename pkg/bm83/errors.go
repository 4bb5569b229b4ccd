package bm83

import (
	"errors"
	"fmt"
)

var (
	// ErrFrameTooLarge indicates params longer than MaxParamsLen.
	ErrFrameTooLarge = errors.New("frame too large")
	// ErrNoPort indicates the link has no port attached.
	ErrNoPort = errors.New("no port")
)

// WriteError wraps a failed write of a command.
type WriteError struct {
	Op  byte
	Err error
}

// Error implements error.
func (e *WriteError) Error() string {
	return fmt.Sprintf("write op 0x%02X: %v", e.Op, e.Err)
}
