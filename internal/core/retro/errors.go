package retro

import "errors"

var (
	// ErrConfig marks invalid run configuration. Fatal before any external call.
	ErrConfig = errors.New("invalid configuration")

	// ErrFormat marks a board description that is not a retro record.
	ErrFormat = errors.New("not a valid retro body")

	// ErrTemplate marks a template that failed to parse or render.
	ErrTemplate = errors.New("template error")
)
