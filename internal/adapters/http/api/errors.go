package api

import "errors"

// Sentinel kinds for API errors.
var (
	ErrMethodNotAllowed = errors.New("method not allowed")
	ErrUnknownView      = errors.New("unknown view")
	ErrSuperseded       = errors.New("superseded by a newer navigation")
	ErrRender           = errors.New("view could not be assembled")
)
