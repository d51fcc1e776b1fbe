package service

import "errors"

var (
	// ErrUnknownView is returned when a view id is not one of the navigation tabs.
	ErrUnknownView = errors.New("unknown view")

	// ErrStaleActivation is returned for a view result whose activation was
	// superseded before it completed. The result must not be applied.
	ErrStaleActivation = errors.New("stale activation")
)
