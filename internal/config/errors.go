package config

import "errors"

// ErrInvalidConfig marks a setting that fails validation. ErrLoadConfig marks
// an unreadable file or environment. Messages wrapping either name the key,
// never its value.
var (
	ErrInvalidConfig = errors.New("invalid config")
	ErrLoadConfig    = errors.New("load config failed")
)
