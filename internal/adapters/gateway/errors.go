package gateway

import (
	"errors"

	"github.com/okian/govdash/internal/domain/model"
)

// Sentinel kinds for gateway errors.
var (
	// ErrFetch matches every failed fetch.
	ErrFetch = errors.New("fetch failed")

	ErrUnknownKind  = errors.New("unknown record kind")
	ErrUnknownField = errors.New("unknown order field")
	ErrInvalidLimit = errors.New("invalid limit")
	ErrClosed       = errors.New("gateway closed")
)

// FetchError reports that the backend could not return records of Kind.
type FetchError struct {
	Kind model.Kind
	Err  error
}

// Fail wraps err as a FetchError for kind. A nil err stays nil, and an error
// that already is a FetchError is returned unchanged.
func Fail(kind model.Kind, err error) error {
	if err == nil {
		return nil
	}
	var fe *FetchError
	if errors.As(err, &fe) {
		return err
	}
	return &FetchError{Kind: kind, Err: err}
}

func (e *FetchError) Error() string {
	return "fetch " + string(e.Kind) + ": " + e.Err.Error()
}

func (e *FetchError) Unwrap() error { return e.Err }

// Is makes every FetchError match ErrFetch.
func (e *FetchError) Is(target error) bool { return target == ErrFetch }
