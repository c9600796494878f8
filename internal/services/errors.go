package services

import (
	"errors"
	"fmt"
)

var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrBadRequest      = errors.New("site url is required")
	ErrNoCredential    = errors.New("no google access token stored for user")
	ErrDomainConflict  = errors.New("website is already registered")
)

// UpstreamError reports a failed Search Console call. The message names the
// operation only; tokens never appear in it.
type UpstreamError struct {
	Op  string
	Err error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("search console %s failed: %v", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}
