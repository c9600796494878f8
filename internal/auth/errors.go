package auth

import "errors"

var (
	// ErrMissingEmail is returned when Google's profile has no email address
	ErrMissingEmail = errors.New("google profile has no email")

	// ErrUserInfoFailed is returned when the userinfo endpoint rejects the token
	ErrUserInfoFailed = errors.New("failed to fetch google user info")
)
