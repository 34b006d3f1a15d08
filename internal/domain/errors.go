package domain

import "errors"

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrChatNotFound      = errors.New("chat not found")
	ErrMalformedCommand  = errors.New("malformed command")
	ErrUnknownCommand    = errors.New("unknown command")
	ErrInvalidBucketSize = errors.New("bucket count must be positive")
)
