package cache

import "errors"

var (
	// ErrCreateFailed wraps errors returned by a GetOrCreate factory.
	ErrCreateFailed = errors.New("cache: create failed")
	// ErrTypeMismatch indicates a key stored with a different object type.
	ErrTypeMismatch = errors.New("cache: stored type mismatch")
)
