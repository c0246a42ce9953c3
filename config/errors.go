package config

import "errors"

var (
	// ErrUnsupportedFormat is returned by Load for a file extension it cannot parse.
	ErrUnsupportedFormat = errors.New("config: unsupported format")
	// ErrInvalid is returned when a loaded value is out of range.
	ErrInvalid = errors.New("config: invalid value")
)
