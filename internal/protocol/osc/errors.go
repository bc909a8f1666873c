package osc

import "errors"

var (
	ErrTruncated       = errors.New("osc: truncated datagram")
	ErrNullString      = errors.New("osc: string cannot begin with a null byte")
	ErrNotMessage      = errors.New("osc: address path must begin with '/'")
	ErrInvalidUTF8     = errors.New("osc: string is not valid utf-8")
	ErrEmbeddedNull    = errors.New("osc: string contains a null byte")
	ErrUnsupportedType = errors.New("osc: unsupported argument type")
	ErrArgumentIndex   = errors.New("osc: argument index out of range")
	ErrArgumentType    = errors.New("osc: argument type mismatch")
)
