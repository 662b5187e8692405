package model

import "errors"

// ErrUnknownParam indicates a rate name that RateParameters does not carry.
var ErrUnknownParam = errors.New("model: unknown parameter")
