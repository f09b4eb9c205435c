package generator

import "errors"

var (
	ErrUpstream     = errors.New("upstream model failure")
	ErrInvalidJSON  = errors.New("model returned invalid JSON")
	ErrInvalidShape = errors.New("model output does not match the vocabulary shape")
)
