package domain

import "errors"

var (
	ErrJobNotFound   = errors.New("job not found")
	ErrDuplicateJob  = errors.New("duplicate job")
	ErrInvalidParams = errors.New("invalid params")
)
