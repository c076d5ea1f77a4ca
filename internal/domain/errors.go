package domain

import "errors"

var (
	ErrNotFound   = errors.New("not found")
	ErrInvalidKey = errors.New("invalid visit key")
)
