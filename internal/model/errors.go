package model

import "errors"

var (
	// Store level
	ErrDuplicateUsername = errors.New("username already exists")

	// Token verification
	ErrTokenExpired   = errors.New("token expired")
	ErrTokenMalformed = errors.New("token malformed")
	ErrTokenSignature = errors.New("token signature invalid")
)
