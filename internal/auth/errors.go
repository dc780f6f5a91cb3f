package auth

import "github.com/pkg/errors"

var (
	ErrInvalidToken         = errors.New("invalid token")
	ErrInvalidSigningMethod = errors.New("invalid signing method")
	ErrUnknownTokenType     = errors.New("unknown token type")
	ErrEmptySecret          = errors.New("token secret is empty")
)
