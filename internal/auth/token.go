package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jonboulle/clockwork"
	"github.com/pkg/errors"
)

type TokenType string

const (
	TokenTypeUndefined TokenType = ""
	TokenTypeUser      TokenType = "user"
	TokenTypeAdmin     TokenType = "admin"
)

const issuer = "parakram-backend"

func ParseTokenType(s string) (TokenType, error) {
	switch t := TokenType(s); t {
	case TokenTypeUser, TokenTypeAdmin:
		return t, nil
	}
	return TokenTypeUndefined, errors.Wrap(ErrUnknownTokenType, s)
}

type TokenClaims struct {
	Type TokenType `json:"type"`
	jwt.RegisteredClaims
}

// Issuer signs and verifies HS256 access tokens.
type Issuer struct {
	secret []byte
	clock  clockwork.Clock
}

func NewIssuer(secret string, clock clockwork.Clock) (*Issuer, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Issuer{secret: []byte(secret), clock: clock}, nil
}

func (i *Issuer) GenerateToken(tokenType TokenType, dur time.Duration) (string, error) {
	now := i.clock.Now()
	claims := TokenClaims{
		Type: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			ExpiresAt: jwt.NewNumericDate(now.Add(dur)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", errors.Wrap(err, "sign token")
	}
	return signed, nil
}

func (i *Issuer) VerifyToken(tokenString string) (*TokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &TokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			alg, _ := token.Header["alg"].(string)
			return nil, errors.Wrap(ErrInvalidSigningMethod, alg)
		}
		return i.secret, nil
	}, jwt.WithTimeFunc(i.clock.Now), jwt.WithIssuer(issuer))

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*TokenClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, ErrInvalidToken
}

func (i *Issuer) IsValidToken(tokenString string) (TokenType, bool) {
	claims, err := i.VerifyToken(tokenString)
	if err != nil {
		return TokenTypeUndefined, false
	}
	return claims.Type, true
}
