// Package jwtmw issues and verifies bearer access tokens bound to an account identity key.
package jwtmw

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenType is the token-type label returned with every access token.
const TokenType = "bearer"

var (
	// ErrTokenExpired is returned when the token's expiry instant has passed.
	ErrTokenExpired = errors.New("token has expired")

	// ErrTokenMalformed is returned when the token cannot be parsed or its subject is not an identity key.
	ErrTokenMalformed = errors.New("token is malformed")

	// ErrSignatureInvalid is returned when the signature or signing algorithm does not match.
	ErrSignatureInvalid = errors.New("token signature is invalid")

	// ErrOwnerMismatch is returned when a valid token belongs to a different account.
	ErrOwnerMismatch = errors.New("token does not belong to the account")
)

// Token is a signed access token plus its label and absolute expiry.
type Token struct {
	AccessToken string
	TokenType   string
	ExpiresAt   time.Time
}

// Issuer signs and decodes HS256 access tokens with a process-wide secret.
type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewIssuer creates an Issuer with the given secret and token lifetime.
func NewIssuer(secret string, ttl time.Duration) *Issuer {
	return &Issuer{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Issue returns a token whose subject is accountID and which expires ttl from now.
// The issue time is truncated to whole seconds to match the precision of exp.
func (i *Issuer) Issue(accountID uuid.UUID) (Token, error) {
	now := i.now().Truncate(time.Second)
	claims := jwt.RegisteredClaims{
		Subject:   accountID.String(),
		ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		IssuedAt:  jwt.NewNumericDate(now),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return Token{}, fmt.Errorf("failed to sign token: %w", err)
	}

	return Token{
		AccessToken: signed,
		TokenType:   TokenType,
		ExpiresAt:   claims.ExpiresAt.Time,
	}, nil
}

// Decode verifies the token and returns the identity key it is bound to.
// Only HS256 is accepted and the exp claim is mandatory.
func (i *Issuer) Decode(tokenStr string) (uuid.UUID, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(tokenStr, claims,
		func(*jwt.Token) (interface{}, error) { return i.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return uuid.Nil, ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
			return uuid.Nil, ErrSignatureInvalid
		default:
			return uuid.Nil, fmt.Errorf("%w: %v", ErrTokenMalformed, err)
		}
	}

	accountID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: subject %q is not a valid uuid", ErrTokenMalformed, claims.Subject)
	}
	return accountID, nil
}

// AssertOwner decodes the token and checks that it was issued to expected.
func (i *Issuer) AssertOwner(tokenStr string, expected uuid.UUID) error {
	accountID, err := i.Decode(tokenStr)
	if err != nil {
		return err
	}
	if accountID != expected {
		return ErrOwnerMismatch
	}
	return nil
}
