package jwtmw

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// ContextAccountID is the gin context key holding the authenticated uuid.UUID.
	ContextAccountID = "accountID"
	// ContextAccessToken is the gin context key holding the raw bearer token.
	ContextAccessToken = "accessToken"

	// queryAccessToken is the query parameter accepted in place of the Authorization header.
	queryAccessToken = "access_token"
)

// Decoder verifies a token and returns its identity key.
type Decoder interface {
	Decode(tokenStr string) (uuid.UUID, error)
}

// AuthRequired returns a Gin middleware that authenticates the request with a bearer token.
// The token is read from the Authorization header, falling back to the access_token query parameter.
func AuthRequired(decoder Decoder) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, ok := BearerToken(c)
		if !ok {
			abort(c, http.StatusUnauthorized, "missing bearer token")
			return
		}

		accountID, err := decoder.Decode(tokenStr)
		if err != nil {
			switch {
			case errors.Is(err, ErrTokenExpired):
				abort(c, http.StatusRequestTimeout, "session expired")
			case errors.Is(err, ErrTokenMalformed):
				abort(c, http.StatusUnprocessableEntity, "malformed token")
			default:
				abort(c, http.StatusUnauthorized, "invalid token")
			}
			return
		}

		c.Set(ContextAccountID, accountID)
		c.Set(ContextAccessToken, tokenStr)
		c.Next()
	}
}

// BearerToken extracts the token from "Authorization: Bearer <token>" or the access_token query parameter.
func BearerToken(c *gin.Context) (string, bool) {
	if auth := c.GetHeader("Authorization"); auth != "" {
		if !strings.HasPrefix(auth, "Bearer ") {
			return "", false
		}
		tokenStr := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
		return tokenStr, tokenStr != ""
	}
	tokenStr := c.Query(queryAccessToken)
	return tokenStr, tokenStr != ""
}

// AccountID returns the identity key set by AuthRequired.
func AccountID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(ContextAccountID)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}

func abort(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"status_code": status, "message": message})
}
