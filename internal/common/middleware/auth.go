package middleware

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"club-lotto-backend/internal/common/errors"
)

const (
	playerIDKey = "player_id"
	roleKey     = "role"

	// RoleAdmin marks tokens issued to board administrators.
	RoleAdmin = "admin"
	// RolePlayer marks tokens issued to club members.
	RolePlayer = "player"
)

type identityClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Identity parses the bearer token and places the authenticated player identity
// into the request context. Token issuance lives in the identity service; this
// middleware only verifies the signature and trusts the claims.
func Identity(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			AbortWithError(c, errors.NewUnauthorizedError("missing Authorization header"))
			return
		}

		raw, found := strings.CutPrefix(header, "Bearer ")
		if !found {
			AbortWithError(c, errors.NewUnauthorizedError("Authorization header must use Bearer scheme"))
			return
		}

		claims := &identityClaims{}
		token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			AbortWithError(c, errors.NewUnauthorizedError("invalid token"))
			return
		}
		if claims.Subject == "" {
			AbortWithError(c, errors.NewUnauthorizedError("token has no subject"))
			return
		}

		c.Set(playerIDKey, claims.Subject)
		role := claims.Role
		if role == "" {
			role = RolePlayer
		}
		c.Set(roleKey, role)
		c.Next()
	}
}

// RequireAdmin guards admin-only routes. Must run after Identity.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetRole(c) != RoleAdmin {
			AbortWithError(c, errors.NewForbiddenError("admin role required"))
			return
		}
		c.Next()
	}
}

// GetPlayerID returns the authenticated player id, or "" when unauthenticated.
func GetPlayerID(c *gin.Context) string {
	if v, exists := c.Get(playerIDKey); exists {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

// GetRole returns the authenticated role, or "" when unauthenticated.
func GetRole(c *gin.Context) string {
	if v, exists := c.Get(roleKey); exists {
		if role, ok := v.(string); ok {
			return role
		}
	}
	return ""
}
