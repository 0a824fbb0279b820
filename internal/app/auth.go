package app

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const currentUserKey = "currentUser"

// issueToken signs an HMAC session token carrying the user id.
func (a *App) issueToken(user *User) (string, error) {
	now := a.Now().UTC()
	claims := jwt.RegisteredClaims{
		Subject:   user.ID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(a.TokenTTL)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(a.JWTSecret))
}

// userFromToken parses a bearer token and resolves the account.
func (a *App) userFromToken(ctx context.Context, tokenStr string) (*User, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &jwt.RegisteredClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenMalformed
		}
		return []byte(a.JWTSecret), nil
	}, jwt.WithLeeway(5*time.Second), jwt.WithTimeFunc(a.Now))
	if err != nil {
		return nil, err
	}
	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return nil, jwt.ErrTokenInvalidClaims
	}
	user, err := a.Store.GetUserByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, ErrNoRecord) {
			return nil, jwt.ErrTokenInvalidClaims
		}
		return nil, err
	}
	return user, nil
}

func bearerToken(c *gin.Context) (string, bool) {
	auth := c.GetHeader("Authorization")
	if auth == "" {
		return "", false
	}
	parts := strings.Fields(auth)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

// AuthMiddleware resolves the current user from the Authorization
// header and aborts unauthenticated requests.
func (a *App) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authorization"})
			return
		}
		user, err := a.userFromToken(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		c.Set(currentUserKey, user)
		c.Next()
	}
}

// OptionalAuthMiddleware resolves the current user when a valid token
// is present and lets anonymous requests through.
func (a *App) OptionalAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, ok := bearerToken(c); ok {
			if user, err := a.userFromToken(c.Request.Context(), token); err == nil {
				c.Set(currentUserKey, user)
			}
		}
		c.Next()
	}
}

// currentUser returns the authenticated user set by AuthMiddleware.
func currentUser(c *gin.Context) *User {
	v, ok := c.Get(currentUserKey)
	if !ok {
		return nil
	}
	user, _ := v.(*User)
	return user
}
