// Package middleware provides HTTP middleware for extracting the
// caller's role and identity from bearer tokens.
package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/jonathan/staffing-console/internal/types"
)

// ContextKey is a typed key for context values to avoid collisions.
type ContextKey string

// callerKey is the context key for storing the authenticated caller.
const callerKey ContextKey = "caller"

// Caller is the authenticated identity attached to a request: who is
// acting and in which role. The role string has already been mapped
// through types.ParseRole, so unknown roles arrive as types.RoleDefault.
type Caller struct {
	EmployeeID uuid.UUID
	Role       types.Role
}

// TokenValidator is an interface for validating bearer tokens.
// This allows the middleware to work with any JWT service implementation.
type TokenValidator interface {
	ValidateToken(tokenString string) (CallerGetter, error)
}

// CallerGetter is an interface for extracting the caller from token
// claims.
type CallerGetter interface {
	GetCaller() Caller
}

// AuthMiddleware creates middleware that validates bearer tokens and adds
// the caller to the request context.
func AuthMiddleware(validator TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			// Handle case-insensitive "Bearer" prefix
			parts := strings.Fields(authHeader)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			tokenString := strings.TrimSpace(parts[1])
			if tokenString == "" {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			claims, err := validator.ValidateToken(tokenString)
			if err != nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), callerKey, claims.GetCaller())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetCaller extracts the authenticated caller from the request context.
func GetCaller(r *http.Request) (Caller, error) {
	caller, ok := r.Context().Value(callerKey).(Caller)
	if !ok {
		return Caller{}, fmt.Errorf("caller not found in request context")
	}
	return caller, nil
}
