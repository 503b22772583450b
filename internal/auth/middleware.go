package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// CookieName is the cookie the login endpoint sets.
const CookieName = "authToken"

const claimsKey = "claims"

// Verifier checks a raw token.
type Verifier interface {
	Verify(ctx context.Context, token string) (Claims, error)
}

// BearerToken returns the token from an "Authorization: Bearer" header.
func BearerToken(c *gin.Context) string {
	authz := c.GetHeader("Authorization")
	if authz == "" || !strings.HasPrefix(strings.ToLower(authz), "bearer ") {
		return ""
	}
	return strings.TrimSpace(authz[len("bearer "):])
}

// RequestToken returns the bearer token, falling back to the auth cookie.
func RequestToken(c *gin.Context) string {
	if tok := BearerToken(c); tok != "" {
		return tok
	}
	tok, _ := c.Cookie(CookieName)
	return tok
}

// ClaimsFrom returns the claims attached by CookieAuth, Identify or RequireRole.
func ClaimsFrom(c *gin.Context) (Claims, bool) {
	v, ok := c.Get(claimsKey)
	if !ok {
		return Claims{}, false
	}
	claims, ok := v.(Claims)
	return claims, ok
}

// CookieAuth enforces a valid token in the auth cookie.
func CookieAuth(v Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		tok, err := c.Cookie(CookieName)
		if err != nil || tok == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized: No token provided"})
			return
		}
		claims, err := v.Verify(c.Request.Context(), tok)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Forbidden: Invalid token"})
			return
		}
		c.Set(claimsKey, claims)
		c.Next()
	}
}

// Identify attaches claims when the request carries a valid token and lets
// every request through.
func Identify(v Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tok := RequestToken(c); tok != "" {
			if claims, err := v.Verify(c.Request.Context(), tok); err == nil {
				c.Set(claimsKey, claims)
			}
		}
		c.Next()
	}
}

// RequireRole rejects requests whose token role is not listed. An empty list
// accepts any authenticated role. When enforce is false the check is skipped.
func RequireRole(enforce bool, v Verifier, roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !enforce {
			c.Next()
			return
		}
		claims, ok := ClaimsFrom(c)
		if !ok {
			tok := RequestToken(c)
			if tok == "" {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized: No token provided"})
				return
			}
			var err error
			claims, err = v.Verify(c.Request.Context(), tok)
			if err != nil {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized: Invalid token"})
				return
			}
			c.Set(claimsKey, claims)
		}
		if len(roles) > 0 && !hasRole(roles, claims.Role) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Forbidden: insufficient role"})
			return
		}
		c.Next()
	}
}

func hasRole(roles []string, role string) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}
