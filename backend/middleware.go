package backend

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"netcafe/models"
)

const claimsKey = "backend.claims"

// AuthMiddleware requires a valid bearer token.
func AuthMiddleware(tokens *Tokens) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := bearer(c, tokens)
		if !ok {
			fail(c, http.StatusUnauthorized, "Phiên đăng nhập không hợp lệ hoặc đã hết hạn")
			return
		}
		c.Set(claimsKey, claims)
		c.Next()
	}
}

// OptionalAuth records the caller's claims when a valid token is present.
func OptionalAuth(tokens *Tokens) gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, ok := bearer(c, tokens); ok {
			c.Set(claimsKey, claims)
		}
		c.Next()
	}
}

func bearer(c *gin.Context, tokens *Tokens) (*TokenClaims, bool) {
	header := c.GetHeader("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return nil, false
	}
	claims, err := tokens.Validate(strings.TrimSpace(parts[1]))
	if err != nil {
		return nil, false
	}
	return claims, true
}

// AdminRequired must run after AuthMiddleware.
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := caller(c)
		if claims == nil || claims.Role != models.RoleAdmin {
			fail(c, http.StatusForbidden, ErrForbidden.Error())
			return
		}
		c.Next()
	}
}

func caller(c *gin.Context) *TokenClaims {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*TokenClaims)
	return claims
}

// selfOrAdmin aborts unless the caller is userID or an admin.
func selfOrAdmin(c *gin.Context, userID uint) bool {
	claims := caller(c)
	if claims != nil && (claims.UserID == userID || claims.Role == models.RoleAdmin) {
		return true
	}
	fail(c, http.StatusForbidden, ErrForbidden.Error())
	return false
}
