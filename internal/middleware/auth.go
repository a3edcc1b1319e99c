package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// Context keys set by the auth middleware.
const (
	UserIDKey  = "userID"
	IsAdminKey = "isAdmin"
)

const tokenTTL = 30 * 24 * time.Hour

// IssueToken creates a signed JWT for the given account.
func IssueToken(secret string, userID int64, isAdmin bool) (string, error) {
	claims := jwt.MapClaims{
		"sub":   userID,
		"admin": isAdmin,
		"iat":   time.Now().Unix(),
		"exp":   time.Now().Add(tokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// RequireAuth validates a Bearer JWT and injects the user's ID and
// admin flag into the gin context. Requests without a valid token are
// rejected.
func RequireAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, isAdmin, ok := parseBearer(c, secret)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or missing token"})
			return
		}
		c.Set(UserIDKey, userID)
		c.Set(IsAdminKey, isAdmin)
		c.Next()
	}
}

// OptionalAuth injects claims when a valid token is present and lets
// anonymous requests through untouched. Listings use it to decorate
// per-viewer data without demanding a login.
func OptionalAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID, isAdmin, ok := parseBearer(c, secret); ok {
			c.Set(UserIDKey, userID)
			c.Set(IsAdminKey, isAdmin)
		}
		c.Next()
	}
}

// RequireAdmin must run after RequireAuth; it rejects non-admin users.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !c.GetBool(IsAdminKey) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin access required"})
			return
		}
		c.Next()
	}
}

// UserID returns the authenticated user's ID, or 0 for anonymous
// requests.
func UserID(c *gin.Context) int64 {
	return c.GetInt64(UserIDKey)
}

func parseBearer(c *gin.Context, secret string) (int64, bool, bool) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return 0, false, false
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return 0, false, false
	}

	token, err := jwt.Parse(parts[1], func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return 0, false, false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, false, false
	}

	// JSON numbers decode as float64.
	sub, ok := claims["sub"].(float64)
	if !ok {
		return 0, false, false
	}
	isAdmin, _ := claims["admin"].(bool)

	return int64(sub), isAdmin, true
}
