package httpgin

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const RoleAdmin = "admin"

const (
	ctxAttendeeID = "attendee_id"
	ctxRole       = "role"
	ctxEmail      = "email"
)

// AccessClaims is the bearer token payload issued by the identity
// provider. Subject carries the attendee ID as a decimal string.
type AccessClaims struct {
	jwt.RegisteredClaims
	Role  string `json:"role,omitempty"`
	Email string `json:"email,omitempty"`
}

// AuthMiddleware validates the Authorization bearer token (HS256) and
// puts the attendee ID, role and email claims on the request context.
func AuthMiddleware(secret string) gin.HandlerFunc {
	key := []byte(secret)

	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") {
			unauthorized(c, "missing bearer token")
			return
		}

		claims := &AccessClaims{}
		tok, err := jwt.ParseWithClaims(
			strings.TrimPrefix(auth, "Bearer "),
			claims,
			func(t *jwt.Token) (any, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, errors.New("unexpected signing method")
				}
				return key, nil
			},
		)
		if err != nil || !tok.Valid {
			unauthorized(c, "invalid or expired token")
			return
		}

		attendeeID, err := strconv.ParseInt(claims.Subject, 10, 64)
		if err != nil {
			unauthorized(c, "invalid subject claim")
			return
		}

		c.Set(ctxAttendeeID, attendeeID)
		c.Set(ctxRole, claims.Role)
		c.Set(ctxEmail, claims.Email)

		c.Next()
	}
}

// RequireRole rejects callers whose role claim differs from role.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(ctxRole) != role {
			c.AbortWithStatusJSON(
				http.StatusForbidden,
				ErrorResponse{Error: "insufficient role"},
			)
			return
		}

		c.Next()
	}
}

func currentAttendeeID(c *gin.Context) int64 {
	return c.GetInt64(ctxAttendeeID)
}

func unauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: msg})
}
