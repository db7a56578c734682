package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"library_service/pkg/jwtutil"
	"library_service/pkg/logger"
	"library_service/pkg/models"
	"library_service/pkg/repository"
)

const principalKey = "principal"

// Principal is the authenticated caller.
type Principal struct {
	UserID uint
	Email  string
	Role   models.Role
}

// AccountFinder loads the account a token was issued for.
type AccountFinder interface {
	FindByID(ctx context.Context, id uint) (*models.User, error)
}

// Authenticate resolves a Bearer token into a Principal. Requests without an
// Authorization header pass through anonymous; the guard decides whether
// that is acceptable for the route. Email and role come from the stored
// account, not the token claims.
func Authenticate(tokens *jwtutil.JWTUtil, accounts AccountFinder) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		log := logger.FromContext(c)
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			log.Warn("Invalid Authorization header format")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "invalid authorization format, expected Bearer token"})
			return
		}

		claims, err := tokens.ValidateToken(parts[1])
		if err != nil {
			log.Warn("Invalid JWT token", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "invalid or expired token"})
			return
		}

		user, err := accounts.FindByID(c.Request.Context(), claims.UserID)
		if errors.Is(err, repository.ErrNotFound) {
			log.Warn("Token for unknown account", zap.Uint("user_id", claims.UserID))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "invalid or expired token"})
			return
		}
		if err != nil {
			log.Error("Failed to load account", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "internal server error"})
			return
		}
		if !user.AccountNonLocked {
			log.Warn("Request from locked account", zap.String("email", user.Email))
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "account is locked"})
			return
		}

		c.Set(principalKey, &Principal{UserID: user.ID, Email: user.Email, Role: user.Role})
		logger.WithLogger(c, log.With(zap.String("principal", user.Email)))
		c.Next()
	}
}

// PrincipalFrom returns the caller set by Authenticate, if any.
func PrincipalFrom(c *gin.Context) (*Principal, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return nil, false
	}
	p, ok := v.(*Principal)
	return p, ok
}
