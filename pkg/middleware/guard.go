package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"library_service/pkg/logger"
	"library_service/pkg/models"
)

// Policy is the static permission table, keyed by "METHOD /route/:template".
// A route listed in Anonymous is open to everyone. A route absent from both
// maps is denied.
type Policy struct {
	Anonymous map[string]bool
	Roles     map[string][]models.Role
}

// Allow grants route to the given roles.
func (p *Policy) Allow(method, path string, roles ...models.Role) {
	if p.Roles == nil {
		p.Roles = make(map[string][]models.Role)
	}
	p.Roles[method+" "+path] = roles
}

func (p *Policy) AllowAnonymous(method, path string) {
	if p.Anonymous == nil {
		p.Anonymous = make(map[string]bool)
	}
	p.Anonymous[method+" "+path] = true
}

// Decide returns the status the guard answers with, or 0 when the call may proceed.
func (p *Policy) Decide(route string, principal *Principal) int {
	if p.Anonymous[route] {
		return 0
	}
	roles, known := p.Roles[route]
	if !known {
		return http.StatusForbidden
	}
	if principal == nil {
		return http.StatusUnauthorized
	}
	for _, r := range roles {
		if r == principal.Role {
			return 0
		}
	}
	return http.StatusForbidden
}

// Guard enforces the policy for the matched route. Unmatched paths fall
// through so gin can answer 404.
func Guard(policy *Policy) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.FullPath() == "" {
			c.Next()
			return
		}
		route := c.Request.Method + " " + c.FullPath()
		principal, _ := PrincipalFrom(c)

		switch policy.Decide(route, principal) {
		case 0:
			c.Next()
		case http.StatusUnauthorized:
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "authentication required"})
		default:
			logger.FromContext(c).Warn("Access denied", zap.String("route", route))
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "access denied"})
		}
	}
}
