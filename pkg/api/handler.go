// Package api is the HTTP surface: a gin router whose routes and role
// permissions are declared together in one table.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"library_service/pkg/jwtutil"
	"library_service/pkg/metrics"
	"library_service/pkg/middleware"
	"library_service/pkg/repository"
	"library_service/pkg/service"
)

// Deps are the collaborators the handlers call into.
type Deps struct {
	Store     repository.Store
	Users     *service.UserService
	Authors   *service.AuthorService
	Books     *service.BookService
	Libraries *service.LibraryService
	Auth      *service.AuthService
	Tokens    *jwtutil.JWTUtil
	Metrics   *metrics.Metrics
	// RateLimiter is optional; nil disables rate limiting.
	RateLimiter *middleware.RateLimiter
}

type Handler struct {
	Deps
}

// principal returns the caller; the guard has already rejected anonymous
// requests on the routes that use it.
func principal(c *gin.Context) *middleware.Principal {
	p, _ := middleware.PrincipalFrom(c)
	return p
}

func (h *Handler) health(c *gin.Context) {
	if err := h.Store.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "DOWN",
			"details": "Database connection failed",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "UP"})
}
