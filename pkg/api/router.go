package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"library_service/pkg/logger"
	"library_service/pkg/middleware"
	"library_service/pkg/models"
)

var (
	anyone = []models.Role{models.RoleUser, models.RoleLibrarian, models.RoleAdmin}
	staff  = []models.Role{models.RoleLibrarian, models.RoleAdmin}
	admins = []models.Role{models.RoleAdmin}
)

// route binds a handler to its path and the roles allowed to call it.
// A nil roles slice opens the route to anonymous callers.
type route struct {
	method  string
	path    string
	handler gin.HandlerFunc
	roles   []models.Role
}

func (h *Handler) routes() []route {
	return []route{
		{http.MethodGet, "/manage/health", h.health, nil},
		{http.MethodGet, "/metrics", gin.WrapH(h.Metrics.Handler()), nil},

		{http.MethodPost, "/registration", h.register, nil},
		{http.MethodGet, "/registration/availability", h.emailAvailability, nil},
		{http.MethodPost, "/login", h.login, nil},

		{http.MethodGet, "/users/me", h.me, anyone},
		{http.MethodPatch, "/users/me", h.updateMe, anyone},
		{http.MethodGet, "/users/me/libraries", h.myLibraries, anyone},
		{http.MethodPost, "/users/me/libraries/:name", h.joinLibrary, anyone},
		{http.MethodGet, "/users/me/loans", h.myLoans, anyone},
		{http.MethodGet, "/users/me/penalties", h.myPenalties, anyone},

		{http.MethodGet, "/authors", h.listAuthors, nil},
		{http.MethodGet, "/authors/:nickname/books", h.authorBooks, nil},
		{http.MethodGet, "/books", h.listBooks, nil},
		{http.MethodGet, "/books/:title", h.getBook, nil},
		{http.MethodGet, "/books/:title/author", h.bookAuthor, nil},
		{http.MethodGet, "/books/:title/libraries", h.bookLibraries, nil},
		{http.MethodGet, "/libraries", h.listLibraries, nil},
		{http.MethodGet, "/libraries/:name", h.getLibrary, nil},
		{http.MethodGet, "/libraries/:name/books", h.libraryBooks, nil},
		{http.MethodGet, "/libraries/:name/books/:title/status", h.bookStatus, nil},

		{http.MethodPost, "/libraries/:name/books/:title/reserve", h.reserve, anyone},
		{http.MethodPost, "/libraries/:name/books/:title/borrow", h.borrow, anyone},
		{http.MethodPost, "/libraries/:name/books/:title/return", h.giveBack, anyone},

		{http.MethodGet, "/librarian/availability", h.availability, staff},
		{http.MethodPost, "/librarian/authors", h.createAuthor, staff},
		{http.MethodPost, "/librarian/authors/:id/books", h.createBook, staff},
		{http.MethodPatch, "/librarian/books/:title", h.updateBook, staff},
		{http.MethodDelete, "/librarian/books/:title", h.deleteBook, staff},
		{http.MethodPost, "/librarian/libraries", h.createLibrary, staff},
		{http.MethodDelete, "/librarian/libraries/:name", h.deleteLibrary, staff},
		{http.MethodPost, "/librarian/libraries/:name/books/:title", h.addLibraryBook, staff},
		{http.MethodPost, "/librarian/libraries/:name/users/:email", h.addLibraryUser, staff},
		{http.MethodGet, "/librarian/libraries/:name/users", h.libraryMembers, staff},
		{http.MethodGet, "/librarian/penalties", h.listPenalties, staff},

		{http.MethodGet, "/admin/users", h.listUsers, admins},
		{http.MethodPost, "/admin/users", h.createUser, admins},
		{http.MethodGet, "/admin/users/:email", h.getUser, admins},
		{http.MethodPatch, "/admin/users/:email", h.updateUser, admins},
		{http.MethodDelete, "/admin/users/:email", h.deleteUser, admins},
	}
}

// NewRouter builds the engine with the middleware chain and every route.
func NewRouter(deps Deps) *gin.Engine {
	h := &Handler{Deps: deps}

	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestID(), logger.Middleware(), deps.Metrics.Middleware())
	if deps.RateLimiter != nil {
		router.Use(deps.RateLimiter.Middleware())
	}

	policy := &middleware.Policy{}
	for _, r := range h.routes() {
		if r.roles == nil {
			policy.AllowAnonymous(r.method, r.path)
		} else {
			policy.Allow(r.method, r.path, r.roles...)
		}
	}
	router.Use(middleware.Authenticate(deps.Tokens, deps.Store.Users()), middleware.Guard(policy))

	for _, r := range h.routes() {
		router.Handle(r.method, r.path, r.handler)
	}
	return router
}
