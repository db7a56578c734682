package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"library_service/pkg/service"
)

func (h *Handler) register(c *gin.Context) {
	var in service.UserInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	user, err := h.Users.Register(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toUser(user))
}

func (h *Handler) emailAvailability(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		badRequest(c, "email is required")
		return
	}
	inUse, err := h.Users.EmailInUse(c.Request.Context(), email)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"email": email, "inUse": inUse})
}

func (h *Handler) login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "email and password are required")
		return
	}
	token, user, err := h.Auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, LoginResponse{Token: token, User: toUser(user)})
}

func (h *Handler) me(c *gin.Context) {
	user, err := h.Users.GetByEmail(c.Request.Context(), principal(c).Email)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toUser(user))
}

func (h *Handler) updateMe(c *gin.Context) {
	var in service.UserInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	user, err := h.Users.Update(c.Request.Context(), principal(c).Email, in.SelfService())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toUser(user))
}

func (h *Handler) joinLibrary(c *gin.Context) {
	if err := h.Users.AddLibrary(c.Request.Context(), principal(c).Email, c.Param("name")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) myLibraries(c *gin.Context) {
	libraries, err := h.Users.Libraries(c.Request.Context(), principal(c).Email)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapAll(libraries, toLibrary))
}

func (h *Handler) myLoans(c *gin.Context) {
	activity, err := h.Users.Activity(c.Request.Context(), principal(c).Email)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toActivity(activity))
}

func (h *Handler) myPenalties(c *gin.Context) {
	page := pageFrom(c)
	penalties, total, err := h.Users.Penalties(c.Request.Context(), principal(c).Email, page)
	if err != nil {
		respondError(c, err)
		return
	}
	respondPage(c, page, penalties, total, toPenalty)
}

func (h *Handler) listUsers(c *gin.Context) {
	page := pageFrom(c)
	users, total, err := h.Users.List(c.Request.Context(), page)
	if err != nil {
		respondError(c, err)
		return
	}
	respondPage(c, page, users, total, toUser)
}

func (h *Handler) getUser(c *gin.Context) {
	user, err := h.Users.GetByEmail(c.Request.Context(), c.Param("email"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toUser(user))
}

func (h *Handler) createUser(c *gin.Context) {
	var in service.UserInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	user, err := h.Users.Create(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toUser(user))
}

func (h *Handler) updateUser(c *gin.Context) {
	var in service.UserInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	user, err := h.Users.Update(c.Request.Context(), c.Param("email"), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toUser(user))
}

func (h *Handler) deleteUser(c *gin.Context) {
	if err := h.Users.Delete(c.Request.Context(), c.Param("email")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
