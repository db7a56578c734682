package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"library_service/pkg/service"
)

func (h *Handler) listLibraries(c *gin.Context) {
	page := pageFrom(c)
	libraries, total, err := h.Libraries.List(c.Request.Context(), page)
	if err != nil {
		respondError(c, err)
		return
	}
	respondPage(c, page, libraries, total, toLibrary)
}

func (h *Handler) getLibrary(c *gin.Context) {
	library, err := h.Libraries.GetByName(c.Request.Context(), c.Param("name"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toLibrary(library))
}

func (h *Handler) libraryBooks(c *gin.Context) {
	page := pageFrom(c)
	books, total, err := h.Libraries.Books(c.Request.Context(), c.Param("name"), page)
	if err != nil {
		respondError(c, err)
		return
	}
	respondPage(c, page, books, total, toBook)
}

func (h *Handler) bookStatus(c *gin.Context) {
	status, err := h.Libraries.Status(c.Request.Context(), c.Param("name"), c.Param("title"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"library": c.Param("name"), "title": c.Param("title"), "status": status})
}

func (h *Handler) createLibrary(c *gin.Context) {
	var in service.LibraryInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	library, err := h.Libraries.Create(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toLibrary(library))
}

func (h *Handler) deleteLibrary(c *gin.Context) {
	if err := h.Libraries.Delete(c.Request.Context(), c.Param("name")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) addLibraryBook(c *gin.Context) {
	if err := h.Libraries.AddBook(c.Request.Context(), c.Param("name"), c.Param("title")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) addLibraryUser(c *gin.Context) {
	if err := h.Libraries.AddUser(c.Request.Context(), c.Param("name"), c.Param("email")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) libraryMembers(c *gin.Context) {
	members, err := h.Libraries.Members(c.Request.Context(), c.Param("name"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapAll(members, toUser))
}

func (h *Handler) listPenalties(c *gin.Context) {
	page := pageFrom(c)
	penalties, total, err := h.Libraries.Penalties(c.Request.Context(), page)
	if err != nil {
		respondError(c, err)
		return
	}
	respondPage(c, page, penalties, total, toPenalty)
}

func (h *Handler) reserve(c *gin.Context) {
	reserved, err := h.Libraries.Reserve(c.Request.Context(), c.Param("name"), c.Param("title"), principal(c).Email)
	h.Metrics.ObserveLending("reserve", err)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toReservation(reserved))
}

func (h *Handler) borrow(c *gin.Context) {
	borrowed, err := h.Libraries.Borrow(c.Request.Context(), c.Param("name"), c.Param("title"), principal(c).Email)
	h.Metrics.ObserveLending("borrow", err)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toLoan(borrowed))
}

func (h *Handler) giveBack(c *gin.Context) {
	result, err := h.Libraries.Return(c.Request.Context(), c.Param("name"), c.Param("title"), principal(c).Email)
	h.Metrics.ObserveLending("return", err)
	if err != nil {
		respondError(c, err)
		return
	}
	resp := ReturnResponse{Loan: toLoan(&result.Loan)}
	if result.Penalty != nil {
		h.Metrics.ObservePenalty()
		penalty := toPenalty(result.Penalty)
		resp.Penalty = &penalty
	}
	c.JSON(http.StatusOK, resp)
}
