package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"library_service/pkg/service"
)

func (h *Handler) listAuthors(c *gin.Context) {
	page := pageFrom(c)
	authors, total, err := h.Authors.List(c.Request.Context(), page)
	if err != nil {
		respondError(c, err)
		return
	}
	respondPage(c, page, authors, total, toAuthor)
}

func (h *Handler) authorBooks(c *gin.Context) {
	books, err := h.Authors.Books(c.Request.Context(), c.Param("nickname"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapAll(books, toBook))
}

func (h *Handler) createAuthor(c *gin.Context) {
	var in service.AuthorInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	author, err := h.Authors.Create(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toAuthor(author))
}

func (h *Handler) listBooks(c *gin.Context) {
	page := pageFrom(c)
	books, total, err := h.Books.List(c.Request.Context(), page)
	if err != nil {
		respondError(c, err)
		return
	}
	respondPage(c, page, books, total, toBook)
}

func (h *Handler) getBook(c *gin.Context) {
	book, err := h.Books.GetByTitle(c.Request.Context(), c.Param("title"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBook(book))
}

func (h *Handler) bookAuthor(c *gin.Context) {
	author, err := h.Books.AuthorOf(c.Request.Context(), c.Param("title"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toAuthor(author))
}

func (h *Handler) bookLibraries(c *gin.Context) {
	libraries, err := h.Libraries.Holding(c.Request.Context(), c.Param("title"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapAll(libraries, toLibrary))
}

func (h *Handler) createBook(c *gin.Context) {
	authorID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		badRequest(c, "author id must be a positive integer")
		return
	}
	var in service.BookInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	book, err := h.Books.Create(c.Request.Context(), uint(authorID), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toBook(book))
}

func (h *Handler) updateBook(c *gin.Context) {
	var in service.BookInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	book, err := h.Books.Update(c.Request.Context(), c.Param("title"), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBook(book))
}

func (h *Handler) deleteBook(c *gin.Context) {
	if err := h.Books.Delete(c.Request.Context(), c.Param("title")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// availability answers the uniqueness predicates for whichever of
// nickname, title, libraryName and libraryEmail are given.
func (h *Handler) availability(c *gin.Context) {
	ctx := c.Request.Context()
	checks := []struct {
		param string
		inUse func(string) (bool, error)
	}{
		{"nickname", func(v string) (bool, error) { return h.Authors.NicknameInUse(ctx, v) }},
		{"title", func(v string) (bool, error) { return h.Books.TitleExists(ctx, v) }},
		{"libraryName", func(v string) (bool, error) { return h.Libraries.NameInUse(ctx, v) }},
		{"libraryEmail", func(v string) (bool, error) { return h.Libraries.EmailInUse(ctx, v) }},
	}

	result := gin.H{}
	for _, check := range checks {
		value := c.Query(check.param)
		if value == "" {
			continue
		}
		inUse, err := check.inUse(value)
		if err != nil {
			respondError(c, err)
			return
		}
		result[check.param] = inUse
	}
	if len(result) == 0 {
		badRequest(c, "one of nickname, title, libraryName, libraryEmail is required")
		return
	}
	c.JSON(http.StatusOK, result)
}
