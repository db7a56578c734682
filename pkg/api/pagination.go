package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"library_service/pkg/repository"
)

// pageFrom reads ?page=&size= the way every listing does: malformed or out
// of range values fall back to the defaults.
func pageFrom(c *gin.Context) repository.Page {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil {
		page = 1
	}
	size, err := strconv.Atoi(c.DefaultQuery("size", strconv.Itoa(repository.DefaultPageSize)))
	if err != nil {
		size = repository.DefaultPageSize
	}
	return repository.NewPage(page, size)
}

func respondPage[M any, R any](c *gin.Context, page repository.Page, items []M, total int64, convert func(*M) R) {
	c.JSON(http.StatusOK, PageResponse[R]{
		Page:          page.Number,
		PageSize:      page.Size,
		TotalElements: total,
		Items:         mapAll(items, convert),
	})
}
