package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/softdesk/support-api/internal/constants"
)

// Page is the window of a list request. Both fields key the cached list
// entries, so two requests that differ only in size never share a payload.
type Page struct {
	Number int
	Size   int
}

// PageFromQuery reads the page and limit query parameters. Malformed or
// out-of-range values fall back to the first page and the default size.
func PageFromQuery(c *gin.Context) Page {
	number, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(constants.DefaultPageSize)))

	if number < 1 {
		number = 1
	}
	if size < constants.MinPageSize || size > constants.MaxPageSize {
		size = constants.DefaultPageSize
	}

	return Page{Number: number, Size: size}
}
