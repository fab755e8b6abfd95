package helpers

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// ParseLimitOffset extracts and validates limit/offset query parameters.
// The API is offset-based: limit caps page size, offset skips rows.
func ParseLimitOffset(c *gin.Context) (limit, offset int) {
	limitStr := c.DefaultQuery("limit", strconv.Itoa(DefaultLimit))
	limit, err := strconv.Atoi(limitStr)
	if err != nil || limit <= 0 || limit > MaxLimit {
		limit = DefaultLimit
	}

	offsetStr := c.DefaultQuery("offset", "0")
	offset, err = strconv.Atoi(offsetStr)
	if err != nil || offset < 0 {
		offset = 0
	}

	return limit, offset
}

// PaginateSlice calculates the start and end indices for slicing an
// already-assembled list. Pagination is applied over the combined, sorted
// list, not per source.
func PaginateSlice(limit, offset, totalItems int) (start, end int) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if offset < 0 {
		offset = 0
	}

	start = offset
	end = offset + limit

	if start >= totalItems {
		start = totalItems
	}
	if end > totalItems {
		end = totalItems
	}

	return start, end
}
