package helpers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newTestContext(t *testing.T, target string) *gin.Context {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, target, nil)
	return c
}

func TestParseLimitOffset(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		wantLimit  int
		wantOffset int
	}{
		{name: "defaults", target: "/posts", wantLimit: DefaultLimit, wantOffset: 0},
		{name: "explicit", target: "/posts?limit=25&offset=50", wantLimit: 25, wantOffset: 50},
		{name: "limit above cap", target: "/posts?limit=500", wantLimit: DefaultLimit, wantOffset: 0},
		{name: "zero limit", target: "/posts?limit=0", wantLimit: DefaultLimit, wantOffset: 0},
		{name: "negative offset", target: "/posts?offset=-5", wantLimit: DefaultLimit, wantOffset: 0},
		{name: "garbage values", target: "/posts?limit=abc&offset=xyz", wantLimit: DefaultLimit, wantOffset: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			limit, offset := ParseLimitOffset(newTestContext(t, tt.target))
			assert.Equal(t, tt.wantLimit, limit)
			assert.Equal(t, tt.wantOffset, offset)
		})
	}
}

func TestPaginateSlice(t *testing.T) {
	tests := []struct {
		name       string
		limit      int
		offset     int
		totalItems int
		wantStart  int
		wantEnd    int
	}{
		{name: "first page", limit: 10, offset: 0, totalItems: 25, wantStart: 0, wantEnd: 10},
		{name: "middle page", limit: 10, offset: 10, totalItems: 25, wantStart: 10, wantEnd: 20},
		{name: "short last page", limit: 10, offset: 20, totalItems: 25, wantStart: 20, wantEnd: 25},
		{name: "offset beyond total", limit: 10, offset: 40, totalItems: 25, wantStart: 25, wantEnd: 25},
		{name: "empty list", limit: 10, offset: 0, totalItems: 0, wantStart: 0, wantEnd: 0},
		{name: "zero limit falls back", limit: 0, offset: 0, totalItems: 25, wantStart: 0, wantEnd: DefaultLimit},
		{name: "negative offset clamps", limit: 10, offset: -3, totalItems: 25, wantStart: 0, wantEnd: 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := PaginateSlice(tt.limit, tt.offset, tt.totalItems)
			assert.Equal(t, tt.wantStart, start)
			assert.Equal(t, tt.wantEnd, end)
			assert.LessOrEqual(t, start, end)
		})
	}
}
