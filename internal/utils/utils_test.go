package utils

import (
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateTrackingNumber(t *testing.T) {
	pattern := regexp.MustCompile(`^TRK\d{12}$`)
	now := time.UnixMilli(1715340000123)

	number, err := GenerateTrackingNumber(now)
	require.NoError(t, err)
	assert.Regexp(t, pattern, number)
	assert.Equal(t, "TRK40000123", number[:11])

	early, err := GenerateTrackingNumber(time.UnixMilli(42))
	require.NoError(t, err)
	assert.Regexp(t, pattern, early)
}

func TestGetPaginationParams(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		query string
		want  PaginationParams
	}{
		{"", PaginationParams{}},
		{"page=2", PaginationParams{Page: 2, Limit: 20, Offset: 20}},
		{"page=3&limit=10", PaginationParams{Page: 3, Limit: 10, Offset: 20}},
		{"page=0&limit=1000", PaginationParams{Page: 1, Limit: 20, Offset: 0}},
	}

	for _, tt := range tests {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest("GET", "/api/couriers?"+tt.query, nil)
		assert.Equal(t, tt.want, GetPaginationParams(c), tt.query)
	}
}
