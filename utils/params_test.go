package utils

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"go.mongodb.org/mongo-driver/bson"
)

func TestParsePagination(t *testing.T) {
	r := httptest.NewRequest("GET", "/x", nil)
	skip, limit := ParsePagination(r, 12, 100)
	assert.Equal(t, int64(0), skip)
	assert.Equal(t, int64(12), limit)

	r = httptest.NewRequest("GET", "/x?page=3&limit=10", nil)
	skip, limit = ParsePagination(r, 12, 100)
	assert.Equal(t, int64(20), skip)
	assert.Equal(t, int64(10), limit)

	r = httptest.NewRequest("GET", "/x?page=-1&limit=9999", nil)
	skip, limit = ParsePagination(r, 12, 100)
	assert.Equal(t, int64(0), skip)
	assert.Equal(t, int64(100), limit)
}

func TestParseSort(t *testing.T) {
	def := bson.D{{Key: "createdAt", Value: -1}}
	allowed := map[string]bson.D{
		"price-asc": {{Key: "price", Value: 1}},
	}

	assert.Equal(t, allowed["price-asc"], ParseSort("price-asc", def, allowed))
	assert.Equal(t, def, ParseSort("nonsense", def, allowed))
	assert.Equal(t, def, ParseSort("", def, allowed))
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, int64(0), TotalPages(0, 10))
	assert.Equal(t, int64(1), TotalPages(1, 10))
	assert.Equal(t, int64(1), TotalPages(10, 10))
	assert.Equal(t, int64(2), TotalPages(11, 10))
	assert.Equal(t, int64(0), TotalPages(5, 0))
}
