package utils

import (
	"net/http"
	"strconv"

	"go.mongodb.org/mongo-driver/bson"
)

// ParsePagination reads ?page= and ?limit= and returns a Mongo skip/limit
// pair. Limit is clamped to maxLimit.
func ParsePagination(r *http.Request, defaultLimit, maxLimit int64) (skip, limit int64) {
	q := r.URL.Query()

	page, _ := strconv.ParseInt(q.Get("page"), 10, 64)
	if page < 1 {
		page = 1
	}

	limit, _ = strconv.ParseInt(q.Get("limit"), 10, 64)
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	return (page - 1) * limit, limit
}

// Page returns the 1-based page number for response envelopes.
func Page(r *http.Request) int64 {
	page, _ := strconv.ParseInt(r.URL.Query().Get("page"), 10, 64)
	if page < 1 {
		page = 1
	}
	return page
}

// ParseSort maps a sort key to a Mongo sort document, falling back to def
// when the key is unknown.
func ParseSort(key string, def bson.D, allowed map[string]bson.D) bson.D {
	if s, ok := allowed[key]; ok {
		return s
	}
	return def
}

// TotalPages computes ceil(total/limit) without floats.
func TotalPages(total, limit int64) int64 {
	if limit <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}
