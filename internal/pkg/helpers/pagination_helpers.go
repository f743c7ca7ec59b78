package helpers

import (
	"math"
	"strconv"
	"strings"
)

const (
	DefaultPageSize = 10
	DefaultPage     = 1 // Default page is 1-based
)

// CalculateOffsetLimit calculates the offset and limit for SQL queries based on 1-based page index.
func CalculateOffsetLimit(page, size int) (offset uint64, limit uint64) {
	if size <= 0 {
		size = DefaultPageSize
	}
	if page < 1 {
		page = DefaultPage
	}

	// Both drivers take a signed 64-bit OFFSET
	if uint64(page-1) > math.MaxInt64/uint64(size) {
		return math.MaxInt64, uint64(size)
	}
	return uint64(page-1) * uint64(size), uint64(size)
}

// TotalPages returns ceil(totalItems/size); zero items give zero pages
func TotalPages(totalItems int64, size int) int {
	if size <= 0 {
		size = DefaultPageSize
	}
	if totalItems <= 0 {
		return 0
	}
	return int((totalItems + int64(size) - 1) / int64(size))
}

// ParsePage reads a 1-based page number; anything non-numeric or below 1 becomes page 1
func ParsePage(raw string) int {
	page, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || page < 1 {
		return DefaultPage
	}
	return page
}
