package util

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParseID parses a path id, rejecting zero and garbage with ErrInvalidInput.
func ParseID(s string) (uint, error) {
	id, err := strconv.ParseUint(s, 10, 32)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("%w: invalid id %q", ErrInvalidInput, s)
	}
	return uint(id), nil
}

// ParseDueDate accepts the datetime-local form value or RFC 3339.
func ParseDueDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(DateTimeLocalFormat, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("%w: invalid due date %q, expected YYYY-MM-DDTHH:MM", ErrInvalidInput, s)
}

// Page normalises page/limit query values into offset and limit.
func Page(page, limit int) (offset, size int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	return (page - 1) * limit, limit
}
