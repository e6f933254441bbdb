package util

import (
	"errors"
	"math"
	"strconv"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

var ErrBadPage = errors.New("page and size must be positive integers")

// Page is an offset window over a list. The zero Page means "everything".
type Page struct {
	Offset int
	Limit  int
}

// ParsePage reads 1-based page and size query values. Both empty yields the
// zero Page; an oversized size is clamped to MaxPageSize.
func ParsePage(pageRaw, sizeRaw string) (Page, error) {
	if pageRaw == "" && sizeRaw == "" {
		return Page{}, nil
	}
	page, size := 1, DefaultPageSize
	var err error
	if pageRaw != "" {
		if page, err = strconv.Atoi(pageRaw); err != nil || page < 1 {
			return Page{}, ErrBadPage
		}
	}
	if sizeRaw != "" {
		if size, err = strconv.Atoi(sizeRaw); err != nil || size < 1 {
			return Page{}, ErrBadPage
		}
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	if page-1 > math.MaxInt/size {
		return Page{}, ErrBadPage
	}
	return Page{Offset: (page - 1) * size, Limit: size}, nil
}
