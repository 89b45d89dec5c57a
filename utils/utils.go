package utils

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	DefaultPageSize = 14
	MaxPageSize     = 100
	MaxPage         = 1 << 20
)

var ErrBadPagination = errors.New("page must be between 1 and 1048576 and count between 1 and 100")

// Pagination is a 1-based page of Count items
type Pagination struct {
	Page  int
	Count int
}

func (p Pagination) Offset() int {
	return (p.Page - 1) * p.Count
}

func (p Pagination) Valid() bool {
	return p.Page >= 1 && p.Page <= MaxPage && p.Count >= 1 && p.Count <= MaxPageSize
}

// ParsePagination reads ?page=&count= with defaults 1 and DefaultPageSize
func ParsePagination(c *gin.Context) (p Pagination, err error) {
	p.Page, err = strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil {
		return p, ErrBadPagination
	}
	p.Count, err = strconv.Atoi(c.DefaultQuery("count", strconv.Itoa(DefaultPageSize)))
	if err != nil || !p.Valid() {
		return p, ErrBadPagination
	}
	return p, nil
}

// ParamUint64 returns a path parameter as an id, ok is false for anything that is not a positive integer
func ParamUint64(c *gin.Context, name string) (id uint64, ok bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	return id, err == nil && id > 0
}

// SplitList turns "a, b,,c" into ["a" "b" "c"]
func SplitList(in string) (result []string) {
	for _, s := range strings.Split(in, ",") {
		if s = strings.TrimSpace(s); s != "" {
			result = append(result, s)
		}
	}
	return
}
