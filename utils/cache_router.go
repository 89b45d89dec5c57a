package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	CacheNoCache = 0
	CacheCustom  = -1
)

// CacheRouter sets cache-control on every response it handles
type CacheRouter struct {
	CacheTime int  // seconds, defaults to CacheNoCache = 0
	Public    bool // shared caches may keep the response too
}

// Value is the cache-control header for the configured time, empty for CacheCustom
func (cr *CacheRouter) Value() string {
	switch cr.CacheTime {
	case CacheCustom:
		return ""
	case CacheNoCache:
		return "no-cache"
	}
	scope := "private"
	if cr.Public {
		scope = "public"
	}
	return scope + ", max-age=" + strconv.Itoa(cr.CacheTime)
}

func (cr *CacheRouter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if value := cr.Value(); value != "" {
			c.Header("cache-control", value)
		}
		c.Next()
	}
}
