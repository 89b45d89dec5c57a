package auth

import (
	"crypto/subtle"
	"net/http"

	"nikodex/config"
	"nikodex/models"

	"github.com/gin-gonic/gin"
)

// User is authenticated and posseses the required permissions
type HandlerFunc func(c *gin.Context, user *models.User)

// Router is a wrapper that adds auth checks + User pre-loading
type Router struct {
	Base gin.IRoutes
}

func (cr *Router) baseExec(c *gin.Context, handler HandlerFunc, required []models.Permission) {
	user := LoadSession(c).User()
	if user.ID == 0 {
		c.Header("WWW-Authenticate", "Bearer")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Could not validate credentials"})
		return
	}
	for _, permission := range required {
		if permission == models.PermissionAdmin && !user.IsAdmin {
			c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
			return
		}
	}
	handler(c, &user)
}

func (cr *Router) POST(path string, handler HandlerFunc, required ...models.Permission) {
	cr.Base.POST(path, func(c *gin.Context) {
		cr.baseExec(c, handler, required)
	})
}

func (cr *Router) GET(path string, handler HandlerFunc, required ...models.Permission) {
	cr.Base.GET(path, func(c *gin.Context) {
		cr.baseExec(c, handler, required)
	})
}

func (cr *Router) PUT(path string, handler HandlerFunc, required ...models.Permission) {
	cr.Base.PUT(path, func(c *gin.Context) {
		cr.baseExec(c, handler, required)
	})
}

func (cr *Router) DELETE(path string, handler HandlerFunc, required ...models.Permission) {
	cr.Base.DELETE(path, func(c *gin.Context) {
		cr.baseExec(c, handler, required)
	})
}

// BotSecret only lets through requests whose Authorization header equals BOT_SHARED_SECRET.
// An empty secret rejects everything.
func BotSecret() gin.HandlerFunc {
	return func(c *gin.Context) {
		got := c.GetHeader("Authorization")
		if config.BOT_SHARED_SECRET == "" ||
			subtle.ConstantTimeCompare([]byte(got), []byte(config.BOT_SHARED_SECRET)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}
		c.Next()
	}
}
