package auth

import (
	"strings"

	"nikodex/models"

	"github.com/gin-gonic/gin"
)

const userKey = "user"

// Session is the caller identified by the bearer token of the request
type Session struct {
	c *gin.Context
}

func LoadSession(c *gin.Context) *Session {
	return &Session{c: c}
}

func (s *Session) Token() string {
	return bearerToken(s.c.GetHeader("Authorization"))
}

// User resolves the token to a stored account. ID is 0 when there is no valid token or the account is gone.
func (s *Session) User() (user models.User) {
	if cached, ok := s.c.Get(userKey); ok {
		return cached.(models.User)
	}
	token := s.Token()
	if token == "" {
		return
	}
	claims, err := ParseToken(token)
	if err != nil {
		return
	}
	// The account is looked up by name so renamed users have to log in again
	found, err := models.UserByUsername(claims.Subject)
	if err != nil {
		return
	}
	s.c.Set(userKey, found)
	return found
}

func bearerToken(v string) string {
	v = strings.TrimSpace(v)
	scheme, token, ok := strings.Cut(v, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
