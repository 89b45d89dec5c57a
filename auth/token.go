package auth

import (
	"errors"
	"strconv"
	"time"

	"nikodex/config"
	"nikodex/models"

	"github.com/golang-jwt/jwt/v5"
)

const (
	issuer    = "nikodex"
	TokenType = "bearer"
)

var ErrInvalidToken = errors.New("invalid token")

type Claims struct {
	Admin bool   `json:"admin"`
	UID   uint64 `json:"uid"`

	jwt.RegisteredClaims
}

func secret() []byte {
	return []byte(config.SECRET_KEY)
}

// NewToken signs an access token for user valid for TOKEN_TTL
func NewToken(user *models.User) (token string, expiresAt time.Time, err error) {
	now := time.Now().UTC()
	expiresAt = now.Add(config.TOKEN_TTL)
	claims := Claims{
		Admin: user.IsAdmin,
		UID:   user.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Username,
			Issuer:    issuer,
			ID:        strconv.FormatUint(user.ID, 10) + "-" + strconv.FormatInt(now.UnixNano(), 36),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now.Add(-5 * time.Second)),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token, err = jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret())
	if err != nil {
		return "", time.Time{}, err
	}
	return token, expiresAt, nil
}

func ParseToken(token string) (Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return secret(), nil
	}, jwt.WithIssuer(issuer), jwt.WithExpirationRequired())
	if err != nil {
		return Claims{}, err
	}
	c, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || c.Subject == "" {
		return Claims{}, ErrInvalidToken
	}
	return *c, nil
}
