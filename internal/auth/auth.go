package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// Subject is the token subject for the single calendar owner.
const Subject = "owner"

const DefaultTTL = 12 * time.Hour

var ErrBadToken = errors.New("invalid token")

// Config holds the login settings. Authentication is off unless both the
// secret and the password hash are set.
type Config struct {
	Secret       string
	PasswordHash string
	TTL          time.Duration
}

func (c Config) Enabled() bool {
	return c.Secret != "" && c.PasswordHash != ""
}

func HashPassword(pw string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	return string(b), err
}

func CheckPassword(hash, pw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw)) == nil
}

type Claims struct {
	jwt.RegisteredClaims
}

// MakeToken signs an HS256 token for Subject that expires after ttl
// (DefaultTTL when ttl is not positive).
func MakeToken(secret string, ttl time.Duration) (string, time.Time, error) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	now := time.Now()
	exp := now.Add(ttl)
	c := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   Subject,
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return tok, exp, nil
}

func ParseToken(raw, secret string) (*Claims, error) {
	tok, err := jwt.ParseWithClaims(raw, &Claims{}, func(t *jwt.Token) (any, error) {
		// block alg confusion
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrBadToken
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	c, ok := tok.Claims.(*Claims)
	if !ok || !tok.Valid || c.Subject != Subject {
		return nil, ErrBadToken
	}
	return c, nil
}
