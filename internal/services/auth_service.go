package services

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AuthService signs the tokens the auth middleware verifies. The rest of the
// system only ever sees the user id carried in a verified token.
type AuthService interface {
	Issue(userID string) (string, error)
}

type authService struct {
	secret []byte
	ttl    time.Duration
}

func NewAuthService(secret string, ttl time.Duration) AuthService {
	if ttl == 0 {
		ttl = 24 * time.Hour
	}
	return &authService{secret: []byte(secret), ttl: ttl}
}

func (s *authService) Issue(userID string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}
