package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt"
)

// SessionSigner issues and validates the browser session cookie. The cookie
// value is an HS256 token whose subject is the session id.
type SessionSigner struct {
	secret []byte
}

func NewSessionSigner(secret string) *SessionSigner {
	return &SessionSigner{secret: []byte(secret)}
}

// GenerateToken signs a token for sessionID that expires after duration.
func (s *SessionSigner) GenerateToken(sessionID string, duration time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.StandardClaims{
		Subject:   sessionID,
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(duration).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// ValidateToken parses and validates a token string and returns the token if valid.
func (s *SessionSigner) ValidateToken(tokenString string) (*jwt.Token, error) {
	return jwt.ParseWithClaims(tokenString, &jwt.StandardClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
}

// ExtractSessionID returns the session id carried by a valid token.
func (s *SessionSigner) ExtractSessionID(tokenString string) (string, error) {
	token, err := s.ValidateToken(tokenString)
	if err != nil {
		return "", err
	}
	claims, ok := token.Claims.(*jwt.StandardClaims)
	if !ok || !token.Valid {
		return "", errors.New("invalid token")
	}
	if claims.Subject == "" {
		return "", errors.New("token does not contain a session id")
	}
	return claims.Subject, nil
}
