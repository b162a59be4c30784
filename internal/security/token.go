package security

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// SessionClaims is the signed half of a session token.
type SessionClaims struct {
	SessionID string `json:"sid"`
	UserName  string `json:"userName"`
	jwt.RegisteredClaims
}

// MintSessionToken allocates a fresh session id and returns the full session
// token: the session id and the signed claims bundle joined by a single
// space. The entire string is the store key for the session, so callers must
// present it verbatim.
func MintSessionToken(secret string, userName string, ttl time.Duration) (string, error) {
	sessionID := uuid.NewString()

	now := time.Now()
	claims := SessionClaims{
		SessionID: sessionID,
		UserName:  userName,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			Subject:   userName,
			ID:        sessionID,
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("sign session claims: %w", err)
	}

	return sessionID + " " + signed, nil
}

// ParseSessionToken validates the signed half of a full session token and
// checks that it matches the session id half.
func ParseSessionToken(tokenStr string, secret string) (*SessionClaims, error) {
	sessionID, signed, ok := strings.Cut(tokenStr, " ")
	if !ok {
		return nil, fmt.Errorf("malformed session token")
	}

	token, err := jwt.ParseWithClaims(signed, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid session token")
	}
	if claims.SessionID != sessionID {
		return nil, fmt.Errorf("session id mismatch")
	}
	return claims, nil
}
