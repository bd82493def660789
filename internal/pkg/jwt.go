package pkg

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SessionManager handles session token operations
type SessionManager struct {
	secretKey  []byte
	sessionTTL time.Duration
	issuer     string
}

// SessionClaims represents session token claims
type SessionClaims struct {
	UserID   primitive.ObjectID `json:"userId"`
	Username string             `json:"username"`
	jwt.RegisteredClaims
}

// DefaultSessionTTL is how long a minted session stays valid.
const DefaultSessionTTL = 7 * 24 * time.Hour

// NewSessionManager creates a new session manager
func NewSessionManager(secretKey string, sessionTTL time.Duration, issuer string) *SessionManager {
	if sessionTTL <= 0 {
		sessionTTL = DefaultSessionTTL
	}
	return &SessionManager{
		secretKey:  []byte(secretKey),
		sessionTTL: sessionTTL,
		issuer:     issuer,
	}
}

// Mint produces a signed session token embedding the user identity
func (sm *SessionManager) Mint(userID primitive.ObjectID, username string) (string, error) {
	now := time.Now()
	claims := SessionClaims{
		UserID:   userID,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(sm.sessionTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    sm.issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(sm.secretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// Verify validates a session token and returns its claims. Any
// failure (bad signature, expiry, malformed input) yields nil, not an
// error: callers treat the request as unauthenticated rather than as
// a fault.
func (sm *SessionManager) Verify(tokenString string) *SessionClaims {
	if tokenString == "" {
		return nil
	}

	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return sm.secretKey, nil
	})
	if err != nil {
		return nil
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return nil
	}

	return claims
}

// SessionTTL returns the configured session lifetime
func (sm *SessionManager) SessionTTL() time.Duration {
	return sm.sessionTTL
}

// ExtractTokenFromHeader extracts token from Authorization header
func ExtractTokenFromHeader(authHeader string) string {
	const bearerPrefix = "Bearer "
	if len(authHeader) > len(bearerPrefix) && authHeader[:len(bearerPrefix)] == bearerPrefix {
		return authHeader[len(bearerPrefix):]
	}
	return ""
}
