// internal/pkg/session/session.go
package session

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/your-org/storefront-cart/internal/config"
)

// Claims represents the signed session claims
type Claims struct {
	SessionID string `json:"session_id"`
	jwt.RegisteredClaims
}

// Manager issues and validates anonymous browser session tokens.
// A session carries no identity beyond a random id; signing only
// prevents clients from forging someone else's cart session.
type Manager struct {
	config *config.Config
}

// NewManager creates a new session manager
func NewManager(cfg *config.Config) *Manager {
	return &Manager{
		config: cfg,
	}
}

// NewSession generates a fresh session id and its signed token
func (m *Manager) NewSession() (string, string, error) {
	sessionID := uuid.New().String()
	token, err := m.generateToken(sessionID)
	if err != nil {
		return "", "", err
	}
	return sessionID, token, nil
}

func (m *Manager) generateToken(sessionID string) (string, error) {
	now := time.Now().UTC()

	claims := &Claims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(m.config.Session.TTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    m.config.App.Name,
			Subject:   fmt.Sprintf("session:%s", sessionID),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(m.config.Session.Secret))
}

// ValidateToken validates a session token and returns the session id
func (m *Manager) ValidateToken(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(m.config.Session.Secret), nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to parse session token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return "", fmt.Errorf("invalid session token")
	}
	if claims.SessionID == "" {
		return "", fmt.Errorf("session token missing session id")
	}

	return claims.SessionID, nil
}
