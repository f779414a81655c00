package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"taskboard/pkg/model"
)

// ErrInvalid covers every verification failure: absent, malformed, badly
// signed, or expired tokens. Callers never learn which.
var ErrInvalid = errors.New("invalid token")

// Identity is what a verified token proves about the caller.
type Identity struct {
	UserID uint
	Role   model.Role
}

type Claims struct {
	UserID uint       `json:"id"`
	Role   model.Role `json:"role"`
	jwt.RegisteredClaims
}

// Manager issues and verifies session tokens. The signing key comes from
// configuration at construction time; there is no package-level secret.
type Manager struct {
	secret []byte
	ttl    time.Duration
}

const DefaultTTL = 24 * time.Hour

func NewManager(secret string, ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Manager{secret: []byte(secret), ttl: ttl}
}

func (m *Manager) TTL() time.Duration { return m.ttl }

// Issue creates a signed token for the given user. The token is the only
// session state; nothing is recorded server-side.
func (m *Manager) Issue(userID uint, role model.Role) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Parse verifies a token and returns the identity it carries. Tokens stay
// valid until natural expiry; logout does not revoke them.
func (m *Manager) Parse(tokenStr string) (Identity, error) {
	if tokenStr == "" {
		return Identity{}, ErrInvalid
	}
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(_ *jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return Identity{}, ErrInvalid
	}
	claims, ok := token.Claims.(*Claims)
	if !ok {
		return Identity{}, ErrInvalid
	}
	return Identity{UserID: claims.UserID, Role: claims.Role}, nil
}
