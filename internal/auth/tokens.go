// Package auth issues and validates the HS256 bearer tokens of the blog API.
package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"blogmesh/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenType distinguishes access tokens from refresh tokens via the "typ" claim.
type TokenType string

const (
	TokenAccess  TokenType = "access"
	TokenRefresh TokenType = "refresh"
)

var (
	ErrInvalidToken    = errors.New("invalid or expired token")
	ErrWrongTokenType  = errors.New("unexpected token type")
	ErrSubjectMismatch = errors.New("token subject does not match user")
	ErrMissingSecret   = errors.New("JWT secret not configured")
)

// Claims is the decoded identity carried by a token.
type Claims struct {
	UserID    uint
	Email     string
	Role      models.Role
	Type      TokenType
	ID        string
	ExpiresAt time.Time
}

// Manager signs and verifies tokens with a shared HMAC secret.
type Manager struct {
	secret     []byte
	issuer     string
	audience   string
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// NewManager returns a token manager. Zero TTLs fall back to 15 minutes and 7 days.
func NewManager(secret, issuer, audience string, accessTTL, refreshTTL time.Duration) *Manager {
	if accessTTL <= 0 {
		accessTTL = 15 * time.Minute
	}
	if refreshTTL <= 0 {
		refreshTTL = 7 * 24 * time.Hour
	}
	return &Manager{
		secret:     []byte(secret),
		issuer:     issuer,
		audience:   audience,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

// GenerateAccess issues a short-lived access token for user.
func (m *Manager) GenerateAccess(user *models.User) (string, error) {
	return m.generate(user, TokenAccess, m.accessTTL)
}

// GenerateRefresh issues a refresh token for user.
func (m *Manager) GenerateRefresh(user *models.User) (string, error) {
	return m.generate(user, TokenRefresh, m.refreshTTL)
}

func (m *Manager) generate(user *models.User, typ TokenType, ttl time.Duration) (string, error) {
	if len(m.secret) == 0 {
		return "", ErrMissingSecret
	}

	now := m.now()
	claims := jwt.MapClaims{
		"sub":   strconv.FormatUint(uint64(user.ID), 10),
		"email": user.Email,
		"role":  string(user.Role),
		"typ":   string(typ),
		"iss":   m.issuer,
		"aud":   m.audience,
		"exp":   now.Add(ttl).Unix(),
		"iat":   now.Unix(),
		"nbf":   now.Unix(),
		"jti":   uuid.NewString(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Parse verifies the signature, expiry, issuer and audience of raw.
func (m *Manager) Parse(raw string) (*Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(m.issuer),
		jwt.WithAudience(m.audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)

	token, err := parser.Parse(raw, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	return claimsFromMap(claims)
}

// Validate parses raw and requires the given token type.
func (m *Manager) Validate(raw string, typ TokenType) (*Claims, error) {
	claims, err := m.Parse(raw)
	if err != nil {
		return nil, err
	}
	if claims.Type != typ {
		return nil, ErrWrongTokenType
	}
	return claims, nil
}

// UnverifiedEmail reads the email claim without checking the signature. The
// result only selects which user to validate the token against.
func UnverifiedEmail(raw string) (string, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	email, _ := claims["email"].(string)
	if email == "" {
		return "", ErrInvalidToken
	}
	return email, nil
}

func claimsFromMap(claims jwt.MapClaims) (*Claims, error) {
	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return nil, ErrInvalidToken
	}
	userID, err := strconv.ParseUint(sub, 10, 32)
	if err != nil || userID == 0 {
		return nil, ErrInvalidToken
	}

	out := &Claims{UserID: uint(userID)}
	out.Email, _ = claims["email"].(string)
	if role, ok := claims["role"].(string); ok {
		out.Role = models.Role(role)
	}
	if typ, ok := claims["typ"].(string); ok {
		out.Type = TokenType(typ)
	}
	out.ID, _ = claims["jti"].(string)
	if exp, expErr := claims.GetExpirationTime(); expErr == nil && exp != nil {
		out.ExpiresAt = exp.Time
	}
	return out, nil
}
