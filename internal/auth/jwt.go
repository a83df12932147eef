package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/heartmarshall/taskboard-backend/internal/domain"
)

// JWTManager signs and verifies identity tokens.
type JWTManager struct {
	secret    []byte
	issuer    string
	accessTTL time.Duration
}

// NewJWTManager creates a new JWT manager.
// secret must be at least 32 characters for HS256 security.
func NewJWTManager(secret string, issuer string, accessTTL time.Duration) *JWTManager {
	return &JWTManager{
		secret:    []byte(secret),
		issuer:    issuer,
		accessTTL: accessTTL,
	}
}

// identityClaims carries the caller's user, organization and profile.
type identityClaims struct {
	jwt.RegisteredClaims
	OrgID      string `json:"org_id,omitempty"`
	GivenName  string `json:"given_name,omitempty"`
	FamilyName string `json:"family_name,omitempty"`
	Picture    string `json:"picture,omitempty"`
}

// GenerateToken creates a signed HS256 JWT for the identity.
func (m *JWTManager) GenerateToken(id domain.Identity) (string, error) {
	if id.UserID == "" {
		return "", errors.New("identity has no user ID")
	}

	now := time.Now()
	claims := identityClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.UserID,
			Issuer:    m.issuer,
			ExpiresAt: jwt.NewNumericDate(now.Add(m.accessTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		OrgID:      id.OrgID,
		GivenName:  id.FirstName,
		FamilyName: id.LastName,
	}
	if id.ImageURL != nil {
		claims.Picture = *id.ImageURL
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return signed, nil
}

// ValidateToken parses and validates a JWT and returns the identity it carries.
// The organization may be empty: a user outside any organization is still
// authenticated, but quota and audit operations will reject it.
func (m *JWTManager) ValidateToken(tokenString string) (domain.Identity, error) {
	if tokenString == "" {
		return domain.Identity{}, fmt.Errorf("token is empty")
	}

	token, err := jwt.ParseWithClaims(tokenString, &identityClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	})

	if err != nil {
		return domain.Identity{}, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*identityClaims)
	if !ok || !token.Valid {
		return domain.Identity{}, fmt.Errorf("invalid token claims")
	}

	if claims.Issuer != m.issuer {
		return domain.Identity{}, fmt.Errorf("invalid issuer: expected %s, got %s", m.issuer, claims.Issuer)
	}

	if claims.Subject == "" {
		return domain.Identity{}, fmt.Errorf("token has no subject")
	}

	id := domain.Identity{
		UserID:    claims.Subject,
		OrgID:     claims.OrgID,
		FirstName: claims.GivenName,
		LastName:  claims.FamilyName,
	}
	if claims.Picture != "" {
		pic := claims.Picture
		id.ImageURL = &pic
	}

	return id, nil
}
