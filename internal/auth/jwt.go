// Package auth verifies the dashboard's bearer tokens. The BFF owns no users; it checks
// the signature, records who is calling, and forwards the same token upstream.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/yungbote/neurobridge-dashboard/internal/platform/ctxutil"
)

var ErrMissingSecret = errors.New("auth: jwt secret not configured")

type Claims struct {
	jwt.RegisteredClaims
	Role      string `json:"role,omitempty"`
	SessionID string `json:"sid,omitempty"`
}

type Verifier struct {
	secret []byte
	leeway time.Duration
}

func NewVerifier(secret string) (*Verifier, error) {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return nil, ErrMissingSecret
	}
	return &Verifier{secret: []byte(secret), leeway: 30 * time.Second}, nil
}

func (v *Verifier) Parse(tokenString string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return v.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithLeeway(v.leeway))
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, fmt.Errorf("invalid or expired token")
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return nil, fmt.Errorf("token has no subject")
	}
	return claims, nil
}

// ContextFromToken verifies tokenString and attaches the caller to ctx.
func (v *Verifier) ContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	claims, err := v.Parse(tokenString)
	if err != nil {
		return ctx, err
	}
	session := claims.SessionID
	if session == "" {
		session = claims.ID
	}
	if session == "" {
		session = claims.Subject
	}
	return ctxutil.WithRequestData(ctx, &ctxutil.RequestData{
		UserID:    claims.Subject,
		SessionID: session,
		Role:      claims.Role,
		Token:     tokenString,
	}), nil
}

// Issue signs a token for userID. Used by the probe command and tests.
func (v *Verifier) Issue(userID, role string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Role: role,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
}
