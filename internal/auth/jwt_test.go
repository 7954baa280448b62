package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/neurobridge-dashboard/internal/platform/ctxutil"
)

func TestIssueAndVerify(t *testing.T) {
	v, err := NewVerifier("s3cret")
	require.NoError(t, err)
	tok, err := v.Issue("user-1", "instructor", time.Minute)
	require.NoError(t, err)

	ctx, err := v.ContextFromToken(context.Background(), tok)
	require.NoError(t, err)
	rd := ctxutil.GetRequestData(ctx)
	require.NotNil(t, rd)
	assert.Equal(t, "user-1", rd.UserID)
	assert.Equal(t, "instructor", rd.Role)
	assert.Equal(t, tok, rd.Token)
	assert.NotEmpty(t, rd.SessionID)
}

func TestRejectsBadTokens(t *testing.T) {
	v, _ := NewVerifier("s3cret")
	other, _ := NewVerifier("different")

	foreign, _ := other.Issue("user-1", "", time.Minute)
	_, err := v.Parse(foreign)
	assert.Error(t, err)

	expired, _ := v.Issue("user-1", "", -time.Hour)
	_, err = v.Parse(expired)
	assert.Error(t, err)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{Subject: "user-1"})
	unsigned, _ := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	_, err = v.Parse(unsigned)
	assert.Error(t, err)

	noSub, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{}).SignedString([]byte("s3cret"))
	_, err = v.Parse(noSub)
	assert.Error(t, err)
}

func TestSessionClaimWins(t *testing.T) {
	v, _ := NewVerifier("s3cret")
	tok, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "u", ID: "jti"},
		SessionID:        "sess-7",
	}).SignedString([]byte("s3cret"))
	ctx, err := v.ContextFromToken(context.Background(), tok)
	require.NoError(t, err)
	assert.Equal(t, "sess-7", ctxutil.GetRequestData(ctx).SessionID)
}

func TestNewVerifierRequiresSecret(t *testing.T) {
	_, err := NewVerifier("  ")
	assert.ErrorIs(t, err, ErrMissingSecret)
}
