package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeisme/hydrogen/pkg/configs"
)

func testSigner(secret string) *Signer {
	return NewSigner(configs.AuthConfig{JWTSecret: secret, TokenExpiry: 60}, "hydrogen")
}

func TestSigner_RoundTrip(t *testing.T) {
	s := testSigner("s3cr3t")

	token, err := s.Generate(ClaimsData{IsAdmin: true, Email: "a@b.co", UserID: 9})
	require.NoError(t, err)

	claims, err := s.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, ClaimsData{IsAdmin: true, Email: "a@b.co", UserID: 9}, claims.Data)
	assert.Equal(t, "hydrogen", claims.Issuer)
}

func TestSigner_Expired(t *testing.T) {
	s := testSigner("s3cr3t")
	s.SetClock(func() time.Time { return time.Now().Add(-2 * time.Hour) })

	token, err := s.Generate(ClaimsData{Email: "a@b.co"})
	require.NoError(t, err)

	s.SetClock(time.Now)

	_, err = s.Parse(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
	assert.NotErrorIs(t, err, ErrTokenInvalid)
}

func TestSigner_ForeignSignature(t *testing.T) {
	token, err := testSigner("other").Generate(ClaimsData{Email: "a@b.co"})
	require.NoError(t, err)

	_, err = testSigner("s3cr3t").Parse(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestSigner_WrongIssuer(t *testing.T) {
	other := NewSigner(configs.AuthConfig{JWTSecret: "s3cr3t", TokenExpiry: 60}, "elsewhere")

	token, err := other.Generate(ClaimsData{Email: "a@b.co"})
	require.NoError(t, err)

	_, err = testSigner("s3cr3t").Parse(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestSigner_Malformed(t *testing.T) {
	_, err := testSigner("s3cr3t").Parse("not-a-token")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("Passw0rd!", 4)
	require.NoError(t, err)
	assert.NotEqual(t, "Passw0rd!", hash)

	assert.True(t, CheckPassword("Passw0rd!", hash))
	assert.False(t, CheckPassword("passw0rd!", hash))
}

func TestGenerateOTP(t *testing.T) {
	code, err := GenerateOTP(0)
	require.NoError(t, err)
	require.Len(t, code, DefaultOTPLength)

	for _, r := range code {
		assert.True(t, strings.ContainsRune(OTPAlphabet, r))
	}

	other, err := GenerateOTP(12)
	require.NoError(t, err)
	assert.Len(t, other, 12)
}
