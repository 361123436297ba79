// Copyright (c) 2026 Springfield. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec_test

import (
	"crypto/rand"
	"crypto/rsa"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/springfield/internal/platform/sec"
)

/*
TestTokenService_RoundTrip signs and verifies an access token with an
ephemeral key.
*/
func TestTokenService_RoundTrip(t *testing.T) {
	tokens, err := sec.NewEphemeralTokenService("springfield.test")
	require.NoError(t, err)

	signed, err := tokens.GenerateAccessToken("user-1", "homer", string(sec.RoleAdmin), time.Hour)
	require.NoError(t, err)

	claims, err := tokens.VerifyToken(signed)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "homer", claims.Username)
	assert.Equal(t, "springfield.test", claims.Issuer)
}

func TestTokenService_RejectsForeignKey(t *testing.T) {
	signer, err := sec.NewEphemeralTokenService("a")
	require.NoError(t, err)
	verifier, err := sec.NewEphemeralTokenService("a")
	require.NoError(t, err)

	signed, err := signer.GenerateAccessToken("user-1", "bart", string(sec.RoleMember), time.Hour)
	require.NoError(t, err)

	_, err = verifier.VerifyToken(signed)
	assert.Error(t, err)
}

func TestTokenService_RejectsOtherIssuer(t *testing.T) {
	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	signer := sec.NewTokenServiceFromKey(privateKey, "shelbyville.api")
	verifier := sec.NewTokenServiceFromKey(privateKey, "springfield.api")

	signed, err := signer.GenerateAccessToken("user-1", "bart", string(sec.RoleMember), time.Hour)
	require.NoError(t, err)

	_, err = verifier.VerifyToken(signed)
	assert.ErrorIs(t, err, sec.ErrInvalidToken)
}

func TestTokenService_RejectsExpired(t *testing.T) {
	tokens, err := sec.NewEphemeralTokenService("a")
	require.NoError(t, err)

	signed, err := tokens.GenerateAccessToken("user-1", "bart", string(sec.RoleMember), -time.Minute)
	require.NoError(t, err)

	_, err = tokens.VerifyToken(signed)
	assert.Error(t, err)
}

func TestUserRole_AtLeast(t *testing.T) {
	assert.True(t, sec.RoleAdmin.AtLeast(sec.RoleMember))
	assert.True(t, sec.RoleMember.AtLeast(sec.RoleMember))
	assert.False(t, sec.RoleMember.AtLeast(sec.RoleAdmin))
	assert.False(t, sec.UserRole("guest").AtLeast(sec.RoleMember))
	assert.False(t, sec.UserRole("guest").AtLeast(sec.UserRole("root")))
	assert.Equal(t, sec.RoleAdmin, sec.RoleFor(true))

	var anonymous *sec.AuthClaims
	assert.False(t, anonymous.Has(sec.RoleMember))
	assert.True(t, (&sec.AuthClaims{Role: "admin"}).Has(sec.RoleMember))
}

func TestPasswordHash(t *testing.T) {
	hash, err := sec.HashPassword("donuts")
	require.NoError(t, err)

	assert.True(t, sec.CheckPasswordHash("donuts", hash))
	assert.False(t, sec.CheckPasswordHash("duff", hash))
	assert.False(t, sec.CheckPasswordHash("donuts", "not-a-hash"))

	_, err = sec.HashPassword(strings.Repeat("d", sec.PasswordMaxBytes+1))
	assert.ErrorIs(t, err, sec.ErrPasswordTooLong)
}
