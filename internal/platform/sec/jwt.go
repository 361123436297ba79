// Copyright (c) 2026 Springfield. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package sec holds the password hashing and the RS256 access tokens.
//
// Domain packages only see [TokenService] and [AuthClaims]; key material and
// the JWT library stay behind this package.
package sec

import (
	"crypto/rand"
	"crypto/rsa"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/taibuivan/springfield/pkg/uuid"
)

// # Claims

// AuthClaims is the access token payload. The role travels in the token, so
// a request identity is built without a store lookup.
type AuthClaims struct {
	jwt.RegisteredClaims

	UserID   string `json:"uid"`
	Username string `json:"unm"`
	Role     string `json:"rol"`
}

// ErrInvalidToken wraps every verification failure.
var ErrInvalidToken = errors.New("sec: invalid token")

// # Token Service

// TokenService signs and verifies access tokens with one RSA key pair.
type TokenService struct {
	privateKey *rsa.PrivateKey
	publicKey  *rsa.PublicKey
	issuer     string
	parser     *jwt.Parser
}

// NewTokenService loads a PEM key pair from disk.
func NewTokenService(privateKeyPath, publicKeyPath, issuer string) (*TokenService, error) {
	privateKey, err := readKey(privateKeyPath, jwt.ParseRSAPrivateKeyFromPEM)
	if err != nil {
		return nil, err
	}

	publicKey, err := readKey(publicKeyPath, jwt.ParseRSAPublicKeyFromPEM)
	if err != nil {
		return nil, err
	}

	if !privateKey.PublicKey.Equal(publicKey) {
		return nil, fmt.Errorf("sec: %s does not match the private key", publicKeyPath)
	}
	return newTokenService(privateKey, publicKey, issuer), nil
}

// NewTokenServiceFromKey wraps an in-memory key.
func NewTokenServiceFromKey(privateKey *rsa.PrivateKey, issuer string) *TokenService {
	return newTokenService(privateKey, &privateKey.PublicKey, issuer)
}

// NewEphemeralTokenService generates a throwaway 2048-bit key. Tokens it signs
// die with the process; only development and tests use it.
func NewEphemeralTokenService(issuer string) (*TokenService, error) {
	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		return nil, fmt.Errorf("sec: failed to generate key: %w", err)
	}
	return NewTokenServiceFromKey(privateKey, issuer), nil
}

func newTokenService(privateKey *rsa.PrivateKey, publicKey *rsa.PublicKey, issuer string) *TokenService {
	return &TokenService{
		privateKey: privateKey,
		publicKey:  publicKey,
		issuer:     issuer,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
			jwt.WithIssuer(issuer),
			jwt.WithExpirationRequired(),
			jwt.WithIssuedAt(),
		),
	}
}

func readKey[K any](path string, parse func([]byte) (K, error)) (K, error) {
	var zero K

	data, err := os.ReadFile(path)
	if err != nil {
		return zero, fmt.Errorf("sec: failed to read key %s: %w", path, err)
	}

	key, err := parse(data)
	if err != nil {
		return zero, fmt.Errorf("sec: failed to parse key %s: %w", path, err)
	}
	return key, nil
}

// GenerateAccessToken signs a token for the user valid for ttl.
func (service *TokenService) GenerateAccessToken(userID, username, role string, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, AuthClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New(),
			Subject:   userID,
			Issuer:    service.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		UserID:   userID,
		Username: username,
		Role:     role,
	})

	signed, err := token.SignedString(service.privateKey)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign token: %w", err)
	}
	return signed, nil
}

// VerifyToken checks signature, algorithm, issuer and expiry, and returns the
// claims of a valid token. Failures wrap [ErrInvalidToken].
func (service *TokenService) VerifyToken(tokenString string) (*AuthClaims, error) {
	claims := &AuthClaims{}
	_, err := service.parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return service.publicKey, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	if claims.UserID == "" {
		return nil, fmt.Errorf("%w: missing user id", ErrInvalidToken)
	}
	return claims, nil
}
