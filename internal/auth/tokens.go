package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"aidanwoods.dev/go-paseto"
	"github.com/google/uuid"
)

const (
	tokenIssuer   = "worldmark-server"
	tokenAudience = "worldmark-client"

	// refreshTokenBytes is the entropy of an opaque refresh token.
	refreshTokenBytes = 32
)

// TokenService issues and verifies PASETO v4.local access tokens and opaque
// refresh tokens.
type TokenService struct {
	key             paseto.V4SymmetricKey
	accessDuration  time.Duration
	refreshDuration time.Duration
}

// NewTokenService creates a token service from a raw 32-byte symmetric key.
func NewTokenService(keyBytes []byte, accessDuration, refreshDuration time.Duration) (*TokenService, error) {
	key, err := paseto.V4SymmetricKeyFromBytes(keyBytes)
	if err != nil {
		return nil, fmt.Errorf("invalid token key: %w", err)
	}

	return &TokenService{
		key:             key,
		accessDuration:  accessDuration,
		refreshDuration: refreshDuration,
	}, nil
}

// AccessTokenDuration returns the configured access token lifetime.
func (s *TokenService) AccessTokenDuration() time.Duration {
	return s.accessDuration
}

// RefreshTokenDuration returns the configured refresh token lifetime.
func (s *TokenService) RefreshTokenDuration() time.Duration {
	return s.refreshDuration
}

// GenerateAccessToken creates a signed access token for the given user.
func (s *TokenService) GenerateAccessToken(userID, email string) (string, error) {
	now := time.Now()

	token := paseto.NewToken()
	token.SetIssuer(tokenIssuer)
	token.SetSubject(userID)
	token.SetAudience(tokenAudience)
	token.SetIssuedAt(now)
	token.SetNotBefore(now)
	token.SetExpiration(now.Add(s.accessDuration))
	token.SetJti(uuid.NewString())

	if err := token.Set("user_id", userID); err != nil {
		return "", fmt.Errorf("failed to set user_id claim: %w", err)
	}
	if err := token.Set("email", email); err != nil {
		return "", fmt.Errorf("failed to set email claim: %w", err)
	}

	return token.V4Encrypt(s.key, nil), nil
}

// VerifyAccessToken validates a token and returns its claims.
func (s *TokenService) VerifyAccessToken(tokenString string) (*AccessClaims, error) {
	parser := paseto.NewParser()
	parser.AddRule(paseto.ForAudience(tokenAudience))
	parser.AddRule(paseto.IssuedBy(tokenIssuer))
	parser.AddRule(paseto.NotExpired())
	parser.AddRule(paseto.ValidAt(time.Now()))

	token, err := parser.ParseV4Local(s.key, tokenString, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	var claims AccessClaims
	if err := json.Unmarshal(token.ClaimsJSON(), &claims); err != nil {
		return nil, fmt.Errorf("failed to parse claims: %w", err)
	}

	return &claims, nil
}

// GenerateRefreshToken creates an opaque refresh token. The raw token is
// returned to the client; only its hash is stored server-side.
func GenerateRefreshToken() (string, error) {
	buf := make([]byte, refreshTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate refresh token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// HashRefreshToken returns the hex-encoded SHA-256 of a refresh token, the
// form in which refresh tokens are persisted.
func HashRefreshToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
