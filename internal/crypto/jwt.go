package crypto

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	tokenIssuer   = "notekeep"
	tokenAudience = "notekeep-api"
)

var (
	ErrInvalidToken   = errors.New("invalid or expired token")
	ErrEmptySecret    = errors.New("token signing secret is empty")
	ErrNonPositiveTTL = errors.New("token ttl must be positive")
)

// signingMethod is fixed; tokens signed with anything else are rejected.
var signingMethod = jwt.SigningMethodHS256

// TokenService issues and validates signed, time-bounded access tokens whose
// subject is a user ID. Tokens are not stored server side, so an issued token
// stays valid until it expires.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenService creates a TokenService signing with secret. Every token it
// issues expires ttl after issuance.
func NewTokenService(secret string, ttl time.Duration) (*TokenService, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	if ttl <= 0 {
		return nil, ErrNonPositiveTTL
	}
	return &TokenService{secret: []byte(secret), ttl: ttl}, nil
}

// TTL returns the lifetime of issued tokens.
func (s *TokenService) TTL() time.Duration {
	return s.ttl
}

// Issue creates a signed token for userID, expiring at now plus the TTL.
// Timestamps have second precision.
func (s *TokenService) Issue(userID int64, now time.Time) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(userID, 10),
		Issuer:    tokenIssuer,
		Audience:  jwt.ClaimStrings{tokenAudience},
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		IssuedAt:  jwt.NewNumericDate(now),
	}

	return jwt.NewWithClaims(signingMethod, claims).SignedString(s.secret)
}

// Validate checks the token's signature, algorithm, issuer, audience and
// expiry as of now, and returns the user ID it was issued for. The token is
// rejected once now reaches its expiry. Every failure is ErrInvalidToken.
func (s *TokenService) Validate(tokenString string, now time.Time) (int64, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{signingMethod.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithAudience(tokenAudience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	if err != nil || !token.Valid {
		return 0, ErrInvalidToken
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || userID <= 0 {
		return 0, ErrInvalidToken
	}

	return userID, nil
}
