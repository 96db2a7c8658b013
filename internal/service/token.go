package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	domainauth "github.com/jetonapp/jeton/internal/domain/auth"
	apperrors "github.com/jetonapp/jeton/internal/errors"
	"github.com/jetonapp/jeton/internal/ports"
)

const (
	tokenUseAccess  = "access"
	tokenUseRefresh = "refresh"
)

// tokenClaims is the signed claim set carried by access and refresh tokens.
type tokenClaims struct {
	UserID   string  `json:"user_id"`
	Role     string  `json:"role"`
	SchoolID *string `json:"school_id,omitempty"`
	TokenUse string  `json:"token_use"`
	jwt.RegisteredClaims
}

// TokenServiceOptions groups configuration for TokenService.
type TokenServiceOptions struct {
	Secret     string
	Issuer     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// TokenService implements the legacy stateless token path (ports.TokenStrategy).
// Tokens are HS256-signed and verified by signature plus expiry only; there is
// no server-side revocation list. Every refresh mints a brand-new pair with a
// fresh token id, implicitly superseding the presented refresh token.
type TokenService struct {
	secret     []byte
	issuer     string
	accessTTL  time.Duration
	refreshTTL time.Duration
}

var _ ports.TokenStrategy = (*TokenService)(nil)

// NewTokenService constructs a TokenService. The signing secret is required.
func NewTokenService(opts TokenServiceOptions) (*TokenService, error) {
	if opts.Secret == "" {
		return nil, errors.New("token service: signing secret is required")
	}
	accessTTL := opts.AccessTTL
	if accessTTL <= 0 {
		accessTTL = 15 * time.Minute
	}
	refreshTTL := opts.RefreshTTL
	if refreshTTL <= 0 {
		refreshTTL = 7 * 24 * time.Hour
	}
	return &TokenService{
		secret:     []byte(opts.Secret),
		issuer:     opts.Issuer,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}, nil
}

// Generate mints a new access/refresh token pair for the given identity.
func (s *TokenService) Generate(claims ports.TokenClaims) (ports.TokenPair, error) {
	access, err := s.sign(claims, tokenUseAccess, s.accessTTL)
	if err != nil {
		return ports.TokenPair{}, fmt.Errorf("sign access token: %w", err)
	}
	refresh, err := s.sign(claims, tokenUseRefresh, s.refreshTTL)
	if err != nil {
		return ports.TokenPair{}, fmt.Errorf("sign refresh token: %w", err)
	}
	return ports.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// VerifyRefresh validates a refresh token and returns its identity claims.
// Any parse, signature, expiry, or token-use failure maps to the same
// Unauthenticated error.
func (s *TokenService) VerifyRefresh(token string) (ports.TokenClaims, error) {
	claims, err := s.parse(token)
	if err != nil || claims.TokenUse != tokenUseRefresh {
		return ports.TokenClaims{}, apperrors.Unauthenticated("invalid or expired refresh token")
	}
	return ports.TokenClaims{
		UserID:   claims.UserID,
		Role:     domainauth.Role(claims.Role),
		SchoolID: claims.SchoolID,
	}, nil
}

// Refresh rotates a token pair: the presented refresh token is verified and a
// brand-new pair is issued, both tokens different from the originals.
func (s *TokenService) Refresh(token string) (ports.TokenPair, error) {
	claims, err := s.VerifyRefresh(token)
	if err != nil {
		return ports.TokenPair{}, err
	}
	return s.Generate(claims)
}

func (s *TokenService) sign(claims ports.TokenClaims, use string, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	tc := tokenClaims{
		UserID:   claims.UserID,
		Role:     string(claims.Role),
		SchoolID: claims.SchoolID,
		TokenUse: use,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   claims.UserID,
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, tc).SignedString(s.secret)
}

func (s *TokenService) parse(token string) (*tokenClaims, error) {
	parsed, err := jwt.ParseWithClaims(token, &tokenClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := parsed.Claims.(*tokenClaims)
	if !ok || !parsed.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}
