package jwt

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"wsb/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
	ErrInvalidClaim = errors.New("invalid token claim")
)

// Claims carries the authenticated actor. Subject is the actor id.
type Claims struct {
	Role string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// Principal is the verified caller of a request.
type Principal struct {
	ID      string
	Role    string
	IsAdmin bool
}

// JWT verifies bearer tokens issued by the identity provider.
type JWT interface {
	Verify(tokenString string) (*Principal, error)
	Issue(actorID, role string, ttl time.Duration) (string, error)
}

type Service struct {
	config *config.Config
	now    func() time.Time
}

func New(cfg *config.Config) JWT {
	return &Service{
		config: cfg,
		now:    time.Now,
	}
}

// Issue signs an access token. Used by operator tooling and tests; production
// tokens come from the identity provider sharing the secret.
func (s *Service) Issue(actorID, role string, ttl time.Duration) (string, error) {
	issuedAt := s.now()
	tokenID := uuid.New().String()

	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
			Issuer:    s.config.App.Name,
			Subject:   actorID,
			ID:        tokenID,
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.config.JWT.AccessSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}

// Verify validates the signature and expiry and returns the caller.
func (s *Service) Verify(tokenString string) (*Principal, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}

		return []byte(s.config.JWT.AccessSecret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}

		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	if claims.Subject == "" {
		return nil, ErrInvalidClaim
	}

	return &Principal{
		ID:      claims.Subject,
		Role:    claims.Role,
		IsAdmin: claims.Role != "" && claims.Role == s.config.JWT.AdminRole,
	}, nil
}

// ExtractTokenFromHeader extracts JWT token from Authorization header
func ExtractTokenFromHeader(authHeader string) (string, error) {
	if authHeader == "" {
		return "", errors.New("authorization header is required")
	}

	token, ok := strings.CutPrefix(authHeader, "Bearer ")
	if !ok || token == "" {
		return "", errors.New("authorization header must start with 'Bearer '")
	}

	return token, nil
}
