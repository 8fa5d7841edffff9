package utils

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken     = errors.New("invalid access token")
	ErrTokenExpired     = errors.New("access token expired")
	ErrMissingClaim     = errors.New("access token is missing a required claim")
	errUnexpectedMethod = errors.New("unexpected signing method")
)

var signingMethod = jwt.SigningMethodHS256

// Identity is what a token proves about its bearer.
type Identity struct {
	EmployeeID uint
	Username   string
	Role       string
}

type AccessClaims struct {
	Username string `json:"unique_name"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// TokenService issues and validates HS256 bearer tokens. It holds only
// immutable configuration and is safe for concurrent use.
type TokenService struct {
	issuer   string
	audience string
	key      []byte
	ttl      time.Duration
	now      func() time.Time
}

func NewTokenService(cfg JWTConfig) (*TokenService, error) {
	if len(cfg.Key) < MinimumJWTKeyLength {
		return nil, ErrJWTKeyTooShort
	}
	if cfg.ValidInMinutes <= 0 {
		return nil, ErrJWTValidity
	}
	return &TokenService{
		issuer:   cfg.Issuer,
		audience: cfg.Audience,
		key:      []byte(cfg.Key),
		ttl:      cfg.ValidFor(),
		now:      time.Now,
	}, nil
}

func (s *TokenService) Issue(employeeID uint, username, role string) (string, error) {
	now := s.now().UTC()
	claims := AccessClaims{
		Username: username,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   strconv.FormatUint(uint64(employeeID), 10),
			Issuer:    s.issuer,
			Audience:  jwt.ClaimStrings{s.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	token := jwt.NewWithClaims(signingMethod, claims)
	signed, err := token.SignedString(s.key)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

func (s *TokenService) Validate(tokenString string) (*Identity, error) {
	claims := &AccessClaims{}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{signingMethod.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	_, err := parser.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errUnexpectedMethod
		}
		return s.key, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	now := s.now()
	if claims.ExpiresAt == nil || claims.ID == "" || claims.Subject == "" ||
		claims.Username == "" || claims.Role == "" {
		return nil, ErrMissingClaim
	}
	if !claims.VerifyExpiresAt(now, true) {
		return nil, ErrTokenExpired
	}
	if !claims.VerifyNotBefore(now, false) {
		return nil, ErrInvalidToken
	}
	if !claims.VerifyIssuer(s.issuer, true) || !claims.VerifyAudience(s.audience, true) {
		return nil, ErrInvalidToken
	}

	employeeID, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: subject %q", ErrInvalidToken, claims.Subject)
	}
	return &Identity{
		EmployeeID: uint(employeeID),
		Username:   claims.Username,
		Role:       claims.Role,
	}, nil
}
