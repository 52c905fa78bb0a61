package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/procureflow/backend/internal/domain/shared"
	"github.com/procureflow/backend/internal/infrastructure/config"
)

// Common errors
var (
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("token has expired")
	ErrTokenNotYetValid = errors.New("token is not yet valid")
	ErrInvalidClaims    = errors.New("invalid token claims")
	ErrMissingTenantID  = errors.New("missing tenant_id in claims")
	ErrMissingPartyID   = errors.New("missing party_id in claims")
	ErrUnknownActor     = errors.New("unknown actor class in claims")
)

// Claims carries the resolved procurement identity inside a JWT.
// Party is the buyer organization ID for buyer tokens and the supplier ID
// for supplier tokens.
type Claims struct {
	jwt.RegisteredClaims
	TenantID   string `json:"tenant_id"`
	ActorClass string `json:"actor_class"`
	PartyID    string `json:"party_id"`
	Name       string `json:"name,omitempty"`
}

// JWTService issues and validates access tokens
type JWTService struct {
	secret     []byte
	expiration time.Duration
	issuer     string
}

// NewJWTService creates a new JWT service
func NewJWTService(cfg config.JWTConfig) *JWTService {
	return &JWTService{
		secret:     []byte(cfg.Secret),
		expiration: cfg.AccessTokenExpiration,
		issuer:     cfg.Issuer,
	}
}

// GenerateTokenInput contains input for token generation
type GenerateTokenInput struct {
	TenantID uuid.UUID
	Actor    shared.ActorContext
	Name     string
}

// GenerateToken issues a signed access token for the given actor
func (s *JWTService) GenerateToken(input GenerateTokenInput) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(s.expiration)

	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Issuer:    s.issuer,
			Subject:   input.Actor.PartyID.String(),
			Audience:  jwt.ClaimStrings{s.issuer},
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		TenantID:   input.TenantID.String(),
		ActorClass: input.Actor.Class.String(),
		PartyID:    input.Actor.PartyID.String(),
		Name:       input.Name,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}

	return signed, expiresAt, nil
}

// ValidateToken validates an access token and returns its claims
func (s *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		if errors.Is(err, jwt.ErrTokenNotValidYet) {
			return nil, ErrTokenNotYetValid
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidClaims
	}

	if claims.TenantID == "" {
		return nil, ErrMissingTenantID
	}
	if claims.PartyID == "" {
		return nil, ErrMissingPartyID
	}
	if !shared.ActorClass(claims.ActorClass).IsValid() {
		return nil, ErrUnknownActor
	}

	return claims, nil
}

// TenantUUID parses the tenant ID from claims
func (c *Claims) TenantUUID() (uuid.UUID, error) {
	return uuid.Parse(c.TenantID)
}

// ActorContext resolves the claims into the domain's actor identity
func (c *Claims) ActorContext() (shared.ActorContext, error) {
	partyID, err := uuid.Parse(c.PartyID)
	if err != nil {
		return shared.ActorContext{}, ErrInvalidClaims
	}

	switch shared.ActorClass(c.ActorClass) {
	case shared.ActorBuyer:
		return shared.BuyerActor(partyID), nil
	case shared.ActorSupplier:
		return shared.SupplierActor(partyID), nil
	default:
		return shared.ActorContext{}, ErrUnknownActor
	}
}
