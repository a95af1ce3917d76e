package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/polkiloo/restock/internal/domain/model"
)

// ActorClaims is the token payload identifying a buyer or a merchant.
type ActorClaims struct {
	Role string `json:"role"`
	Shop string `json:"shop,omitempty"`
	jwt.RegisteredClaims
}

// JWTStrategy signs actor tokens with HS256.
type JWTStrategy struct {
	secret []byte
	ttl    time.Duration
	issuer string
	now    func() time.Time
}

// NewJWTStrategy builds JWTStrategy with provided secret and options.
func NewJWTStrategy(secret string, opts Options) *JWTStrategy {
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	issuer := opts.Issuer
	if issuer == "" {
		issuer = "restock"
	}
	return &JWTStrategy{secret: []byte(secret), ttl: ttl, issuer: issuer, now: time.Now}
}

// IssueToken signs a token for the actor.
func (s *JWTStrategy) IssueToken(actor model.Actor) (string, error) {
	if err := checkActor(actor); err != nil {
		return "", err
	}
	now := s.now()
	claims := ActorClaims{
		Role: string(actor.Role),
		Shop: actor.ShopRef,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   actor.ID,
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// ParseToken validates the signature and expiry and returns the actor.
func (s *JWTStrategy) ParseToken(token string) (model.Actor, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithTimeFunc(s.now),
	)
	claims := &ActorClaims{}
	parsed, err := parser.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return model.Actor{}, ErrInvalidToken
	}

	actor := model.Actor{
		ID:      strings.TrimSpace(claims.Subject),
		Role:    model.Role(claims.Role),
		ShopRef: strings.TrimSpace(claims.Shop),
	}
	if err := checkActor(actor); err != nil {
		return model.Actor{}, ErrInvalidToken
	}
	return actor, nil
}

func (s *JWTStrategy) Name() string {
	return "jwt"
}

func checkActor(actor model.Actor) error {
	if actor.ID == "" {
		return errors.New("actor subject is empty")
	}
	switch actor.Role {
	case model.RoleBuyer:
		return nil
	case model.RoleMerchant:
		if actor.ShopRef == "" {
			return errors.New("merchant token requires a shop")
		}
		return nil
	default:
		return fmt.Errorf("unsupported role %q", actor.Role)
	}
}
