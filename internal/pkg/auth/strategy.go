package auth

import (
	"errors"
	"time"

	"github.com/polkiloo/restock/internal/domain/model"
)

var ErrInvalidToken = errors.New("invalid auth token")

// Strategy issues and verifies actor tokens.
type Strategy interface {
	IssueToken(actor model.Actor) (string, error)
	ParseToken(token string) (model.Actor, error)
	Name() string
}

type Options struct {
	TTL    time.Duration
	Issuer string
}
