package customer

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"time"

	"storefront/internal/domain"
	tokenrepo "storefront/internal/repository/token"
)

var errTokenCollision = errors.New("refresh token collision")

type tokenStore interface {
	Create(ctx context.Context, token tokenrepo.Token) error
	Get(ctx context.Context, token string) (*tokenrepo.Token, error)
	Delete(ctx context.Context, token string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// refreshTokens issues opaque refresh tokens persisted in the token store.
type refreshTokens struct {
	store tokenStore
	ttl   time.Duration
	now   func() time.Time
}

func (m *refreshTokens) Issue(ctx context.Context, customerID string) (string, error) {
	expiresAt := m.now().Add(m.ttl)
	for i := 0; i < 5; i++ {
		token, err := randomToken()
		if err != nil {
			return "", err
		}
		err = m.store.Create(ctx, tokenrepo.Token{
			Token:      token,
			CustomerID: customerID,
			Kind:       tokenrepo.KindRefresh,
			ExpiresAt:  expiresAt,
		})
		if err == nil {
			return token, nil
		}
		if errors.Is(err, domain.ErrAlreadyExists) {
			continue
		}
		return "", err
	}
	return "", errTokenCollision
}

// Consume validates token and deletes it, returning the owning customer id.
// Refresh tokens are single use.
func (m *refreshTokens) Consume(ctx context.Context, token string) (string, bool) {
	meta, err := m.store.Get(ctx, token)
	if err != nil || meta.Kind != tokenrepo.KindRefresh {
		return "", false
	}
	if err := m.store.Delete(ctx, token); err != nil {
		return "", false
	}
	if !m.now().Before(meta.ExpiresAt) {
		return "", false
	}
	return meta.CustomerID, true
}

func randomToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
