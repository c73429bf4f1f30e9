// Package google verifies Google-issued ID tokens.
package google

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/api/idtoken"

	"github.com/garyjia/settlement-portal/internal/application/port"
)

// ErrClientIDMissing is returned when no OAuth client id is configured.
var ErrClientIDMissing = errors.New("google client ID is not configured")

type validateFunc func(ctx context.Context, token, audience string) (*idtoken.Payload, error)

// Verifier implements port.IdentityVerifier.
type Verifier struct {
	clientID string
	validate validateFunc
	logger   *zap.Logger
}

// NewVerifier creates a Verifier accepting tokens issued for clientID.
func NewVerifier(clientID string, logger *zap.Logger) *Verifier {
	return &Verifier{
		clientID: clientID,
		validate: idtoken.Validate,
		logger:   logger,
	}
}

var _ port.IdentityVerifier = (*Verifier)(nil)

// Verify validates idToken and returns its subject and email.
func (v *Verifier) Verify(ctx context.Context, idToken string) (*port.Identity, error) {
	if v.clientID == "" {
		return nil, ErrClientIDMissing
	}

	payload, err := v.validate(ctx, idToken, v.clientID)
	if err != nil {
		v.logger.Info("ID token rejected", zap.Error(err))
		return nil, fmt.Errorf("google ID token validation failed: %w", err)
	}

	email, _ := payload.Claims["email"].(string)
	return &port.Identity{
		UID:   payload.Subject,
		Email: email,
	}, nil
}
