package dispatch

import (
	"context"

	"bitbucket.org/sotavant/rolldice-skill/internal/models"
)

//go:generate mockgen -destination=mock/collaborators.go -package=mock bitbucket.org/sotavant/rolldice-skill/internal/dispatch Validator,IdentityProvider

// Validator confirms that a request really comes from the voice platform.
// An error is treated the same as an invalid request.
type Validator interface {
	Validate(ctx context.Context, raw models.RawRequest) (bool, error)
}

// IdentityProvider resolves the caller's display name from a linked account token.
type IdentityProvider interface {
	LookupDisplayName(ctx context.Context, accessToken string) (string, error)
}
