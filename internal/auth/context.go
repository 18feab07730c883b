package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/2beens/stargym/internal/training"
)

const TokenHeader = "X-STARGYM-TOKEN"

type ownerCtxKey struct{}

func WithOwner(ctx context.Context, owner training.Owner) context.Context {
	return context.WithValue(ctx, ownerCtxKey{}, owner)
}

// OwnerFromContext returns the signed-in owner set by the auth middleware.
func OwnerFromContext(ctx context.Context) (training.Owner, bool) {
	owner, ok := ctx.Value(ownerCtxKey{}).(training.Owner)
	if !ok || owner.UserID == "" {
		return training.Owner{}, false
	}
	return owner, true
}

// TokenFromRequest reads the session token from the Authorization bearer or the stargym token header.
func TokenFromRequest(r *http.Request) string {
	if bearer, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); ok {
		return strings.TrimSpace(bearer)
	}
	return r.Header.Get(TokenHeader)
}
