package service

import "context"

// TokenVerifier resolves a bearer credential to a user identity. Credential
// issuance lives with the external auth provider; this side only verifies.
type TokenVerifier interface {
	VerifyToken(ctx context.Context, token string) (string, error)
}
