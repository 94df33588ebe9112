package firebase

import (
	"context"

	"firebase.google.com/go/v4/auth"

	"github.com/xujalz/Lost-And-Found/pkg/errors"
)

// FirebaseAuthClient verifies Firebase ID tokens. Account management
// (sign-up, sign-in) happens client-side against Firebase; the backend
// only ever sees bearer tokens.
type FirebaseAuthClient struct {
	client *auth.Client
}

func NewFirebaseAuthClient(client *auth.Client) *FirebaseAuthClient {
	return &FirebaseAuthClient{
		client: client,
	}
}

func (f *FirebaseAuthClient) VerifyToken(ctx context.Context, token string) (string, error) {
	result, err := f.client.VerifyIDToken(ctx, token)
	if err != nil {
		return "", errors.Unauthorized("Invalid or expired token", err)
	}

	return result.UID, nil
}
