// utils/firebase.go
package utils

import (
	"context"
	"fmt"

	"stayease/config"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"
)

// FirebaseAuthClient initializes the Firebase Admin App and returns its Auth client.
// It returns nil without error when no service-account file is configured; the
// identity provider then runs with the public Identity Toolkit API only.
func FirebaseAuthClient(ctx context.Context) (*auth.Client, error) {
	if !config.FirebaseCredentialsConfigured() {
		return nil, nil
	}
	opt := option.WithCredentialsFile(config.AppConfig.FirebaseCredentialsFile)

	app, err := firebase.NewApp(ctx, nil, opt)
	if err != nil {
		return nil, fmt.Errorf("firebase: error initializing app: %w", err)
	}

	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("firebase: error getting Auth client: %w", err)
	}
	return client, nil
}
