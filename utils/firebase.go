// utils/firebase.go
package utils

import (
	"context"
	"fmt"

	"hirewise/config"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

// FirebaseInit initializes the Firebase App and returns its Messaging client.
// It returns nil, nil when no credentials are configured so push delivery is simply skipped.
func FirebaseInit(ctx context.Context) (*messaging.Client, error) {
	if config.AppConfig.FirebaseCredentialsFile == "" {
		return nil, nil
	}
	opt := option.WithCredentialsFile(config.AppConfig.FirebaseCredentialsFile)

	app, err := firebase.NewApp(ctx, nil, opt)
	if err != nil {
		return nil, fmt.Errorf("firebase: error initializing app: %w", err)
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("firebase: error getting Messaging client: %w", err)
	}
	return client, nil
}
