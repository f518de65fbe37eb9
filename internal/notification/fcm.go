package notification

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// ErrNoCredentials is returned when neither FCM_SERVICE_ACCOUNT_JSON nor the
// credentials file is available.
var ErrNoCredentials = errors.New("no firebase credentials configured")

type FCMService struct {
	client *messaging.Client
	logger *zap.Logger
}

// NewFCMService prefers the base64 encoded FCM_SERVICE_ACCOUNT_JSON variable
// and falls back to the service account file at credentialsFile.
func NewFCMService(ctx context.Context, credentialsFile string, logger *zap.Logger) (*FCMService, error) {
	opt, err := credentialsOption(credentialsFile)
	if err != nil {
		return nil, err
	}

	app, err := firebase.NewApp(ctx, nil, opt)
	if err != nil {
		return nil, fmt.Errorf("error initializing firebase app: %w", err)
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting messaging client: %w", err)
	}

	return &FCMService{client: client, logger: logger}, nil
}

func credentialsOption(credentialsFile string) (option.ClientOption, error) {
	if encoded := os.Getenv("FCM_SERVICE_ACCOUNT_JSON"); encoded != "" {
		decoded, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			return nil, fmt.Errorf("failed to decode FCM_SERVICE_ACCOUNT_JSON: %w", err)
		}
		return option.WithCredentialsJSON(decoded), nil
	}

	if credentialsFile == "" {
		return nil, ErrNoCredentials
	}
	if _, err := os.Stat(credentialsFile); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrNoCredentials, credentialsFile, err)
	}
	return option.WithCredentialsFile(credentialsFile), nil
}

// SendToTopic pushes one message to every device subscribed to topic.
func (s *FCMService) SendToTopic(ctx context.Context, topic, title, body string, data map[string]string) error {
	message := &messaging.Message{
		Topic: topic,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
		Android: &messaging.AndroidConfig{
			Priority: "high",
			Notification: &messaging.AndroidNotification{
				Sound: "default",
			},
		},
		APNS: &messaging.APNSConfig{
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{Sound: "default"},
			},
		},
	}

	id, err := s.client.Send(ctx, message)
	if err != nil {
		return fmt.Errorf("fcm send to %s: %w", topic, err)
	}

	s.logger.Debug("push sent", zap.String("topic", topic), zap.String("message_id", id))
	return nil
}
