package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	sestypes "github.com/aws/aws-sdk-go-v2/service/ses/types"
)

// SESAPI is the subset of the SES client the backend uses.
type SESAPI interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// SESBackend mails registration notifications to the operator mailbox.
// The sender address doubles as the recipient and must be SES-verified.
type SESBackend struct {
	client SESAPI
	sender string
}

// NewSESBackend constructs an SES backend from the shared AWS config.
func NewSESBackend(cfg aws.Config, sender string) (*SESBackend, error) {
	if strings.TrimSpace(sender) == "" {
		return nil, errors.New("ses verified sender address is required")
	}
	return &SESBackend{
		client: ses.NewFromConfig(cfg),
		sender: sender,
	}, nil
}

// SendRegistration mails the operator about a new account.
func (b *SESBackend) SendRegistration(ctx context.Context, reg Registration) error {
	textBody := fmt.Sprintf("A new user has registered:\n\nName: %s\nEmail: %s", reg.Username, reg.Email)
	htmlBody := fmt.Sprintf(
		"<p>A new user has registered:</p><p><strong>Name:</strong> %s</p><p><strong>Email:</strong> %s</p>",
		reg.Username, reg.Email,
	)

	_, err := b.client.SendEmail(ctx, &ses.SendEmailInput{
		Destination: &sestypes.Destination{
			ToAddresses: []string{b.sender},
		},
		Message: &sestypes.Message{
			Subject: &sestypes.Content{Data: aws.String("New User Registration Notification")},
			Body: &sestypes.Body{
				Text: &sestypes.Content{Data: aws.String(textBody)},
				Html: &sestypes.Content{Data: aws.String(htmlBody)},
			},
		},
		Source: aws.String(b.sender),
	})
	if err != nil {
		return fmt.Errorf("send registration email: %w", err)
	}
	return nil
}

// Close is a no-op; the SES client holds no connection state.
func (b *SESBackend) Close() error { return nil }
