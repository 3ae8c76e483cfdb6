package mailer

import (
	"context"
	"fmt"
	"os"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

// Mailer sends transactional email (password resets). Callers must tolerate a
// nil Mailer: email is optional in development environments.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

type sesMailer struct {
	client *ses.Client
	sender string
}

// NewSESMailer builds an SES-backed Mailer. Region and credentials come from
// the default AWS config chain; MAIL_SENDER sets the verified source address.
func NewSESMailer(ctx context.Context) (Mailer, error) {
	sender := os.Getenv("MAIL_SENDER")
	if sender == "" {
		return nil, fmt.Errorf("MAIL_SENDER is not set")
	}

	region := os.Getenv("AWS_REGION")
	if region == "" {
		region = "us-east-1"
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	return &sesMailer{client: ses.NewFromConfig(cfg), sender: sender}, nil
}

func (m *sesMailer) Send(ctx context.Context, to, subject, body string) error {
	input := &ses.SendEmailInput{
		Source: &m.sender,
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: &subject},
			Body: &types.Body{
				Text: &types.Content{Data: &body},
			},
		},
	}

	if _, err := m.client.SendEmail(ctx, input); err != nil {
		return fmt.Errorf("failed to send email via ses: %w", err)
	}

	return nil
}
