package mailer

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
)

// ServiceInterface defines the contract for sending transactional mail.
type ServiceInterface interface {
	Send(ctx context.Context, to, subject, body string) error
}

// SESService sends mail through AWS SES.
type SESService struct {
	client *sesv2.Client
	sender string
}

// NewSESService builds an SES mailer using the ambient AWS credential chain.
func NewSESService(ctx context.Context, sender string) (*SESService, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("mailer: load aws config: %w", err)
	}
	return &SESService{client: sesv2.NewFromConfig(cfg), sender: sender}, nil
}

func (s *SESService) Send(ctx context.Context, to, subject, body string) error {
	_, err := s.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(s.sender),
		Destination:      &types.Destination{ToAddresses: []string{to}},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(subject)},
				Body:    &types.Body{Text: &types.Content{Data: aws.String(body)}},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("mailer: send email to %s: %w", to, err)
	}
	return nil
}
