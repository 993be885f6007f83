package report

import (
	"context"
	"fmt"
	"log"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
)

// Mailer sends the pre-filled "question issue" mail to the content team via
// Amazon SES. With no recipient configured it becomes a no-op so offline
// deployments keep working.
type Mailer struct {
	client    *sesv2.Client
	fromEmail string
	toEmail   string
	enabled   bool
}

func NewMailer(ctx context.Context, awsRegion, fromEmail, toEmail string) (*Mailer, error) {
	if fromEmail == "" || toEmail == "" {
		log.Println("report mailer disabled: REPORT_FROM_EMAIL/REPORT_TO_EMAIL not configured")
		return &Mailer{enabled: false}, nil
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(awsRegion))
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}
	log.Printf("report mailer enabled: from=%s to=%s region=%s", fromEmail, toEmail, awsRegion)
	return &Mailer{
		client:    sesv2.NewFromConfig(cfg),
		fromEmail: fromEmail,
		toEmail:   toEmail,
		enabled:   true,
	}, nil
}

func (m *Mailer) NotifyReport(ctx context.Context, r Report) error {
	if !m.enabled {
		return nil
	}
	subject := fmt.Sprintf("Question report [%s] %s", r.Type, r.QuestionID)
	body := fmt.Sprintf(
		"A learner reported a question.\n\nPaper: %s\nQuestion: %s\nType: %s\nComment: %s\nReporter: %s\nReport ID: %s\n",
		r.PaperKey, r.QuestionID, r.Type, r.Comment, r.Reporter, r.ID)

	_, err := m.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(m.fromEmail),
		Destination:      &types.Destination{ToAddresses: []string{m.toEmail}},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(subject), Charset: aws.String("UTF-8")},
				Body: &types.Body{
					Text: &types.Content{Data: aws.String(body), Charset: aws.String("UTF-8")},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("send report mail: %w", err)
	}
	return nil
}
