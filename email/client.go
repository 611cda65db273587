// Package email provides email client functionality
package email

import (
	"fmt"
	"os"

	"github.com/insightly/insightly-go/email/templates"
	"github.com/resendlabs/resend-go"
)

type Client struct {
	resend    *resend.Client
	fromEmail string
	fromName  string
}

func NewClient() (*Client, error) {
	apiKey := os.Getenv("RESEND_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("RESEND_API_KEY environment variable is required")
	}

	fromEmail := os.Getenv("EMAIL_FROM")
	if fromEmail == "" {
		fromEmail = "noreply@insightly.dev"
	}

	fromName := os.Getenv("EMAIL_FROM_NAME")
	if fromName == "" {
		fromName = "Insightly"
	}

	client := resend.NewClient(apiKey)

	return &Client{
		resend:    client,
		fromEmail: fromEmail,
		fromName:  fromName,
	}, nil
}

// SendWebsiteWelcomeEmail sends the setup snippet after a website is registered.
func (c *Client) SendWebsiteWelcomeEmail(websiteName, websiteID, domain, toEmail string) error {
	subject := fmt.Sprintf("%s is ready for analytics", websiteName)

	htmlContent := templates.GetWebsiteWelcomeEmail(templates.WebsiteWelcomeProps{
		WebsiteName: websiteName,
		WebsiteID:   websiteID,
		Domain:      domain,
	})

	request := &resend.SendEmailRequest{
		From:    fmt.Sprintf("%s <%s>", c.fromName, c.fromEmail),
		To:      []string{toEmail},
		Subject: subject,
		Html:    htmlContent,
	}

	_, err := c.resend.Emails.Send(request)
	if err != nil {
		return fmt.Errorf("failed to send welcome email: %w", err)
	}

	return nil
}
