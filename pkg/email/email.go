package email

import (
	"context"
	"crypto/tls"
	"fmt"

	"github.com/adl-parti/membership-backend/internal/config"
	"gopkg.in/gomail.v2"
)

type Email struct {
	config *config.Config
	cache  *EmailTemplateCache
}

func New(cfg *config.Config) (*Email, error) {
	cache, err := NewEmailTemplateCache(EmailDirectory, 10)
	if err != nil {
		return nil, err
	}

	return &Email{
		config: cfg,
		cache:  cache,
	}, nil
}

func (e *Email) Send(ctx context.Context, input *SendEmailInput) error {
	// In dev mode
	if e.config.IsDev {
		fmt.Printf("--- Email to be sent to %s ---\n", input.To)
		fmt.Printf("Subject: %s\n", input.Subject)
		fmt.Println("Body:")
		fmt.Println(input.Body)
		fmt.Println("---------------------------------")
		return nil
	}

	m := gomail.NewMessage()
	m.SetHeader("From", e.config.Email.From)
	m.SetHeader("To", input.To)
	m.SetHeader("Subject", input.Subject)
	m.SetBody("text/html", input.Body)

	d := gomail.NewDialer(SMTPHost, SMTPPort, e.config.Email.From, e.config.Email.Password)
	d.TLSConfig = &tls.Config{InsecureSkipVerify: true}

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}

func (e *Email) SendWelcome(ctx context.Context, to string, data WelcomeEmailData) error {
	body, err := e.cache.Render(EmailTemplateTypeWelcome, data)
	if err != nil {
		return err
	}

	return e.Send(ctx, &SendEmailInput{
		To:      to,
		Subject: "Bienvenue — votre numéro d'adhérent",
		Body:    body,
	})
}
