package mail

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"strings"

	"gopkg.in/gomail.v2"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

func NewEmailSender(host string, port int, user, password, from, baseURL string) *EmailSender {
	return &EmailSender{
		Host:     host,
		Port:     port,
		User:     user,
		Password: password,
		From:     from,
		BaseURL:  strings.TrimSuffix(baseURL, "/"),
	}
}

// RenderPaymentConfirmation only formats; it does no I/O.
func RenderPaymentConfirmation(data PaymentConfirmationData) (string, string, error) {
	body, err := render("payment_confirmation.html", data)
	if err != nil {
		return "", "", err
	}
	return "Your membership payment was received", body, nil
}

func RenderCheckoutRecovery(data CheckoutRecoveryData) (string, string, error) {
	body, err := render("checkout_recovery.html", data)
	if err != nil {
		return "", "", err
	}
	return "Finish your membership registration", body, nil
}

func FormatAmount(amount float64, currency string) string {
	if currency == "" {
		return fmt.Sprintf("%.2f", amount)
	}
	return fmt.Sprintf("%.2f %s", amount, strings.ToUpper(currency))
}

func (s *EmailSender) SendPaymentConfirmation(_ context.Context, to, name string, amount float64, currency string) error {
	subject, body, err := RenderPaymentConfirmation(PaymentConfirmationData{
		Name:     name,
		Amount:   FormatAmount(amount, currency),
		LoginURL: s.BaseURL + "/login",
	})
	if err != nil {
		return err
	}
	return s.send(to, subject, body)
}

func (s *EmailSender) SendCheckoutRecovery(_ context.Context, to, name string) error {
	subject, body, err := RenderCheckoutRecovery(CheckoutRecoveryData{
		Name:        name,
		RegisterURL: s.BaseURL + "/register",
	})
	if err != nil {
		return err
	}
	return s.send(to, subject, body)
}

func (s *EmailSender) send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	d := gomail.NewDialer(s.Host, s.Port, s.User, s.Password)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("erro ao enviar email SMTP: %w", err)
	}
	return nil
}

func render(name string, data any) (string, error) {
	var body bytes.Buffer
	if err := templates.ExecuteTemplate(&body, name, data); err != nil {
		return "", fmt.Errorf("erro ao processar template %s: %w", name, err)
	}
	return body.String(), nil
}
