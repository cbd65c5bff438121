package emailsending

import (
	"errors"
	"log/slog"
	"net/url"

	emailtemplates "github.com/vitrine-commerce/vitrine-backend/pkg/messaging/email-templates"
	messagingTypes "github.com/vitrine-commerce/vitrine-backend/pkg/messaging/types"
)

// Mailer is the transport used to deliver rendered emails.
type Mailer interface {
	SendMail(to []string, subject string, htmlContent string) error
}

var (
	mailer   Mailer
	branding messagingTypes.Branding
)

func InitMessageSendingVariables(
	m Mailer,
	b messagingTypes.Branding,
) {
	mailer = m
	branding = b
}

func sendRendered(to string, subject string, html string) error {
	if mailer == nil {
		return errors.New("email sending not initialized")
	}
	err := mailer.SendMail([]string{to}, subject, html)
	if err != nil {
		slog.Error("failed to send email", slog.String("error", err.Error()))
		return err
	}
	return nil
}

func actionLink(path string, token string) string {
	return branding.BaseURL + path + "?token=" + url.QueryEscape(token)
}

func SendVerificationEmail(to string, nome string, token string) error {
	link := actionLink("/v1/auth/verificar-email", token)
	subject, html, err := emailtemplates.EmailVerificacaoHtml(nome, link, branding)
	if err != nil {
		slog.Error("failed to render verification email", slog.String("error", err.Error()))
		return err
	}
	return sendRendered(to, subject, html)
}

func SendPasswordResetEmail(to string, nome string, token string) error {
	link := actionLink("/redefinir-senha", token)
	subject, html, err := emailtemplates.EmailRedefinicaoSenhaHtml(nome, link, branding)
	if err != nil {
		slog.Error("failed to render password reset email", slog.String("error", err.Error()))
		return err
	}
	return sendRendered(to, subject, html)
}

func SendAdminPasswordResetEmail(to string, nome string, token string) error {
	link := actionLink("/admin/reset-password", token)
	subject, html, err := emailtemplates.EmailRedefinicaoSenhaHtml(nome, link, branding)
	if err != nil {
		slog.Error("failed to render password reset email", slog.String("error", err.Error()))
		return err
	}
	return sendRendered(to, subject, html)
}

// SendPasswordChangedEmail notifies the account owner after a password change.
// The security link carries a single-use token that locks the account when the
// owner reports the change as unauthorized.
func SendPasswordChangedEmail(to string, nome string, securityToken string) error {
	link := actionLink("/v1/auth/security-report", securityToken)
	subject, html, err := emailtemplates.EmailSenhaAlteradaHtml(nome, link, branding)
	if err != nil {
		slog.Error("failed to render password changed email", slog.String("error", err.Error()))
		return err
	}
	return sendRendered(to, subject, html)
}
