package auth

import (
	"context"
	"net/url"

	"sneakerhub/internal/domain/model"
	"sneakerhub/internal/notify"
)

// Mailer はメール送信依頼を通知に流す（送信そのものは購読側）
type Mailer struct {
	notifier notify.Notifier
	baseURL  string
}

func NewMailer(notifier notify.Notifier, baseURL string) *Mailer {
	return &Mailer{notifier: notifier, baseURL: baseURL}
}

func (m *Mailer) SendVerification(ctx context.Context, a model.Account, token string) {
	m.send(ctx, notify.EventEmailVerification, a, "Verify your email", m.baseURL+"/api/v1/users/verify/"+url.PathEscape(token))
}

func (m *Mailer) SendPasswordReset(ctx context.Context, a model.Account, token string) {
	m.send(ctx, notify.EventEmailPasswordReset, a, "Reset your password", m.baseURL+"/api/v1/users/password-reset/"+url.PathEscape(token))
}

func (m *Mailer) send(ctx context.Context, eventType string, a model.Account, subject string, link string) {
	m.notifier.Notify(ctx, notify.Event{
		Type: eventType,
		Key:  a.Username,
		Payload: notify.EmailPayload{
			To:       a.Email,
			Username: a.Username,
			Subject:  subject,
			Link:     link,
		},
	})
}
