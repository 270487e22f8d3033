package notify

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"

	"github.com/ignatzorin/iyaya-backend/internal/config"
	"github.com/ignatzorin/iyaya-backend/internal/logger"
	"github.com/ignatzorin/iyaya-backend/internal/models"
)

// StatusEmail данные письма о смене статуса аккаунта.
type StatusEmail struct {
	Email             string
	Name              string
	Status            string
	Reason            string
	SuspensionEndDate *time.Time
	SuspensionCount   int
}

// Sender отправляет готовое письмо.
type Sender interface {
	Send(to, subject, body string) error
}

// SMTPSender отправляет письма через SMTP.
type SMTPSender struct {
	dialer *gomail.Dialer
	from   string
}

// NewSMTPSender создаёт отправителя по настройкам SMTP.
func NewSMTPSender(cfg config.SMTPConfig) *SMTPSender {
	return &SMTPSender{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
		from:   cfg.From,
	}
}

func (s *SMTPSender) Send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	return s.dialer.DialAndSend(m)
}

// LogSender пишет письма в лог, когда SMTP не настроен.
type LogSender struct{}

func (LogSender) Send(to, subject, _ string) error {
	logger.Log.WithFields(logrus.Fields{"to": to, "subject": subject}).Info("email delivery disabled, message dropped")
	return nil
}

// Mailer собирает письма о смене статуса и передаёт их отправителю.
type Mailer struct {
	sender Sender
}

func NewMailer(sender Sender) *Mailer {
	return &Mailer{sender: sender}
}

// SendStatusEmail отправляет письмо для статусов suspended, banned и active.
// Для остальных статусов письмо не предусмотрено.
func (m *Mailer) SendStatusEmail(ctx context.Context, e StatusEmail) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if e.Email == "" {
		return fmt.Errorf("notify: empty recipient")
	}

	subject, body, ok, err := RenderStatusEmail(e)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	return m.sender.Send(e.Email, subject, body)
}

var statusTemplates = map[string]struct {
	subject string
	body    *template.Template
}{
	models.UserStatusSuspended: {
		subject: "Your iYaya account has been suspended",
		body: template.Must(template.New("suspended").Parse(
			`<p>Hi {{.Name}},</p>` +
				`<p>Your account has been suspended{{if .Until}} until {{.Until}}{{end}}.</p>` +
				`{{if .Reason}}<p>Reason: {{.Reason}}</p>{{end}}` +
				`{{if gt .SuspensionCount 1}}<p>This is suspension number {{.SuspensionCount}}. Further violations may lead to a permanent ban.</p>{{end}}` +
				`<p>The iYaya team</p>`)),
	},
	models.UserStatusBanned: {
		subject: "Your iYaya account has been banned",
		body: template.Must(template.New("banned").Parse(
			`<p>Hi {{.Name}},</p>` +
				`<p>Your account has been permanently banned.</p>` +
				`{{if .Reason}}<p>Reason: {{.Reason}}</p>{{end}}` +
				`<p>The iYaya team</p>`)),
	},
	models.UserStatusActive: {
		subject: "Your iYaya account has been reactivated",
		body: template.Must(template.New("active").Parse(
			`<p>Hi {{.Name}},</p>` +
				`<p>Your account is active again. Welcome back!</p>` +
				`<p>The iYaya team</p>`)),
	},
}

// RenderStatusEmail возвращает тему и тело письма. ok=false, если для статуса шаблона нет.
func RenderStatusEmail(e StatusEmail) (subject, body string, ok bool, err error) {
	tpl, ok := statusTemplates[e.Status]
	if !ok {
		return "", "", false, nil
	}

	name := e.Name
	if name == "" {
		name = "there"
	}
	data := struct {
		Name            string
		Reason          string
		Until           string
		SuspensionCount int
	}{
		Name:            name,
		Reason:          e.Reason,
		SuspensionCount: e.SuspensionCount,
	}
	if e.SuspensionEndDate != nil {
		data.Until = e.SuspensionEndDate.UTC().Format("January 2, 2006 15:04 MST")
	}

	var buf bytes.Buffer
	if err := tpl.body.Execute(&buf, data); err != nil {
		return "", "", false, fmt.Errorf("notify: render %s email: %w", e.Status, err)
	}
	return tpl.subject, buf.String(), true, nil
}
