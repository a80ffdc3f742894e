package notify

import (
	"fmt"
	"log"

	"github.com/toolshub/api/internal/middleware"
	"github.com/toolshub/api/internal/model"
	"gopkg.in/gomail.v2"
)

// Mailer is the SMTP Dispatcher. Each notification is sent on its own
// goroutine so handlers return before delivery completes.
type Mailer struct {
	dialer      *gomail.Dialer
	fromName    string
	fromEmail   string
	adminInbox  string
	frontendURL string
}

type MailerConfig struct {
	Host        string
	Port        int
	Username    string
	Password    string
	FromName    string
	FromEmail   string
	AdminInbox  string
	FrontendURL string
}

func NewMailer(cfg MailerConfig) *Mailer {
	return &Mailer{
		dialer:      gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		fromName:    cfg.FromName,
		fromEmail:   cfg.FromEmail,
		adminInbox:  cfg.AdminInbox,
		frontendURL: cfg.FrontendURL,
	}
}

func (m *Mailer) NotifyPendingApproval(tool *model.Tool) {
	if m.adminInbox == "" {
		return
	}
	subject := fmt.Sprintf("[Tools Hub] %q is pending approval", tool.Title)
	body := fmt.Sprintf(
		"<p><strong>%s</strong> was submitted by %s and is waiting for review.</p>"+
			"<p><a href=\"%s/admin\">Open the moderation queue</a></p>",
		tool.Title, tool.CreatedBy, m.frontendURL)
	m.send("pending_approval", m.adminInbox, subject, body)
}

func (m *Mailer) NotifyApproved(tool *model.Tool, approver string) {
	if tool.CreatedBy == model.SystemSubmitter {
		return
	}
	subject := fmt.Sprintf("[Tools Hub] %q has been approved", tool.Title)
	body := fmt.Sprintf(
		"<p>Good news — <strong>%s</strong> was approved by %s and is now live.</p>"+
			"<p><a href=\"%s/tools/%s\">View it on Tools Hub</a></p>",
		tool.Title, approver, m.frontendURL, tool.ID)
	m.send("approved", tool.CreatedBy, subject, body)
}

func (m *Mailer) NotifyRejected(tool *model.Tool, rejecter, reason string) {
	if tool.CreatedBy == model.SystemSubmitter {
		return
	}
	subject := fmt.Sprintf("[Tools Hub] %q needs revision", tool.Title)
	body := fmt.Sprintf(
		"<p><strong>%s</strong> was reviewed by %s and needs changes before it can go live.</p>"+
			"<p>Reason: %s</p>"+
			"<p>Edit and resubmit it from <a href=\"%s/my-tools\">your tools</a>.</p>",
		tool.Title, rejecter, reason, m.frontendURL)
	m.send("needs_revision", tool.CreatedBy, subject, body)
}

func (m *Mailer) NotifyUnpublished(tool *model.Tool, actor string) {
	if tool.CreatedBy == model.SystemSubmitter {
		return
	}
	subject := fmt.Sprintf("[Tools Hub] %q has been unpublished", tool.Title)
	body := fmt.Sprintf(
		"<p><strong>%s</strong> was unpublished by %s and is no longer visible in the catalog.</p>",
		tool.Title, actor)
	m.send("unpublished", tool.CreatedBy, subject, body)
}

func (m *Mailer) SendOTP(email, code string) {
	subject := "Your Tools Hub sign-in code"
	body := fmt.Sprintf(
		"<p>Your sign-in code is:</p>"+
			"<p style=\"font-size:24px;letter-spacing:4px;\"><strong>%s</strong></p>"+
			"<p>It expires in 10 minutes. If you didn't request it, ignore this email.</p>",
		code)
	m.send("otp", email, subject, body)
}

func (m *Mailer) send(template, recipient, subject, htmlBody string) {
	go func() {
		msg := gomail.NewMessage()
		msg.SetHeader("From", fmt.Sprintf("%s <%s>", m.fromName, m.fromEmail))
		msg.SetHeader("To", recipient)
		msg.SetHeader("Subject", subject)
		msg.SetBody("text/html", htmlBody)

		if err := m.dialer.DialAndSend(msg); err != nil {
			middleware.RecordNotification(template, false)
			log.Printf("Warning: failed to send %s email to %s: %v", template, recipient, err)
			return
		}
		middleware.RecordNotification(template, true)
	}()
}
