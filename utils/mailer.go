package utils

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/badoux/checkmail"
	"gopkg.in/gomail.v2"

	"neshama/config"
)

// EngagementEmailContext carries the rendered slots of a lifecycle email
// into the HTML template. Empty fields collapse in the template.
type EngagementEmailContext struct {
	Subject        string
	FirstName      string
	Hook           string
	MainMessage    string
	AiContent      string
	SystemSummary  string
	SpecificAction string
	ProgressBar    string
	TodayCompleted []string
	EstimatedTime  string
	Encouragement  string
	CTALink        string
	CTAText        string
	UnsubscribeURL string
	RightToLeft    bool
}

// Embedded email template, one layout for all engagement email types.
var engagementTemplate = template.Must(template.New("engagement").Parse(`<!DOCTYPE html>
<html{{if .RightToLeft}} dir="rtl" lang="he"{{else}} lang="en"{{end}}>
<head>
    <meta charset="UTF-8">
    <title>{{.Subject}}</title>
    <style>
        body { font-family: 'Segoe UI', Arial, sans-serif; background: #f7fafc; margin: 0; padding: 20px; color: #333; }
        .container { max-width: 600px; margin: 0 auto; background: white; border-radius: 12px; overflow: hidden; }
        .header { background: linear-gradient(135deg, #06b6d4, #8b5cf6); padding: 40px 20px; text-align: center; color: white; }
        .content { padding: 40px 30px; line-height: 1.8; }
        .progress { text-align: center; color: #64748b; font-size: 18px; letter-spacing: 1px; }
        .ai-box { background: #f0f9ff; border-left: 4px solid #06b6d4; padding: 20px; margin: 20px 0; border-radius: 8px; }
        .cta { display: inline-block; background: #06b6d4; color: white; padding: 14px 32px;
               border-radius: 8px; text-decoration: none; margin: 20px 0; font-weight: bold; }
        .footer { margin-top: 30px; font-size: 12px; color: #7f8c8d; text-align: center; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>{{.Hook}}</h1>
        </div>
        <div class="content">
            <p>{{.MainMessage}}</p>
            {{if .ProgressBar}}<p class="progress">{{.ProgressBar}}</p>{{end}}
            {{if .TodayCompleted}}
            <ul>
                {{range .TodayCompleted}}<li>{{.}}</li>{{end}}
            </ul>
            {{end}}
            {{if .SystemSummary}}
            <div class="ai-box">{{.SystemSummary}}</div>
            {{end}}
            {{if .AiContent}}
            <div class="ai-box">{{.AiContent}}</div>
            {{end}}
            {{if .SpecificAction}}
            <p><strong>{{.SpecificAction}}</strong>{{if .EstimatedTime}} ({{.EstimatedTime}}){{end}}</p>
            {{end}}
            {{if .CTALink}}
            <a href="{{.CTALink}}" class="cta">{{.CTAText}}</a>
            {{end}}
            <p>{{.Encouragement}}</p>
        </div>
        {{if .UnsubscribeURL}}
        <div class="footer">
            <a href="{{.UnsubscribeURL}}">Unsubscribe</a>
        </div>
        {{end}}
    </div>
</body>
</html>`))

// Mailer sends engagement emails over SMTP.
type Mailer struct {
	cfg config.SMTPConfig
}

func NewMailer(cfg config.SMTPConfig) *Mailer {
	return &Mailer{cfg: cfg}
}

// SendEngagement renders and sends one lifecycle email. Returns an error on
// invalid recipient, template failure, or SMTP failure; callers treat any
// error as a failed send and must not retry.
func (m *Mailer) SendEngagement(to string, data EngagementEmailContext) error {
	if err := checkmail.ValidateFormat(to); err != nil {
		return fmt.Errorf("invalid recipient %q: %w", to, err)
	}

	var body bytes.Buffer
	if err := engagementTemplate.Execute(&body, data); err != nil {
		return fmt.Errorf("error executing template: %w", err)
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", fmt.Sprintf("%s <%s>", m.cfg.FromName, m.cfg.FromEmail))
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", data.Subject)
	if data.UnsubscribeURL != "" {
		msg.SetHeader("List-Unsubscribe", "<"+data.UnsubscribeURL+">")
	}
	msg.SetBody("text/html", body.String())

	dialer := gomail.NewDialer(m.cfg.Host, m.cfg.Port, m.cfg.Username, m.cfg.Password)
	if err := dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("error sending email: %w", err)
	}
	return nil
}
