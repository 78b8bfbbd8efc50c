package engagement

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"neshama/models"
	"neshama/utils"
)

// SMTPTransport renders a directive into the engagement email layout and
// delivers it through the shared mailer.
type SMTPTransport struct {
	Mailer            *utils.Mailer
	BaseURL           string
	UnsubscribeSecret string
}

func NewSMTPTransport(mailer *utils.Mailer, baseURL, unsubscribeSecret string) *SMTPTransport {
	return &SMTPTransport{
		Mailer:            mailer,
		BaseURL:           baseURL,
		UnsubscribeSecret: unsubscribeSecret,
	}
}

// Send delivers one directive. Failures are logged and reported as false;
// the caller decides what a failed send means for the run counters.
func (t *SMTPTransport) Send(ctx context.Context, user *models.User, directive *EmailDirective) bool {
	if directive == nil || user.Email == "" {
		return false
	}

	unsubscribeURL := ""
	token, err := utils.GenerateUnsubscribeToken(user.ID, user.Email, t.UnsubscribeSecret)
	if err != nil {
		utils.LogError(err, "unsubscribe_token_failed", map[string]interface{}{
			"user_id": user.ID,
		})
	} else {
		unsubscribeURL = fmt.Sprintf("%s/api/engagement/unsubscribe?token=%s", t.BaseURL, token)
	}

	content := directive.Content
	aiContent := content.AiContent
	if aiContent == "" {
		aiContent = content.AiInsight
	}

	emailCtx := utils.EngagementEmailContext{
		Subject:        directive.Subject,
		FirstName:      user.FirstName,
		Hook:           content.Hook,
		MainMessage:    content.MainMessage,
		AiContent:      aiContent,
		SystemSummary:  content.SystemSummary,
		SpecificAction: content.SpecificAction,
		ProgressBar:    content.ProgressVisualization,
		EstimatedTime:  content.EstimatedTime,
		Encouragement:  content.Encouragement,
		CTALink:        t.BaseURL + "/profile",
		CTAText:        "",
		UnsubscribeURL: unsubscribeURL,
		RightToLeft:    user.Language == "he" || user.Language == "",
	}
	if content.TodayProgress != nil {
		emailCtx.TodayCompleted = content.TodayProgress.ItemsCompleted
	}
	if dict, ok := dictionaries[user.Language]; ok {
		emailCtx.CTAText = dict.CTAText
	} else {
		emailCtx.CTAText = dictionaries["en"].CTAText
	}

	if err := t.Mailer.SendEngagement(user.Email, emailCtx); err != nil {
		utils.LogError(err, "engagement_send_failed", map[string]interface{}{
			"user_id":    user.ID,
			"email_type": string(directive.Type),
		})
		return false
	}

	log.Infof("📧 Sent %s email to user %d", directive.Type, user.ID)
	return true
}
