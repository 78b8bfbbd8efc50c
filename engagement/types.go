package engagement

import (
	"context"
	"errors"
	"time"

	"neshama/models"
)

// ErrUserNotFound is returned when a profile is requested for a user that
// does not exist. It is fatal for that user only; batch runs keep going.
var ErrUserNotFound = errors.New("user not found")

// EmailType identifies one kind of lifecycle email.
type EmailType string

const (
	EmailTypeNone                       EmailType = ""
	EmailTypeOnboardingDay1             EmailType = "ONBOARDING_DAY_1"
	EmailTypeOnboardingPhotos           EmailType = "ONBOARDING_PHOTOS"
	EmailTypeOnboardingAiTeaser         EmailType = "ONBOARDING_AI_TEASER"
	EmailTypeOnboardingQuestionnaireWhy EmailType = "ONBOARDING_QUESTIONNAIRE_WHY"
	EmailTypeOnboardingValueAdd         EmailType = "ONBOARDING_VALUE_ADD"
	EmailTypeNudge                      EmailType = "NUDGE"
	EmailTypeCelebration                EmailType = "CELEBRATION"
	EmailTypeAiSummary                  EmailType = "AI_SUMMARY"
	EmailTypeValue                      EmailType = "VALUE"
	EmailTypeEveningFeedback            EmailType = "EVENING_FEEDBACK"
	EmailTypeInsight                    EmailType = "INSIGHT"
)

// Priority of an email directive.
type Priority string

const (
	PriorityHigh   Priority = "HIGH"
	PriorityNormal Priority = "NORMAL"
	PriorityLow    Priority = "LOW"
)

// PhotoStatus reports progress towards the required photo count.
type PhotoStatus struct {
	Current int  `json:"current"`
	Needed  int  `json:"needed"`
	IsDone  bool `json:"is_done"`
}

// SectionStatus reports missing items of one profile section.
type SectionStatus struct {
	Missing []string `json:"missing"`
	IsDone  bool     `json:"is_done"`
}

// WorldStatus reports progress in one questionnaire world.
type WorldStatus struct {
	World     string `json:"world"`
	Completed int    `json:"completed"`
	Total     int    `json:"total"`
	IsDone    bool   `json:"is_done"`
}

// QuestionnaireStatus aggregates questionnaire progress.
type QuestionnaireStatus struct {
	CompletionPercent int           `json:"completion_percent"`
	WorldsStatus      []WorldStatus `json:"worlds_status"`
}

// CompletionStatus is the derived profile-completion state. Overall is
// computed by the feedback service and never mutated directly.
type CompletionStatus struct {
	Overall            int                 `json:"overall"`
	Photos             PhotoStatus         `json:"photos"`
	PersonalDetails    SectionStatus       `json:"personal_details"`
	PartnerPreferences SectionStatus       `json:"partner_preferences"`
	Questionnaire      QuestionnaireStatus `json:"questionnaire"`
	HasSeenPreview     bool                `json:"has_seen_preview"`
}

// AiInsights is the distilled output of the AI profile analysis.
type AiInsights struct {
	PersonalitySummary string   `json:"personality_summary"`
	LookingForSummary  string   `json:"looking_for_summary"`
	TopStrengths       []string `json:"top_strengths"`
	TopGaps            []string `json:"top_gaps"`
}

// Triggers are the special conditions evaluated by the decision ladder.
type Triggers struct {
	Stagnant            bool `json:"stagnant"`
	AlmostDone          bool `json:"almost_done"`
	AskedForTestimonial bool `json:"asked_for_testimonial"`
}

// DripState mirrors the persisted campaign log the decision engine needs.
type DripState struct {
	SentEmailTypes []string `json:"sent_email_types"`
}

// EngagementProfile is the immutable per-user snapshot a run decides on.
// It is rebuilt fresh for every run and never persisted.
type EngagementProfile struct {
	UserID       uint   `json:"user_id"`
	FirstName    string `json:"first_name"`
	Language     string `json:"language"`
	DaysInSystem int    `json:"days_in_system"`

	Completion CompletionStatus `json:"completion_status"`

	// AIInsights stays nil until lazily loaded; resolved at most once per run.
	AIInsights *AiInsights `json:"ai_insights,omitempty"`
	aiResolved bool

	LastEmailSent   *time.Time `json:"last_email_sent,omitempty"`
	LastEmailType   EmailType  `json:"last_email_type,omitempty"`
	EmailsSentCount int        `json:"emails_sent_count"`
	LastActiveDate  time.Time  `json:"last_active_date"`

	Drip     *DripState `json:"drip_campaign,omitempty"`
	Triggers Triggers   `json:"triggers"`
}

// EnsureInsights lazily resolves AI insights through the provider. The call
// happens at most once per profile instance; a failed fetch leaves nil
// insights and is not retried within the same run.
func (p *EngagementProfile) EnsureInsights(ctx context.Context, provider InsightProvider) {
	if p.aiResolved {
		return
	}
	p.AIInsights = provider.GetInsights(ctx, p.UserID, p.Language)
	p.aiResolved = true
}

// ActivityReport describes what a user did since local midnight.
type ActivityReport struct {
	HasActivity    bool     `json:"has_activity"`
	CompletedToday []string `json:"completed_today"`
	// ProgressDelta is reserved. The source always reports 0 here.
	// TODO: measure actual completion change against the previous day once
	// daily completion snapshots are stored.
	ProgressDelta int `json:"progress_delta"`

	NewImages            int  `json:"new_images"`
	QuestionnaireTouched bool `json:"questionnaire_touched"`
	ProfileTouched       bool `json:"profile_touched"`
}

// TodayProgress summarizes today's activity inside an evening email.
type TodayProgress struct {
	ItemsCompleted []string `json:"items_completed"`
	NewCompletion  int      `json:"new_completion"`
}

// EmailContent carries the rendered text slots of one email.
type EmailContent struct {
	Hook                  string         `json:"hook"`
	MainMessage           string         `json:"main_message"`
	AiContent             string         `json:"ai_content,omitempty"`
	SpecificAction        string         `json:"specific_action,omitempty"`
	ProgressVisualization string         `json:"progress_visualization,omitempty"`
	Encouragement         string         `json:"encouragement"`
	SystemSummary         string         `json:"system_summary,omitempty"`
	AiInsight             string         `json:"ai_insight,omitempty"`
	EstimatedTime         string         `json:"estimated_time,omitempty"`
	TodayProgress         *TodayProgress `json:"today_progress,omitempty"`
}

// EmailDirective is the engine's output for one user: which email to send
// and with what content. SendInDays is always 0 in the current rules.
type EmailDirective struct {
	Type       EmailType    `json:"type"`
	Priority   Priority     `json:"priority"`
	Subject    string       `json:"subject"`
	Content    EmailContent `json:"content"`
	SendInDays int          `json:"send_in_days"`
}

// EngagementData bundles the records needed to build one snapshot.
type EngagementData struct {
	User                 models.User
	Profile              *models.Profile
	Images               []models.UserImage
	LatestResponse       *models.QuestionnaireResponse
	DripCampaign         *models.DripCampaign
	ApprovedTestimonials int
}

// FeedbackReport is the completion scoring produced by the profile feedback
// collaborator. The engine consumes the numbers; it never recomputes them.
type FeedbackReport struct {
	CompletionPercentage      int
	QuestionnaireCompletion   int
	MissingProfileItems       []string
	MissingQuestionnaireItems []WorldStatus
}

// UserRepository is the read side of the engine's persistence.
type UserRepository interface {
	FindDailyCampaignCandidates(ctx context.Context) ([]models.User, error)
	FindTodaysActiveUsers(ctx context.Context) ([]models.User, error)
	GetEngagementData(ctx context.Context, userID uint) (*EngagementData, error)
}

// ProfileFeedbackService compiles the profile-completion report.
type ProfileFeedbackService interface {
	CompileReport(ctx context.Context, userID uint, locale string, skipAI bool) (*FeedbackReport, error)
}

// InsightProvider fetches AI insights for a user. Implementations return nil
// on any internal failure and never propagate an error to the engine.
type InsightProvider interface {
	GetInsights(ctx context.Context, userID uint, language string) *AiInsights
}

// ActivityDetector reports whether a user acted today.
type ActivityDetector interface {
	Detect(ctx context.Context, userID uint) (ActivityReport, error)
}

// EmailTransport delivers one rendered directive. A false return means the
// send failed; the engine never retries automatically.
type EmailTransport interface {
	Send(ctx context.Context, user *models.User, directive *EmailDirective) bool
}

// CampaignStore durably records every sent email. One row per user,
// updated transactionally.
type CampaignStore interface {
	Update(ctx context.Context, userID uint, emailType EmailType) error
}

// DictionaryProvider resolves localized email copy.
type DictionaryProvider interface {
	GetEmailDictionary(locale string) *EmailDictionary
}
