package engagement

import (
	"context"
	"strings"
	"time"
)

// stagnantAfterDays is how many inactive days mark a user as stagnant,
// once past the onboarding window.
const stagnantAfterDays = 5

// almostDoneBar is the overall completion percentage at which a profile
// counts as nearly finished.
const almostDoneBar = 90

// SnapshotBuilder assembles the per-user engagement snapshot from the
// repository, the feedback scoring, and (optionally) the AI provider.
type SnapshotBuilder struct {
	Repo     UserRepository
	Feedback ProfileFeedbackService
	Insights InsightProvider

	// Now is swappable for tests. Defaults to time.Now.
	Now func() time.Time
}

func NewSnapshotBuilder(repo UserRepository, feedback ProfileFeedbackService, insights InsightProvider) *SnapshotBuilder {
	return &SnapshotBuilder{
		Repo:     repo,
		Feedback: feedback,
		Insights: insights,
		Now:      time.Now,
	}
}

// Build composes the full snapshot for one user. With includeAI false the
// insights slot is left nil and unresolved so a later EnsureInsights call
// can fill it only when the chosen email actually needs it.
func (b *SnapshotBuilder) Build(ctx context.Context, userID uint, includeAI bool) (*EngagementProfile, error) {
	data, err := b.Repo.GetEngagementData(ctx, userID)
	if err != nil {
		return nil, err
	}
	report, err := b.Feedback.CompileReport(ctx, userID, data.User.Language, !includeAI)
	if err != nil {
		return nil, err
	}

	now := b.Now()
	user := data.User

	p := &EngagementProfile{
		UserID:       user.ID,
		FirstName:    user.FirstName,
		Language:     user.Language,
		DaysInSystem: fullDaysBetween(user.CreatedAt, now),
	}

	var partnerMissing, personalMissing []string
	for _, item := range report.MissingProfileItems {
		if strings.HasPrefix(item, "preferred_") {
			partnerMissing = append(partnerMissing, item)
		} else {
			personalMissing = append(personalMissing, item)
		}
	}

	hasSeenPreview := false
	if data.Profile != nil {
		hasSeenPreview = data.Profile.HasViewedProfilePreview
	}

	p.Completion = CompletionStatus{
		Overall: report.CompletionPercentage,
		Photos: PhotoStatus{
			Current: len(data.Images),
			Needed:  requiredPhotoCount,
			IsDone:  len(data.Images) >= requiredPhotoCount,
		},
		PersonalDetails: SectionStatus{
			Missing: personalMissing,
			IsDone:  len(personalMissing) == 0,
		},
		PartnerPreferences: SectionStatus{
			Missing: partnerMissing,
			IsDone:  len(partnerMissing) == 0,
		},
		Questionnaire: QuestionnaireStatus{
			CompletionPercent: report.QuestionnaireCompletion,
			WorldsStatus:      report.MissingQuestionnaireItems,
		},
		HasSeenPreview: hasSeenPreview,
	}

	if campaign := data.DripCampaign; campaign != nil {
		sentAt := campaign.UpdatedAt
		p.LastEmailSent = &sentAt
		p.LastEmailType = EmailType(campaign.LastSentType)
		p.EmailsSentCount = campaign.CurrentStep
		p.Drip = &DripState{SentEmailTypes: campaign.SentEmailTypes}
	}

	p.LastActiveDate = user.UpdatedAt
	if user.LastLogin != nil {
		p.LastActiveDate = *user.LastLogin
	}

	daysSinceActive := fullDaysBetween(p.LastActiveDate, now)
	p.Triggers = Triggers{
		Stagnant:            daysSinceActive >= stagnantAfterDays && p.DaysInSystem > onboardingWindow,
		AlmostDone:          p.Completion.Overall >= almostDoneBar,
		AskedForTestimonial: data.ApprovedTestimonials > 0,
	}

	if includeAI {
		p.AIInsights = b.Insights.GetInsights(ctx, userID, user.Language)
		p.aiResolved = true
	}
	return p, nil
}
