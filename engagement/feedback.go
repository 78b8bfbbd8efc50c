package engagement

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"neshama/models"
)

// Weights of the profile completion score. They sum to 100.
const (
	scorePhotos        = 30
	scoreAbout         = 25
	scoreQuestionnaire = 30
	scorePreferences   = 15

	minAboutLength        = 50
	questionnaireDoneBar  = 80
	requiredPhotoCount    = 3
	totalQuestionnaireLen = 5 * models.QuestionnaireWorldSize
)

// Stable identifiers for missing profile items. Partner preference items
// share the "preferred_" prefix so the snapshot builder can split them out.
const (
	MissingProfilePhoto      = "profile_photo"
	MissingAboutSection      = "about_section"
	MissingPreferredAgeRange = "preferred_age_range"
)

// GormFeedbackService scores profile completion straight from the database.
type GormFeedbackService struct {
	db *gorm.DB
}

func NewGormFeedbackService(db *gorm.DB) *GormFeedbackService {
	return &GormFeedbackService{db: db}
}

// CompileReport scores one user's profile. skipAI is accepted for interface
// compatibility; this implementation is purely rule based and ignores it.
func (s *GormFeedbackService) CompileReport(ctx context.Context, userID uint, locale string, skipAI bool) (*FeedbackReport, error) {
	var user models.User
	err := s.db.WithContext(ctx).
		Preload("Profile").
		Preload("Images").
		Preload("QuestionnaireResponses", func(db *gorm.DB) *gorm.DB {
			return db.Order("last_saved DESC").Limit(1)
		}).
		First(&user, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	report := &FeedbackReport{}

	if len(user.Images) > 0 {
		report.CompletionPercentage += scorePhotos
	} else {
		report.MissingProfileItems = append(report.MissingProfileItems, MissingProfilePhoto)
	}

	if user.Profile != nil && len([]rune(user.Profile.About)) >= minAboutLength {
		report.CompletionPercentage += scoreAbout
	} else {
		report.MissingProfileItems = append(report.MissingProfileItems, MissingAboutSection)
	}

	var latest *models.QuestionnaireResponse
	if len(user.QuestionnaireResponses) > 0 {
		latest = &user.QuestionnaireResponses[0]
	}
	report.QuestionnaireCompletion = questionnairePercent(latest)
	report.MissingQuestionnaireItems = worldStatuses(latest)
	if report.QuestionnaireCompletion >= questionnaireDoneBar {
		report.CompletionPercentage += scoreQuestionnaire
	}

	if user.Profile != nil && user.Profile.PreferredAgeMin != nil && user.Profile.PreferredAgeMax != nil {
		report.CompletionPercentage += scorePreferences
	} else {
		report.MissingProfileItems = append(report.MissingProfileItems, MissingPreferredAgeRange)
	}

	return report, nil
}

func questionnairePercent(qr *models.QuestionnaireResponse) int {
	if qr == nil {
		return 0
	}
	pct := qr.AnsweredCount() * 100 / totalQuestionnaireLen
	if pct > 100 {
		pct = 100
	}
	return pct
}

// worldStatuses reports per-world progress in a fixed order so the
// generators pick a deterministic world to nudge about.
func worldStatuses(qr *models.QuestionnaireResponse) []WorldStatus {
	worlds := []string{
		models.WorldValues,
		models.WorldPersonality,
		models.WorldRelationship,
		models.WorldPartner,
		models.WorldReligion,
	}
	var answers map[string][]string
	if qr != nil {
		answers = qr.WorldAnswers()
	}
	statuses := make([]WorldStatus, 0, len(worlds))
	for _, w := range worlds {
		done := len(answers[w])
		if done > models.QuestionnaireWorldSize {
			done = models.QuestionnaireWorldSize
		}
		statuses = append(statuses, WorldStatus{
			World:     w,
			Completed: done,
			Total:     models.QuestionnaireWorldSize,
			IsDone:    done >= models.QuestionnaireWorldSize,
		})
	}
	return statuses
}
