package engagement

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"neshama/models"
	"neshama/utils"
)

func TestCompileReportEmptyProfile(t *testing.T) {
	db := newTestDB(t)
	svc := NewGormFeedbackService(db)

	user := models.User{Email: "empty@example.com", FirstName: "E"}
	require.NoError(t, db.Create(&user).Error)

	report, err := svc.CompileReport(context.Background(), user.ID, "he", false)
	require.NoError(t, err)

	assert.Equal(t, 0, report.CompletionPercentage)
	assert.Equal(t, 0, report.QuestionnaireCompletion)
	assert.ElementsMatch(t,
		[]string{MissingProfilePhoto, MissingAboutSection, MissingPreferredAgeRange},
		report.MissingProfileItems)
	assert.Len(t, report.MissingQuestionnaireItems, 5, "every world is reported")
}

func TestCompileReportFullProfile(t *testing.T) {
	db := newTestDB(t)
	svc := NewGormFeedbackService(db)

	user := models.User{Email: "full@example.com", FirstName: "F"}
	require.NoError(t, db.Create(&user).Error)
	require.NoError(t, db.Create(&models.Profile{
		UserID:          user.ID,
		About:           strings.Repeat("על עצמי ", 10),
		PreferredAgeMin: utils.Pointer(28),
		PreferredAgeMax: utils.Pointer(38),
	}).Error)
	require.NoError(t, db.Create(&models.UserImage{UserID: user.ID, URL: "https://img/1"}).Error)

	// 80 of 95 answers puts the questionnaire over the scoring bar.
	answers := make([]string, 16)
	for i := range answers {
		answers[i] = "q"
	}
	require.NoError(t, db.Create(&models.QuestionnaireResponse{
		UserID:              user.ID,
		ValuesAnswers:       answers,
		PersonalityAnswers:  answers,
		RelationshipAnswers: answers,
		PartnerAnswers:      answers,
		ReligionAnswers:     answers,
	}).Error)

	report, err := svc.CompileReport(context.Background(), user.ID, "he", false)
	require.NoError(t, err)

	assert.Equal(t, 100, report.CompletionPercentage, "photos 30 + about 25 + questionnaire 30 + preferences 15")
	assert.Equal(t, 84, report.QuestionnaireCompletion)
	assert.Empty(t, report.MissingProfileItems)
}

func TestCompileReportPartialScores(t *testing.T) {
	db := newTestDB(t)
	svc := NewGormFeedbackService(db)

	user := models.User{Email: "partial@example.com", FirstName: "P"}
	require.NoError(t, db.Create(&user).Error)
	require.NoError(t, db.Create(&models.Profile{
		UserID: user.ID,
		About:  "short",
	}).Error)
	require.NoError(t, db.Create(&models.UserImage{UserID: user.ID, URL: "https://img/1"}).Error)

	report, err := svc.CompileReport(context.Background(), user.ID, "he", false)
	require.NoError(t, err)

	assert.Equal(t, 30, report.CompletionPercentage, "only the photo weight applies")
	assert.Contains(t, report.MissingProfileItems, MissingAboutSection,
		"an about section under the minimum length still counts as missing")
	assert.Contains(t, report.MissingProfileItems, MissingPreferredAgeRange)
	assert.NotContains(t, report.MissingProfileItems, MissingProfilePhoto)
}

func TestCompileReportNotFound(t *testing.T) {
	db := newTestDB(t)
	svc := NewGormFeedbackService(db)

	_, err := svc.CompileReport(context.Background(), 424242, "he", false)
	assert.ErrorIs(t, err, ErrUserNotFound)
}
