package engagement

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"neshama/models"
)

func TestDetectNoActivity(t *testing.T) {
	db := newTestDB(t)
	detector := NewGormActivityDetector(db)

	user := models.User{Email: "idle@example.com", FirstName: "I"}
	require.NoError(t, db.Create(&user).Error)

	yesterday := time.Now().Add(-30 * time.Hour)
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", user.ID).
		UpdateColumn("updated_at", yesterday).Error)

	report, err := detector.Detect(context.Background(), user.ID)
	require.NoError(t, err)

	assert.False(t, report.HasActivity)
	assert.Empty(t, report.CompletedToday)
	assert.Zero(t, report.ProgressDelta)
}

func TestDetectTodaysActivity(t *testing.T) {
	db := newTestDB(t)
	detector := NewGormActivityDetector(db)

	user := models.User{Email: "busy@example.com", FirstName: "B"}
	require.NoError(t, db.Create(&user).Error)
	yesterday := time.Now().Add(-30 * time.Hour)
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", user.ID).
		UpdateColumn("updated_at", yesterday).Error)

	require.NoError(t, db.Create(&models.UserImage{UserID: user.ID, URL: "https://img/1"}).Error)
	require.NoError(t, db.Create(&models.UserImage{UserID: user.ID, URL: "https://img/2"}).Error)
	require.NoError(t, db.Create(&models.QuestionnaireResponse{
		UserID:    user.ID,
		LastSaved: time.Now(),
	}).Error)

	report, err := detector.Detect(context.Background(), user.ID)
	require.NoError(t, err)

	assert.True(t, report.HasActivity)
	assert.Equal(t, 2, report.NewImages)
	assert.True(t, report.QuestionnaireTouched)
	assert.False(t, report.ProfileTouched, "neither the user nor profile row changed today")
	assert.Equal(t, []string{"2 new photos", "questionnaire progress"}, report.CompletedToday)
}

func TestDetectProfileUpdateToday(t *testing.T) {
	db := newTestDB(t)
	detector := NewGormActivityDetector(db)

	user := models.User{Email: "editor@example.com", FirstName: "E"}
	require.NoError(t, db.Create(&user).Error)

	report, err := detector.Detect(context.Background(), user.ID)
	require.NoError(t, err)

	assert.True(t, report.HasActivity, "a user row created today counts as profile activity")
	assert.True(t, report.ProfileTouched)
	assert.Equal(t, []string{"profile update"}, report.CompletedToday)
}

func TestDetectUnknownUserIsQuiet(t *testing.T) {
	db := newTestDB(t)
	detector := NewGormActivityDetector(db)

	report, err := detector.Detect(context.Background(), 5555)
	require.NoError(t, err)
	assert.False(t, report.HasActivity)
}

func TestDetectUsesLocalMidnight(t *testing.T) {
	db := newTestDB(t)
	detector := NewGormActivityDetector(db)

	user := models.User{Email: "night@example.com", FirstName: "N"}
	require.NoError(t, db.Create(&user).Error)

	// Pin "now" to 01:00 and save the questionnaire two hours earlier, which
	// is yesterday evening.
	now := time.Date(2025, 6, 10, 1, 0, 0, 0, time.Local)
	detector.Now = func() time.Time { return now }

	require.NoError(t, db.Model(&models.User{}).Where("id = ?", user.ID).
		UpdateColumn("updated_at", now.Add(-48*time.Hour)).Error)
	require.NoError(t, db.Create(&models.QuestionnaireResponse{
		UserID:    user.ID,
		LastSaved: now.Add(-2 * time.Hour),
	}).Error)

	report, err := detector.Detect(context.Background(), user.ID)
	require.NoError(t, err)
	assert.False(t, report.QuestionnaireTouched, "a save before local midnight is not today")
}

func TestDetectMidnightUpdateCountsAsToday(t *testing.T) {
	db := newTestDB(t)
	detector := NewGormActivityDetector(db)

	user := models.User{Email: "midnight@example.com", FirstName: "M"}
	require.NoError(t, db.Create(&user).Error)

	now := time.Date(2025, 6, 10, 9, 0, 0, 0, time.Local)
	detector.Now = func() time.Time { return now }
	midnight := time.Date(2025, 6, 10, 0, 0, 0, 0, time.Local)

	require.NoError(t, db.Model(&models.User{}).Where("id = ?", user.ID).
		UpdateColumn("updated_at", midnight).Error)

	report, err := detector.Detect(context.Background(), user.ID)
	require.NoError(t, err)
	assert.True(t, report.ProfileTouched, "an update at exactly local midnight is today")
}
