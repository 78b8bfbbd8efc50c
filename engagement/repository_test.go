package engagement

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"neshama/models"
)

func TestFindDailyCampaignCandidates(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormUserRepository(db)

	eligible := models.User{Email: "a@example.com", FirstName: "A", Status: models.UserStatusActive, EngagementEmailsConsent: true}
	complete := models.User{Email: "b@example.com", FirstName: "B", Status: models.UserStatusActive, EngagementEmailsConsent: true, IsProfileComplete: true}
	noConsent := models.User{Email: "c@example.com", FirstName: "C", Status: models.UserStatusActive}
	blocked := models.User{Email: "d@example.com", FirstName: "D", Status: models.UserStatusBlocked, EngagementEmailsConsent: true}
	require.NoError(t, db.Create(&eligible).Error)
	require.NoError(t, db.Create(&complete).Error)
	require.NoError(t, db.Create(&noConsent).Error)
	require.NoError(t, db.Create(&blocked).Error)

	users, err := repo.FindDailyCampaignCandidates(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, eligible.ID, users[0].ID)
}

func TestFindTodaysActiveUsers(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormUserRepository(db)
	yesterday := time.Now().Add(-36 * time.Hour)

	activeToday := models.User{Email: "a@example.com", FirstName: "A", Status: models.UserStatusActive, EngagementEmailsConsent: true}
	require.NoError(t, db.Create(&activeToday).Error)

	idle := models.User{Email: "b@example.com", FirstName: "B", Status: models.UserStatusActive, EngagementEmailsConsent: true}
	require.NoError(t, db.Create(&idle).Error)
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", idle.ID).
		UpdateColumn("updated_at", yesterday).Error)

	questionnaireOnly := models.User{Email: "c@example.com", FirstName: "C", Status: models.UserStatusActive, EngagementEmailsConsent: true}
	require.NoError(t, db.Create(&questionnaireOnly).Error)
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", questionnaireOnly.ID).
		UpdateColumn("updated_at", yesterday).Error)
	require.NoError(t, db.Create(&models.QuestionnaireResponse{
		UserID:    questionnaireOnly.ID,
		LastSaved: time.Now(),
	}).Error)

	users, err := repo.FindTodaysActiveUsers(context.Background())
	require.NoError(t, err)

	ids := make([]uint, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	assert.Contains(t, ids, activeToday.ID, "a user row touched today qualifies")
	assert.Contains(t, ids, questionnaireOnly.ID, "questionnaire saves count as activity")
	assert.NotContains(t, ids, idle.ID)
}

func TestGetEngagementData(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormUserRepository(db)

	user := models.User{Email: "dana@example.com", FirstName: "Dana", Status: models.UserStatusActive}
	require.NoError(t, db.Create(&user).Error)
	require.NoError(t, db.Create(&models.Profile{
		UserID: user.ID,
		About:  "Some text about me",
	}).Error)
	require.NoError(t, db.Create(&models.UserImage{UserID: user.ID, URL: "https://img/1"}).Error)

	var profile models.Profile
	require.NoError(t, db.Where("user_id = ?", user.ID).First(&profile).Error)
	require.NoError(t, db.Create(&models.Testimonial{
		ProfileID: profile.ID, AuthorName: "Friend", Status: models.TestimonialStatusApproved,
	}).Error)
	require.NoError(t, db.Create(&models.Testimonial{
		ProfileID: profile.ID, AuthorName: "Other", Status: models.TestimonialStatusPending,
	}).Error)

	older := models.QuestionnaireResponse{UserID: user.ID, LastSaved: time.Now().Add(-48 * time.Hour)}
	newer := models.QuestionnaireResponse{
		UserID:        user.ID,
		ValuesAnswers: []string{"q1", "q2"},
		LastSaved:     time.Now(),
	}
	require.NoError(t, db.Create(&older).Error)
	require.NoError(t, db.Create(&newer).Error)

	data, err := repo.GetEngagementData(context.Background(), user.ID)
	require.NoError(t, err)

	assert.Equal(t, user.ID, data.User.ID)
	require.NotNil(t, data.Profile)
	assert.Len(t, data.Images, 1)
	assert.Equal(t, 1, data.ApprovedTestimonials, "pending testimonials are not counted")
	require.NotNil(t, data.LatestResponse)
	assert.Equal(t, newer.ID, data.LatestResponse.ID, "only the newest questionnaire response is used")
	assert.Nil(t, data.DripCampaign, "no campaign row before the first send")
}

func TestGetEngagementDataNotFound(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormUserRepository(db)

	_, err := repo.GetEngagementData(context.Background(), 9999)
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.NotErrorIs(t, err, gorm.ErrRecordNotFound, "storage errors do not leak out")
}
