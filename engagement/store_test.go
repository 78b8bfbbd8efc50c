package engagement

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"neshama/models"
)

func TestCampaignStoreCreatesOnFirstSend(t *testing.T) {
	db := newTestDB(t)
	store := NewGormCampaignStore(db)

	user := models.User{Email: "dana@example.com", FirstName: "Dana"}
	require.NoError(t, db.Create(&user).Error)

	require.NoError(t, store.Update(context.Background(), user.ID, EmailTypeOnboardingDay1))

	var campaign models.DripCampaign
	require.NoError(t, db.Where("user_id = ?", user.ID).First(&campaign).Error)

	assert.Equal(t, 1, campaign.CurrentStep)
	assert.Equal(t, string(EmailTypeOnboardingDay1), campaign.LastSentType)
	assert.Equal(t, []string{string(EmailTypeOnboardingDay1)}, campaign.SentEmailTypes)
	assert.Equal(t, models.CampaignStatusActive, campaign.Status)
	require.NotNil(t, campaign.NextSendDate)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), *campaign.NextSendDate, time.Minute)
}

func TestCampaignStoreAppendsDuplicates(t *testing.T) {
	db := newTestDB(t)
	store := NewGormCampaignStore(db)

	user := models.User{Email: "noa@example.com", FirstName: "Noa"}
	require.NoError(t, db.Create(&user).Error)

	ctx := context.Background()
	require.NoError(t, store.Update(ctx, user.ID, EmailTypeNudge))
	require.NoError(t, store.Update(ctx, user.ID, EmailTypeNudge))
	require.NoError(t, store.Update(ctx, user.ID, EmailTypeAiSummary))

	var campaign models.DripCampaign
	require.NoError(t, db.Where("user_id = ?", user.ID).First(&campaign).Error)

	assert.Equal(t, 3, campaign.CurrentStep)
	assert.Equal(t, string(EmailTypeAiSummary), campaign.LastSentType)
	assert.Equal(t, []string{"NUDGE", "NUDGE", "AI_SUMMARY"}, campaign.SentEmailTypes,
		"the send log keeps duplicates in order")

	var count int64
	require.NoError(t, db.Model(&models.DripCampaign{}).Where("user_id = ?", user.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count, "one row per user no matter how many sends")
}

func TestCampaignStoreTracksTypeCounters(t *testing.T) {
	db := newTestDB(t)
	store := NewGormCampaignStore(db)

	user := models.User{Email: "yael@example.com", FirstName: "Yael"}
	require.NoError(t, db.Create(&user).Error)

	ctx := context.Background()
	require.NoError(t, store.Update(ctx, user.ID, EmailTypeEveningFeedback))
	require.NoError(t, store.Update(ctx, user.ID, EmailTypeAiSummary))
	require.NoError(t, store.Update(ctx, user.ID, EmailTypeEveningFeedback))

	var campaign models.DripCampaign
	require.NoError(t, db.Where("user_id = ?", user.ID).First(&campaign).Error)

	assert.Equal(t, 2, campaign.EveningEmailsCount)
	assert.Equal(t, 1, campaign.AiSummaryCount)
	assert.NotNil(t, campaign.LastEveningEmailSent)
	assert.NotNil(t, campaign.LastAiSummarySent)
}
