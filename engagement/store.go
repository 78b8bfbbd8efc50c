package engagement

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"neshama/models"
	"neshama/utils"
)

// GormCampaignStore persists the drip campaign state, one row per user.
type GormCampaignStore struct {
	db *gorm.DB
}

func NewGormCampaignStore(db *gorm.DB) *GormCampaignStore {
	return &GormCampaignStore{db: db}
}

// Update records one sent email inside a single transaction: the first send
// creates the row, later sends increment the step and append to the send
// log. The log is append-only and duplicates are allowed; only the
// onboarding rules consult it for uniqueness.
func (s *GormCampaignStore) Update(ctx context.Context, userID uint, emailType EmailType) error {
	now := time.Now()
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		query := tx.Where("user_id = ?", userID)
		// Row lock so concurrent runs cannot double-append. The sqlite
		// dialect used in tests has no FOR UPDATE.
		if tx.Dialector.Name() == "postgres" {
			query = query.Clauses(clause.Locking{Strength: "UPDATE"})
		}

		var campaign models.DripCampaign
		err := query.First(&campaign).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			campaign = models.DripCampaign{
				UserID:         userID,
				CurrentStep:    1,
				LastSentType:   string(emailType),
				SentEmailTypes: []string{string(emailType)},
				NextSendDate:   utils.Pointer(now.Add(24 * time.Hour)),
				Status:         models.CampaignStatusActive,
			}
			applyTypeCounters(&campaign, emailType, now)
			return tx.Create(&campaign).Error
		}
		if err != nil {
			return err
		}

		campaign.CurrentStep++
		campaign.LastSentType = string(emailType)
		campaign.SentEmailTypes = append(campaign.SentEmailTypes, string(emailType))
		campaign.NextSendDate = utils.Pointer(now.Add(24 * time.Hour))
		applyTypeCounters(&campaign, emailType, now)
		return tx.Save(&campaign).Error
	})
}

func applyTypeCounters(c *models.DripCampaign, emailType EmailType, now time.Time) {
	switch emailType {
	case EmailTypeEveningFeedback:
		c.LastEveningEmailSent = utils.Pointer(now)
		c.EveningEmailsCount++
	case EmailTypeAiSummary:
		c.LastAiSummarySent = utils.Pointer(now)
		c.AiSummaryCount++
	}
}
