package engagement

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"neshama/models"
)

// GormUserRepository implements UserRepository on top of the shared
// database handle.
type GormUserRepository struct {
	db *gorm.DB
}

func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// FindDailyCampaignCandidates returns every active user who has consented
// to engagement emails and has not finished their profile. Fully completed
// profiles leave the drip campaign.
func (r *GormUserRepository) FindDailyCampaignCandidates(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).
		Where("status = ? AND engagement_emails_consent = ? AND is_profile_complete = ?",
			models.UserStatusActive, true, false).
		Find(&users).Error
	return users, err
}

// FindTodaysActiveUsers returns active, consenting users who touched their
// account or questionnaire since local midnight. This is the evening run's
// candidate pool.
func (r *GormUserRepository) FindTodaysActiveUsers(ctx context.Context) ([]models.User, error) {
	today := startOfToday(time.Now())

	touchedQuestionnaire := r.db.Model(&models.QuestionnaireResponse{}).
		Select("user_id").
		Where("last_saved >= ?", today)

	var users []models.User
	err := r.db.WithContext(ctx).
		Where("status = ? AND engagement_emails_consent = ?", models.UserStatusActive, true).
		Where("updated_at >= ? OR id IN (?)", today, touchedQuestionnaire).
		Find(&users).Error
	return users, err
}

// GetEngagementData loads one user with everything a snapshot needs:
// profile, approved testimonials, images, the latest questionnaire
// response, and the drip campaign row.
func (r *GormUserRepository) GetEngagementData(ctx context.Context, userID uint) (*EngagementData, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Preload("Profile.Testimonials", "status = ?", models.TestimonialStatusApproved).
		Preload("Images").
		Preload("QuestionnaireResponses", func(db *gorm.DB) *gorm.DB {
			return db.Order("last_saved DESC").Limit(1)
		}).
		Preload("DripCampaign").
		First(&user, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	data := &EngagementData{
		User:   user,
		Images: user.Images,
	}
	if user.Profile != nil {
		data.Profile = user.Profile
		data.ApprovedTestimonials = len(user.Profile.Testimonials)
	}
	if len(user.QuestionnaireResponses) > 0 {
		data.LatestResponse = &user.QuestionnaireResponses[0]
	}
	data.DripCampaign = user.DripCampaign
	return data, nil
}

// startOfToday truncates an instant to local midnight.
func startOfToday(now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, now.Location())
}
