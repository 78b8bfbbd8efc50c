package engagement

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"neshama/models"
)

// GormActivityDetector checks the raw tables for anything a user touched
// since local midnight.
type GormActivityDetector struct {
	db  *gorm.DB
	Now func() time.Time
}

func NewGormActivityDetector(db *gorm.DB) *GormActivityDetector {
	return &GormActivityDetector{db: db, Now: time.Now}
}

// Detect reports today's activity for one user. A user with no profile or
// questionnaire rows simply has no activity from those sources; only a
// database failure is an error.
func (d *GormActivityDetector) Detect(ctx context.Context, userID uint) (ActivityReport, error) {
	report := ActivityReport{}
	today := startOfToday(d.Now())
	db := d.db.WithContext(ctx)

	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return report, nil
		}
		return report, err
	}

	var profile models.Profile
	profileErr := db.Where("user_id = ?", userID).First(&profile).Error
	if profileErr != nil && !errors.Is(profileErr, gorm.ErrRecordNotFound) {
		return report, profileErr
	}

	var newImages int64
	if err := db.Model(&models.UserImage{}).
		Where("user_id = ? AND created_at >= ?", userID, today).
		Count(&newImages).Error; err != nil {
		return report, err
	}

	var questionnaireSaves int64
	if err := db.Model(&models.QuestionnaireResponse{}).
		Where("user_id = ? AND last_saved >= ?", userID, today).
		Count(&questionnaireSaves).Error; err != nil {
		return report, err
	}

	report.NewImages = int(newImages)
	report.QuestionnaireTouched = questionnaireSaves > 0
	report.ProfileTouched = !user.UpdatedAt.Before(today) ||
		(profileErr == nil && !profile.UpdatedAt.Before(today))

	if report.NewImages > 0 {
		report.CompletedToday = append(report.CompletedToday,
			fmt.Sprintf("%d new photos", report.NewImages))
	}
	if report.QuestionnaireTouched {
		report.CompletedToday = append(report.CompletedToday, "questionnaire progress")
	}
	if report.ProfileTouched {
		report.CompletedToday = append(report.CompletedToday, "profile update")
	}

	report.HasActivity = len(report.CompletedToday) > 0
	return report, nil
}
