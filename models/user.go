package models

import (
	"time"

	"gorm.io/gorm"
)

// User statuses
const (
	UserStatusActive                   = "ACTIVE"
	UserStatusPendingPhoneVerification = "PENDING_PHONE_VERIFICATION"
	UserStatusInactive                 = "INACTIVE"
	UserStatusBlocked                  = "BLOCKED"
)

// User represents a member account in the matchmaking system
type User struct {
	gorm.Model

	Email     string `gorm:"uniqueIndex;not null" json:"email"`
	FirstName string `gorm:"not null" json:"first_name"`
	LastName  string `json:"last_name"`
	Language  string `gorm:"default:'he'" json:"language"`

	// Account status
	Status            string `gorm:"default:'ACTIVE';index" json:"status"`
	IsProfileComplete bool   `gorm:"default:false" json:"is_profile_complete"`

	// Communication consents
	EngagementEmailsConsent bool `gorm:"default:true" json:"engagement_emails_consent"`
	PromotionalConsent      bool `gorm:"default:false" json:"promotional_consent"`

	LastLogin *time.Time `json:"last_login"`

	// Relations
	Profile                *Profile                `gorm:"foreignKey:UserID" json:"profile,omitempty"`
	Images                 []UserImage             `gorm:"foreignKey:UserID" json:"images,omitempty"`
	QuestionnaireResponses []QuestionnaireResponse `gorm:"foreignKey:UserID" json:"questionnaire_responses,omitempty"`
	DripCampaign           *DripCampaign           `gorm:"foreignKey:UserID" json:"drip_campaign,omitempty"`
}

// Profile holds the member-editable matchmaking profile
type Profile struct {
	gorm.Model
	UserID uint `gorm:"not null;uniqueIndex" json:"user_id"`

	About           string `json:"about"`
	City            string `json:"city"`
	Occupation      string `json:"occupation"`
	PreferredAgeMin *int   `json:"preferred_age_min"`
	PreferredAgeMax *int   `json:"preferred_age_max"`

	HasViewedProfilePreview bool `gorm:"default:false" json:"has_viewed_profile_preview"`

	// Relations
	Testimonials []Testimonial `gorm:"foreignKey:ProfileID" json:"testimonials,omitempty"`
}

// UserImage is a single uploaded profile photo
type UserImage struct {
	gorm.Model
	UserID uint `gorm:"not null;index" json:"user_id"`

	URL    string `gorm:"not null" json:"url"`
	IsMain bool   `gorm:"default:false" json:"is_main"`
}

// Questionnaire worlds
const (
	WorldValues       = "VALUES"
	WorldPersonality  = "PERSONALITY"
	WorldRelationship = "RELATIONSHIP"
	WorldPartner      = "PARTNER"
	WorldReligion     = "RELIGION"
)

// QuestionnaireWorldSize is the number of questions in each world.
const QuestionnaireWorldSize = 19

// QuestionnaireResponse stores a member's in-progress questionnaire.
// Answered question keys per world are stored as JSONB arrays.
type QuestionnaireResponse struct {
	gorm.Model
	UserID uint `gorm:"not null;index" json:"user_id"`

	ValuesAnswers       []string `gorm:"type:jsonb;serializer:json" json:"values_answers"`
	PersonalityAnswers  []string `gorm:"type:jsonb;serializer:json" json:"personality_answers"`
	RelationshipAnswers []string `gorm:"type:jsonb;serializer:json" json:"relationship_answers"`
	PartnerAnswers      []string `gorm:"type:jsonb;serializer:json" json:"partner_answers"`
	ReligionAnswers     []string `gorm:"type:jsonb;serializer:json" json:"religion_answers"`

	LastSaved time.Time `gorm:"index" json:"last_saved"`
}

// WorldAnswers returns the answered keys for every world, keyed by world name.
func (qr *QuestionnaireResponse) WorldAnswers() map[string][]string {
	return map[string][]string{
		WorldValues:       qr.ValuesAnswers,
		WorldPersonality:  qr.PersonalityAnswers,
		WorldRelationship: qr.RelationshipAnswers,
		WorldPartner:      qr.PartnerAnswers,
		WorldReligion:     qr.ReligionAnswers,
	}
}

// AnsweredCount returns the total number of answered questions across worlds.
func (qr *QuestionnaireResponse) AnsweredCount() int {
	total := 0
	for _, answers := range qr.WorldAnswers() {
		total += len(answers)
	}
	return total
}

// Testimonial statuses
const (
	TestimonialStatusPending  = "PENDING"
	TestimonialStatusApproved = "APPROVED"
	TestimonialStatusRejected = "REJECTED"
)

// Testimonial is a reference written by a friend of the member. The presence
// of one means we already asked this member to collect a testimonial.
type Testimonial struct {
	gorm.Model
	ProfileID uint `gorm:"not null;index" json:"profile_id"`

	AuthorName string `json:"author_name"`
	Content    string `json:"content"`
	Status     string `gorm:"default:'PENDING'" json:"status"`
}
