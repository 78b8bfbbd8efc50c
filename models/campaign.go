package models

import (
	"time"

	"gorm.io/gorm"
)

// Drip campaign statuses
const (
	CampaignStatusActive    = "ACTIVE"
	CampaignStatusPaused    = "PAUSED"
	CampaignStatusCompleted = "COMPLETED"
)

// DripCampaign is the durable per-user record of the lifecycle email
// campaign. One row per user; created on the first send and mutated on every
// send after that. It is never deleted by the engagement engine.
type DripCampaign struct {
	gorm.Model
	UserID uint `gorm:"not null;uniqueIndex" json:"user_id"`

	// CurrentStep increments once per email sent
	CurrentStep  int    `gorm:"default:0" json:"current_step"`
	LastSentType string `json:"last_sent_type"`

	// SentEmailTypes is an append-only log of every email type sent.
	// Duplicates are allowed; idempotency is enforced by the decision
	// engine's guards, not by set semantics here.
	SentEmailTypes []string `gorm:"type:jsonb;serializer:json" json:"sent_email_types"`

	NextSendDate *time.Time `json:"next_send_date"`
	Status       string     `gorm:"default:'ACTIVE'" json:"status"`

	// Per-type counters
	LastEveningEmailSent *time.Time `json:"last_evening_email_sent"`
	EveningEmailsCount   int        `gorm:"default:0" json:"evening_emails_count"`
	LastAiSummarySent    *time.Time `json:"last_ai_summary_sent"`
	AiSummaryCount       int        `gorm:"default:0" json:"ai_summary_count"`
}

// BounceEvent records a delivery failure picked up from the bounce mailbox.
type BounceEvent struct {
	gorm.Model
	UserID uint `gorm:"index" json:"user_id"`

	Recipient  string `gorm:"not null;index" json:"recipient"`
	BounceType string `json:"bounce_type"` // hard, soft
	Reason     string `json:"reason"`
	MessageID  string `json:"message_id"`
}
