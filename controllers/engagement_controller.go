package controller

import (
	"context"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"neshama/config"
	"neshama/engagement"
	"neshama/models"
	"neshama/utils"
)

// EngagementController exposes the manual hooks around the batch engine:
// triggering runs, previewing decisions, reading reports, unsubscribing.
type EngagementController struct {
	DB           *gorm.DB
	Orchestrator *engagement.Orchestrator
	Builder      *engagement.SnapshotBuilder
	Dict         engagement.DictionaryProvider
}

func NewEngagementController(db *gorm.DB, orchestrator *engagement.Orchestrator,
	builder *engagement.SnapshotBuilder, dict engagement.DictionaryProvider) *EngagementController {
	return &EngagementController{
		DB:           db,
		Orchestrator: orchestrator,
		Builder:      builder,
		Dict:         dict,
	}
}

// TriggerDailyRun starts a daily campaign run in the background and returns
// immediately. Progress goes to the websocket, the result to the report
// endpoint.
func (ec *EngagementController) TriggerDailyRun(c *fiber.Ctx) error {
	utils.LogEvent("daily_run_triggered", map[string]interface{}{"ip": c.IP()})

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Hour)
		defer cancel()
		if _, err := ec.Orchestrator.RunDailyCampaign(ctx); err != nil {
			utils.LogError(err, "daily_run_failed", nil)
		}
	}()

	return c.Status(fiber.StatusAccepted).JSON(utils.SuccessResponse(fiber.Map{
		"campaign": engagement.CampaignDaily,
		"status":   "started",
	}))
}

// TriggerEveningRun starts an evening feedback run in the background.
func (ec *EngagementController) TriggerEveningRun(c *fiber.Ctx) error {
	utils.LogEvent("evening_run_triggered", map[string]interface{}{"ip": c.IP()})

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Hour)
		defer cancel()
		if _, err := ec.Orchestrator.RunEveningCampaign(ctx); err != nil {
			utils.LogError(err, "evening_run_failed", nil)
		}
	}()

	return c.Status(fiber.StatusAccepted).JSON(utils.SuccessResponse(fiber.Map{
		"campaign": engagement.CampaignEvening,
		"status":   "started",
	}))
}

// GetRunReports returns the latest finished report of each campaign.
func (ec *EngagementController) GetRunReports(c *fiber.Ctx) error {
	return c.JSON(utils.SuccessResponse(fiber.Map{
		"daily":   ec.Orchestrator.LastReport(engagement.CampaignDaily),
		"evening": ec.Orchestrator.LastReport(engagement.CampaignEvening),
	}))
}

// PreviewDecision runs the decision pipeline for one user without sending
// anything or touching the campaign record. AI insights are not fetched.
func (ec *EngagementController) PreviewDecision(c *fiber.Ctx) error {
	userID, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid user id", err)
	}

	profile, err := ec.Builder.Build(c.Context(), uint(userID), false)
	if err == engagement.ErrUserNotFound {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "User not found", nil)
	}
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to build engagement profile", err)
	}

	emailType, rule := engagement.ExplainDecision(profile, time.Now())
	response := fiber.Map{
		"user_id":    userID,
		"email_type": emailType,
		"rule":       rule,
		"profile":    profile,
	}
	if emailType != engagement.EmailTypeNone {
		dict := ec.Dict.GetEmailDictionary(profile.Language)
		response["directive"] = engagement.GenerateDirective(emailType, profile, dict)
	}
	return c.JSON(utils.SuccessResponse(response))
}

// Unsubscribe handles the one-click link embedded in every engagement
// email. It revokes the engagement consent only; transactional email is
// unaffected.
func (ec *EngagementController) Unsubscribe(c *fiber.Ctx) error {
	tokenString := c.Query("token")
	if tokenString == "" {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Missing token", nil)
	}

	claims, err := utils.ParseUnsubscribeToken(tokenString, config.AppConfig.UnsubscribeSecret)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, "Invalid or expired unsubscribe link", nil)
	}

	result := ec.DB.Model(&models.User{}).
		Where("id = ? AND email = ?", claims.UserID, claims.Email).
		Update("engagement_emails_consent", false)
	if result.Error != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to unsubscribe", result.Error)
	}
	if result.RowsAffected == 0 {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Account not found", nil)
	}

	utils.LogEvent("engagement_unsubscribed", map[string]interface{}{
		"user_id": claims.UserID,
	})
	return c.JSON(utils.SuccessResponse(fiber.Map{
		"message": "You will no longer receive engagement emails.",
	}))
}
