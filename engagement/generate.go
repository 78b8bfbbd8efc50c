package engagement

import (
	"strconv"

	"neshama/utils"
)

// GenerateDirective renders the directive for one decided email type.
// Returns nil when the type has no generator (including EmailTypeNone).
func GenerateDirective(emailType EmailType, p *EngagementProfile, dict *EmailDictionary) *EmailDirective {
	switch emailType {
	case EmailTypeOnboardingDay1:
		return generateOnboardingDay1(p, dict)
	case EmailTypeOnboardingPhotos:
		return generatePhotosEmail(EmailTypeOnboardingPhotos, dict.OnboardingPhotos, p, dict)
	case EmailTypeOnboardingAiTeaser:
		return generateAiTeaser(p, dict)
	case EmailTypeOnboardingQuestionnaireWhy:
		return generateQuestionnaireWhy(p, dict)
	case EmailTypeOnboardingValueAdd:
		return generateValueAdd(p, dict)
	case EmailTypeNudge:
		return generateNudge(p, dict)
	case EmailTypeCelebration:
		return generateCelebration(p, dict)
	case EmailTypeAiSummary, EmailTypeInsight:
		return generateAiSummary(p, dict)
	case EmailTypeValue:
		return generateValue(p, dict)
	default:
		return nil
	}
}

// GenerateEveningDirective renders the same-day feedback email. Returns nil
// when the activity report is empty.
func GenerateEveningDirective(p *EngagementProfile, activity ActivityReport, dict *EmailDictionary) *EmailDirective {
	if !activity.HasActivity {
		return nil
	}
	tokens := baseTokens(p)
	copyset := dict.EveningFeedback

	aiInsight := ""
	if p.AIInsights != nil {
		if p.AIInsights.PersonalitySummary != "" {
			aiInsight = p.AIInsights.PersonalitySummary
		} else if len(p.AIInsights.TopStrengths) > 0 {
			aiInsight = p.AIInsights.TopStrengths[0]
		}
	}

	return &EmailDirective{
		Type:     EmailTypeEveningFeedback,
		Priority: PriorityNormal,
		Subject:  utils.PopulateTemplate(copyset.Subject, tokens),
		Content: EmailContent{
			Hook:                  utils.PopulateTemplate(copyset.Hook, tokens),
			MainMessage:           utils.PopulateTemplate(copyset.MainMessage, tokens),
			AiInsight:             aiInsight,
			ProgressVisualization: utils.ProgressBar(p.Completion.Overall),
			SpecificAction:        NextBestAction(p, dict),
			Encouragement:         copyset.Encouragement,
			EstimatedTime:         EstimatedTime(p, dict),
			TodayProgress: &TodayProgress{
				ItemsCompleted: localizeActivity(activity, dict),
				NewCompletion:  p.Completion.Overall,
			},
		},
	}
}

func generateOnboardingDay1(p *EngagementProfile, dict *EmailDictionary) *EmailDirective {
	tokens := baseTokens(p)
	copyset := dict.OnboardingDay1

	main := copyset.MainMessage
	if p.Completion.Overall > 50 {
		main = copyset.FastUserMainMessage
	}
	return &EmailDirective{
		Type:     EmailTypeOnboardingDay1,
		Priority: PriorityHigh,
		Subject:  utils.PopulateTemplate(copyset.Subject, tokens),
		Content: EmailContent{
			Hook:                  utils.PopulateTemplate(copyset.Hook, tokens),
			MainMessage:           utils.PopulateTemplate(main, tokens),
			ProgressVisualization: utils.ProgressBar(p.Completion.Overall),
			SpecificAction:        NextBestAction(p, dict),
			Encouragement:         copyset.Encouragement,
			EstimatedTime:         EstimatedTime(p, dict),
		},
	}
}

func generatePhotosEmail(t EmailType, copyset EmailCopy, p *EngagementProfile, dict *EmailDictionary) *EmailDirective {
	missing := p.Completion.Photos.Needed - p.Completion.Photos.Current
	if missing < 0 {
		missing = 0
	}
	tokens := baseTokens(p)
	tokens["missingCount"] = missing

	return &EmailDirective{
		Type:     t,
		Priority: PriorityHigh,
		Subject:  utils.PopulateTemplate(copyset.Subject, tokens),
		Content: EmailContent{
			Hook:                  utils.PopulateTemplate(copyset.Hook, tokens),
			MainMessage:           utils.PopulateTemplate(copyset.MainMessage, tokens),
			ProgressVisualization: utils.ProgressBar(p.Completion.Overall),
			SpecificAction:        utils.PopulateTemplate(copyset.SpecificAction, tokens),
			Encouragement:         copyset.Encouragement,
			EstimatedTime:         EstimatedTime(p, dict),
		},
	}
}

func generateAiTeaser(p *EngagementProfile, dict *EmailDictionary) *EmailDirective {
	tokens := baseTokens(p)
	copyset := dict.OnboardingAiTeaser

	aiContent := copyset.GenericInsight
	if p.AIInsights != nil && len(p.AIInsights.TopStrengths) > 0 {
		aiContent = p.AIInsights.TopStrengths[0]
	}
	return &EmailDirective{
		Type:     EmailTypeOnboardingAiTeaser,
		Priority: PriorityNormal,
		Subject:  utils.PopulateTemplate(copyset.Subject, tokens),
		Content: EmailContent{
			Hook:           utils.PopulateTemplate(copyset.Hook, tokens),
			MainMessage:    utils.PopulateTemplate(copyset.MainMessage, tokens),
			AiContent:      aiContent,
			SpecificAction: copyset.SpecificAction,
			Encouragement:  copyset.Encouragement,
			EstimatedTime:  EstimatedTime(p, dict),
		},
	}
}

func generateQuestionnaireWhy(p *EngagementProfile, dict *EmailDictionary) *EmailDirective {
	tokens := baseTokens(p)
	tokens["completion"] = p.Completion.Questionnaire.CompletionPercent
	copyset := dict.OnboardingQuestionnaireWhy

	return &EmailDirective{
		Type:     EmailTypeOnboardingQuestionnaireWhy,
		Priority: PriorityNormal,
		Subject:  utils.PopulateTemplate(copyset.Subject, tokens),
		Content: EmailContent{
			Hook:                  utils.PopulateTemplate(copyset.Hook, tokens),
			MainMessage:           utils.PopulateTemplate(copyset.MainMessage, tokens),
			ProgressVisualization: utils.ProgressBar(p.Completion.Questionnaire.CompletionPercent),
			SpecificAction:        copyset.SpecificAction,
			Encouragement:         copyset.Encouragement,
			EstimatedTime:         EstimatedTime(p, dict),
		},
	}
}

func generateValueAdd(p *EngagementProfile, dict *EmailDictionary) *EmailDirective {
	tokens := baseTokens(p)
	copyset := dict.OnboardingValueAdd

	aiContent := copyset.GenericTip
	if p.AIInsights != nil && len(p.AIInsights.TopGaps) > 0 {
		aiContent = p.AIInsights.TopGaps[0]
	}
	return &EmailDirective{
		Type:     EmailTypeOnboardingValueAdd,
		Priority: PriorityNormal,
		Subject:  utils.PopulateTemplate(copyset.Subject, tokens),
		Content: EmailContent{
			Hook:           utils.PopulateTemplate(copyset.Hook, tokens),
			MainMessage:    utils.PopulateTemplate(copyset.MainMessage, tokens),
			AiContent:      aiContent,
			SpecificAction: copyset.SpecificAction,
			Encouragement:  copyset.Encouragement,
		},
	}
}

// generateNudge picks its angle from the snapshot: photos first, then the
// emptiest unfinished questionnaire world.
func generateNudge(p *EngagementProfile, dict *EmailDictionary) *EmailDirective {
	if !p.Completion.Photos.IsDone {
		return generatePhotosEmail(EmailTypeNudge, dict.PhotoNudge, p, dict)
	}

	tokens := baseTokens(p)
	tokens["worldName"] = nudgeWorldName(p, dict)
	copyset := dict.QuestionnaireNudge

	return &EmailDirective{
		Type:     EmailTypeNudge,
		Priority: PriorityHigh,
		Subject:  utils.PopulateTemplate(copyset.Subject, tokens),
		Content: EmailContent{
			Hook:                  utils.PopulateTemplate(copyset.Hook, tokens),
			MainMessage:           utils.PopulateTemplate(copyset.MainMessage, tokens),
			ProgressVisualization: utils.ProgressBar(p.Completion.Questionnaire.CompletionPercent),
			SpecificAction:        utils.PopulateTemplate(copyset.SpecificAction, tokens),
			Encouragement:         copyset.Encouragement,
			EstimatedTime:         EstimatedTime(p, dict),
		},
	}
}

func generateCelebration(p *EngagementProfile, dict *EmailDictionary) *EmailDirective {
	tokens := baseTokens(p)
	copyset := dict.Celebration

	return &EmailDirective{
		Type:     EmailTypeCelebration,
		Priority: PriorityHigh,
		Subject:  utils.PopulateTemplate(copyset.Subject, tokens),
		Content: EmailContent{
			Hook:                  utils.PopulateTemplate(copyset.Hook, tokens),
			MainMessage:           utils.PopulateTemplate(copyset.MainMessage, tokens),
			ProgressVisualization: utils.ProgressBar(p.Completion.Overall),
			SpecificAction:        NextBestAction(p, dict),
			Encouragement:         copyset.Encouragement,
			EstimatedTime:         EstimatedTime(p, dict),
		},
	}
}

func generateAiSummary(p *EngagementProfile, dict *EmailDictionary) *EmailDirective {
	tokens := baseTokens(p)
	copyset := dict.AiSummary

	aiContent := dict.AiSummaryGenericSummary
	aiInsight := ""
	systemSummary := ""
	if p.AIInsights != nil {
		if p.AIInsights.PersonalitySummary != "" {
			aiContent = p.AIInsights.PersonalitySummary
		}
		if len(p.AIInsights.TopStrengths) > 0 {
			aiInsight = p.AIInsights.TopStrengths[0]
		}
		systemSummary = p.AIInsights.LookingForSummary
	}
	return &EmailDirective{
		Type:     EmailTypeAiSummary,
		Priority: PriorityNormal,
		Subject:  utils.PopulateTemplate(copyset.Subject, tokens),
		Content: EmailContent{
			Hook:                  utils.PopulateTemplate(copyset.Hook, tokens),
			MainMessage:           utils.PopulateTemplate(copyset.MainMessage, tokens),
			AiContent:             aiContent,
			AiInsight:             aiInsight,
			SystemSummary:         systemSummary,
			ProgressVisualization: utils.ProgressBar(p.Completion.Overall),
			SpecificAction:        NextBestAction(p, dict),
			Encouragement:         copyset.Encouragement,
			EstimatedTime:         EstimatedTime(p, dict),
		},
	}
}

// generateValue rotates through the long-term value topics, one new topic
// every two weeks.
func generateValue(p *EngagementProfile, dict *EmailDictionary) *EmailDirective {
	if len(dict.ValueTopics) == 0 {
		return nil
	}
	topic := dict.ValueTopics[(p.DaysInSystem/14)%len(dict.ValueTopics)]
	tokens := baseTokens(p)

	return &EmailDirective{
		Type:     EmailTypeValue,
		Priority: PriorityLow,
		Subject:  utils.PopulateTemplate(topic.Subject, tokens),
		Content: EmailContent{
			Hook:          utils.PopulateTemplate(topic.Hook, tokens),
			MainMessage:   utils.PopulateTemplate(topic.MainMessage, tokens),
			Encouragement: topic.Encouragement,
		},
	}
}

// NextBestAction returns the single most valuable thing the user can do
// next, in their language.
func NextBestAction(p *EngagementProfile, dict *EmailDictionary) string {
	c := p.Completion
	if !c.Photos.IsDone {
		missing := c.Photos.Needed - c.Photos.Current
		if missing < 1 {
			missing = 1
		}
		return utils.PopulateTemplate(dict.Actions.UploadPhotos, map[string]interface{}{"count": missing})
	}
	for _, item := range c.PersonalDetails.Missing {
		if item == MissingAboutSection {
			return dict.Actions.CompleteAbout
		}
	}
	if !c.PartnerPreferences.IsDone {
		return dict.Actions.SetPreferences
	}
	if c.Questionnaire.CompletionPercent < 100 {
		return utils.PopulateTemplate(dict.Actions.ContinueQuestionnaire,
			map[string]interface{}{"worldName": nudgeWorldName(p, dict)})
	}
	if !c.HasSeenPreview {
		return dict.Actions.ViewPreview
	}
	return dict.Actions.AllDone
}

// EstimatedTime estimates the minutes left to finish the profile and
// renders a localized "{{min}}-{{max}}" range.
func EstimatedTime(p *EngagementProfile, dict *EmailDictionary) string {
	minutes := 0
	c := p.Completion
	if !c.Photos.IsDone {
		minutes += 5
	}
	minutes += 3 * len(c.PersonalDetails.Missing)
	minutes += 3 * len(c.PartnerPreferences.Missing)
	if c.Questionnaire.CompletionPercent < 100 {
		minutes += 10
	}
	if minutes == 0 {
		return ""
	}
	return utils.PopulateTemplate(dict.Actions.EstimatedMinutes, map[string]interface{}{
		"min": minutes,
		"max": minutes + 5,
	})
}

// nudgeWorldName picks the least completed unfinished world.
func nudgeWorldName(p *EngagementProfile, dict *EmailDictionary) string {
	var pick *WorldStatus
	for i := range p.Completion.Questionnaire.WorldsStatus {
		w := &p.Completion.Questionnaire.WorldsStatus[i]
		if w.IsDone {
			continue
		}
		if pick == nil || w.Completed < pick.Completed {
			pick = w
		}
	}
	if pick == nil {
		return ""
	}
	if name, ok := dict.WorldNames[pick.World]; ok {
		return name
	}
	return pick.World
}

func localizeActivity(activity ActivityReport, dict *EmailDictionary) []string {
	var items []string
	if activity.NewImages > 0 {
		items = append(items, utils.PopulateTemplate(dict.Activity.NewPhotos,
			map[string]interface{}{"count": activity.NewImages}))
	}
	if activity.QuestionnaireTouched {
		items = append(items, dict.Activity.Questionnaire)
	}
	if activity.ProfileTouched {
		items = append(items, dict.Activity.ProfileUpdate)
	}
	return items
}

func baseTokens(p *EngagementProfile) map[string]interface{} {
	return map[string]interface{}{
		"firstName":  p.FirstName,
		"completion": strconv.Itoa(p.Completion.Overall),
	}
}
