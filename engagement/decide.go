package engagement

import "time"

// onboardingWindow is the number of days after signup during which the
// onboarding track takes precedence over the trigger rules.
const onboardingWindow = 7

// minDaysBetweenEmails throttles back-to-back sends regardless of rule.
const minDaysBetweenEmails = 1

// needsAI lists the email types whose generators consume AI insights.
var needsAI = map[EmailType]bool{
	EmailTypeAiSummary:          true,
	EmailTypeInsight:            true,
	EmailTypeOnboardingAiTeaser: true,
	EmailTypeOnboardingValueAdd: true,
}

// NeedsAI reports whether generating the given email type requires AI
// insights on the profile.
func NeedsAI(t EmailType) bool {
	return needsAI[t]
}

type ruleContext struct {
	now  time.Time
	sent map[EmailType]bool
}

// campaignRule is one row of the decision ladder. Rules are evaluated in
// order and the first match wins.
type campaignRule struct {
	name string
	when func(p *EngagementProfile, rc ruleContext) bool
	emit EmailType
}

// campaignRules is the decision ladder. Order is load-bearing: onboarding
// rules come first and are each guarded by the persisted send log so a user
// never receives the same onboarding email twice, then triggers, then the
// periodic value track.
var campaignRules = []campaignRule{
	{
		name: "onboarding_day_1",
		when: func(p *EngagementProfile, rc ruleContext) bool {
			return p.DaysInSystem <= 1 && !rc.sent[EmailTypeOnboardingDay1]
		},
		emit: EmailTypeOnboardingDay1,
	},
	{
		name: "onboarding_photos",
		when: func(p *EngagementProfile, rc ruleContext) bool {
			return p.DaysInSystem >= 2 && p.DaysInSystem <= onboardingWindow &&
				!p.Completion.Photos.IsDone &&
				!rc.sent[EmailTypeOnboardingPhotos]
		},
		emit: EmailTypeOnboardingPhotos,
	},
	{
		name: "onboarding_ai_teaser",
		when: func(p *EngagementProfile, rc ruleContext) bool {
			return p.DaysInSystem >= 3 && p.DaysInSystem <= onboardingWindow &&
				p.Completion.Photos.IsDone &&
				p.Completion.Questionnaire.CompletionPercent < 20 &&
				!rc.sent[EmailTypeOnboardingAiTeaser]
		},
		emit: EmailTypeOnboardingAiTeaser,
	},
	{
		name: "onboarding_questionnaire_why",
		when: func(p *EngagementProfile, rc ruleContext) bool {
			qp := p.Completion.Questionnaire.CompletionPercent
			return p.DaysInSystem >= 5 && p.DaysInSystem <= onboardingWindow &&
				qp >= 20 && qp < 80 &&
				!rc.sent[EmailTypeOnboardingQuestionnaireWhy]
		},
		emit: EmailTypeOnboardingQuestionnaireWhy,
	},
	{
		name: "onboarding_value_add",
		when: func(p *EngagementProfile, rc ruleContext) bool {
			return p.DaysInSystem >= 7 && p.DaysInSystem <= onboardingWindow &&
				p.Completion.Questionnaire.CompletionPercent >= 80 &&
				!p.Triggers.AskedForTestimonial &&
				!rc.sent[EmailTypeOnboardingValueAdd]
		},
		emit: EmailTypeOnboardingValueAdd,
	},
	{
		name: "celebration_almost_done",
		when: func(p *EngagementProfile, rc ruleContext) bool {
			return p.Triggers.AlmostDone && p.LastEmailType != EmailTypeCelebration
		},
		emit: EmailTypeCelebration,
	},
	{
		name: "nudge_stagnant",
		when: func(p *EngagementProfile, rc ruleContext) bool {
			return p.Triggers.Stagnant && p.LastEmailType != EmailTypeNudge
		},
		emit: EmailTypeNudge,
	},
	{
		name: "nudge_photos",
		when: func(p *EngagementProfile, rc ruleContext) bool {
			return !p.Completion.Photos.IsDone
		},
		emit: EmailTypeNudge,
	},
	{
		name: "nudge_questionnaire",
		when: func(p *EngagementProfile, rc ruleContext) bool {
			return p.Completion.Questionnaire.CompletionPercent < 50
		},
		emit: EmailTypeNudge,
	},
	{
		name: "ai_summary_midway",
		when: func(p *EngagementProfile, rc ruleContext) bool {
			return p.Completion.Overall >= 40 && p.Completion.Overall < 90 &&
				p.LastEmailType != EmailTypeAiSummary
		},
		emit: EmailTypeAiSummary,
	},
	{
		name: "value_biweekly",
		when: func(p *EngagementProfile, rc ruleContext) bool {
			return p.DaysInSystem > onboardingWindow && p.DaysInSystem%14 == 0
		},
		emit: EmailTypeValue,
	},
}

// DetermineEmailType walks the rule ladder and returns the email type to
// send today, or EmailTypeNone. The throttle is checked first: a user who
// got any email less than a full day ago gets nothing, whatever the rules
// would otherwise say.
func DetermineEmailType(p *EngagementProfile, now time.Time) EmailType {
	if p.LastEmailSent != nil && fullDaysBetween(*p.LastEmailSent, now) < minDaysBetweenEmails {
		return EmailTypeNone
	}
	rc := ruleContext{now: now, sent: sentTypeSet(p)}
	for _, r := range campaignRules {
		if r.when(p, rc) {
			return r.emit
		}
	}
	return EmailTypeNone
}

// ExplainDecision returns the name of the rule that fired, or "throttled" /
// "no_match". Used by the preview endpoint, never by the send path.
func ExplainDecision(p *EngagementProfile, now time.Time) (EmailType, string) {
	if p.LastEmailSent != nil && fullDaysBetween(*p.LastEmailSent, now) < minDaysBetweenEmails {
		return EmailTypeNone, "throttled"
	}
	rc := ruleContext{now: now, sent: sentTypeSet(p)}
	for _, r := range campaignRules {
		if r.when(p, rc) {
			return r.emit, r.name
		}
	}
	return EmailTypeNone, "no_match"
}

func sentTypeSet(p *EngagementProfile) map[EmailType]bool {
	set := make(map[EmailType]bool)
	if p.Drip == nil {
		return set
	}
	for _, t := range p.Drip.SentEmailTypes {
		set[EmailType(t)] = true
	}
	return set
}

// fullDaysBetween counts whole 24h periods elapsed from one instant to
// another. Negative spans count as zero.
func fullDaysBetween(from, to time.Time) int {
	d := to.Sub(from)
	if d < 0 {
		return 0
	}
	return int(d.Hours() / 24)
}
