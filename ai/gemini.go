// Package ai generates profile insights through Google's Gemini API.
package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"google.golang.org/genai"
	"gorm.io/gorm"

	"neshama/config"
	"neshama/engagement"
	"neshama/models"
)

// insightTimeout bounds a single Gemini call. Insights are a nice-to-have
// inside a batch run and must never stall it.
const insightTimeout = 20 * time.Second

const maxInsightItems = 3

var insightSchema = &genai.Schema{
	Type:        genai.TypeObject,
	Description: "A warm, concise analysis of a matchmaking profile.",
	Properties: map[string]*genai.Schema{
		"personalitySummary": {
			Type:        genai.TypeString,
			Description: "One or two sentences describing the member's personality, second person, in the requested language.",
		},
		"lookingForSummary": {
			Type:        genai.TypeString,
			Description: "One sentence describing what the member seems to look for in a partner.",
		},
		"topStrengths": {
			Type:        genai.TypeArray,
			Description: "Up to three short strengths of the profile.",
			Items:       &genai.Schema{Type: genai.TypeString},
		},
		"topGaps": {
			Type:        genai.TypeArray,
			Description: "Up to three short, gentle suggestions for what to improve.",
			Items:       &genai.Schema{Type: genai.TypeString},
		},
	},
	Required: []string{"personalitySummary", "lookingForSummary"},
}

// GeminiProvider implements engagement.InsightProvider. Every failure path
// returns nil insights; the engine falls back to generic copy.
type GeminiProvider struct {
	client *genai.Client
	db     *gorm.DB
	model  string
}

func NewGeminiProvider(ctx context.Context, cfg config.GeminiConfig, db *gorm.DB) (*GeminiProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	log.Infof("🤖 Gemini insight provider initialized (model %s)", cfg.Model)
	return &GeminiProvider{client: client, db: db, model: cfg.Model}, nil
}

// GetInsights analyzes one member's profile. Returns nil when the profile
// has too little content, the API call fails, or the response cannot be
// parsed. Errors are logged, never returned.
func (p *GeminiProvider) GetInsights(ctx context.Context, userID uint, language string) *engagement.AiInsights {
	ctx, cancel := context.WithTimeout(ctx, insightTimeout)
	defer cancel()

	prompt, err := p.buildPrompt(ctx, userID, language)
	if err != nil {
		log.WithField("user_id", userID).Warnf("Insight prompt skipped: %v", err)
		return nil
	}

	contents := []*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)}
	cfg := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   insightSchema,
	}

	resp, err := p.client.Models.GenerateContent(ctx, p.model, contents, cfg)
	if err != nil {
		log.WithField("user_id", userID).Warnf("Gemini insight call failed: %v", err)
		return nil
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		log.WithField("user_id", userID).Warn("Gemini insight response empty")
		return nil
	}

	var parsed struct {
		PersonalitySummary string   `json:"personalitySummary"`
		LookingForSummary  string   `json:"lookingForSummary"`
		TopStrengths       []string `json:"topStrengths"`
		TopGaps            []string `json:"topGaps"`
	}
	if err := json.Unmarshal([]byte(resp.Text()), &parsed); err != nil {
		log.WithField("user_id", userID).Warnf("Gemini insight response not valid JSON: %v", err)
		return nil
	}

	return &engagement.AiInsights{
		PersonalitySummary: parsed.PersonalitySummary,
		LookingForSummary:  parsed.LookingForSummary,
		TopStrengths:       clampItems(parsed.TopStrengths),
		TopGaps:            clampItems(parsed.TopGaps),
	}
}

// buildPrompt assembles the profile narrative the model analyzes. A profile
// with neither an about text nor questionnaire answers is not worth a call.
func (p *GeminiProvider) buildPrompt(ctx context.Context, userID uint, language string) (string, error) {
	var user models.User
	err := p.db.WithContext(ctx).
		Preload("Profile").
		Preload("QuestionnaireResponses", func(db *gorm.DB) *gorm.DB {
			return db.Order("last_saved DESC").Limit(1)
		}).
		First(&user, userID).Error
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	hasContent := false

	if user.Profile != nil && user.Profile.About != "" {
		fmt.Fprintf(&sb, "About section: %s\n", user.Profile.About)
		hasContent = true
	}
	if user.Profile != nil && user.Profile.City != "" {
		fmt.Fprintf(&sb, "City: %s\n", user.Profile.City)
	}
	if user.Profile != nil && user.Profile.Occupation != "" {
		fmt.Fprintf(&sb, "Occupation: %s\n", user.Profile.Occupation)
	}
	if len(user.QuestionnaireResponses) > 0 {
		qr := user.QuestionnaireResponses[0]
		if qr.AnsweredCount() > 0 {
			fmt.Fprintf(&sb, "Questionnaire answers given per world:\n")
			for world, answers := range qr.WorldAnswers() {
				if len(answers) > 0 {
					fmt.Fprintf(&sb, "- %s: %s\n", world, strings.Join(answers, ", "))
				}
			}
			hasContent = true
		}
	}
	if !hasContent {
		return "", fmt.Errorf("profile has no analyzable content")
	}

	lang := "Hebrew"
	if language != "he" && language != "" {
		lang = "English"
	}
	return fmt.Sprintf(
		"You are a warm, professional matchmaking assistant. Analyze the member profile below "+
			"and respond in %s. Be encouraging and specific, never judgmental.\n\n%s", lang, sb.String()), nil
}

func clampItems(items []string) []string {
	if len(items) > maxInsightItems {
		return items[:maxInsightItems]
	}
	return items
}

// DisabledProvider is used when no Gemini API key is configured. All emails
// fall back to their generic copy.
type DisabledProvider struct{}

func NewDisabledProvider() *DisabledProvider {
	return &DisabledProvider{}
}

func (DisabledProvider) GetInsights(ctx context.Context, userID uint, language string) *engagement.AiInsights {
	return nil
}
