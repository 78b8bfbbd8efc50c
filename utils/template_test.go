package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPopulateTemplate(t *testing.T) {
	out := PopulateTemplate("שלום {{firstName}}, אתם ב-{{completion}}%", map[string]interface{}{
		"firstName":  "דנה",
		"completion": 75,
	})
	assert.Equal(t, "שלום דנה, אתם ב-75%", out)
}

func TestPopulateTemplateKeepsUnknownTokens(t *testing.T) {
	out := PopulateTemplate("Hi {{firstName}}, {{missing}}", map[string]interface{}{
		"firstName": "Noa",
	})
	assert.Equal(t, "Hi Noa, {{missing}}", out)
}

func TestPopulateTemplateEmpty(t *testing.T) {
	assert.Equal(t, "", PopulateTemplate("", map[string]interface{}{"a": 1}))
}

func TestProgressBar(t *testing.T) {
	assert.Equal(t, "░░░░░░░░░░ 0%", ProgressBar(0))
	assert.Equal(t, "█████░░░░░ 50%", ProgressBar(50))
	assert.Equal(t, "██████████ 100%", ProgressBar(100))
	assert.Equal(t, "███████░░░ 75%", ProgressBar(75))

	assert.Equal(t, "░░░░░░░░░░ 0%", ProgressBar(-5), "negative values clamp to zero")
	assert.Equal(t, "██████████ 100%", ProgressBar(130), "values over a hundred clamp")
}
