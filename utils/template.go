package utils

import (
	"fmt"
	"strings"
)

// PopulateTemplate replaces {{token}} placeholders in a copy string with the
// given values. Unknown tokens are left untouched so a missing dictionary
// value is visible instead of silently blank.
func PopulateTemplate(template string, data map[string]interface{}) string {
	if template == "" {
		return ""
	}
	result := template
	for key, value := range data {
		result = strings.ReplaceAll(result, "{{"+key+"}}", fmt.Sprintf("%v", value))
	}
	return result
}

// ProgressBar renders a ten-segment text progress bar for email bodies.
func ProgressBar(percentage int) string {
	if percentage < 0 {
		percentage = 0
	}
	if percentage > 100 {
		percentage = 100
	}
	filled := percentage / 10
	return strings.Repeat("█", filled) + strings.Repeat("░", 10-filled) + fmt.Sprintf(" %d%%", percentage)
}
