package worker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCronFromWallClock(t *testing.T) {
	expr, err := cronFromWallClock("09:00")
	require.NoError(t, err)
	assert.Equal(t, "0 9 * * *", expr)

	expr, err = cronFromWallClock("20:30")
	require.NoError(t, err)
	assert.Equal(t, "30 20 * * *", expr)
}

func TestCronFromWallClockRejectsBadInput(t *testing.T) {
	for _, bad := range []string{"", "9", "25:00", "09:61", "a:b", "09:00:00"} {
		_, err := cronFromWallClock(bad)
		assert.Error(t, err, "input %q must be rejected", bad)
	}
}

func TestExtractFailedRecipient(t *testing.T) {
	body := `Reporting-MTA: dns; mail.example.com
Final-Recipient: rfc822; bounced@example.com
Status: 5.1.1
Action: failed`

	assert.Equal(t, "bounced@example.com", extractFailedRecipient(body))
	assert.Equal(t, "", extractFailedRecipient("no addresses here"))
}

func TestHardBounceDetection(t *testing.T) {
	assert.True(t, hardBouncePattern.MatchString("Status: 5.1.1"))
	assert.True(t, hardBouncePattern.MatchString("550 user unknown"))
	assert.False(t, hardBouncePattern.MatchString("Status: 4.4.1 temporary failure"))
}
