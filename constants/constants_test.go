package constants

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnvOverrides(t *testing.T) {
	t.Setenv("USTXROLL_PIXELS_PER_BEAT", "80")
	t.Setenv("USTXROLL_TOTAL_KEYS", "88")
	t.Setenv("USTXROLL_LOWEST_KEY", "21")

	assert := assert.New(t)
	assert.Equal(80.0, GetPixelsPerBeat())
	assert.Equal(88, GetTotalKeys())
	assert.Equal(21, GetLowestKey())
}

func TestEnvFallsBackOnGarbage(t *testing.T) {
	t.Setenv("USTXROLL_KEY_HEIGHT", "tall")
	t.Setenv("USTXROLL_PADDING", "-5")
	t.Setenv("USTXROLL_TOTAL_KEYS", "")

	assert := assert.New(t)
	assert.Equal(KeyHeight, GetKeyHeight())
	assert.Equal(ContentPadding, GetPadding())
	assert.Equal(TotalKeys, GetTotalKeys())
}
