package constants

import (
	"os"
	"strconv"
	"time"
)

// score defaults applied when a document leaves the field out
const (
	DefaultResolution = 480
	DefaultBPM        = 120.0
	DefaultBeatPerBar = 4
	DefaultBeatUnit   = 4
)

// MIDI tone range; TotalKeys covers all of it
const (
	MinTone   = 0
	MaxTone   = 127
	TotalKeys = 128
)

// visual scale shared by the note grid and the key panel
const (
	PixelsPerBeat = 50.0
	KeyHeight     = 20.0
	KeyWidth      = 100.0

	// differentiated keyboard only
	WhiteKeyHeight = 20.0
	BlackKeyHeight = 12.0
	BlackKeyOffset = 12.0
	BlackKeyWidth  = KeyWidth - BlackKeyOffset

	// trailing space after the last note so it is never flush with the edge
	ContentPadding = 100.0

	PhonemePanelHeight = 150
	DefaultViewWidth   = 800
	DefaultViewHeight  = 600
	LabelFontSize      = 11.0
)

const ScrollDebounce = 16 * time.Millisecond

func GetPixelsPerBeat() float64 {
	return getFloat("USTXROLL_PIXELS_PER_BEAT", PixelsPerBeat)
}

func GetKeyHeight() float64 {
	return getFloat("USTXROLL_KEY_HEIGHT", KeyHeight)
}

func GetPadding() float64 {
	return getFloat("USTXROLL_PADDING", ContentPadding)
}

func GetTotalKeys() int {
	return getInt("USTXROLL_TOTAL_KEYS", TotalKeys)
}

func GetLowestKey() int {
	return getInt("USTXROLL_LOWEST_KEY", MinTone)
}

func GetAddr() string {
	addr := os.Getenv("USTXROLL_ADDR")
	if addr != "" {
		return addr
	}
	return ":8080"
}

// GetSentryDSN returns an empty string when error reporting is off.
func GetSentryDSN() string {
	return os.Getenv("SENTRY_DSN")
}

func getFloat(name string, fallback float64) float64 {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

func getInt(name string, fallback int) int {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return fallback
	}
	return v
}
