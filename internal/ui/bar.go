package ui

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/aipdev/aip/internal/usage"
)

// barWidth is the character width of usage bars.
const barWidth = 20

// Bar renders a block-character bar for a 0.0-1.0 fraction.
func Bar(fraction float64) string {
	if math.IsNaN(fraction) {
		fraction = 0
	}
	filled := int(math.Round(fraction * barWidth))
	if filled < 0 {
		filled = 0
	}
	if filled > barWidth {
		filled = barWidth
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
}

// UsageLine formats one usage window in its own convention: the bar and
// percentage show exactly what the tool itself would report, with a
// used/left suffix so the two tools' numbers are never conflated.
func UsageLine(w usage.Window) string {
	percent := w.Fraction * 100
	reset := "session not started"
	if w.ResetsAt != nil {
		reset = "resets at " + FormatResetTime(*w.ResetsAt)
	}
	return fmt.Sprintf("%-7s %s %5.1f%% %s  %s",
		w.Label, Bar(w.Fraction), percent, w.Convention, reset)
}

// FormatResetTime renders a reset timestamp in local time, short form when
// it falls today.
func FormatResetTime(t time.Time) string {
	local := t.Local()
	now := time.Now()
	if local.Year() == now.Year() && local.YearDay() == now.YearDay() {
		return local.Format("15:04")
	}
	return local.Format("Jan 02 15:04")
}
