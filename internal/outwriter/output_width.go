// Package outwriter has output and writer logic.
package outwriter

import (
	"os"

	"github.com/trafficlens/trafficlens/internal/contract"
	"golang.org/x/term"
)

// getMaxTableNameWidth calculates the maximum width for referrer and path
// cells in table output based on terminal width.
func getMaxTableNameWidth(cfg *contract.Config) int {
	var termWidth int

	// Check for absolute width override from flag/env
	if cfg.Width > 0 {
		termWidth = cfg.Width
	}

	if termWidth == 0 { // Not set by override
		// Get terminal width
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			// Fallback to conservative default if terminal size can't be detected
			termWidth = 80 // Conservative default for narrow terminals and CI
		} else {
			termWidth = detectedWidth
		}
	}

	// Reserve space for the rank, count and uniques columns with borders and padding
	baseWidth := 30

	// Calculate available space for the name cell
	available := termWidth - baseWidth
	if available < 15 {
		// Minimum reasonable name width
		return 15
	}
	if available > 70 {
		// Maximum name width to prevent overly long referrer URLs
		return 70
	}
	return available
}
