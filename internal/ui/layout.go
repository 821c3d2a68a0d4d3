package ui

import "time"

// Terminal width thresholds for responsive layouts.
const (
	// LayoutCompactWidth is the threshold below which the detail pane is hidden.
	LayoutCompactWidth = 80

	// LayoutExtraWideWidth is the threshold for a narrower list pane.
	LayoutExtraWideWidth = 160
)

// Timing and buffer limits.
const (
	// SearchDebounce is how long typing must pause before a query is applied.
	SearchDebounce = 350 * time.Millisecond

	// LogTailLines is how many log lines the log view reads.
	LogTailLines = 500

	// FlashDuration is how long a command bar notice stays visible.
	FlashDuration = 3 * time.Second
)

// chromeHeight is the header plus command bar.
const chromeHeight = 2

// listPaneWidth splits the screen between list and detail panes.
func listPaneWidth(total int) int {
	switch {
	case total < LayoutCompactWidth:
		return total
	case total >= LayoutExtraWideWidth:
		return total * 35 / 100
	default:
		return total * 45 / 100
	}
}
