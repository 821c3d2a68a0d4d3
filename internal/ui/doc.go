// Package ui is the roster terminal browser, built on Bubble Tea.
//
// # Layout
//
// The screen is a header bar, a list pane on the left, a detail pane on the
// right and a command bar at the bottom. A second view shows the tail of
// roster's own log file.
//
// # Data Flow
//
// The model never fetches on the Update goroutine. Key presses turn into
// tea.Cmds that call a source.Source; each command answers with a message
// naming the source it touched, and the model re-reads that source's
// Snapshot when the message arrives. The loader behind each source drops
// calls made while a fetch runs, so duplicate commands are harmless.
//
// Moving the selection asks the source whether the visible row sits in the
// prefetch window and only then dispatches LoadMoreIfNeeded.
//
// # Search
//
// "/" opens a text input. The query is applied after a short pause in typing
// or immediately on enter; every keystroke bumps a sequence number so stale
// debounce ticks are ignored.
//
// # Key Bindings
//
//   - j/k, up/down: Move selection
//   - g/G: Top/bottom
//   - /: Search the active source
//   - r: Refresh (clears the query)
//   - m: Load the next page
//   - enter: Retry after a failure
//   - tab: Switch source
//   - f: Toggle favourite
//   - L: Log view
//   - T: Cycle theme
//   - h/?: Help
//   - q/ctrl+c: Quit
package ui
