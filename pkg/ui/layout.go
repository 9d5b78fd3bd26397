package ui

// Window width thresholds for the split view.
const (
	// BreakpointNarrow is the width below which the status bar drops its
	// key hints.
	BreakpointNarrow = 80

	// BreakpointMedium is the width below which the tree and output
	// panels stack vertically instead of sitting side by side.
	BreakpointMedium = 100
)

// MinContentHeight is the floor either content panel may shrink to when
// the window gets short.
const MinContentHeight = 5
