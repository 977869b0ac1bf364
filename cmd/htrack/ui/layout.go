package ui

// Layout constants for consistent spacing
const (
	// Viewport padding around page content
	ViewportHorizontalPadding = 4
	ViewportVerticalPadding   = 6

	// Chrome
	HeaderHeight   = 1
	TabBarHeight   = 1
	AlertRowHeight = 1
	FooterHeight   = 1

	// Dashboard grid
	GridGap          = 1
	PanelBorderWidth = 1
	PanelPaddingH    = 1

	// Responsive breakpoints
	MinimumTerminalWidth = 60
	CompactModeWidth     = 100

	// Chart
	ChartLabelWidth = 2
	ChartColumn     = 6
)

// LayoutConfig provides computed layout dimensions based on terminal size
type LayoutConfig struct {
	TerminalWidth  int
	TerminalHeight int
	IsCompact      bool
}

// NewLayoutConfig creates a layout configuration for the given terminal size
func NewLayoutConfig(width, height int) LayoutConfig {
	return LayoutConfig{
		TerminalWidth:  width,
		TerminalHeight: height,
		IsCompact:      width < CompactModeWidth,
	}
}

// ContentWidth returns the usable content width for a page
func (l LayoutConfig) ContentWidth() int {
	return max(l.TerminalWidth-ViewportHorizontalPadding, MinimumTerminalWidth-ViewportHorizontalPadding)
}

// ContentHeight returns the usable content height for a page
func (l LayoutConfig) ContentHeight() int {
	return max(l.TerminalHeight-ViewportVerticalPadding, 5)
}

// PanelWidth returns the outer width of a dashboard panel. Compact
// terminals stack panels; wide ones place two side by side.
func (l LayoutConfig) PanelWidth() int {
	if l.IsCompact {
		return l.ContentWidth()
	}
	return (l.ContentWidth() - GridGap) / 2
}

// PanelContentWidth returns the content width inside a bordered panel
func PanelContentWidth(panelWidth int) int {
	return panelWidth - (PanelBorderWidth * 2) - (PanelPaddingH * 2)
}
