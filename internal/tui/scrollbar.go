package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// scrollbar renders a vertical track for a list of contentHeight rows of
// which viewportHeight are visible starting at offset.
type scrollbar struct {
	contentHeight  int
	viewportHeight int
	offset         int
	thumb, track   lipgloss.Style
}

// thumbSpan returns the first row and the height of the thumb. A list that
// fits the viewport gets a full-height thumb.
func (s scrollbar) thumbSpan() (top, height int) {
	if s.viewportHeight <= 0 {
		return 0, 0
	}
	if s.contentHeight <= s.viewportHeight {
		return 0, s.viewportHeight
	}

	maxOffset := s.contentHeight - s.viewportHeight
	offset := min(max(s.offset, 0), maxOffset)

	height = s.viewportHeight * s.viewportHeight / s.contentHeight
	height = min(max(height, 1), s.viewportHeight)

	maxTop := s.viewportHeight - height
	top = offset * maxTop / maxOffset
	return min(max(top, 0), maxTop), height
}

// View returns exactly viewportHeight rows.
func (s scrollbar) View() string {
	top, height := s.thumbSpan()
	rows := make([]string, 0, s.viewportHeight)
	for i := 0; i < s.viewportHeight; i++ {
		if top <= i && i < top+height {
			// Non-breaking space keeps the background escape on an otherwise
			// blank cell.
			rows = append(rows, s.thumb.Render("\u00a0"))
		} else {
			rows = append(rows, s.track.Render("│"))
		}
	}
	return strings.Join(rows, "\n")
}
