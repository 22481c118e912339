package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/progress"
)

// ProgressBar renders static completion bars, one line per item
type ProgressBar struct {
	bar progress.Model
}

// NewProgressBar creates a bar sized for the given terminal width
func NewProgressBar(width int) *ProgressBar {
	barWidth := width - 40
	if barWidth < 20 {
		barWidth = 20
	}
	if barWidth > 50 {
		barWidth = 50
	}
	return &ProgressBar{
		bar: progress.New(
			progress.WithGradient(string(PrimaryColor), string(SuccessColor)),
			progress.WithWidth(barWidth),
			progress.WithoutPercentage(),
		),
	}
}

// Render returns the bar for percent (0-100) followed by the percentage
func (b *ProgressBar) Render(percent int) string {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	return fmt.Sprintf("%s %3d%%", b.bar.ViewAs(float64(percent)/100), percent)
}
