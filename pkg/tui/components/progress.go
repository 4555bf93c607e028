// Package components provides reusable TUI widgets for the ladder viewer.
package components

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/wcarena/arenarank/pkg/rank"
)

// TierProgress shows how far a player has climbed towards the next tier
type TierProgress struct {
	view   *tview.TextView
	ladder *rank.Ladder
	width  int

	progressColor tcell.Color
	completeColor tcell.Color
	borderColor   tcell.Color
}

// NewTierProgress creates a progress panel for ladder
func NewTierProgress(ladder *rank.Ladder) *TierProgress {
	p := &TierProgress{
		view:          tview.NewTextView(),
		ladder:        ladder,
		width:         30,
		progressColor: tcell.ColorBlue,
		completeColor: tcell.ColorGold,
		borderColor:   tcell.ColorDarkGray,
	}

	p.view.SetBorder(true).SetTitle("Next Tier")
	p.view.SetBorderColor(p.borderColor)
	p.view.SetDynamicColors(true)
	p.view.SetTextAlign(tview.AlignCenter)

	return p
}

// GetPrimitive returns the underlying primitive
func (p *TierProgress) GetPrimitive() tview.Primitive {
	return p.view
}

// Update redraws the panel for one player
func (p *TierProgress) Update(playerID string, rating int) {
	current := p.ladder.RankFor(rating)
	fraction, next, ok := Fraction(p.ladder, rating)

	var text strings.Builder
	fmt.Fprintf(&text, "[white]%s[-]  %d  %s\n", playerID, rating, current.Name)

	if !ok {
		fmt.Fprintf(&text, "[%s]%s[-]\n", p.completeColor.Name(), RenderBar(1, p.width))
		text.WriteString("Top tier reached")
	} else {
		fmt.Fprintf(&text, "[%s]%s[-]\n", p.progressColor.Name(), RenderBar(fraction, p.width))
		fmt.Fprintf(&text, "%d to %s (%d)", next.Threshold-rating, next.Name, next.Threshold)
	}

	p.view.SetText(text.String())
}

// Clear empties the panel
func (p *TierProgress) Clear() {
	p.view.SetText("")
}

// Text returns the panel content without color tags
func (p *TierProgress) Text() string {
	return p.view.GetText(true)
}

// Fraction reports the share of the current tier band a rating has covered,
// in [0, 1], and the tier above it. ok is false in the top tier.
func Fraction(ladder *rank.Ladder, rating int) (fraction float64, next rank.Tier, ok bool) {
	next, ok = ladder.Next(rating)
	if !ok {
		return 1, rank.Tier{}, false
	}

	current := ladder.RankFor(rating)
	span := next.Threshold - current.Threshold
	fraction = float64(rating-current.Threshold) / float64(span)
	return min(max(fraction, 0), 1), next, true
}

// RenderBar draws a fixed-width text progress bar
func RenderBar(fraction float64, width int) string {
	if width <= 0 {
		return ""
	}
	filled := int(fraction*float64(width) + 0.5)
	filled = min(max(filled, 0), width)
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}
