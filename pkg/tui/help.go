package tui

import (
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// HelpScreen provides help and keyboard shortcut information
type HelpScreen struct {
	root     *tview.Flex
	textView *tview.TextView
	app      *App
}

// NewHelpScreen creates a new help screen
func NewHelpScreen() *HelpScreen {
	hs := &HelpScreen{
		root:     tview.NewFlex(),
		textView: tview.NewTextView(),
	}

	hs.setupLayout()
	return hs
}

// GetPrimitive returns the root primitive for this screen
func (hs *HelpScreen) GetPrimitive() tview.Primitive {
	return hs.root
}

// OnEnter is called when the help screen becomes active
func (hs *HelpScreen) OnEnter(app *App) error {
	hs.app = app
	hs.textView.SetText(helpContent(app.LeagueID()))
	return nil
}

// OnExit is called when leaving the help screen
func (hs *HelpScreen) OnExit(app *App) error {
	return nil
}

// GetTitle returns the screen title
func (hs *HelpScreen) GetTitle() string {
	return "Help"
}

// setupLayout configures the help screen layout
func (hs *HelpScreen) setupLayout() {
	hs.textView.
		SetBorder(true).
		SetTitle("Help - Arena Ladder").
		SetTitleAlign(tview.AlignCenter)

	hs.textView.SetWrap(true).
		SetDynamicColors(true).
		SetScrollable(true)

	hs.textView.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyEsc || (event.Key() == tcell.KeyRune && (event.Rune() == 'q' || event.Rune() == 'Q')) {
			if hs.app != nil {
				_ = hs.app.GoBack()
			}
			return nil
		}
		return event
	})

	hs.root.AddItem(hs.textView, 0, 1, true)
}

func helpContent(leagueID string) string {
	var content strings.Builder

	content.WriteString("[yellow]Arena Ladder[-]\n\n")
	if leagueID != "" {
		content.WriteString("League: " + leagueID + "\n\n")
	}

	content.WriteString("[green]Global Keyboard Shortcuts[-]\n")
	content.WriteString("═════════════════════════════\n")
	for _, binding := range globalKeyBindings {
		content.WriteString("[white]")
		content.WriteString(keyName(binding))
		content.WriteString("[-]  - ")
		content.WriteString(binding.Description)
		content.WriteString("\n")
	}

	content.WriteString("\n[green]Screens[-]\n")
	content.WriteString("═══════\n")
	content.WriteString("[white]Standings[-]    - Every player by rating, with progress to the next tier\n")
	content.WriteString("[white]Ladder[-]       - Tier thresholds and how many players sit in each\n")
	content.WriteString("[white]Last matches[-] - Rating changes from the matches computed in this run\n")

	content.WriteString("\n[green]Tips[-]\n")
	content.WriteString("════\n")
	content.WriteString("• Ratings are read from the player store; press u after another compute run\n")
	content.WriteString("• Esc or q leaves this screen\n")

	return content.String()
}
