// Package tui provides the terminal ladder viewer. It shows the current
// standings from the player store, the rank ladder with its population, and
// the results of the last computed matches.
package tui

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/wcarena/arenarank/pkg/data"
	"github.com/wcarena/arenarank/pkg/journal"
	"github.com/wcarena/arenarank/pkg/rank"
)

// ScreenType represents different screens in the TUI application
type ScreenType int

const (
	ScreenStandings ScreenType = iota
	ScreenLadder
	ScreenResults
	ScreenHelp
)

// String returns the string representation of ScreenType
func (s ScreenType) String() string {
	switch s {
	case ScreenStandings:
		return "standings"
	case ScreenLadder:
		return "ladder"
	case ScreenResults:
		return "results"
	case ScreenHelp:
		return "help"
	default:
		return "unknown"
	}
}

// Screen interface defines the contract for all TUI screens
type Screen interface {
	// GetPrimitive returns the tview.Primitive for this screen
	GetPrimitive() tview.Primitive

	// OnEnter is called when the screen becomes active
	OnEnter(app *App) error

	// OnExit is called when leaving the screen
	OnExit(app *App) error

	// GetTitle returns the screen title for display
	GetTitle() string
}

// AppState represents the current application state
type AppState struct {
	mu             sync.RWMutex
	store          data.Store
	ladder         *rank.Ladder
	leagueID       string
	standings      []data.PlayerRecord
	results        []journal.MatchResult
	currentScreen  ScreenType
	previousScreen ScreenType
	isRunning      bool
	lastRefresh    *time.Time
}

// App represents the main TUI application
type App struct {
	tviewApp *tview.Application
	pages    *tview.Pages
	header   *tview.TextView
	footer   *tview.TextView
	state    *AppState
	screens  map[ScreenType]Screen
	ctx      context.Context
	cancel   context.CancelFunc
	mu       sync.RWMutex
}

// KeyBinding represents a keyboard shortcut
type KeyBinding struct {
	Key         tcell.Key
	Rune        rune
	Description string
	Handler     func(app *App) error
}

// Global key bindings available across all screens
var globalKeyBindings = []KeyBinding{
	{Key: tcell.KeyCtrlC, Description: "Exit", Handler: (*App).Exit},
	{Key: tcell.KeyRune, Rune: 's', Description: "Standings", Handler: (*App).ShowStandings},
	{Key: tcell.KeyRune, Rune: 'l', Description: "Ladder", Handler: (*App).ShowLadder},
	{Key: tcell.KeyRune, Rune: 'm', Description: "Last matches", Handler: (*App).ShowResults},
	{Key: tcell.KeyRune, Rune: 'u', Description: "Reload store", Handler: (*App).Refresh},
	{Key: tcell.KeyF1, Description: "Help", Handler: (*App).ShowHelp},
}

// NewApp creates a new TUI application instance
func NewApp(ladder *rank.Ladder, store data.Store, leagueID string) (*App, error) {
	if ladder == nil {
		return nil, errors.New("ladder cannot be nil")
	}
	if store == nil {
		return nil, errors.New("store cannot be nil")
	}

	ctx, cancel := context.WithCancel(context.Background())

	app := &App{
		tviewApp: tview.NewApplication(),
		pages:    tview.NewPages(),
		header:   tview.NewTextView(),
		footer:   tview.NewTextView(),
		state: &AppState{
			store:         store,
			ladder:        ladder,
			leagueID:      leagueID,
			currentScreen: ScreenStandings,
		},
		screens: make(map[ScreenType]Screen),
		ctx:     ctx,
		cancel:  cancel,
	}

	app.setupUI()

	return app, nil
}

// setupUI initializes the UI components and layout
func (a *App) setupUI() {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.header.SetBorder(true).
		SetTitle("Arena Ladder").
		SetTitleAlign(tview.AlignCenter).
		SetBackgroundColor(tcell.ColorDarkBlue)
	a.header.SetTextColor(tcell.ColorWhite)

	a.footer.SetBorder(true).
		SetTitle("Keyboard Shortcuts").
		SetTitleAlign(tview.AlignCenter).
		SetBackgroundColor(tcell.ColorDarkGreen)
	a.footer.SetTextColor(tcell.ColorWhite)
	a.footer.SetText(footerText())

	mainLayout := tview.NewFlex().SetDirection(tview.FlexRow)
	mainLayout.AddItem(a.header, 3, 0, false)
	mainLayout.AddItem(a.pages, 0, 1, true)
	mainLayout.AddItem(a.footer, 3, 0, false)
	mainLayout.SetInputCapture(a.handleGlobalInput)

	a.tviewApp.SetRoot(mainLayout, true)
	a.tviewApp.EnableMouse(true)
	a.tviewApp.SetBeforeDrawFunc(func(screen tcell.Screen) bool {
		a.updateHeader()
		return false
	})
}

// RegisterScreen registers a screen with the application
func (a *App) RegisterScreen(screenType ScreenType, screen Screen) error {
	if screen == nil {
		return errors.New("screen cannot be nil")
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	a.screens[screenType] = screen
	a.pages.AddPage(screenType.String(), screen.GetPrimitive(), true, false)

	return nil
}

// RegisterDefaultScreens registers the standings, ladder, results and help screens
func (a *App) RegisterDefaultScreens() error {
	defaults := map[ScreenType]Screen{
		ScreenStandings: NewStandingsScreen(a.Ladder()),
		ScreenLadder:    NewLadderScreen(),
		ScreenResults:   NewResultsScreen(),
		ScreenHelp:      NewHelpScreen(),
	}
	for screenType, screen := range defaults {
		if err := a.RegisterScreen(screenType, screen); err != nil {
			return err
		}
	}
	return nil
}

// NavigateTo switches to the specified screen
func (a *App) NavigateTo(screenType ScreenType) error {
	a.mu.RLock()
	screen, exists := a.screens[screenType]
	a.mu.RUnlock()
	if !exists {
		return fmt.Errorf("screen %s not registered", screenType.String())
	}

	a.state.mu.RLock()
	previousScreen := a.state.currentScreen
	a.state.mu.RUnlock()

	a.mu.RLock()
	currentScreen, hasCurrentScreen := a.screens[previousScreen]
	a.mu.RUnlock()

	// Screens call back into the app, so no lock is held across OnExit/OnEnter
	if hasCurrentScreen && previousScreen != screenType {
		if err := currentScreen.OnExit(a); err != nil {
			return fmt.Errorf("failed to exit screen %s: %w", previousScreen.String(), err)
		}
	}

	if err := screen.OnEnter(a); err != nil {
		return fmt.Errorf("failed to enter screen %s: %w", screenType.String(), err)
	}

	a.state.mu.Lock()
	if previousScreen != screenType {
		a.state.previousScreen = previousScreen
	}
	a.state.currentScreen = screenType
	a.state.mu.Unlock()

	a.pages.SwitchToPage(screenType.String())

	return nil
}

// GoBack returns to the previously shown screen
func (a *App) GoBack() error {
	a.state.mu.RLock()
	previous := a.state.previousScreen
	a.state.mu.RUnlock()
	return a.NavigateTo(previous)
}

// ShowStandings displays the standings screen
func (a *App) ShowStandings() error {
	return a.NavigateTo(ScreenStandings)
}

// ShowLadder displays the rank ladder screen
func (a *App) ShowLadder() error {
	return a.NavigateTo(ScreenLadder)
}

// ShowResults displays the last match results
func (a *App) ShowResults() error {
	return a.NavigateTo(ScreenResults)
}

// ShowHelp displays the help screen
func (a *App) ShowHelp() error {
	return a.NavigateTo(ScreenHelp)
}

// Refresh reloads the standings from the player store and re-enters the
// current screen so it redraws with the new data
func (a *App) Refresh() error {
	a.state.mu.RLock()
	store := a.state.store
	a.state.mu.RUnlock()

	standings, err := store.All()
	if err != nil {
		a.showErrorDialog("Reload Failed", fmt.Sprintf("Failed to read the player store:\n\n%v", err))
		return fmt.Errorf("failed to load standings: %w", err)
	}

	now := time.Now()
	a.state.mu.Lock()
	a.state.standings = standings
	a.state.lastRefresh = &now
	current := a.state.currentScreen
	a.state.mu.Unlock()

	a.mu.RLock()
	screen, ok := a.screens[current]
	a.mu.RUnlock()
	if ok {
		return screen.OnEnter(a)
	}
	return nil
}

// Exit stops the application
func (a *App) Exit() error {
	a.state.mu.Lock()
	defer a.state.mu.Unlock()

	a.state.isRunning = false
	a.cancel()
	a.tviewApp.Stop()

	return nil
}

// Run loads the standings and starts the TUI application
func (a *App) Run() error {
	if err := a.Refresh(); err != nil {
		return err
	}

	a.state.mu.Lock()
	a.state.isRunning = true
	a.state.mu.Unlock()

	if err := a.NavigateTo(ScreenStandings); err != nil {
		return fmt.Errorf("failed to navigate to standings screen: %w", err)
	}

	return a.tviewApp.Run()
}

// Stop gracefully stops the application
func (a *App) Stop() {
	if a.IsRunning() {
		_ = a.Exit()
	}
}

// SetResults replaces the match results shown on the results screen
func (a *App) SetResults(results []journal.MatchResult) {
	a.state.mu.Lock()
	defer a.state.mu.Unlock()
	a.state.results = results
}

// Results returns the match results shown on the results screen
func (a *App) Results() []journal.MatchResult {
	a.state.mu.RLock()
	defer a.state.mu.RUnlock()
	return a.state.results
}

// Standings returns the last loaded standings, highest rating first
func (a *App) Standings() []data.PlayerRecord {
	a.state.mu.RLock()
	defer a.state.mu.RUnlock()
	return a.state.standings
}

// Ladder returns the rank ladder
func (a *App) Ladder() *rank.Ladder {
	a.state.mu.RLock()
	defer a.state.mu.RUnlock()
	return a.state.ladder
}

// LeagueID returns the name of the league being viewed
func (a *App) LeagueID() string {
	a.state.mu.RLock()
	defer a.state.mu.RUnlock()
	return a.state.leagueID
}

// GetTViewApp returns the underlying tview application for advanced usage
func (a *App) GetTViewApp() *tview.Application {
	return a.tviewApp
}

// IsRunning returns whether the application is currently running
func (a *App) IsRunning() bool {
	a.state.mu.RLock()
	defer a.state.mu.RUnlock()
	return a.state.isRunning
}

// GetCurrentScreen returns the current screen type
func (a *App) GetCurrentScreen() ScreenType {
	a.state.mu.RLock()
	defer a.state.mu.RUnlock()
	return a.state.currentScreen
}

// handleGlobalInput handles global keyboard shortcuts
func (a *App) handleGlobalInput(event *tcell.EventKey) *tcell.EventKey {
	for _, binding := range globalKeyBindings {
		if (binding.Key != tcell.KeyRune && event.Key() == binding.Key) ||
			(binding.Key == tcell.KeyRune && event.Key() == tcell.KeyRune && event.Rune() == binding.Rune) {
			// Errors are already surfaced through the error dialog
			_ = binding.Handler(a)
			return nil
		}
	}

	return event
}

// updateHeader updates the header text with current screen information
func (a *App) updateHeader() {
	a.state.mu.RLock()
	currentScreen := a.state.currentScreen
	leagueID := a.state.leagueID
	players := len(a.state.standings)
	lastRefresh := a.state.lastRefresh
	a.state.mu.RUnlock()

	a.mu.RLock()
	screen, exists := a.screens[currentScreen]
	a.mu.RUnlock()
	if !exists {
		return
	}

	refreshed := " | Not loaded yet"
	if lastRefresh != nil {
		refreshed = fmt.Sprintf(" | Loaded %s", lastRefresh.Format("15:04:05"))
	}

	a.header.SetText(fmt.Sprintf("Screen: %s | League: %s | Players: %d%s",
		screen.GetTitle(), leagueID, players, refreshed))
}

// showErrorDialog displays an error message in a modal dialog
func (a *App) showErrorDialog(title, message string) {
	modal := tview.NewModal().
		SetText(message).
		AddButtons([]string{"OK"}).
		SetDoneFunc(func(buttonIndex int, buttonLabel string) {
			a.pages.RemovePage("error-dialog")
		})

	modal.SetTitle(title).
		SetBorder(true).
		SetBackgroundColor(tcell.ColorDarkRed)

	a.pages.AddPage("error-dialog", modal, true, true)
}

// footerText lists the global key bindings
func footerText() string {
	helpText := ""
	for i, binding := range globalKeyBindings {
		if i > 0 {
			helpText += " | "
		}
		helpText += fmt.Sprintf("%s: %s", keyName(binding), binding.Description)
	}
	return helpText
}

func keyName(binding KeyBinding) string {
	if binding.Key != tcell.KeyRune {
		return tcell.KeyNames[binding.Key]
	}
	return string(binding.Rune)
}
