package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/wcarena/arenarank/pkg/data"
	"github.com/wcarena/arenarank/pkg/journal"
	"github.com/wcarena/arenarank/pkg/rank"
	"github.com/wcarena/arenarank/pkg/tui/components"
)

// StandingsScreen lists every stored player, highest rating first
type StandingsScreen struct {
	root      *tview.Flex
	table     *tview.Table
	progress  *components.TierProgress
	ladder    *rank.Ladder
	standings []data.PlayerRecord
}

// NewStandingsScreen creates the standings screen
func NewStandingsScreen(ladder *rank.Ladder) *StandingsScreen {
	s := &StandingsScreen{
		root:     tview.NewFlex(),
		table:    tview.NewTable(),
		progress: components.NewTierProgress(ladder),
		ladder:   ladder,
	}

	s.table.SetBorders(false).
		SetSelectable(true, false).
		SetFixed(1, 0)
	s.table.SetBorder(true).SetTitle("Standings")
	s.table.SetSelectionChangedFunc(func(row, column int) {
		s.selectRow(row)
	})

	s.root.AddItem(s.table, 0, 3, true)
	s.root.AddItem(s.progress.GetPrimitive(), 40, 0, false)

	return s
}

// GetPrimitive returns the root primitive for this screen
func (s *StandingsScreen) GetPrimitive() tview.Primitive {
	return s.root
}

// OnEnter reloads the table from the app state
func (s *StandingsScreen) OnEnter(app *App) error {
	s.standings = app.Standings()
	s.render()
	return nil
}

// OnExit is called when leaving the screen
func (s *StandingsScreen) OnExit(app *App) error {
	return nil
}

// GetTitle returns the screen title
func (s *StandingsScreen) GetTitle() string {
	return "Standings"
}

func (s *StandingsScreen) render() {
	s.table.Clear()

	for col, title := range []string{"#", "Player", "Rating", "Tier", "Games"} {
		s.table.SetCell(0, col, tview.NewTableCell(title).
			SetTextColor(tcell.ColorYellow).
			SetSelectable(false).
			SetAlign(tview.AlignCenter))
	}

	for i, record := range s.standings {
		row := i + 1
		tier := s.ladder.RankFor(record.Rating)
		s.table.SetCell(row, 0, tview.NewTableCell(strconv.Itoa(row)).SetAlign(tview.AlignRight))
		s.table.SetCell(row, 1, tview.NewTableCell(record.ID).SetExpansion(1))
		s.table.SetCell(row, 2, tview.NewTableCell(strconv.Itoa(record.Rating)).SetAlign(tview.AlignRight))
		s.table.SetCell(row, 3, tview.NewTableCell(tier.Name))
		s.table.SetCell(row, 4, tview.NewTableCell(strconv.Itoa(record.GamesPlayed)).SetAlign(tview.AlignRight))
	}

	if len(s.standings) == 0 {
		s.progress.Clear()
		return
	}
	s.table.Select(1, 0)
	s.selectRow(1)
}

func (s *StandingsScreen) selectRow(row int) {
	if row < 1 || row > len(s.standings) {
		return
	}
	record := s.standings[row-1]
	s.progress.Update(record.ID, record.Rating)
}

// LadderScreen shows every tier with its threshold and population
type LadderScreen struct {
	table *tview.Table
}

// NewLadderScreen creates the ladder screen
func NewLadderScreen() *LadderScreen {
	l := &LadderScreen{table: tview.NewTable()}
	l.table.SetBorder(true).SetTitle("Rank Ladder")
	l.table.SetFixed(1, 0)
	return l
}

// GetPrimitive returns the root primitive for this screen
func (l *LadderScreen) GetPrimitive() tview.Primitive {
	return l.table
}

// OnEnter redraws the ladder from the app state
func (l *LadderScreen) OnEnter(app *App) error {
	ladder := app.Ladder()
	population := TierPopulation(ladder, app.Standings())

	l.table.Clear()
	for col, title := range []string{"Tier", "From", "Players"} {
		l.table.SetCell(0, col, tview.NewTableCell(title).
			SetTextColor(tcell.ColorYellow).
			SetSelectable(false))
	}
	for i, tier := range ladder.Tiers() {
		row := i + 1
		l.table.SetCell(row, 0, tview.NewTableCell(tier.Name).SetExpansion(1))
		l.table.SetCell(row, 1, tview.NewTableCell(strconv.Itoa(tier.Threshold)).SetAlign(tview.AlignRight))
		l.table.SetCell(row, 2, tview.NewTableCell(strconv.Itoa(population[tier.Name])).SetAlign(tview.AlignRight))
	}
	return nil
}

// OnExit is called when leaving the screen
func (l *LadderScreen) OnExit(app *App) error {
	return nil
}

// GetTitle returns the screen title
func (l *LadderScreen) GetTitle() string {
	return "Ladder"
}

// TierPopulation counts players per tier name
func TierPopulation(ladder *rank.Ladder, standings []data.PlayerRecord) map[string]int {
	counts := make(map[string]int, len(ladder.Tiers()))
	for _, record := range standings {
		counts[ladder.RankFor(record.Rating).Name]++
	}
	return counts
}

// ResultsScreen shows the deltas of the matches computed in this run
type ResultsScreen struct {
	view *tview.TextView
}

// NewResultsScreen creates the results screen
func NewResultsScreen() *ResultsScreen {
	r := &ResultsScreen{view: tview.NewTextView()}
	r.view.SetBorder(true).SetTitle("Last Matches")
	r.view.SetDynamicColors(true).SetScrollable(true)
	return r
}

// GetPrimitive returns the root primitive for this screen
func (r *ResultsScreen) GetPrimitive() tview.Primitive {
	return r.view
}

// OnEnter redraws the results from the app state
func (r *ResultsScreen) OnEnter(app *App) error {
	r.view.SetText(FormatResults(app.Results()))
	r.view.ScrollToBeginning()
	return nil
}

// OnExit is called when leaving the screen
func (r *ResultsScreen) OnExit(app *App) error {
	return nil
}

// GetTitle returns the screen title
func (r *ResultsScreen) GetTitle() string {
	return "Last matches"
}

// FormatResults renders match results with tview color tags
func FormatResults(results []journal.MatchResult) string {
	if len(results) == 0 {
		return "No matches computed in this run"
	}

	var b strings.Builder
	for _, result := range results {
		fmt.Fprintf(&b, "[yellow]%s[-] (%s)\n", result.MatchID, result.Type)
		for _, delta := range result.Deltas {
			color := "white"
			switch {
			case delta.Change > 0:
				color = "green"
			case delta.Change < 0:
				color = "red"
			}
			fmt.Fprintf(&b, "  %-16s %4d -> %4d [%s](%+d)[-] %s",
				delta.ID, delta.OldRating, delta.NewRating, color, delta.Change, delta.NewTier.Name)
			switch journal.Movement(delta) {
			case journal.MovementPromoted:
				fmt.Fprintf(&b, " [green]▲ %s[-]", delta.OldTier.Name)
			case journal.MovementDemoted:
				fmt.Fprintf(&b, " [red]▼ %s[-]", delta.OldTier.Name)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	return b.String()
}
