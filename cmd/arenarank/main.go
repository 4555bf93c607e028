// Package main provides the command-line interface for the arenarank rating engine.
// It implements subcommands for rating match files against a player store, checking
// match shapes, resolving ranks and browsing the ladder, either as plain output or
// through the interactive terminal UI.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"

	"github.com/jessevdk/go-flags"

	"github.com/wcarena/arenarank/pkg/data"
	"github.com/wcarena/arenarank/pkg/journal"
	"github.com/wcarena/arenarank/pkg/rating"
	"github.com/wcarena/arenarank/pkg/tui"
)

// Version information - set by build process
var (
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// stdout receives all regular command output
var stdout io.Writer = os.Stdout

// GlobalOptions defines global CLI flags
type GlobalOptions struct {
	Config  string `long:"config" short:"c" description:"Configuration file path" default:"arenarank.yaml"`
	Verbose bool   `long:"verbose" short:"v" description:"Enable verbose logging"`
	Version bool   `long:"version" description:"Show version information"`
}

// ComputeCommand handles 'arenarank compute' subcommand
type ComputeCommand struct {
	Match       string `long:"match" short:"m" description:"Match file (.yaml, .yml or .json)" required:"true"`
	Store       string `long:"store" short:"s" description:"Player store path, overrides the configuration"`
	DryRun      bool   `long:"dry-run" description:"Compute and print results without saving ratings"`
	Format      string `long:"format" short:"f" description:"Output format (csv/json/text)"`
	Output      string `long:"output" short:"o" description:"Write results to a file instead of stdout"`
	Stats       bool   `long:"stats" description:"Include summary statistics"`
	Interactive bool   `long:"interactive" short:"i" description:"Browse the results in the terminal UI"`

	global *GlobalOptions
}

// ValidateCommand handles 'arenarank validate' subcommand
type ValidateCommand struct {
	Match string `long:"match" short:"m" description:"Match file to check" required:"true"`

	global *GlobalOptions
}

// RankCommand handles 'arenarank rank' subcommand
type RankCommand struct {
	Rating int `long:"rating" short:"r" description:"Rating to resolve" required:"true"`

	global *GlobalOptions
}

// LadderCommand handles 'arenarank ladder' subcommand
type LadderCommand struct {
	Store       string `long:"store" short:"s" description:"Player store path, overrides the configuration"`
	Top         int    `long:"top" description:"Number of leading players to list" default:"10"`
	Interactive bool   `long:"interactive" short:"i" description:"Open the terminal UI"`

	global *GlobalOptions
}

// ReplayCommand handles 'arenarank replay' subcommand
type ReplayCommand struct {
	Match  string `long:"match" short:"m" description:"Season file with matches in play order" required:"true"`
	Store  string `long:"store" short:"s" description:"Player store path, overrides the configuration"`
	DryRun bool   `long:"dry-run" description:"Replay without saving ratings"`
	Format string `long:"format" short:"f" description:"Output format (csv/json/text)"`
	Output string `long:"output" short:"o" description:"Write results to a file instead of stdout"`
	Stats  bool   `long:"stats" description:"Include summary statistics"`

	global *GlobalOptions
}

// BatchCommand handles 'arenarank batch' subcommand
type BatchCommand struct {
	Match   string `long:"match" short:"m" description:"File of independent matches" required:"true"`
	Store   string `long:"store" short:"s" description:"Player store path, overrides the configuration"`
	Workers int    `long:"workers" short:"w" description:"Concurrent rating workers" default:"4"`
	Format  string `long:"format" short:"f" description:"Output format (csv/json/text)"`
	Output  string `long:"output" short:"o" description:"Write results to a file instead of stdout"`
	Stats   bool   `long:"stats" description:"Include summary statistics"`

	global *GlobalOptions
}

// InitCommand handles 'arenarank init' subcommand
type InitCommand struct {
	Output string `long:"output" short:"o" description:"Where to write the configuration" default:"arenarank.yaml"`
	Force  bool   `long:"force" description:"Overwrite an existing file"`

	global *GlobalOptions
}

// ErrorCode represents CLI exit codes
type ErrorCode int

const (
	ExitSuccess ErrorCode = iota
	ExitFileError
	ExitConfigError
	ExitStoreError
	ExitExportError
	ExitValidationError
	ExitComputeError
)

// CLIError represents a CLI error with exit code
type CLIError struct {
	Code        ErrorCode
	Message     string
	Details     map[string]any
	Suggestions []string
}

func (e *CLIError) Error() string {
	return e.Message
}

// formatErrorJSON formats error as JSON for structured output
func formatErrorJSON(err *CLIError) string {
	body := map[string]any{
		"code":    err.Code,
		"message": err.Message,
	}
	if err.Details != nil {
		body["details"] = err.Details
	}
	if err.Suggestions != nil {
		body["suggestions"] = err.Suggestions
	}

	jsonBytes, _ := json.MarshalIndent(map[string]any{"error": body}, "", "  ")
	return string(jsonBytes)
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		var cliErr *CLIError
		if errors.As(err, &cliErr) {
			fmt.Fprintln(os.Stderr, formatErrorJSON(cliErr))
			os.Exit(int(cliErr.Code))
		}
		log.Fatal(err)
	}
}

func run(args []string) error {
	var opts GlobalOptions
	parser := newParser(&opts)

	_, err := parser.ParseArgs(args)
	if err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) {
			if flagsErr.Type == flags.ErrHelp {
				return nil
			}
			return &CLIError{
				Code:    ExitConfigError,
				Message: fmt.Sprintf("Invalid arguments: %v", err),
			}
		}
		return err
	}

	return nil
}

func newParser(opts *GlobalOptions) *flags.Parser {
	parser := flags.NewParser(opts, flags.Default)
	parser.Usage = "[OPTIONS] COMMAND [COMMAND-OPTIONS]"
	parser.SubcommandsOptional = true

	commands := []struct {
		name, short, long string
		command           any
	}{
		{"compute", "Rate matches and update the player store", "Rates every match in order. The whole file is checked first, so one malformed match leaves the store untouched.", &ComputeCommand{global: opts}},
		{"validate", "Check match shapes without rating", "", &ValidateCommand{global: opts}},
		{"rank", "Resolve the tier of a rating", "", &RankCommand{global: opts}},
		{"ladder", "Show tiers and standings", "", &LadderCommand{global: opts}},
		{"replay", "Apply a season of matches in order", "Like compute, but malformed matches are reported and skipped.", &ReplayCommand{global: opts}},
		{"batch", "Rate independent matches concurrently without saving", "", &BatchCommand{global: opts}},
		{"init", "Write a default configuration file", "", &InitCommand{global: opts}},
	}
	for _, c := range commands {
		if _, err := parser.AddCommand(c.name, c.short, c.long, c.command); err != nil {
			panic(err)
		}
	}

	parser.CommandHandler = func(command flags.Commander, args []string) error {
		setDebug(opts.Verbose)
		if opts.Version {
			return showVersion()
		}
		if command == nil {
			parser.WriteHelp(os.Stderr)
			return &CLIError{
				Code:    ExitConfigError,
				Message: "No command specified",
				Suggestions: []string{
					"Use 'arenarank compute --match matches.yaml' to rate matches",
					"Use 'arenarank --help' to see all available commands",
				},
			}
		}
		return command.Execute(args)
	}

	return parser
}

// Execute implements the Command interface for ComputeCommand
func (c *ComputeCommand) Execute(args []string) error {
	matches, err := loadMatchFile(c.Match)
	if err != nil {
		return err
	}

	env, err := newEnvironment(c.global)
	if err != nil {
		return err
	}
	defer env.Close()

	if err := env.openStore(c.Store); err != nil {
		return err
	}
	persist := !c.DryRun
	if persist {
		if err := env.openAudit(); err != nil {
			return err
		}
	}

	for _, d := range matches {
		if err := env.engine.Validate(d); err != nil {
			env.logRejection(d, err)
			return matchError(d, err, c.Match)
		}
	}

	run, err := env.rateSequentially(matches, false)
	if err != nil {
		return err
	}
	if persist {
		if err := env.commit(run); err != nil {
			return err
		}
	} else {
		debugf("dry run: %d matches computed, store left unchanged", len(run.results))
	}
	results := run.results

	if err := env.writeResults(results, c.Format, c.Output, c.Stats); err != nil {
		return err
	}

	if c.Interactive {
		return env.runInteractive(results)
	}
	return nil
}

// Execute implements the Command interface for ValidateCommand
func (c *ValidateCommand) Execute(args []string) error {
	matches, err := loadMatchFile(c.Match)
	if err != nil {
		return err
	}

	env, err := newEnvironment(c.global)
	if err != nil {
		return err
	}
	defer env.Close()

	invalid := make(map[string]string)
	for _, d := range matches {
		if err := env.engine.Validate(d); err != nil {
			fmt.Fprintf(stdout, "invalid  %s: %v\n", d.ID, err)
			invalid[d.ID] = string(rating.ReasonOf(err))
			continue
		}
		fmt.Fprintf(stdout, "valid    %s (%s, %d participants)\n", d.ID, d.Type, len(d.Participants))
	}
	fmt.Fprintf(stdout, "\n%d of %d matches valid\n", len(matches)-len(invalid), len(matches))

	if len(invalid) > 0 {
		return &CLIError{
			Code:    ExitValidationError,
			Message: fmt.Sprintf("%d invalid matches in %s", len(invalid), c.Match),
			Details: map[string]any{
				"file":    c.Match,
				"invalid": invalid,
			},
		}
	}
	return nil
}

// Execute implements the Command interface for RankCommand
func (c *RankCommand) Execute(args []string) error {
	env, err := newEnvironment(c.global)
	if err != nil {
		return err
	}
	defer env.Close()

	ladder := env.engine.Ladder()
	tier := ladder.RankFor(c.Rating)
	fmt.Fprintf(stdout, "Rating %d: %s (from %d)\n", c.Rating, tier.Name, tier.Threshold)

	if next, ok := ladder.Next(c.Rating); ok {
		fmt.Fprintf(stdout, "Next tier: %s at %d (%d to go)\n", next.Name, next.Threshold, next.Threshold-c.Rating)
	} else {
		fmt.Fprintf(stdout, "Top tier reached\n")
	}
	return nil
}

// Execute implements the Command interface for LadderCommand
func (c *LadderCommand) Execute(args []string) error {
	env, err := newEnvironment(c.global)
	if err != nil {
		return err
	}
	defer env.Close()

	if err := env.openStore(c.Store); err != nil {
		return err
	}
	if c.Interactive {
		return env.runInteractive(nil)
	}

	standings, err := env.store.All()
	if err != nil {
		return storeError(err, env.config.Store)
	}

	ladder := env.engine.Ladder()
	population := tui.TierPopulation(ladder, standings)

	fmt.Fprintf(stdout, "%-16s %6s %8s\n", "TIER", "FROM", "PLAYERS")
	fmt.Fprintln(stdout, strings.Repeat("-", 32))
	for _, tier := range ladder.Tiers() {
		fmt.Fprintf(stdout, "%-16s %6d %8d\n", tier.Name, tier.Threshold, population[tier.Name])
	}

	if c.Top <= 0 || len(standings) == 0 {
		return nil
	}

	fmt.Fprintf(stdout, "\n%-4s %-16s %6s %6s  %s\n", "#", "PLAYER", "RATING", "GAMES", "TIER")
	fmt.Fprintln(stdout, strings.Repeat("-", 50))
	for i, record := range standings[:min(c.Top, len(standings))] {
		fmt.Fprintf(stdout, "%-4d %-16s %6d %6d  %s\n",
			i+1, record.ID, record.Rating, record.GamesPlayed, ladder.RankFor(record.Rating).Name)
	}
	return nil
}

// Execute implements the Command interface for ReplayCommand
func (c *ReplayCommand) Execute(args []string) error {
	matches, err := loadMatchFile(c.Match)
	if err != nil {
		return err
	}

	env, err := newEnvironment(c.global)
	if err != nil {
		return err
	}
	defer env.Close()

	if err := env.openStore(c.Store); err != nil {
		return err
	}
	persist := !c.DryRun
	if persist {
		if err := env.openAudit(); err != nil {
			return err
		}
	}

	run, err := env.rateSequentially(matches, true)
	if err != nil {
		return err
	}
	if persist {
		if err := env.commit(run); err != nil {
			return err
		}
	}
	results, rejected := run.results, run.rejected

	if len(results) > 0 {
		if err := env.writeResults(results, c.Format, c.Output, c.Stats); err != nil {
			return err
		}
	}

	fmt.Fprintf(stdout, "Replayed %d of %d matches\n", len(results), len(matches))
	if len(rejected) > 0 {
		fmt.Fprintf(stdout, "Rejected:\n")
		for _, r := range rejected {
			fmt.Fprintf(stdout, "  %s: %s\n", r.MatchID, r.Reason)
		}
	}
	return nil
}

// Execute implements the Command interface for BatchCommand
func (c *BatchCommand) Execute(args []string) error {
	matches, err := loadMatchFile(c.Match)
	if err != nil {
		return err
	}

	env, err := newEnvironment(c.global)
	if err != nil {
		return err
	}
	defer env.Close()

	if err := env.openStore(c.Store); err != nil {
		return err
	}

	// Every match sees the same snapshot of the store.
	seen := make(map[string]bool)
	var ids []string
	for _, d := range matches {
		for _, id := range d.HumanIDs() {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}
	records, err := env.store.Load(ids)
	if err != nil {
		return storeError(err, env.config.Store)
	}
	for i := range matches {
		data.ApplyRatings(&matches[i], records)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	debugf("rating %d matches with %d workers", len(matches), c.Workers)
	deltas, err := rating.ComputeBatch(ctx, env.engine, matches, c.Workers)
	if err != nil {
		code := ExitComputeError
		if errors.Is(err, rating.ErrValidation) {
			code = ExitValidationError
		}
		return &CLIError{
			Code:    code,
			Message: fmt.Sprintf("Batch rating failed: %v", err),
			Details: map[string]any{
				"file":   c.Match,
				"reason": string(rating.ReasonOf(err)),
			},
			Suggestions: []string{
				"Run 'arenarank validate --match " + c.Match + "' to find malformed matches",
			},
		}
	}

	results := make([]journal.MatchResult, len(matches))
	for i, d := range matches {
		results[i] = journal.NewMatchResult(d, deltas[i])
	}
	return env.writeResults(results, c.Format, c.Output, c.Stats)
}

// Execute implements the Command interface for InitCommand
func (c *InitCommand) Execute(args []string) error {
	if _, err := os.Stat(c.Output); err == nil && !c.Force {
		return &CLIError{
			Code:    ExitFileError,
			Message: fmt.Sprintf("Configuration file already exists: %s", c.Output),
			Details: map[string]any{
				"file": c.Output,
			},
			Suggestions: []string{
				"Use --force to overwrite it",
				"Use --output to write somewhere else",
			},
		}
	}

	if err := data.CreateDefaultConfig(c.Output); err != nil {
		return &CLIError{
			Code:    ExitConfigError,
			Message: fmt.Sprintf("Failed to write configuration: %v", err),
		}
	}

	fmt.Fprintf(stdout, "Default configuration written to %s\n", c.Output)
	return nil
}

func showVersion() error {
	fmt.Fprintf(stdout, "arenarank version %s\n", Version)
	fmt.Fprintf(stdout, "Build date: %s\n", BuildDate)
	fmt.Fprintf(stdout, "Git commit: %s\n", GitCommit)
	return nil
}

// environment bundles the collaborators a command works with
type environment struct {
	config *data.AppConfig
	engine *rating.Engine
	store  data.Store
	audit  *journal.AuditTrail
}

// rejection records a match that replay skipped
type rejection struct {
	MatchID string
	Reason  rating.Reason
}

// ratingRun is the outcome of rating a match file before anything is saved
type ratingRun struct {
	rated    []rating.MatchDescriptor
	results  []journal.MatchResult
	records  []data.PlayerRecord // Final record of every rated player
	rejected []rejection
}

func newEnvironment(global *GlobalOptions) (*environment, error) {
	if global == nil {
		global = &GlobalOptions{}
	}

	config, err := loadConfiguration(global.Config)
	if err != nil {
		return nil, &CLIError{
			Code:    ExitConfigError,
			Message: fmt.Sprintf("Failed to load configuration: %v", err),
			Suggestions: []string{
				"Check configuration file syntax",
				"Use --config flag to specify different config file",
				"Run 'arenarank init' to write a default configuration",
			},
		}
	}

	engine, err := config.NewEngine()
	if err != nil {
		return nil, &CLIError{
			Code:    ExitConfigError,
			Message: fmt.Sprintf("Failed to create rating engine: %v", err),
		}
	}
	debugf("engine ready: %s", engine)

	return &environment{config: config, engine: engine}, nil
}

func loadConfiguration(configPath string) (*data.AppConfig, error) {
	if configPath == "" {
		configPath = "arenarank.yaml"
	}

	path := data.FindConfig(configPath)
	if path == "" {
		debugf("no configuration file %s found, using defaults", configPath)
	} else {
		debugf("loading configuration from %s", path)
	}

	return data.LoadWithEnvironment(path)
}

func (e *environment) openStore(override string) error {
	storeConfig := e.config.Store
	if override != "" {
		storeConfig.Path = override
	}

	store, err := data.OpenStore(storeConfig, e.config.Rating.BaseRating)
	if err != nil {
		return storeError(err, storeConfig)
	}
	debugf("opened %s store at %s", storeConfig.Backend, storeConfig.Path)

	e.config.Store = storeConfig
	e.store = store
	return nil
}

func (e *environment) openAudit() error {
	if !e.config.Audit.Enabled {
		return nil
	}

	trail, err := journal.NewAuditTrail(e.config.Audit.LeagueID, e.config.Audit.Directory)
	if err != nil {
		suggestions := []string{"Check that the audit directory is writable"}
		if errors.Is(err, journal.ErrAuditLogCorrupted) {
			suggestions = []string{"The journal hash chain is broken; restore it from a backup before rating more matches"}
		}
		return &CLIError{
			Code:    ExitStoreError,
			Message: fmt.Sprintf("Failed to open audit journal: %v", err),
			Details: map[string]any{
				"directory": e.config.Audit.Directory,
				"league_id": e.config.Audit.LeagueID,
			},
			Suggestions: suggestions,
		}
	}
	debugf("audit journal %s at sequence %d", trail.GetLogPath(), trail.GetSequence())

	e.audit = trail
	return nil
}

func (e *environment) logRejection(d rating.MatchDescriptor, cause error) {
	if e.audit == nil {
		return
	}
	if err := e.audit.LogRejection(d, cause); err != nil {
		log.Printf("failed to journal rejection of %s: %v", d.ID, err)
	}
}

// rateSequentially rates matches in order, so every match sees the ratings
// produced by the ones before it. Nothing is persisted. Invalid matches abort
// the run unless skipInvalid is set.
func (e *environment) rateSequentially(matches []rating.MatchDescriptor, skipInvalid bool) (*ratingRun, error) {
	run := &ratingRun{results: make([]journal.MatchResult, 0, len(matches))}
	pending := make(map[string]data.PlayerRecord)
	var order []string

	for _, d := range matches {
		ids := d.HumanIDs()
		records, err := e.store.Load(ids)
		if err != nil {
			return nil, storeError(err, e.config.Store)
		}
		for _, id := range ids {
			if record, ok := pending[id]; ok {
				records[id] = record
			}
		}
		data.ApplyRatings(&d, records)

		deltas, err := e.engine.ComputeDelta(d)
		if err != nil {
			if !errors.Is(err, rating.ErrValidation) {
				return nil, &CLIError{
					Code:    ExitComputeError,
					Message: fmt.Sprintf("Failed to rate match %s: %v", d.ID, err),
				}
			}
			e.logRejection(d, err)
			if !skipInvalid {
				return nil, matchError(d, err, "")
			}
			debugf("skipping match %s: %v", d.ID, err)
			run.rejected = append(run.rejected, rejection{MatchID: d.ID, Reason: rating.ReasonOf(err)})
			continue
		}

		for _, record := range data.ApplyResults(records, deltas) {
			if _, ok := pending[record.ID]; !ok {
				order = append(order, record.ID)
			}
			pending[record.ID] = record
		}

		debugf("rated match %s (%s): %d deltas", d.ID, d.Type, len(deltas))
		run.rated = append(run.rated, d)
		run.results = append(run.results, journal.NewMatchResult(d, deltas))
	}

	run.records = make([]data.PlayerRecord, 0, len(order))
	for _, id := range order {
		run.records = append(run.records, pending[id])
	}
	return run, nil
}

// commit journals every rated match, then saves the final ratings in one
// write. A journal failure leaves the store untouched.
func (e *environment) commit(run *ratingRun) error {
	if e.audit != nil {
		for i, d := range run.rated {
			if err := e.audit.LogMatch(d, run.results[i].Deltas); err != nil {
				return &CLIError{
					Code:    ExitStoreError,
					Message: fmt.Sprintf("Failed to journal match %s: %v", d.ID, err),
					Suggestions: []string{
						"No ratings were saved; fix the audit journal and run the command again",
					},
				}
			}
		}
	}

	if len(run.records) == 0 {
		return nil
	}
	if err := e.store.Save(run.records); err != nil {
		return storeError(err, e.config.Store)
	}
	debugf("saved %d player records", len(run.records))
	return nil
}

func (e *environment) writeResults(results []journal.MatchResult, format, output string, stats bool) error {
	if format == "" {
		format = e.config.Export.Format
	}
	options := journal.ExportOptions{
		Format:       journal.ExportFormat(format),
		IncludeStats: stats,
		IncludeRaw:   debug,
	}

	exporter := journal.NewExporter()
	var err error
	if output != "" {
		err = exporter.ExportToFile(results, output, options)
	} else {
		err = exporter.Export(results, stdout, options)
	}
	if err != nil {
		return &CLIError{
			Code:    ExitExportError,
			Message: fmt.Sprintf("Failed to export results: %v", err),
			Details: map[string]any{
				"format": format,
				"output": output,
			},
			Suggestions: []string{
				"Supported formats: csv, json, text",
			},
		}
	}

	if output != "" {
		fmt.Fprintf(stdout, "Results written to %s\n", output)
	}
	return nil
}

func (e *environment) runInteractive(results []journal.MatchResult) error {
	app, err := tui.NewApp(e.engine.Ladder(), e.store, e.config.Audit.LeagueID)
	if err != nil {
		return err
	}
	if err := app.RegisterDefaultScreens(); err != nil {
		return err
	}
	app.SetResults(results)
	return app.Run()
}

func (e *environment) Close() {
	if e.audit != nil {
		if err := e.audit.Close(); err != nil {
			log.Printf("failed to close audit journal: %v", err)
		}
	}
	if e.store != nil {
		if err := e.store.Close(); err != nil {
			log.Printf("failed to close player store: %v", err)
		}
	}
}

func loadMatchFile(path string) ([]rating.MatchDescriptor, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, &CLIError{
			Code:    ExitFileError,
			Message: fmt.Sprintf("Match file not found: %s", path),
			Details: map[string]any{
				"file": path,
			},
			Suggestions: []string{
				"Check file path and name",
				"Use absolute path if needed",
			},
		}
	}

	matches, err := data.LoadMatches(path)
	if err != nil {
		return nil, &CLIError{
			Code:    ExitFileError,
			Message: fmt.Sprintf("Failed to load match file: %v", err),
			Details: map[string]any{
				"file": path,
			},
			Suggestions: []string{
				"Match files must end in .yaml, .yml or .json",
				"A file holds either a single match or a list of matches",
			},
		}
	}
	debugf("loaded %d matches from %s", len(matches), path)

	return matches, nil
}

func matchError(d rating.MatchDescriptor, err error, file string) *CLIError {
	details := map[string]any{
		"match_id": d.ID,
		"reason":   string(rating.ReasonOf(err)),
	}
	suggestions := []string{"Use 'arenarank replay' to skip malformed matches instead"}
	if file != "" {
		details["file"] = file
		suggestions = append([]string{"Run 'arenarank validate --match " + file + "' to check every match"}, suggestions...)
	}
	return &CLIError{
		Code:        ExitValidationError,
		Message:     fmt.Sprintf("Match %s rejected: %v", d.ID, err),
		Details:     details,
		Suggestions: suggestions,
	}
}

func storeError(err error, config data.StoreConfig) *CLIError {
	return &CLIError{
		Code:    ExitStoreError,
		Message: fmt.Sprintf("Player store failure: %v", err),
		Details: map[string]any{
			"backend": config.Backend,
			"path":    config.Path,
		},
		Suggestions: []string{
			"Check the store path and permissions",
			"Supported backends: csv, bolt",
		},
	}
}
