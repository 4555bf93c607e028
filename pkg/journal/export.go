package journal

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/wcarena/arenarank/pkg/rating"
)

// ErrNothingToExport is returned when no match carries a rating delta
var ErrNothingToExport = errors.New("no match results to export")

// ExportFormat represents the format for exporting results
type ExportFormat string

const (
	FormatCSV  ExportFormat = "csv"
	FormatJSON ExportFormat = "json"
	FormatText ExportFormat = "text"
)

// ExportOptions configures export behavior
type ExportOptions struct {
	Format       ExportFormat `json:"format"`
	IncludeStats bool         `json:"include_stats"` // Summary block in JSON and text output
	IncludeRaw   bool         `json:"include_raw"`   // Unrounded change column in CSV output
}

// MatchResult is one rated match as handed to the exporter
type MatchResult struct {
	MatchID string               `json:"match_id"`
	Type    rating.MatchType     `json:"type"`
	Deltas  []rating.RatingDelta `json:"deltas"`
}

// NewMatchResult pairs a descriptor with the deltas computed for it
func NewMatchResult(d rating.MatchDescriptor, deltas []rating.RatingDelta) MatchResult {
	return MatchResult{MatchID: d.ID, Type: d.Type, Deltas: deltas}
}

// ResultExport is the JSON export document
type ResultExport struct {
	ExportedAt time.Time         `json:"exported_at"`
	Matches    []MatchResult     `json:"matches"`
	Statistics *ExportStatistics `json:"statistics,omitempty"`
}

// ExportStatistics provides summary statistics
type ExportStatistics struct {
	TotalMatches  int     `json:"total_matches"`
	RatedPlayers  int     `json:"rated_players"` // Distinct player IDs
	Promotions    int     `json:"promotions"`
	Demotions     int     `json:"demotions"`
	AverageChange float64 `json:"average_change"` // Mean absolute change
	LargestGain   int     `json:"largest_gain"`
	LargestLoss   int     `json:"largest_loss"`
}

// Tier movement markers used in CSV and text output
const (
	MovementPromoted = "promoted"
	MovementDemoted  = "demoted"
)

// Exporter handles result export operations
type Exporter struct {
	now func() time.Time
}

// NewExporter creates a new exporter instance
func NewExporter() *Exporter {
	return &Exporter{now: time.Now}
}

// Export writes results to writer in the format selected by options
func (e *Exporter) Export(results []MatchResult, writer io.Writer, options ExportOptions) error {
	switch options.Format {
	case FormatCSV:
		return e.ExportCSV(results, writer, options)
	case FormatJSON:
		return e.ExportJSON(results, writer, options)
	case FormatText:
		return e.ExportReport(results, writer, options)
	default:
		return fmt.Errorf("unsupported export format: %s", options.Format)
	}
}

// ExportToFile exports results to a file, replacing it atomically
func (e *Exporter) ExportToFile(results []MatchResult, filePath string, options ExportOptions) (err error) {
	if dir := filepath.Dir(filePath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	tempFile := filePath + ".tmp"
	file, err := os.Create(tempFile)
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = file.Close()
			_ = os.Remove(tempFile)
		}
	}()

	if err = e.Export(results, file, options); err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	if err = file.Close(); err != nil {
		return fmt.Errorf("failed to close temporary file: %w", err)
	}

	if err = os.Rename(tempFile, filePath); err != nil {
		return fmt.Errorf("failed to replace target file: %w", err)
	}

	return nil
}

// ExportCSV writes one row per rated participant
func (e *Exporter) ExportCSV(results []MatchResult, writer io.Writer, options ExportOptions) error {
	if countDeltas(results) == 0 {
		return ErrNothingToExport
	}

	csvWriter := csv.NewWriter(writer)

	headers := []string{"match_id", "type", "player_id", "old_rating", "new_rating",
		"change", "k_factor", "old_tier", "new_tier", "movement"}
	if options.IncludeRaw {
		headers = append(headers, "raw_change")
	}
	if err := csvWriter.Write(headers); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, result := range results {
		for _, delta := range result.Deltas {
			record := []string{
				result.MatchID,
				string(result.Type),
				delta.ID,
				strconv.Itoa(delta.OldRating),
				strconv.Itoa(delta.NewRating),
				strconv.Itoa(delta.Change),
				strconv.Itoa(delta.KFactor),
				delta.OldTier.Name,
				delta.NewTier.Name,
				Movement(delta),
			}
			if options.IncludeRaw {
				record = append(record, strconv.FormatFloat(delta.RawChange, 'f', 4, 64))
			}
			if err := csvWriter.Write(record); err != nil {
				return fmt.Errorf("failed to write CSV record for %s in %s: %w", delta.ID, result.MatchID, err)
			}
		}
	}

	csvWriter.Flush()
	return csvWriter.Error()
}

// ExportJSON exports results as an indented JSON document
func (e *Exporter) ExportJSON(results []MatchResult, writer io.Writer, options ExportOptions) error {
	export := &ResultExport{
		ExportedAt: e.now().UTC(),
		Matches:    results,
	}
	if export.Matches == nil {
		export.Matches = []MatchResult{}
	}

	if options.IncludeStats {
		export.Statistics = CalculateStatistics(results)
	}

	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(export); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}

	return nil
}

// ExportReport generates a human-readable text report
func (e *Exporter) ExportReport(results []MatchResult, writer io.Writer, options ExportOptions) error {
	fmt.Fprintf(writer, "Match Results Report\n")
	fmt.Fprintf(writer, "====================\n")
	fmt.Fprintf(writer, "Generated: %s\n\n", e.now().Format("2006-01-02 15:04:05"))

	for _, result := range results {
		fmt.Fprintf(writer, "Match %s (%s)\n", result.MatchID, result.Type)
		for _, delta := range result.Deltas {
			fmt.Fprintf(writer, "  %-16s %4d -> %4d  (%+d)  %s%s\n",
				delta.ID, delta.OldRating, delta.NewRating, delta.Change,
				delta.NewTier.Name, movementMarker(delta))
		}
		fmt.Fprintf(writer, "\n")
	}

	if options.IncludeStats {
		stats := CalculateStatistics(results)
		fmt.Fprintf(writer, "Summary\n")
		fmt.Fprintf(writer, "-------\n")
		fmt.Fprintf(writer, "Matches: %d\n", stats.TotalMatches)
		fmt.Fprintf(writer, "Rated players: %d\n", stats.RatedPlayers)
		fmt.Fprintf(writer, "Promotions: %d\n", stats.Promotions)
		fmt.Fprintf(writer, "Demotions: %d\n", stats.Demotions)
		fmt.Fprintf(writer, "Average change: %.1f\n", stats.AverageChange)
		fmt.Fprintf(writer, "Largest gain: %+d\n", stats.LargestGain)
		fmt.Fprintf(writer, "Largest loss: %+d\n", stats.LargestLoss)
	}

	return nil
}

// Movement classifies a delta as a promotion, a demotion or neither ("")
func Movement(delta rating.RatingDelta) string {
	if !delta.TierChanged {
		return ""
	}
	if delta.NewTier.Threshold > delta.OldTier.Threshold {
		return MovementPromoted
	}
	return MovementDemoted
}

func movementMarker(delta rating.RatingDelta) string {
	switch Movement(delta) {
	case MovementPromoted:
		return fmt.Sprintf("  ▲ promoted from %s", delta.OldTier.Name)
	case MovementDemoted:
		return fmt.Sprintf("  ▼ demoted from %s", delta.OldTier.Name)
	default:
		return ""
	}
}

// CalculateStatistics summarizes a set of match results
func CalculateStatistics(results []MatchResult) *ExportStatistics {
	stats := &ExportStatistics{TotalMatches: len(results)}
	players := make(map[string]struct{})
	total, count := 0, 0

	for _, result := range results {
		for _, delta := range result.Deltas {
			players[delta.ID] = struct{}{}
			switch Movement(delta) {
			case MovementPromoted:
				stats.Promotions++
			case MovementDemoted:
				stats.Demotions++
			}
			stats.LargestGain = max(stats.LargestGain, delta.Change)
			stats.LargestLoss = min(stats.LargestLoss, delta.Change)
			total += abs(delta.Change)
			count++
		}
	}

	stats.RatedPlayers = len(players)
	if count > 0 {
		stats.AverageChange = float64(total) / float64(count)
	}
	return stats
}

func countDeltas(results []MatchResult) int {
	n := 0
	for _, r := range results {
		n += len(r.Deltas)
	}
	return n
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
