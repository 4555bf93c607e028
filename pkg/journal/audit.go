// Package journal provides the audit trail and result export for rated
// matches. The audit log is an append-only JSON Lines file per league with a
// SHA-256 hash chain, so any edit to a past entry is detected on open.
package journal

import (
	"bufio"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/wcarena/arenarank/pkg/rating"
)

// Error types for audit trail operations
var (
	ErrAuditLogCorrupted = errors.New("audit log corrupted or tampered")
	ErrNotInitialized    = errors.New("audit trail not initialized")
	ErrEmptyLeagueID     = errors.New("league ID cannot be empty")
)

// AuditEventType represents the type of event being logged
type AuditEventType string

const (
	EventMatchComputed AuditEventType = "match_computed"
	EventRatingUpdated AuditEventType = "rating_updated"
	EventMatchRejected AuditEventType = "match_rejected"
)

// AuditEntry represents a single entry in the audit log
type AuditEntry struct {
	ID        string         `json:"id"`
	Timestamp time.Time      `json:"timestamp"`
	EventType AuditEventType `json:"event_type"`
	LeagueID  string         `json:"league_id"`

	Data map[string]any `json:"data"`

	PreviousHash string `json:"previous_hash"` // Hash of previous entry (tamper detection)
	EntryHash    string `json:"entry_hash"`
	Sequence     uint64 `json:"sequence"`
}

// AuditTrail manages the append-only audit log of a league
type AuditTrail struct {
	leagueID      string
	logFilePath   string
	file          *os.File
	mutex         sync.Mutex
	lastHash      string
	sequence      uint64
	isInitialized bool
	now           func() time.Time
}

// NewAuditTrail opens or creates the audit log of leagueID inside
// logDirectory. An existing log is verified before new entries are appended.
func NewAuditTrail(leagueID, logDirectory string) (*AuditTrail, error) {
	if leagueID == "" {
		return nil, ErrEmptyLeagueID
	}

	if err := os.MkdirAll(logDirectory, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	audit := &AuditTrail{
		leagueID:    leagueID,
		logFilePath: filepath.Join(logDirectory, fmt.Sprintf("audit_%s.jsonl", leagueID)),
		now:         func() time.Time { return time.Now().UTC() },
	}

	if err := audit.initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize audit trail: %w", err)
	}

	return audit, nil
}

func (a *AuditTrail) initialize() error {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	lastHash, sequence, err := verifyChain(a.logFilePath)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("audit log validation failed: %w", err)
	}

	file, err := os.OpenFile(a.logFilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open audit log file: %w", err)
	}

	a.file = file
	a.lastHash = lastHash
	a.sequence = sequence
	a.isInitialized = true
	return nil
}

// verifyChain walks the log and returns the last hash and the next sequence
// number. Any break in sequence, chain or entry hash is ErrAuditLogCorrupted.
func verifyChain(path string) (string, uint64, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", 0, err
	}
	defer func() { _ = file.Close() }()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	var previousHash string
	sequence := uint64(0)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var entry AuditEntry
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			return "", 0, fmt.Errorf("%w: invalid JSON at sequence %d: %v", ErrAuditLogCorrupted, sequence, err)
		}
		if entry.Sequence != sequence {
			return "", 0, fmt.Errorf("%w: sequence mismatch at entry %d, got %d", ErrAuditLogCorrupted, sequence, entry.Sequence)
		}
		if entry.PreviousHash != previousHash {
			return "", 0, fmt.Errorf("%w: hash chain broken at sequence %d", ErrAuditLogCorrupted, sequence)
		}
		if entry.EntryHash != calculateEntryHash(&entry) {
			return "", 0, fmt.Errorf("%w: entry hash mismatch at sequence %d", ErrAuditLogCorrupted, sequence)
		}

		previousHash = entry.EntryHash
		sequence++
	}

	if err := scanner.Err(); err != nil {
		return "", 0, fmt.Errorf("error reading audit log: %w", err)
	}
	return previousHash, sequence, nil
}

// LogMatch records a computed match followed by one rating_updated entry
// per rated participant.
func (a *AuditTrail) LogMatch(d rating.MatchDescriptor, deltas []rating.RatingDelta) error {
	if !a.isInitialized {
		return ErrNotInitialized
	}

	data := matchData(d)
	changes := make(map[string]any, len(deltas))
	for _, delta := range deltas {
		changes[delta.ID] = delta.Change
	}
	data["changes"] = changes

	if err := a.logEntry(EventMatchComputed, data); err != nil {
		return err
	}

	for _, delta := range deltas {
		err := a.logEntry(EventRatingUpdated, map[string]any{
			"match_id":     d.ID,
			"player_id":    delta.ID,
			"old_rating":   delta.OldRating,
			"new_rating":   delta.NewRating,
			"change":       delta.Change,
			"raw_change":   delta.RawChange,
			"k_factor":     delta.KFactor,
			"old_tier":     delta.OldTier.Name,
			"new_tier":     delta.NewTier.Name,
			"tier_changed": delta.TierChanged,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// LogRejection records a descriptor the engine refused to rate
func (a *AuditTrail) LogRejection(d rating.MatchDescriptor, cause error) error {
	if !a.isInitialized {
		return ErrNotInitialized
	}

	data := matchData(d)
	data["error"] = cause.Error()
	if reason := rating.ReasonOf(cause); reason != "" {
		data["reason"] = string(reason)
	}
	return a.logEntry(EventMatchRejected, data)
}

func matchData(d rating.MatchDescriptor) map[string]any {
	playerIDs := make([]string, 0, len(d.Participants))
	for _, p := range d.Participants {
		playerIDs = append(playerIDs, p.ID)
	}

	data := map[string]any{
		"match_id":   d.ID,
		"match_type": string(d.Type),
		"player_ids": playerIDs,
	}
	if d.WinnerID != "" {
		data["winner_id"] = d.WinnerID
	}
	if d.WinningTeam != nil {
		data["winning_team"] = *d.WinningTeam
	}
	if len(d.AIOpponentIDs) > 0 {
		data["ai_opponents"] = d.AIOpponentIDs
	}
	return data
}

// logEntry writes a new entry to the audit log
func (a *AuditTrail) logEntry(eventType AuditEventType, data map[string]any) error {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	if a.file == nil {
		return ErrNotInitialized
	}

	entry := AuditEntry{
		ID:           uuid.NewString(),
		Timestamp:    a.now(),
		EventType:    eventType,
		LeagueID:     a.leagueID,
		Data:         data,
		PreviousHash: a.lastHash,
		Sequence:     a.sequence,
	}
	entry.EntryHash = calculateEntryHash(&entry)

	jsonData, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal audit entry: %w", err)
	}

	if _, err := a.file.Write(append(jsonData, '\n')); err != nil {
		return fmt.Errorf("failed to write audit entry: %w", err)
	}
	if err := a.file.Sync(); err != nil {
		return fmt.Errorf("failed to sync audit log: %w", err)
	}

	a.lastHash = entry.EntryHash
	a.sequence++

	return nil
}

// calculateEntryHash computes the SHA-256 hash of an entry's content,
// excluding EntryHash itself
func calculateEntryHash(entry *AuditEntry) string {
	hashContent := fmt.Sprintf("%s|%s|%s|%s|%s|%d|%s",
		entry.ID,
		entry.Timestamp.Format(time.RFC3339Nano),
		entry.EventType,
		entry.LeagueID,
		entry.PreviousHash,
		entry.Sequence,
		hashData(entry.Data))

	hash := sha256.Sum256([]byte(hashContent))
	return hex.EncodeToString(hash[:])
}

// hashData hashes the JSON form of data; map keys marshal in sorted order
func hashData(data map[string]any) string {
	jsonData, _ := json.Marshal(data)
	hash := sha256.Sum256(jsonData)
	return hex.EncodeToString(hash[:])
}

// Close closes the audit trail and releases resources
func (a *AuditTrail) Close() error {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	if a.file != nil {
		err := a.file.Close()
		a.file = nil
		a.isInitialized = false
		return err
	}

	return nil
}

// GetLogPath returns the path to the audit log file
func (a *AuditTrail) GetLogPath() string {
	return a.logFilePath
}

// GetSequence returns the number of entries written so far
func (a *AuditTrail) GetSequence() uint64 {
	a.mutex.Lock()
	defer a.mutex.Unlock()
	return a.sequence
}

// VerifyIntegrity performs a complete integrity check of the audit log
func (a *AuditTrail) VerifyIntegrity() error {
	if !a.isInitialized {
		return ErrNotInitialized
	}

	a.mutex.Lock()
	defer a.mutex.Unlock()

	_, _, err := verifyChain(a.logFilePath)
	return err
}

// QueryOptions defines filtering criteria for audit log queries
type QueryOptions struct {
	EventTypes []AuditEventType `json:"event_types,omitempty"`
	StartTime  *time.Time       `json:"start_time,omitempty"`
	EndTime    *time.Time       `json:"end_time,omitempty"`
	MatchID    string           `json:"match_id,omitempty"`
	PlayerID   string           `json:"player_id,omitempty"`
	Limit      int              `json:"limit,omitempty"`
	Offset     int              `json:"offset,omitempty"`
}

// QueryResult contains the results of an audit log query
type QueryResult struct {
	Entries      []AuditEntry `json:"entries"`
	TotalCount   int          `json:"total_count"` // Matches before limit and offset
	HasMore      bool         `json:"has_more"`
	QueryOptions QueryOptions `json:"query_options"`
}

// Query searches the audit log for entries matching the specified criteria
func (a *AuditTrail) Query(options QueryOptions) (*QueryResult, error) {
	if !a.isInitialized {
		return nil, ErrNotInitialized
	}

	readFile, err := os.Open(a.logFilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open audit log for reading: %w", err)
	}
	defer func() { _ = readFile.Close() }()

	var allMatches []AuditEntry
	scanner := bufio.NewScanner(readFile)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var entry AuditEntry
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			continue
		}

		if matchesQuery(&entry, options) {
			allMatches = append(allMatches, entry)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading audit log during query: %w", err)
	}

	totalCount := len(allMatches)
	start := min(max(options.Offset, 0), totalCount)
	end := start + options.Limit
	if options.Limit <= 0 || end > totalCount {
		end = totalCount
	}

	entries := allMatches[start:end]
	if entries == nil {
		entries = []AuditEntry{}
	}

	return &QueryResult{
		Entries:      entries,
		TotalCount:   totalCount,
		HasMore:      end < totalCount,
		QueryOptions: options,
	}, nil
}

func matchesQuery(entry *AuditEntry, options QueryOptions) bool {
	if len(options.EventTypes) > 0 && !slices.Contains(options.EventTypes, entry.EventType) {
		return false
	}

	if options.StartTime != nil && entry.Timestamp.Before(*options.StartTime) {
		return false
	}
	if options.EndTime != nil && entry.Timestamp.After(*options.EndTime) {
		return false
	}

	if options.MatchID != "" {
		if matchID, ok := entry.Data["match_id"].(string); !ok || matchID != options.MatchID {
			return false
		}
	}

	if options.PlayerID != "" {
		if playerID, ok := entry.Data["player_id"].(string); ok {
			return playerID == options.PlayerID
		}
		playerIDs, _ := entry.Data["player_ids"].([]any)
		for _, id := range playerIDs {
			if s, ok := id.(string); ok && s == options.PlayerID {
				return true
			}
		}
		return false
	}

	return true
}

// MatchHistory retrieves every entry recorded for one match
func (a *AuditTrail) MatchHistory(matchID string) ([]AuditEntry, error) {
	result, err := a.Query(QueryOptions{MatchID: matchID})
	if err != nil {
		return nil, err
	}
	return result.Entries, nil
}

// PlayerHistory retrieves every entry that involves one player
func (a *AuditTrail) PlayerHistory(playerID string) ([]AuditEntry, error) {
	result, err := a.Query(QueryOptions{PlayerID: playerID})
	if err != nil {
		return nil, err
	}
	return result.Entries, nil
}

// AuditStatistics provides summary information about the audit log
type AuditStatistics struct {
	LeagueID     string                 `json:"league_id"`
	TotalEntries int                    `json:"total_entries"`
	EventCounts  map[AuditEventType]int `json:"event_counts"`
	FirstEntry   *time.Time             `json:"first_entry,omitempty"`
	LastEntry    *time.Time             `json:"last_entry,omitempty"`
}

// GetStatistics returns statistics about the audit log
func (a *AuditTrail) GetStatistics() (*AuditStatistics, error) {
	result, err := a.Query(QueryOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to generate statistics: %w", err)
	}

	stats := &AuditStatistics{
		LeagueID:     a.leagueID,
		TotalEntries: result.TotalCount,
		EventCounts:  make(map[AuditEventType]int),
	}

	if len(result.Entries) > 0 {
		stats.FirstEntry = &result.Entries[0].Timestamp
		stats.LastEntry = &result.Entries[len(result.Entries)-1].Timestamp
	}

	for _, entry := range result.Entries {
		stats.EventCounts[entry.EventType]++
	}

	return stats, nil
}
