package data

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
)

// Error types for storage operations
var (
	ErrStorageOperation = errors.New("storage operation failed")
	ErrCSVFormat        = errors.New("CSV format error")
	ErrAtomicWrite      = errors.New("atomic write operation failed")
	ErrUnknownBackend   = errors.New("unknown store backend")
)

// PlayerRecord is the persisted rating state of one player
type PlayerRecord struct {
	ID          string `json:"id"`
	Rating      int    `json:"rating"`
	GamesPlayed int    `json:"games_played"`
}

// Store is the player store the engine reads ratings from and the caller
// writes results back to.
type Store interface {
	// Load returns a record for every id. Unknown players get the base rating.
	Load(ids []string) (map[string]PlayerRecord, error)
	// Save inserts or replaces the given records
	Save(records []PlayerRecord) error
	// All returns every stored record ordered by rating, highest first
	All() ([]PlayerRecord, error)
	Close() error
}

// OpenStore opens the store selected by config
func OpenStore(config StoreConfig, baseRating int) (Store, error) {
	switch config.Backend {
	case BackendCSV:
		return NewCSVStore(config.Path, baseRating), nil
	case BackendBolt:
		return OpenBoltStore(config.Path, baseRating)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownBackend, config.Backend)
	}
}

// CSVStore keeps player ratings in a CSV file with an id,rating,games header
type CSVStore struct {
	mu           sync.RWMutex
	path         string
	baseRating   int
	atomicWrites bool
}

// NewCSVStore creates a CSV-backed store. The file is created on first Save.
func NewCSVStore(path string, baseRating int) *CSVStore {
	return &CSVStore{
		path:         path,
		baseRating:   baseRating,
		atomicWrites: true,
	}
}

// SetAtomicWrites enables or disables atomic write operations
func (s *CSVStore) SetAtomicWrites(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.atomicWrites = enabled
}

// Load implements Store
func (s *CSVStore) Load(ids []string) (map[string]PlayerRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all, err := s.readAll()
	if err != nil {
		return nil, err
	}

	out := make(map[string]PlayerRecord, len(ids))
	for _, id := range ids {
		if record, ok := all[id]; ok {
			out[id] = record
			continue
		}
		out[id] = PlayerRecord{ID: id, Rating: s.baseRating}
	}
	return out, nil
}

// Save implements Store
func (s *CSVStore) Save(records []PlayerRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.readAll()
	if err != nil {
		return err
	}
	for _, r := range records {
		all[r.ID] = r
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("%w: cannot create store directory: %v", ErrStorageOperation, err)
	}

	if s.atomicWrites {
		return s.writeAtomic(sortRecords(all))
	}
	return s.writeDirect(sortRecords(all))
}

// All implements Store
func (s *CSVStore) All() ([]PlayerRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all, err := s.readAll()
	if err != nil {
		return nil, err
	}
	return sortRecords(all), nil
}

// Close implements Store
func (s *CSVStore) Close() error {
	return nil
}

// readAll parses the whole file; a missing file is an empty store
func (s *CSVStore) readAll() (map[string]PlayerRecord, error) {
	file, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]PlayerRecord{}, nil
		}
		return nil, fmt.Errorf("%w: cannot open %s: %v", ErrCSVFormat, s.path, err)
	}
	defer func() { _ = file.Close() }()

	return parseRecords(file)
}

func parseRecords(reader io.Reader) (map[string]PlayerRecord, error) {
	csvReader := csv.NewReader(reader)
	csvReader.TrimLeadingSpace = true

	rows, err := csvReader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCSVFormat, err)
	}

	records := make(map[string]PlayerRecord, len(rows))
	for i, row := range rows {
		if i == 0 && len(row) > 0 && strings.EqualFold(row[0], "id") {
			continue
		}
		if len(row) < 2 {
			return nil, fmt.Errorf("%w: row %d has %d columns, need at least 2", ErrCSVFormat, i+1, len(row))
		}

		id := strings.TrimSpace(row[0])
		if id == "" {
			return nil, fmt.Errorf("%w: row %d has an empty id", ErrCSVFormat, i+1)
		}
		r, err := strconv.Atoi(strings.TrimSpace(row[1]))
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: invalid rating %q", ErrCSVFormat, i+1, row[1])
		}

		games := 0
		if len(row) > 2 && strings.TrimSpace(row[2]) != "" {
			games, err = strconv.Atoi(strings.TrimSpace(row[2]))
			if err != nil {
				return nil, fmt.Errorf("%w: row %d: invalid games %q", ErrCSVFormat, i+1, row[2])
			}
		}

		records[id] = PlayerRecord{ID: id, Rating: r, GamesPlayed: games}
	}
	return records, nil
}

func writeRecords(w io.Writer, records []PlayerRecord) error {
	csvWriter := csv.NewWriter(w)
	if err := csvWriter.Write([]string{"id", "rating", "games"}); err != nil {
		return err
	}
	for _, r := range records {
		row := []string{r.ID, strconv.Itoa(r.Rating), strconv.Itoa(r.GamesPlayed)}
		if err := csvWriter.Write(row); err != nil {
			return err
		}
	}
	csvWriter.Flush()
	return csvWriter.Error()
}

// writeAtomic performs an atomic write using temporary file + rename
func (s *CSVStore) writeAtomic(records []PlayerRecord) error {
	tempFile := s.path + ".tmp"

	file, err := os.Create(tempFile)
	if err != nil {
		return fmt.Errorf("%w: cannot create temp file: %v", ErrAtomicWrite, err)
	}

	if err := writeRecords(file, records); err != nil {
		_ = file.Close()
		_ = os.Remove(tempFile)
		return fmt.Errorf("%w: failed to write records: %v", ErrCSVFormat, err)
	}

	if err := file.Sync(); err != nil {
		_ = file.Close()
		_ = os.Remove(tempFile)
		return fmt.Errorf("%w: failed to sync store file: %v", ErrAtomicWrite, err)
	}

	_ = file.Close()

	if err := os.Rename(tempFile, s.path); err != nil {
		_ = os.Remove(tempFile)
		return fmt.Errorf("%w: atomic rename failed: %v", ErrAtomicWrite, err)
	}

	return nil
}

// writeDirect performs direct file write (non-atomic)
func (s *CSVStore) writeDirect(records []PlayerRecord) error {
	file, err := os.Create(s.path)
	if err != nil {
		return fmt.Errorf("%w: cannot create store file: %v", ErrStorageOperation, err)
	}
	defer func() { _ = file.Close() }()

	if err := writeRecords(file, records); err != nil {
		return fmt.Errorf("%w: failed to write records: %v", ErrCSVFormat, err)
	}
	return file.Sync()
}

// sortRecords orders records by rating descending, then id
func sortRecords(all map[string]PlayerRecord) []PlayerRecord {
	out := make([]PlayerRecord, 0, len(all))
	for _, r := range all {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Rating != out[j].Rating {
			return out[i].Rating > out[j].Rating
		}
		return out[i].ID < out[j].ID
	})
	return out
}
