// Package store persists reports, analysis history, and operator settings as
// flat JSON files under a single data directory. Missing or corrupt files fall
// back to defaults instead of failing; the service must come up on an empty
// directory.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"pe-insights-go/internal/logger"
	"pe-insights-go/internal/types"
)

var ErrNotFound = errors.New("report not found")

type Store struct {
	dataDir string
	log     *logger.Logger

	// serializes read-modify-write cycles on history.json
	mu sync.Mutex
}

func New(dataDir string) (*Store, error) {
	s := &Store{dataDir: dataDir, log: logger.New()}
	for _, dir := range []string{dataDir, s.reportsDir(), s.UploadsDir()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create %s: %w", dir, err)
		}
	}
	return s, nil
}

func (s *Store) reportsDir() string { return filepath.Join(s.dataDir, "reports") }
func (s *Store) UploadsDir() string { return filepath.Join(s.dataDir, "uploads") }

func (s *Store) reportPath(id string) string {
	return filepath.Join(s.reportsDir(), id+".json")
}

func (s *Store) SaveReport(id string, rep types.Report) error {
	return s.writeJSON(s.reportPath(id), rep)
}

func (s *Store) LoadReport(id string) (types.Report, error) {
	var rep types.Report
	data, err := os.ReadFile(s.reportPath(id))
	if errors.Is(err, os.ErrNotExist) {
		return rep, ErrNotFound
	}
	if err != nil {
		return rep, fmt.Errorf("read report %s: %w", id, err)
	}
	if err := json.Unmarshal(data, &rep); err != nil {
		return rep, fmt.Errorf("decode report %s: %w", id, err)
	}
	return rep, nil
}

// DeleteReport removes the report file and its history entry. Deleting an
// unknown id returns ErrNotFound.
func (s *Store) DeleteReport(id string) error {
	err := os.Remove(s.reportPath(id))
	existed := err == nil
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("delete report %s: %w", id, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	history := s.history()
	kept := history[:0]
	for _, e := range history {
		if e.ID == id {
			existed = true
			continue
		}
		kept = append(kept, e)
	}
	if !existed {
		return ErrNotFound
	}
	return s.writeJSON(s.historyPath(), kept)
}

func (s *Store) historyPath() string { return filepath.Join(s.dataDir, "history.json") }

// History returns all entries, newest first.
func (s *Store) History() []types.HistoryEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history()
}

func (s *Store) history() []types.HistoryEntry {
	var history []types.HistoryEntry
	if err := s.readJSON(s.historyPath(), &history); err != nil {
		s.log.WithError(err).Warn("history unreadable, starting empty")
	}
	if history == nil {
		history = []types.HistoryEntry{}
	}
	return history
}

// PrependHistory inserts a new entry at the head of the history.
func (s *Store) PrependHistory(e types.HistoryEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	history := append([]types.HistoryEntry{e}, s.history()...)
	return s.writeJSON(s.historyPath(), history)
}

// UpdateHistory applies fn to the entry with the given id, if present.
func (s *Store) UpdateHistory(id string, fn func(*types.HistoryEntry)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	history := s.history()
	for i := range history {
		if history[i].ID == id {
			fn(&history[i])
			return s.writeJSON(s.historyPath(), history)
		}
	}
	s.log.WithField("report_id", id).Warn("history entry missing on update")
	return nil
}

func (s *Store) settingsPath() string { return filepath.Join(s.dataDir, "settings.json") }

func (s *Store) Settings() types.Settings {
	var settings types.Settings
	if err := s.readJSON(s.settingsPath(), &settings); err != nil {
		s.log.WithError(err).Warn("settings unreadable, using defaults")
	}
	return settings
}

func (s *Store) SaveSettings(settings types.Settings) error {
	return s.writeJSON(s.settingsPath(), settings)
}

func (s *Store) peFirmsPath() string { return filepath.Join(s.dataDir, "pe_firms.json") }

// PEFirms returns the configured PE firm list, seeding the default list on
// first use.
func (s *Store) PEFirms() []string {
	var firms []string
	err := s.readJSON(s.peFirmsPath(), &firms)
	if err != nil || len(firms) == 0 {
		firms = DefaultPEFirms()
		if err := s.writeJSON(s.peFirmsPath(), firms); err != nil {
			s.log.WithError(err).Warn("could not seed default PE firms")
		}
	}
	return firms
}

func (s *Store) SavePEFirms(firms []string) error {
	return s.writeJSON(s.peFirmsPath(), firms)
}

func (s *Store) readJSON(path string, target any) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(data, target)
}

func (s *Store) writeJSON(path string, data any) error {
	buf, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, buf, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return os.Rename(tmp, path)
}
