package memstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	// DefaultFile is the state file used when no path is configured.
	DefaultFile = "tubewatch_memory.json"

	maxInsights      = 500
	maxConversations = 200
)

// Store persists the full MemoryState aggregate as one JSON document. Every
// mutator is load → mutate → save under the store mutex, so concurrent
// writers within the process cannot clobber each other's changes.
type Store struct {
	path string
	mu   sync.Mutex
}

func NewStore(path string) *Store {
	if path == "" {
		path = DefaultFile
	}
	return &Store{path: path}
}

// Path returns the state file location.
func (s *Store) Path() string {
	return s.path
}

// Load reads the persisted state. A missing file yields a fresh default
// state; an unreadable or corrupt file is an error, never silently replaced.
func (s *Store) Load() (*MemoryState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// Save writes the full aggregate, creating the parent directory if needed.
func (s *Store) Save(state *MemoryState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(state)
}

// ProfileUpdate is a partial profile change. Nil fields are left untouched;
// set fields replace the old value entirely (list fields are not merged).
type ProfileUpdate struct {
	Industry        *string
	Competitors     *[]string
	Keywords        *[]string
	TrackedChannels *[]string
	Notes           *[]string
}

// UpdateProfile applies a merge-update and refreshes the updatedAt stamp.
func (s *Store) UpdateProfile(u ProfileUpdate) (*UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.load()
	if err != nil {
		return nil, err
	}
	if u.Industry != nil {
		state.Profile.Industry = *u.Industry
	}
	if u.Competitors != nil {
		state.Profile.Competitors = *u.Competitors
	}
	if u.Keywords != nil {
		state.Profile.Keywords = *u.Keywords
	}
	if u.TrackedChannels != nil {
		state.Profile.TrackedChannels = *u.TrackedChannels
	}
	if u.Notes != nil {
		state.Profile.Notes = *u.Notes
	}
	state.Profile.UpdatedAt = time.Now().UTC()

	if err := s.save(state); err != nil {
		return nil, err
	}
	profile := state.Profile
	return &profile, nil
}

// AddMonitor registers a watched channel or keyword. Insertion is idempotent
// by (kind, value): a second add returns the existing target unchanged.
func (s *Store) AddMonitor(kind MonitorKind, value string) (*MonitorTarget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.load()
	if err != nil {
		return nil, err
	}
	for i := range state.Monitors {
		if state.Monitors[i].Kind == kind && state.Monitors[i].Value == value {
			existing := state.Monitors[i]
			return &existing, nil
		}
	}

	target := MonitorTarget{
		ID:        uuid.NewString(),
		Kind:      kind,
		Value:     value,
		CreatedAt: time.Now().UTC(),
	}
	state.Monitors = append(state.Monitors, target)
	if err := s.save(state); err != nil {
		return nil, err
	}
	return &target, nil
}

// RemoveMonitor deletes a target by id, reporting whether it existed.
func (s *Store) RemoveMonitor(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.load()
	if err != nil {
		return false, err
	}
	for i := range state.Monitors {
		if state.Monitors[i].ID == id {
			state.Monitors = append(state.Monitors[:i], state.Monitors[i+1:]...)
			if err := s.save(state); err != nil {
				return false, err
			}
			return true, nil
		}
	}
	return false, nil
}

// TouchMonitors stamps every target's last-checked time, reading the latest
// persisted state rather than a caller-held snapshot.
func (s *Store) TouchMonitors(at time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.load()
	if err != nil {
		return 0, err
	}
	for i := range state.Monitors {
		t := at
		state.Monitors[i].LastCheckedAt = &t
	}
	if err := s.save(state); err != nil {
		return 0, err
	}
	return len(state.Monitors), nil
}

// AddInsight appends one finding tagged with the producing agent. The log is
// capped at the most recent entries, oldest evicted first.
func (s *Store) AddInsight(agentID string, fields InsightFields) (*InsightEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.load()
	if err != nil {
		return nil, err
	}
	entry := InsightEntry{
		ID:            uuid.NewString(),
		AgentID:       agentID,
		InsightFields: fields,
		CreatedAt:     time.Now().UTC(),
	}
	state.Insights = append(state.Insights, entry)
	if n := len(state.Insights); n > maxInsights {
		state.Insights = state.Insights[n-maxInsights:]
	}
	if err := s.save(state); err != nil {
		return nil, err
	}
	return &entry, nil
}

// AddConversation appends one log line, capped like the insight log.
func (s *Store) AddConversation(role, agentID, content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.load()
	if err != nil {
		return err
	}
	state.Conversations = append(state.Conversations, ConversationEntry{
		Role:      role,
		AgentID:   agentID,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	})
	if n := len(state.Conversations); n > maxConversations {
		state.Conversations = state.Conversations[n-maxConversations:]
	}
	return s.save(state)
}

// InsightFilter narrows QueryInsights results. Zero values match everything.
type InsightFilter struct {
	AgentID string
	Kind    InsightKind
	Limit   int
}

// QueryInsights returns the last Limit matching entries in append order.
// The result is a suffix of the log, not a re-sort.
func (s *Store) QueryInsights(f InsightFilter) ([]InsightEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.load()
	if err != nil {
		return nil, err
	}
	var matched []InsightEntry
	for _, entry := range state.Insights {
		if f.AgentID != "" && entry.AgentID != f.AgentID {
			continue
		}
		if f.Kind != "" && entry.Kind != f.Kind {
			continue
		}
		matched = append(matched, entry)
	}
	if f.Limit > 0 && len(matched) > f.Limit {
		matched = matched[len(matched)-f.Limit:]
	}
	return matched, nil
}

func (s *Store) load() (*MemoryState, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return newState(), nil
		}
		return nil, fmt.Errorf("read state file %s: %w", s.path, err)
	}
	state := newState()
	if err := json.Unmarshal(data, state); err != nil {
		return nil, fmt.Errorf("parse state file %s: %w", s.path, err)
	}
	return state, nil
}

func (s *Store) save(state *MemoryState) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("write state file %s: %w", s.path, err)
	}
	return nil
}
