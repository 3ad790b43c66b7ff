// Package store persists the two JSON documents of the service: activities
// and users/profiles. Loads are cached; every save writes atomically and
// drops the cache so the next read re-parses the file. The redundant
// re-parse buys read-after-write consistency across store handles.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/gofrs/flock"

	"github.com/cyz/app-mentoria/internal/model"
)

const (
	activitiesFile = "activities.json"
	usersFile      = "users.json"
	lockFile       = ".store.lock"
)

type Store struct {
	dataDir string
	lock    *flock.Flock

	// mu guards the cache fields; even cache-miss loads write them, so
	// concurrent readers need it. Read-modify-write sequences spanning
	// several calls still need serialization by the caller.
	mu         sync.Mutex
	activities model.ActivitiesDoc
	users      *model.UsersDoc
}

func New(dataDir string) *Store {
	return &Store{
		dataDir: dataDir,
		lock:    flock.New(filepath.Join(dataDir, lockFile)),
	}
}

// Activities returns the cached activities document, loading it on first
// use. A missing file yields an empty document; a malformed file is an
// error for the caller to surface.
func (s *Store) Activities() (model.ActivitiesDoc, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activitiesLocked()
}

// RefreshActivities drops the cache and reloads from disk, picking up
// concurrent external edits.
func (s *Store) RefreshActivities() (model.ActivitiesDoc, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activities = nil
	return s.activitiesLocked()
}

// SaveActivities writes doc atomically and invalidates the cache.
func (s *Store) SaveActivities(doc model.ActivitiesDoc) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.writeJSON(activitiesFile, doc); err != nil {
		return err
	}
	s.activities = nil
	return nil
}

func (s *Store) activitiesLocked() (model.ActivitiesDoc, error) {
	if s.activities != nil {
		return s.activities, nil
	}
	doc := model.ActivitiesDoc{}
	if err := s.loadJSON(activitiesFile, &doc); err != nil {
		return nil, err
	}
	s.activities = doc
	return doc, nil
}

func (s *Store) Users() (*model.UsersDoc, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.usersLocked()
}

func (s *Store) RefreshUsers() (*model.UsersDoc, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = nil
	return s.usersLocked()
}

func (s *Store) SaveUsers(doc *model.UsersDoc) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.writeJSON(usersFile, doc); err != nil {
		return err
	}
	s.users = nil
	return nil
}

func (s *Store) usersLocked() (*model.UsersDoc, error) {
	if s.users != nil {
		return s.users, nil
	}
	doc := &model.UsersDoc{
		Profiles: map[string]model.Profile{},
		Users:    map[string]model.User{},
	}
	if err := s.loadJSON(usersFile, doc); err != nil {
		return nil, err
	}
	if doc.Profiles == nil {
		doc.Profiles = map[string]model.Profile{}
	}
	if doc.Users == nil {
		doc.Users = map[string]model.User{}
	}
	s.users = doc
	return doc, nil
}

func (s *Store) loadJSON(name string, out interface{}) error {
	data, err := os.ReadFile(filepath.Join(s.dataDir, name))
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}
	return nil
}

// writeJSON holds the data-directory flock for the duration of the write so
// concurrent processes cannot interleave a read-modify-write, then writes
// to a temp file and renames it over the target.
func (s *Store) writeJSON(name string, doc interface{}) error {
	if err := os.MkdirAll(s.dataDir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	if err := s.lock.Lock(); err != nil {
		return fmt.Errorf("lock store: %w", err)
	}
	defer func() { _ = s.lock.Unlock() }()

	data, err := json.MarshalIndent(doc, "", "    ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	target := filepath.Join(s.dataDir, name)
	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := os.Rename(tmp, target); err != nil {
		return fmt.Errorf("replace %s: %w", name, err)
	}
	return nil
}
