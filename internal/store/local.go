package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/afero"

	"github.com/ChavezXXL/SC-PROJECT-TRACKER-sub000/internal/models"
)

// Entity names the logical collections the local store keeps, one JSON file
// per entity under the data directory.
type Entity string

const (
	EntityJobs     Entity = "jobs"
	EntityLogs     Entity = "logs"
	EntityUsers    Entity = "users"
	EntitySettings Entity = "settings"
)

// LocalStore is the on-device fallback backend. All operations are
// synchronous file reads/writes; every successful write publishes a change
// notification so subscriptions deliver without polling.
type LocalStore struct {
	fs  afero.Fs
	dir string

	mu  sync.Mutex
	hub changeHub
}

func NewLocalStore(fs afero.Fs, dir string) (*LocalStore, error) {
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &LocalStore{fs: fs, dir: dir}, nil
}

func (s *LocalStore) path(e Entity) string {
	return filepath.Join(s.dir, string(e)+".json")
}

func (s *LocalStore) read(e Entity, out any) error {
	data, err := afero.ReadFile(s.fs, s.path(e))
	if err != nil {
		if os.IsNotExist(err) {
			return nil // empty collection
		}
		return fmt.Errorf("read %s: %w", e, err)
	}
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s: %w", e, err)
	}
	return nil
}

func (s *LocalStore) write(e Entity, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", e, err)
	}
	if err := afero.WriteFile(s.fs, s.path(e), data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", e, err)
	}
	s.hub.publish(e)
	return nil
}

func (s *LocalStore) Jobs() ([]models.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var jobs []models.Job
	if err := s.read(EntityJobs, &jobs); err != nil {
		return nil, err
	}
	return jobs, nil
}

func (s *LocalStore) SaveJobs(jobs []models.Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(EntityJobs, jobs)
}

// UpdateJobs applies fn to the job set while holding the store lock across
// both the read and the write, so concurrent updates cannot drop each
// other's entries. fn returns the new set and whether to persist it.
func (s *LocalStore) UpdateJobs(fn func([]models.Job) ([]models.Job, bool)) ([]models.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var jobs []models.Job
	if err := s.read(EntityJobs, &jobs); err != nil {
		return nil, err
	}
	jobs, changed := fn(jobs)
	if changed {
		if err := s.write(EntityJobs, jobs); err != nil {
			return nil, err
		}
	}
	return jobs, nil
}

func (s *LocalStore) Logs() ([]models.TimeLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var logs []models.TimeLog
	if err := s.read(EntityLogs, &logs); err != nil {
		return nil, err
	}
	return logs, nil
}

func (s *LocalStore) SaveLogs(logs []models.TimeLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(EntityLogs, logs)
}

// UpdateLogs is the atomic read-modify-write for time logs, same contract as
// UpdateJobs.
func (s *LocalStore) UpdateLogs(fn func([]models.TimeLog) ([]models.TimeLog, bool)) ([]models.TimeLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var logs []models.TimeLog
	if err := s.read(EntityLogs, &logs); err != nil {
		return nil, err
	}
	logs, changed := fn(logs)
	if changed {
		if err := s.write(EntityLogs, logs); err != nil {
			return nil, err
		}
	}
	return logs, nil
}

// storedUser re-exposes the PIN hash for persistence; the API type hides it
// from JSON so a handler response can never leak credentials.
type storedUser struct {
	models.User
	PinHash string `json:"pinHash"`
}

func fromStoredUsers(stored []storedUser) []models.User {
	users := make([]models.User, 0, len(stored))
	for _, su := range stored {
		u := su.User
		u.PinHash = su.PinHash
		users = append(users, u)
	}
	return users
}

func toStoredUsers(users []models.User) []storedUser {
	stored := make([]storedUser, 0, len(users))
	for _, u := range users {
		stored = append(stored, storedUser{User: u, PinHash: u.PinHash})
	}
	return stored
}

func (s *LocalStore) Users() ([]models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var stored []storedUser
	if err := s.read(EntityUsers, &stored); err != nil {
		return nil, err
	}
	return fromStoredUsers(stored), nil
}

func (s *LocalStore) SaveUsers(users []models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(EntityUsers, toStoredUsers(users))
}

// UpdateUsers is the atomic read-modify-write for users, same contract as
// UpdateJobs. Seed reconciliation runs through here so a reconcile tick can
// never interleave with a user save and resurrect or drop an account.
func (s *LocalStore) UpdateUsers(fn func([]models.User) ([]models.User, bool)) ([]models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var stored []storedUser
	if err := s.read(EntityUsers, &stored); err != nil {
		return nil, err
	}
	users, changed := fn(fromStoredUsers(stored))
	if changed {
		if err := s.write(EntityUsers, toStoredUsers(users)); err != nil {
			return nil, err
		}
	}
	return users, nil
}

func (s *LocalStore) Settings() (models.SystemSettings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	settings := models.DefaultSettings()
	exists, err := afero.Exists(s.fs, s.path(EntitySettings))
	if err != nil {
		return settings, err
	}
	if !exists {
		return settings, nil
	}
	if err := s.read(EntitySettings, &settings); err != nil {
		return settings, err
	}
	return settings, nil
}

func (s *LocalStore) SaveSettings(settings models.SystemSettings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	settings.ID = models.SettingsID
	return s.write(EntitySettings, settings)
}

// Subscribe returns a channel that receives one element per local change to
// the given entity. The channel has a buffer of one and coalesces bursts; the
// cancel func releases the subscriber.
func (s *LocalStore) Subscribe(e Entity) (<-chan struct{}, func()) {
	return s.hub.subscribe(e)
}

// changeHub is a minimal per-entity publish/subscribe fanout. It replaces
// fixed-interval polling for local-mode subscriptions while keeping the
// "deliver the full current set on every change" contract.
type changeHub struct {
	mu   sync.Mutex
	subs map[Entity]map[int]chan struct{}
	next int
}

func (h *changeHub) subscribe(e Entity) (<-chan struct{}, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.subs == nil {
		h.subs = make(map[Entity]map[int]chan struct{})
	}
	if h.subs[e] == nil {
		h.subs[e] = make(map[int]chan struct{})
	}
	id := h.next
	h.next++
	ch := make(chan struct{}, 1)
	h.subs[e][id] = ch
	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.subs[e], id)
	}
	return ch, cancel
}

func (h *changeHub) publish(e Entity) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, ch := range h.subs[e] {
		select {
		case ch <- struct{}{}:
		default: // subscriber already has a pending notification
		}
	}
}
