// ABOUTME: Per-user session state for the insurance purchase flow
// ABOUTME: Keyed store with per-user locking so event handling is serialized

package session

import (
	"sync"
)

// Stage is a named point in the purchase flow a session occupies.
type Stage string

const (
	// StageFresh is the initial stage before the user has started the flow.
	StageFresh Stage = "fresh"

	// StageAwaitingPassport means the bot is waiting for a passport photo.
	StageAwaitingPassport Stage = "awaiting_passport"

	// StageAwaitingVehicleDoc means the bot is waiting for a vehicle document photo.
	StageAwaitingVehicleDoc Stage = "awaiting_vehicle_doc"

	// StageConfirmingData means extracted data was presented and awaits yes/no.
	StageConfirmingData Stage = "confirming_data"

	// StageConfirmingPrice means the price was disclosed and awaits yes/no.
	StageConfirmingPrice Stage = "confirming_price"

	// StageCompleted means a policy has been issued for this session.
	StageCompleted Stage = "completed"
)

// Record holds the structured data extracted from both submitted documents.
// Field values are opaque strings; no validation happens at this layer.
type Record struct {
	FullName       string
	DateOfBirth    string
	PassportNumber string
	VehicleMake    string
	VehicleModel   string
	VehicleYear    string
	VehiclePlate   string
}

// Session tracks one user's progress through the purchase flow.
// It is mutated only while the per-user lock from Store.Acquire is held.
type Session struct {
	Stage         Stage
	PassportRef   string
	VehicleDocRef string
	Captured      *Record
}

// Store keeps sessions keyed by an opaque user key (chat/room identifier).
// Sessions are created lazily and live for the process lifetime.
//
// All operations are total and overwrite-idempotent. Acquire provides per-key
// mutual exclusion so two near-simultaneous events for the same user cannot
// interleave stage reads and writes; different users never block each other.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session
	locks    map[string]*sync.Mutex
}

// NewStore creates an empty session store.
func NewStore() *Store {
	return &Store{
		sessions: make(map[string]*Session),
		locks:    make(map[string]*sync.Mutex),
	}
}

// Acquire locks the given user's session and returns the unlock function.
// The caller holds exclusive ownership of that session until release.
func (s *Store) Acquire(userKey string) func() {
	s.mu.Lock()
	lock, ok := s.locks[userKey]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[userKey] = lock
	}
	s.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}

// Get returns the session for the user, creating a fresh one if absent.
func (s *Store) Get(userKey string) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[userKey]
	if !ok {
		sess = &Session{Stage: StageFresh}
		s.sessions[userKey] = sess
	}
	return sess
}

// SetStage moves the user's session to the given stage.
func (s *Store) SetStage(userKey string, stage Stage) {
	s.Get(userKey).Stage = stage
}

// SetPassportRef stores the attachment reference for the passport photo.
func (s *Store) SetPassportRef(userKey, ref string) {
	s.Get(userKey).PassportRef = ref
}

// SetVehicleDocRef stores the attachment reference for the vehicle document.
func (s *Store) SetVehicleDocRef(userKey, ref string) {
	s.Get(userKey).VehicleDocRef = ref
}

// SetCaptured stores the merged extraction record. A restarted flow overwrites
// the previous record rather than clearing other fields.
func (s *Store) SetCaptured(userKey string, rec *Record) {
	s.Get(userKey).Captured = rec
}

// GetCaptured returns the merged extraction record, or nil if none was stored.
func (s *Store) GetCaptured(userKey string) *Record {
	return s.Get(userKey).Captured
}
