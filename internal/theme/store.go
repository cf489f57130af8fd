package theme

import (
	"errors"
	"log"
	"sync"
)

// Persister stores the chosen theme across sessions. Load returns
// ErrNoPreference when nothing has been stored yet.
type Persister interface {
	Load() (Mode, error)
	Save(Mode) error
}

// Ambient reports the platform's color-scheme preference.
type Ambient interface {
	PrefersDark() bool
}

// AmbientFunc adapts a plain function to the Ambient interface.
type AmbientFunc func() bool

func (f AmbientFunc) PrefersDark() bool { return f() }

type subscriber struct {
	id int
	fn func(Mode)
}

// Store is the single source of truth for the theme mode. Reads are
// safe from any goroutine; subscribers are notified synchronously, in
// subscription order, before Toggle or Set returns. A subscriber must
// not call Toggle or Set on the store that is notifying it.
type Store struct {
	persister Persister
	ambient   Ambient

	// notifyMutex serializes mutations so notifications are delivered
	// in the same order the mutations happened.
	notifyMutex sync.Mutex
	mutex       sync.RWMutex
	mode        Mode
	subscribers []subscriber
	nextID      int
	saveFailed  bool
}

// NewStore creates a Store. A nil persister keeps the preference in
// memory only and a nil ambient source never signals dark.
func NewStore(persister Persister, ambient Ambient) *Store {
	if persister == nil {
		persister = NewMemoryPersister()
	}

	return &Store{
		persister: persister,
		ambient:   ambient,
		mode:      Light,
	}
}

// Resolve computes the initial mode: the persisted preference when it is
// present and valid, else the ambient dark preference, else light.
func Resolve(persister Persister, ambient Ambient) Mode {
	if persister != nil {
		if mode, err := persister.Load(); err == nil {
			return mode
		} else if !errors.Is(err, ErrNoPreference) {
			log.Printf("ignoring stored theme: %v", err)
		}
	}

	if ambient != nil && ambient.PrefersDark() {
		return Dark
	}

	return Light
}

// Initialize resolves the mode from the persisted and ambient signals and
// applies it to the store. It does not write the persisted preference.
func (s *Store) Initialize() Mode {
	mode := Resolve(s.persister, s.ambient)

	s.notifyMutex.Lock()
	defer s.notifyMutex.Unlock()

	if s.swap(mode) {
		s.notify(mode)
	}

	return mode
}

// Mode returns the current mode.
func (s *Store) Mode() Mode {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.mode
}

// RootClass returns the marker class for the document root element.
func (s *Store) RootClass() string {
	if s.Mode().IsDark() {
		return "dark"
	}
	return ""
}

// Toggle flips the mode, persists it and notifies subscribers.
func (s *Store) Toggle() Mode {
	s.notifyMutex.Lock()
	defer s.notifyMutex.Unlock()

	mode := s.Mode().Opposite()
	s.swap(mode)
	s.persist(mode)
	s.notify(mode)

	return mode
}

// Set assigns the mode. Setting the current mode again does nothing.
func (s *Store) Set(mode Mode) Mode {
	s.notifyMutex.Lock()
	defer s.notifyMutex.Unlock()

	if !s.swap(mode) {
		return mode
	}

	s.persist(mode)
	s.notify(mode)

	return mode
}

// Subscribe registers fn to be called after every mode change and
// returns a function that removes the registration.
func (s *Store) Subscribe(fn func(Mode)) func() {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	id := s.nextID
	s.nextID++
	s.subscribers = append(s.subscribers, subscriber{id: id, fn: fn})

	return func() {
		s.mutex.Lock()
		defer s.mutex.Unlock()

		for i, sub := range s.subscribers {
			if sub.id == id {
				s.subscribers = append(s.subscribers[:i:i], s.subscribers[i+1:]...)
				return
			}
		}
	}
}

// swap stores mode and reports whether it changed.
func (s *Store) swap(mode Mode) bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.mode == mode {
		return false
	}
	s.mode = mode
	return true
}

// persist is best-effort: the first failure is logged and the store
// carries on in memory.
func (s *Store) persist(mode Mode) {
	if err := s.persister.Save(mode); err != nil {
		s.mutex.Lock()
		first := !s.saveFailed
		s.saveFailed = true
		s.mutex.Unlock()

		if first {
			log.Printf("theme preference not saved, keeping it in memory: %v", err)
		}
	}
}

func (s *Store) notify(mode Mode) {
	s.mutex.RLock()
	subs := make([]subscriber, len(s.subscribers))
	copy(subs, s.subscribers)
	s.mutex.RUnlock()

	for _, sub := range subs {
		sub.fn(mode)
	}
}
