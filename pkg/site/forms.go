package site

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/vmtco/funday/pkg/rsvp"
)

// FormRegistry maps form tokens to the controller of a rendered form.
// Forms idle for longer than the TTL are swept; a form that is submitting
// is never swept.
type FormRegistry struct {
	mu      sync.Mutex
	forms   map[string]*formEntry
	ttl     time.Duration
	factory func() *rsvp.Controller
	now     func() time.Time
	logger  *slog.Logger

	done        chan struct{}
	cleanupDone chan struct{}
	started     atomic.Bool
	stopOnce    sync.Once
}

type formEntry struct {
	ctl      *rsvp.Controller
	lastSeen time.Time
}

// NewFormRegistry returns a registry creating controllers with factory.
// Call Start to begin sweeping and Stop to end it.
func NewFormRegistry(ttl time.Duration, factory func() *rsvp.Controller, logger *slog.Logger) *FormRegistry {
	if logger == nil {
		logger = slog.Default()
	}
	return &FormRegistry{
		forms:       make(map[string]*formEntry),
		ttl:         ttl,
		factory:     factory,
		now:         time.Now,
		logger:      logger,
		done:        make(chan struct{}),
		cleanupDone: make(chan struct{}),
	}
}

// Create registers a fresh form and returns its token.
func (fr *FormRegistry) Create() (string, *rsvp.Controller) {
	token := uuid.NewString()
	ctl := fr.factory()

	fr.mu.Lock()
	fr.forms[token] = &formEntry{ctl: ctl, lastSeen: fr.now()}
	fr.mu.Unlock()

	return token, ctl
}

// Get returns the controller for token and marks it as used.
func (fr *FormRegistry) Get(token string) (*rsvp.Controller, bool) {
	fr.mu.Lock()
	defer fr.mu.Unlock()

	e, ok := fr.forms[token]
	if !ok {
		return nil, false
	}
	e.lastSeen = fr.now()
	return e.ctl, true
}

// Remove forgets token.
func (fr *FormRegistry) Remove(token string) {
	fr.mu.Lock()
	delete(fr.forms, token)
	fr.mu.Unlock()
}

// Count returns the number of live forms.
func (fr *FormRegistry) Count() int {
	fr.mu.Lock()
	defer fr.mu.Unlock()
	return len(fr.forms)
}

// Sweep removes expired forms and returns how many were removed.
func (fr *FormRegistry) Sweep() int {
	if fr.ttl <= 0 {
		return 0
	}

	fr.mu.Lock()
	now := fr.now()
	removed := 0
	for token, e := range fr.forms {
		if now.Sub(e.lastSeen) <= fr.ttl || e.ctl.Status() == rsvp.Submitting {
			continue
		}
		delete(fr.forms, token)
		removed++
	}
	remaining := len(fr.forms)
	fr.mu.Unlock()

	if removed > 0 {
		fr.logger.Debug("swept expired forms",
			"count", removed,
			"remaining", remaining)
	}
	return removed
}

// Start runs the sweep loop in the background. It does nothing when the
// TTL is zero or the loop is already running.
func (fr *FormRegistry) Start() {
	interval := fr.ttl / 2
	if interval <= 0 || !fr.started.CompareAndSwap(false, true) {
		return
	}
	go fr.cleanupLoop(interval)
}

func (fr *FormRegistry) cleanupLoop(interval time.Duration) {
	defer close(fr.cleanupDone)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			fr.Sweep()
		case <-fr.done:
			return
		}
	}
}

// Stop ends the sweep loop started by Start and waits for it to exit.
func (fr *FormRegistry) Stop() {
	fr.stopOnce.Do(func() {
		close(fr.done)
		if fr.started.Load() {
			<-fr.cleanupDone
		}
	})
}
