// Package autosave debounces profile edits and flushes them as a single
// coalesced PATCH. Edits accumulate in a pending patch; the debounce timer
// restarts on every edit, so the flush fires only after a quiet window.
package autosave

import (
	"context"
	"sync"
	"time"

	"github.com/johanthomias/HumDaddy-mobile/internal/app/api"
	"github.com/johanthomias/HumDaddy-mobile/internal/app/models"
	"github.com/johanthomias/HumDaddy-mobile/internal/logging"
)

// Status is the save indicator shown next to the edited form.
type Status string

const (
	StatusIdle   Status = "idle"
	StatusSaving Status = "saving"
	StatusSaved  Status = "saved"
	StatusError  Status = "error"
)

const (
	DefaultDebounceWindow   = 1000 * time.Millisecond
	DefaultSavedRevertDelay = 1500 * time.Millisecond
	DefaultErrorRevertDelay = 4 * time.Second
)

// StatusUpdate is pushed to the listener on every indicator change. Message
// is only set for StatusError.
type StatusUpdate struct {
	Status  Status
	Message string
}

// PatchAPI is the slice of the backend client the synchronizer flushes
// through.
type PatchAPI interface {
	UpdateCurrentUser(ctx context.Context, patch models.UserPatch) (*models.User, error)
}

// Refresher re-fetches the canonical profile after a successful flush. Its
// outcome never affects the save indicator.
type Refresher interface {
	RefreshUser(ctx context.Context)
}

// Options override the timing defaults. Zero values keep the defaults.
type Options struct {
	DebounceWindow   time.Duration
	SavedRevertDelay time.Duration
	ErrorRevertDelay time.Duration
}

// Synchronizer merges rapid field edits into one pending patch and flushes
// it after a debounce window. At most one flush is in flight at a time;
// edits arriving during a flight are held and flushed afterwards, so no edit
// is ever dropped.
type Synchronizer struct {
	api      PatchAPI
	refresh  Refresher
	log      logging.Logger
	listener func(StatusUpdate)

	window      time.Duration
	savedRevert time.Duration
	errorRevert time.Duration

	mu       sync.Mutex
	pending  models.UserPatch
	timer    *time.Timer
	inFlight bool
	closed   bool

	status       Status
	statusGen    uint64 // invalidates stale revert timers
	revertTimer  *time.Timer
	flushingDone chan struct{} // non-nil while a flush is in flight
}

// New builds a Synchronizer. refresh and listener may be nil.
func New(a PatchAPI, refresh Refresher, log logging.Logger, listener func(StatusUpdate), opts Options) *Synchronizer {
	s := &Synchronizer{
		api:         a,
		refresh:     refresh,
		log:         log,
		listener:    listener,
		window:      opts.DebounceWindow,
		savedRevert: opts.SavedRevertDelay,
		errorRevert: opts.ErrorRevertDelay,
		status:      StatusIdle,
	}
	if s.window <= 0 {
		s.window = DefaultDebounceWindow
	}
	if s.savedRevert <= 0 {
		s.savedRevert = DefaultSavedRevertDelay
	}
	if s.errorRevert <= 0 {
		s.errorRevert = DefaultErrorRevertDelay
	}
	return s
}

// ScheduleChange records one field edit and restarts the debounce window. A
// later edit to the same field overwrites the earlier value.
func (s *Synchronizer) ScheduleChange(field string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	if s.pending == nil {
		s.pending = models.UserPatch{}
	}
	s.pending[field] = value
	s.restartTimerLocked()
}

// Schedule merges a multi-field edit, restarting the window once.
func (s *Synchronizer) Schedule(patch models.UserPatch) {
	if len(patch) == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	if s.pending == nil {
		s.pending = models.UserPatch{}
	}
	s.pending.Merge(patch)
	s.restartTimerLocked()
}

// FlushNow forces an immediate flush of whatever is pending, bypassing the
// remaining debounce window. Used when the edit screen loses focus.
func (s *Synchronizer) FlushNow() {
	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.mu.Unlock()
	s.onTimer()
}

// Status returns the current indicator value.
func (s *Synchronizer) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// HasPending reports whether edits are waiting to be flushed.
func (s *Synchronizer) HasPending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending) > 0
}

// Close stops the debounce timer and rejects further edits. An in-flight
// flush is allowed to complete; Close does not wait for it.
func (s *Synchronizer) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	if s.revertTimer != nil {
		s.revertTimer.Stop()
		s.revertTimer = nil
	}
}

func (s *Synchronizer) restartTimerLocked() {
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.window, s.onTimer)
}

func (s *Synchronizer) onTimer() {
	s.mu.Lock()
	if s.closed || len(s.pending) == 0 {
		s.mu.Unlock()
		return
	}
	if s.inFlight {
		// The running flush re-checks pending on completion and flushes
		// again, so nothing is lost here.
		s.mu.Unlock()
		return
	}
	snapshot := s.pending.Clone()
	s.pending = nil
	s.inFlight = true
	s.flushingDone = make(chan struct{})
	s.mu.Unlock()

	s.setStatus(StatusSaving, "")
	go s.flush(snapshot)
}

func (s *Synchronizer) flush(patch models.UserPatch) {
	ctx := context.Background()
	_, err := s.api.UpdateCurrentUser(ctx, patch)

	if err != nil {
		// The failed snapshot is discarded. The form still holds the edited
		// values, so retrying happens through user interaction rather than a
		// background loop that could overwrite newer edits.
		s.log.Warn(ctx, "profile auto-save failed", "error", err, "fields", len(patch))
		s.setStatusWithRevert(StatusError, api.ErrorMessage(err), s.errorRevert)
	} else {
		s.setStatusWithRevert(StatusSaved, "", s.savedRevert)
		if s.refresh != nil {
			s.refresh.RefreshUser(ctx)
		}
	}

	s.mu.Lock()
	s.inFlight = false
	done := s.flushingDone
	s.flushingDone = nil
	resume := !s.closed && len(s.pending) > 0
	if resume {
		s.restartTimerLocked()
	}
	s.mu.Unlock()

	if done != nil {
		close(done)
	}
}

func (s *Synchronizer) setStatus(status Status, message string) {
	s.mu.Lock()
	s.status = status
	s.statusGen++
	if s.revertTimer != nil {
		s.revertTimer.Stop()
		s.revertTimer = nil
	}
	listener := s.listener
	s.mu.Unlock()

	if listener != nil {
		listener(StatusUpdate{Status: status, Message: message})
	}
}

// setStatusWithRevert sets a transient indicator that falls back to Idle
// after delay unless a newer status supersedes it first.
func (s *Synchronizer) setStatusWithRevert(status Status, message string, delay time.Duration) {
	s.mu.Lock()
	s.status = status
	s.statusGen++
	gen := s.statusGen
	if s.revertTimer != nil {
		s.revertTimer.Stop()
	}
	s.revertTimer = time.AfterFunc(delay, func() {
		s.revertIfCurrent(gen)
	})
	listener := s.listener
	s.mu.Unlock()

	if listener != nil {
		listener(StatusUpdate{Status: status, Message: message})
	}
}

func (s *Synchronizer) revertIfCurrent(gen uint64) {
	s.mu.Lock()
	if s.closed || s.statusGen != gen {
		s.mu.Unlock()
		return
	}
	s.status = StatusIdle
	s.statusGen++
	s.revertTimer = nil
	listener := s.listener
	s.mu.Unlock()

	if listener != nil {
		listener(StatusUpdate{Status: StatusIdle})
	}
}
