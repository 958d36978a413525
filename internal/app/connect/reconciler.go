// Package connect drives the hosted payment-provider onboarding handshake:
// create the account, open the hosted flow in a browser, then reconcile the
// account status once the user returns. The return signal may arrive twice
// (deep link and manual screen focus), so reconciliation is idempotent.
package connect

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/johanthomias/HumDaddy-mobile/internal/app/api"
	"github.com/johanthomias/HumDaddy-mobile/internal/app/models"
	"github.com/johanthomias/HumDaddy-mobile/internal/logging"
)

// State is the reconciler's position in the handshake.
type State string

const (
	StateIdle           State = "idle"
	StateInitiating     State = "initiating"
	StateAwaitingReturn State = "awaiting_return"
	StateReconciling    State = "reconciling"
	StateConfirmed      State = "confirmed"
	StateNeedsRetry     State = "needs_retry"
)

// API is the slice of the backend client the reconciler drives.
type API interface {
	CreateConnectAccount(ctx context.Context) (string, error)
	CreateAccountLink(ctx context.Context, returnContext string) (string, error)
	ConnectStatus(ctx context.Context) (*models.ConnectStatus, error)
}

// BrowserOpener hands a URL to the system browser.
type BrowserOpener interface {
	Open(url string) error
}

// Refresher re-fetches the user profile after the handshake concludes.
type Refresher interface {
	RefreshUser(ctx context.Context)
}

const (
	statusRetries   = 3
	statusBaseDelay = 500 * time.Millisecond
)

// Reconciler is the handshake state machine. All exported methods are safe
// for concurrent use.
type Reconciler struct {
	api     API
	browser BrowserOpener
	refresh Refresher
	log     logging.Logger

	retryBase time.Duration // overridable in tests

	mu         sync.Mutex
	state      State
	lastStatus *models.ConnectStatus
	listener   func(State)
}

// NewReconciler builds the machine in StateIdle. refresh and listener may be
// nil.
func NewReconciler(a API, browser BrowserOpener, refresh Refresher, log logging.Logger, listener func(State)) *Reconciler {
	return &Reconciler{
		api:       a,
		browser:   browser,
		refresh:   refresh,
		log:       log,
		retryBase: statusBaseDelay,
		state:     StateIdle,
		listener:  listener,
	}
}

// State returns the current handshake state.
func (r *Reconciler) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// LastStatus returns the most recently reconciled account status, or nil
// before the first successful reconciliation.
func (r *Reconciler) LastStatus() *models.ConnectStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastStatus
}

func (r *Reconciler) setState(s State) {
	r.mu.Lock()
	r.state = s
	listener := r.listener
	r.mu.Unlock()

	if listener != nil {
		listener(s)
	}
}

// transition moves to next unless the current state is one of blocked. The
// check and the set happen under one lock, so two racing callers can never
// both enter the same transitional state.
func (r *Reconciler) transition(next State, blocked ...State) bool {
	r.mu.Lock()
	for _, b := range blocked {
		if r.state == b {
			r.mu.Unlock()
			return false
		}
	}
	r.state = next
	listener := r.listener
	r.mu.Unlock()

	if listener != nil {
		listener(next)
	}
	return true
}

// Begin creates (or reuses) the provider account, requests a fresh hosted
// onboarding link and opens it in the browser. On success the machine waits
// in StateAwaitingReturn; any failure returns it to StateIdle so the user
// can try again.
func (r *Reconciler) Begin(ctx context.Context, returnContext string) error {
	if !r.transition(StateInitiating, StateInitiating, StateReconciling) {
		return nil
	}

	if _, err := r.api.CreateConnectAccount(ctx); err != nil {
		r.setState(StateIdle)
		return err
	}

	url, err := r.api.CreateAccountLink(ctx, returnContext)
	if err != nil {
		r.setState(StateIdle)
		return err
	}

	if err := r.browser.Open(url); err != nil {
		r.setState(StateIdle)
		return err
	}

	r.setState(StateAwaitingReturn)
	return nil
}

// Reconcile re-fetches the account status after a return signal. It is
// idempotent: once Confirmed, further calls are no-ops, and a call arriving
// while another reconciliation runs does nothing. Transient transport
// failures are retried with exponential backoff; if the status still can not
// be fetched the machine returns to StateAwaitingReturn so the next signal
// tries again.
func (r *Reconciler) Reconcile(ctx context.Context) {
	if !r.transition(StateReconciling, StateConfirmed, StateReconciling) {
		return
	}

	status, err := r.fetchStatus(ctx)
	if err != nil {
		r.log.Warn(ctx, "could not fetch account status, awaiting next signal", "error", err)
		r.setState(StateAwaitingReturn)
		return
	}

	r.mu.Lock()
	r.lastStatus = status
	r.mu.Unlock()

	if status.PayoutsUnlocked() {
		r.setState(StateConfirmed)
	} else {
		r.log.Info(ctx, "onboarding incomplete",
			"status", string(status.Status),
			"chargesEnabled", status.ChargesEnabled,
			"payoutsEnabled", status.PayoutsEnabled,
			"detailsSubmitted", status.DetailsSubmitted)
		r.setState(StateNeedsRetry)
	}

	if r.refresh != nil {
		r.refresh.RefreshUser(ctx)
	}
}

// HandleExpired reacts to the provider's refresh signal (the hosted link
// expired or was abandoned). The handshake stays in StateAwaitingReturn; the
// profile refresh is advisory.
func (r *Reconciler) HandleExpired(ctx context.Context) {
	if !r.transition(StateAwaitingReturn, StateConfirmed) {
		return
	}
	if r.refresh != nil {
		r.refresh.RefreshUser(ctx)
	}
}

// Reset returns the machine to StateIdle, e.g. after logout.
func (r *Reconciler) Reset() {
	r.mu.Lock()
	r.lastStatus = nil
	r.mu.Unlock()
	r.setState(StateIdle)
}

// fetchStatus retries transient transport failures only; HTTP errors are
// returned immediately since a retry will not change a 4xx/5xx answer.
func (r *Reconciler) fetchStatus(ctx context.Context) (*models.ConnectStatus, error) {
	var status *models.ConnectStatus
	backoff := retry.WithMaxRetries(statusRetries, retry.NewExponential(r.retryBase))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		s, err := r.api.ConnectStatus(ctx)
		if err != nil {
			if errors.Is(err, api.ErrNetwork) || errors.Is(err, api.ErrTimeout) {
				return retry.RetryableError(err)
			}
			return err
		}
		status = s
		return nil
	})
	if err != nil {
		return nil, err
	}
	return status, nil
}
