package session

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johanthomias/HumDaddy-mobile/internal/app/models"
	"github.com/johanthomias/HumDaddy-mobile/internal/app/store"
	"github.com/johanthomias/HumDaddy-mobile/internal/common"
	"github.com/johanthomias/HumDaddy-mobile/internal/logging"
)

// ---- fakes ----

// fakeStore implements store.Store in memory, with injectable failures.
type fakeStore struct {
	mu         sync.Mutex
	hasSession bool
	token      string
	onboarded  bool
	language   store.Language

	failReads  bool
	failWrites bool
}

func (f *fakeStore) err(op string) error {
	return common.NewStorageError(op, errors.New("injected"))
}

func (f *fakeStore) SaveSession(ctx context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWrites {
		return f.err("save")
	}
	f.hasSession = true
	if token != "" {
		f.token = token
	}
	return nil
}

func (f *fakeStore) HasSession(ctx context.Context) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failReads {
		return false, f.err("has_session")
	}
	return f.hasSession, nil
}

func (f *fakeStore) Token(ctx context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failReads {
		return "", f.err("token")
	}
	return f.token, nil
}

func (f *fakeStore) SetOnboardingCompleted(ctx context.Context, completed bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWrites {
		return f.err("set_onboarding")
	}
	f.onboarded = completed
	return nil
}

func (f *fakeStore) OnboardingCompleted(ctx context.Context) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failReads {
		return false, f.err("onboarding")
	}
	return f.onboarded, nil
}

func (f *fakeStore) Language(ctx context.Context) (store.Language, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failReads {
		return "", false, f.err("language")
	}
	return f.language, f.language != "", nil
}

func (f *fakeStore) SetLanguage(ctx context.Context, lang store.Language) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWrites {
		return f.err("set_language")
	}
	f.language = lang
	return nil
}

func (f *fakeStore) ClearAll(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWrites {
		return f.err("clear")
	}
	f.hasSession = false
	f.token = ""
	f.onboarded = false
	return nil
}

// fakeAPI counts CurrentUser calls and can fail or block.
type fakeAPI struct {
	mu    sync.Mutex
	user  *models.User
	fail  error
	calls atomic.Int64
	gate  chan struct{} // when non-nil, CurrentUser blocks until closed
}

func (f *fakeAPI) CurrentUser(ctx context.Context) (*models.User, error) {
	f.calls.Add(1)
	if f.gate != nil {
		<-f.gate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail != nil {
		return nil, f.fail
	}
	return f.user, nil
}

func (f *fakeAPI) setFail(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fail = err
}

func newService(st store.Store, api API) *Service {
	return NewService(st, api, logging.NewNopLogger(), nil)
}

// ---- tests ----

func TestRestore_NoSession(t *testing.T) {
	svc := newService(&fakeStore{}, &fakeAPI{})

	svc.Restore(context.Background())

	state := svc.Snapshot()
	assert.False(t, state.IsAuthenticated)
	assert.False(t, state.OnboardingCompleted)
	assert.False(t, state.IsLoading)
	assert.Nil(t, state.User)
}

func TestRestore_SessionWithUserFetch(t *testing.T) {
	st := &fakeStore{hasSession: true, token: "tok", onboarded: true}
	api := &fakeAPI{user: &models.User{ID: "u1", Username: "alice"}}
	svc := newService(st, api)

	svc.Restore(context.Background())

	state := svc.Snapshot()
	assert.True(t, state.IsAuthenticated)
	assert.True(t, state.OnboardingCompleted)
	assert.False(t, state.IsLoading)
	require.NotNil(t, state.User)
	assert.Equal(t, "alice", state.User.Username)
}

func TestRestore_UserFetchFailureIsNotFatal(t *testing.T) {
	st := &fakeStore{hasSession: true, token: "tok"}
	api := &fakeAPI{fail: errors.New("boom")}
	svc := newService(st, api)

	svc.Restore(context.Background())

	state := svc.Snapshot()
	assert.True(t, state.IsAuthenticated, "auth state must not depend on the profile fetch")
	assert.Nil(t, state.User)
	assert.False(t, state.IsLoading)
}

func TestRestore_StorageFailureFailsClosed(t *testing.T) {
	st := &fakeStore{hasSession: true, failReads: true}
	api := &fakeAPI{user: &models.User{ID: "u1"}}
	svc := newService(st, api)

	svc.Restore(context.Background())

	state := svc.Snapshot()
	assert.False(t, state.IsAuthenticated)
	assert.False(t, state.OnboardingCompleted)
	assert.False(t, state.IsLoading, "restore must terminate even when storage is down")
	assert.Equal(t, int64(0), api.calls.Load(), "no fetch without a session")
}

func TestAuthenticate_PersistsThenFlips(t *testing.T) {
	st := &fakeStore{}
	svc := newService(st, &fakeAPI{})

	require.NoError(t, svc.Authenticate(context.Background(), "tok-1"))

	assert.True(t, svc.Snapshot().IsAuthenticated)
	assert.Equal(t, "tok-1", st.token)
	assert.Nil(t, svc.Snapshot().User, "authenticate does not fetch the profile")
}

func TestAuthenticate_StorageFailurePropagatesAndStateUnchanged(t *testing.T) {
	st := &fakeStore{failWrites: true}
	svc := newService(st, &fakeAPI{})

	err := svc.Authenticate(context.Background(), "tok-1")
	var storageErr *common.StorageError
	require.ErrorAs(t, err, &storageErr)
	assert.False(t, svc.Snapshot().IsAuthenticated)
}

func TestCompleteOnboarding_Idempotent(t *testing.T) {
	st := &fakeStore{}
	svc := newService(st, &fakeAPI{})

	require.NoError(t, svc.CompleteOnboarding(context.Background()))
	require.NoError(t, svc.CompleteOnboarding(context.Background()))

	assert.True(t, svc.Snapshot().OnboardingCompleted)
	assert.True(t, st.onboarded)
}

func TestRefreshUser_FailureKeepsPreviousUser(t *testing.T) {
	api := &fakeAPI{user: &models.User{ID: "u1", Bio: "v1"}}
	svc := newService(&fakeStore{hasSession: true}, api)
	svc.Restore(context.Background())
	require.NotNil(t, svc.Snapshot().User)

	api.setFail(errors.New("network down"))
	svc.RefreshUser(context.Background())

	state := svc.Snapshot()
	require.NotNil(t, state.User, "stale user beats nil")
	assert.Equal(t, "v1", state.User.Bio)
}

func TestRefreshUser_UpdatesUser(t *testing.T) {
	api := &fakeAPI{user: &models.User{ID: "u1", Bio: "v1"}}
	svc := newService(&fakeStore{hasSession: true}, api)
	svc.Restore(context.Background())

	api.mu.Lock()
	api.user = &models.User{ID: "u1", Bio: "v2"}
	api.mu.Unlock()

	svc.RefreshUser(context.Background())
	assert.Equal(t, "v2", svc.Snapshot().User.Bio)
}

func TestRefreshUser_ConcurrentCallsCoalesce(t *testing.T) {
	api := &fakeAPI{user: &models.User{ID: "u1"}, gate: make(chan struct{})}
	svc := newService(&fakeStore{hasSession: true}, api)

	var wg sync.WaitGroup
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			svc.RefreshUser(context.Background())
		}()
	}

	// Let all three goroutines reach the singleflight group.
	time.Sleep(50 * time.Millisecond)
	close(api.gate)
	wg.Wait()

	assert.Equal(t, int64(1), api.calls.Load(), "dual triggers must coalesce into one fetch")
}

func TestLogout_ThenRestoreIsCleanSlate(t *testing.T) {
	st := &fakeStore{hasSession: true, token: "tok", onboarded: true}
	api := &fakeAPI{user: &models.User{ID: "u1"}}
	svc := newService(st, api)
	svc.Restore(context.Background())
	require.True(t, svc.Snapshot().IsAuthenticated)

	require.NoError(t, svc.Logout(context.Background()))

	state := svc.Snapshot()
	assert.False(t, state.IsAuthenticated)
	assert.False(t, state.OnboardingCompleted)
	assert.Nil(t, state.User)

	svc.Restore(context.Background())
	state = svc.Snapshot()
	assert.False(t, state.IsAuthenticated)
	assert.False(t, state.OnboardingCompleted)
	assert.Nil(t, state.User)
}

func TestListener_ReceivesStateChanges(t *testing.T) {
	var mu sync.Mutex
	var states []AuthState
	listener := func(st AuthState) {
		mu.Lock()
		states = append(states, st)
		mu.Unlock()
	}

	svc := NewService(&fakeStore{}, &fakeAPI{}, logging.NewNopLogger(), listener)
	svc.Restore(context.Background())
	require.NoError(t, svc.Authenticate(context.Background(), "tok"))

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, states, 2)
	assert.False(t, states[0].IsLoading)
	assert.True(t, states[1].IsAuthenticated)
}
