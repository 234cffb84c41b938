package bot

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"football-matches-notifier-bot/fixtures"
	"football-matches-notifier-bot/mutex"
	"football-matches-notifier-bot/notify"
	"football-matches-notifier-bot/timezone"
)

type fakeSyncer struct {
	from []*time.Time
}

func (f *fakeSyncer) SyncWeek(_ context.Context, from *time.Time) fixtures.Result {
	f.from = append(f.from, from)
	return fixtures.Result{Created: 3, Updated: 1, Errors: []string{}}
}

type fakeRunner struct {
	forced []bool
	delay  time.Duration
}

func (f *fakeRunner) Run(_ context.Context, force bool) notify.Report {
	time.Sleep(f.delay)
	f.forced = append(f.forced, force)
	return notify.Report{DigestSent: true, RemindersSent: 2}
}

type fakeMutex struct {
	held     *bool
	unlocked int
	extended int
}

func (m *fakeMutex) Lock() error {
	if *m.held {
		return errors.New("redsync: failed to acquire lock")
	}
	*m.held = true
	return nil
}

func (m *fakeMutex) Unlock() (bool, error) {
	*m.held = false
	m.unlocked++
	return true, nil
}

func (m *fakeMutex) Extend() (bool, error) {
	m.extended++
	return true, nil
}

type fakeLocker struct {
	syncHeld, notifyHeld bool
	mutexes              []*fakeMutex
}

func (l *fakeLocker) SyncWeek() mutex.Mutex {
	m := &fakeMutex{held: &l.syncHeld}
	l.mutexes = append(l.mutexes, m)
	return m
}

func (l *fakeLocker) Notify() mutex.Mutex {
	m := &fakeMutex{held: &l.notifyHeld}
	l.mutexes = append(l.mutexes, m)
	return m
}

func TestTriggersRunUnderLock(t *testing.T) {
	syncer := &fakeSyncer{}
	runner := &fakeRunner{}
	locks := &fakeLocker{}
	triggers := NewTriggers(syncer, runner, locks, nil)

	result, err := triggers.SyncWeek(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 3, result.Created)

	report, err := triggers.Notify(context.Background(), true)
	require.NoError(t, err)
	assert.Equal(t, notify.Report{DigestSent: true, RemindersSent: 2}, report)
	assert.Equal(t, []bool{true}, runner.forced)

	require.Len(t, locks.mutexes, 2)
	for _, m := range locks.mutexes {
		assert.Equal(t, 1, m.unlocked)
	}
	assert.False(t, locks.syncHeld)
	assert.False(t, locks.notifyHeld)
}

func TestTriggersExtendLockDuringLongRun(t *testing.T) {
	runner := &fakeRunner{delay: 50 * time.Millisecond}
	locks := &fakeLocker{}
	triggers := NewTriggers(nil, runner, locks, nil)
	triggers.refresh = 5 * time.Millisecond

	_, err := triggers.Notify(context.Background(), false)
	require.NoError(t, err)

	require.Len(t, locks.mutexes, 1)
	assert.Greater(t, locks.mutexes[0].extended, 0)
	assert.Equal(t, 1, locks.mutexes[0].unlocked)
	assert.False(t, locks.notifyHeld)
}

func TestNotifyEndpointIgnoresRequestCancellation(t *testing.T) {
	runner := &cancelCheckingRunner{}
	router := mux.NewRouter()
	NewTriggers(nil, runner, nil, nil).Routes(router, "")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := httptest.NewRequest(http.MethodPost, "/notify", nil).WithContext(ctx)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NoError(t, runner.err)
}

type cancelCheckingRunner struct {
	err error
}

func (r *cancelCheckingRunner) Run(ctx context.Context, _ bool) notify.Report {
	r.err = ctx.Err()
	return notify.Report{}
}

func TestTriggersBusy(t *testing.T) {
	syncer := &fakeSyncer{}
	runner := &fakeRunner{}
	locks := &fakeLocker{syncHeld: true, notifyHeld: true}
	triggers := NewTriggers(syncer, runner, locks, nil)

	_, err := triggers.SyncWeek(context.Background(), nil)
	assert.True(t, errors.Is(err, ErrBusy))
	_, err = triggers.Notify(context.Background(), false)
	assert.True(t, errors.Is(err, ErrBusy))

	assert.Empty(t, syncer.from)
	assert.Empty(t, runner.forced)
}

func TestTriggersWithoutLocker(t *testing.T) {
	syncer := &fakeSyncer{}
	triggers := NewTriggers(syncer, nil, nil, nil)

	_, err := triggers.SyncWeek(context.Background(), nil)
	require.NoError(t, err)
	assert.Len(t, syncer.from, 1)

	_, err = triggers.Notify(context.Background(), false)
	assert.True(t, errors.Is(err, ErrNotConfigured))
}

func serve(router *mux.Router, method, target, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	if token != "" {
		req.Header.Set(TriggerTokenHeader, token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestSyncEndpoint(t *testing.T) {
	syncer := &fakeSyncer{}
	router := mux.NewRouter()
	NewTriggers(syncer, nil, nil, nil).Routes(router, "secret")

	rec := serve(router, http.MethodPost, "/sync?from=2025-01-30", "wrong")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, syncer.from)

	rec = serve(router, http.MethodPost, "/sync?from=30.01.2025", "secret")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(router, http.MethodPost, "/sync?from=2025-01-30", "secret")
	require.Equal(t, http.StatusOK, rec.Code)
	var result fixtures.Result
	require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, fixtures.Result{Created: 3, Updated: 1, Errors: []string{}}, result)

	require.Len(t, syncer.from, 1)
	require.NotNil(t, syncer.from[0])
	assert.Equal(t, "2025-01-30", timezone.FormatDate(*syncer.from[0]))
}

func TestNotifyEndpoint(t *testing.T) {
	runner := &fakeRunner{}
	locks := &fakeLocker{}
	router := mux.NewRouter()
	NewTriggers(nil, runner, locks, nil).Routes(router, "")

	rec := serve(router, http.MethodPost, "/notify?force=maybe", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(router, http.MethodPost, "/notify?force=true", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"digest_sent":true,"reminders_sent":2}`, rec.Body.String())
	assert.Equal(t, []bool{true}, runner.forced)

	locks.notifyHeld = true
	rec = serve(router, http.MethodPost, "/notify", "")
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = serve(router, http.MethodPost, "/sync", "")
	assert.Equal(t, http.StatusNotImplemented, rec.Code)

	rec = serve(router, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSchedule(t *testing.T) {
	triggers := NewTriggers(&fakeSyncer{}, &fakeRunner{}, nil, nil)

	c, err := triggers.Schedule("0 3 * * *", "* * * * *")
	require.NoError(t, err)
	assert.Len(t, c.Entries(), 2)
	assert.Equal(t, timezone.Location(), c.Location())

	_, err = triggers.Schedule("not a schedule", "* * * * *")
	assert.Error(t, err)
	_, err = triggers.Schedule("0 3 * * *", "")
	assert.Error(t, err)
}

func TestWebhookRoute(t *testing.T) {
	assert.Equal(t, "/hook/abc", webhookRoute("https://bot.example.com/hook/abc"))
	assert.Equal(t, "/telegram", webhookRoute("https://bot.example.com"))
	assert.Equal(t, "/telegram", webhookRoute("https://bot.example.com/"))
}
