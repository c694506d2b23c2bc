package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/resumefit/internal/client/config"
	"github.com/dmitrijs2005/resumefit/internal/client/models"
	"github.com/dmitrijs2005/resumefit/internal/client/repositories/credentials"
	"github.com/dmitrijs2005/resumefit/internal/client/ui"
	"github.com/dmitrijs2005/resumefit/internal/logging"
)

// fakeAPI implements client.Client.
type fakeAPI struct {
	mu sync.Mutex

	loginRes *models.LoginResult
	loginErr error

	signupErr  error
	signupName string

	submitRes *models.AnalysisResult
	submitErr error
	submitted []models.Application

	pingErr error
	pings   int
	closed  bool
}

func (f *fakeAPI) Login(_ context.Context, email, _ string) (*models.LoginResult, error) {
	return f.loginRes, f.loginErr
}

func (f *fakeAPI) Signup(_ context.Context, name, _, _ string) error {
	f.signupName = name
	return f.signupErr
}

func (f *fakeAPI) SubmitApplication(_ context.Context, _ string, app models.Application) (*models.AnalysisResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.submitted = append(f.submitted, app)
	return f.submitRes, f.submitErr
}

func (f *fakeAPI) Ping(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pings++
	return f.pingErr
}

func (f *fakeAPI) Close() error {
	f.closed = true
	return nil
}

func (f *fakeAPI) setPingErr(err error) {
	f.mu.Lock()
	f.pingErr = err
	f.mu.Unlock()
}

var ann = models.Identity{ID: "u1", Name: "Ann", Email: "ann@example.com", IsActive: true}

func loginOK() *models.LoginResult {
	return &models.LoginResult{AccessToken: "acc", RefreshToken: "ref", TokenType: "bearer", User: ann}
}

// syncBuffer is a bytes.Buffer safe for the watcher goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func testConfig() *config.Config {
	c := &config.Config{}
	c.LoadDefaults()
	c.ProgressInterval = time.Millisecond
	c.OnlineCheckInterval = 5 * time.Millisecond
	c.DatabasePath = ""
	return c
}

// newTestApp builds an App over api with a bootstrapped, empty session.
func newTestApp(t *testing.T, api *fakeAPI, input string) (*App, *syncBuffer) {
	t.Helper()
	out := &syncBuffer{}
	a := newApp(testConfig(), logging.Discard(), api, credentials.NewMemoryRepository(), strings.NewReader(input), out)
	a.session.Bootstrap(context.Background())
	return a, out
}

func signIn(t *testing.T, a *App, api *fakeAPI) {
	t.Helper()
	api.loginRes = loginOK()
	require.NoError(t, a.session.Login(context.Background(), "ann@example.com", "pw"))
}

func TestIsLoggedIn_FollowsSession(t *testing.T) {
	api := &fakeAPI{}
	a, _ := newTestApp(t, api, "")
	assert.False(t, a.isLoggedIn())

	signIn(t, a, api)
	assert.True(t, a.isLoggedIn())
}

func TestSetMode_ChangesAndPrintsOnce(t *testing.T) {
	a, out := newTestApp(t, &fakeAPI{}, "")

	a.setMode(ModeOnline)
	assert.Equal(t, ModeOnline, a.Mode())
	assert.Equal(t, 1, strings.Count(out.String(), "Switched to online mode"))

	a.setMode(ModeOnline)
	assert.Equal(t, 1, strings.Count(out.String(), "Switched to"), "no output when mode doesn't change")

	a.setMode(ModeOffline)
	assert.Equal(t, ModeOffline, a.Mode())
	assert.Contains(t, out.String(), "Switched to offline mode")
}

func TestGetStatus(t *testing.T) {
	api := &fakeAPI{}
	a, _ := newTestApp(t, api, "")
	assert.Equal(t, "", a.getStatus())

	a.setMode(ModeOffline)
	assert.Equal(t, "(offline)", a.getStatus())

	signIn(t, a, api)
	assert.Equal(t, "(Ann offline)", a.getStatus())
}

func TestNotifyAndNavigate(t *testing.T) {
	a, out := newTestApp(t, &fakeAPI{}, "")
	ctx := context.Background()

	a.Notify(ctx, ui.Notification{Kind: ui.KindInfo, Title: "Logged out", Message: "bye"})
	assert.Contains(t, out.String(), "[info] Logged out: bye")

	a.Navigate(ctx, ui.RouteSignIn)
	a.Navigate(ctx, ui.RouteSignIn)
	assert.Equal(t, ui.RouteSignIn, a.Screen())
	assert.Equal(t, 1, strings.Count(out.String(), "Please sign in"))
}

func TestStartOnlineStatusWatcher(t *testing.T) {
	api := &fakeAPI{}
	a, _ := newTestApp(t, api, "")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		a.StartOnlineStatusWatcher(ctx, time.Millisecond)
		close(done)
	}()

	require.Eventually(t, func() bool { return a.Mode() == ModeOnline }, time.Second, time.Millisecond)

	api.setPingErr(errors.New("down"))
	require.Eventually(t, func() bool { return a.Mode() == ModeOffline }, time.Second, time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestRun_RestoresSessionAndExits(t *testing.T) {
	capturePrintln(t)

	api := &fakeAPI{}
	store := credentials.NewMemoryRepository()
	require.NoError(t, store.Save(context.Background(), credentials.Credentials{
		AccessToken:  "acc",
		RefreshToken: "ref",
		User:         []byte(`{"_id":"u1","name":"Ann","email":"ann@example.com","is_active":true}`),
	}))

	out := &syncBuffer{}
	a := newApp(testConfig(), logging.Discard(), api, store, strings.NewReader("status\nexit\n"), out)

	a.Run(context.Background())

	assert.True(t, a.isLoggedIn())
	assert.Equal(t, ui.RouteDashboard, a.Screen())
	assert.Contains(t, out.String(), "Session: signed in as Ann <ann@example.com>")
	assert.True(t, api.closed)
}

func TestRun_SignedOutLandsOnSignIn(t *testing.T) {
	capturePrintln(t)

	api := &fakeAPI{}
	out := &syncBuffer{}
	a := newApp(testConfig(), logging.Discard(), api, credentials.NewMemoryRepository(), strings.NewReader(""), out)

	a.Run(context.Background())

	assert.Equal(t, ui.RouteSignIn, a.Screen())
	assert.Contains(t, out.String(), "Please sign in")
}

func TestOpenStore(t *testing.T) {
	ctx := context.Background()

	store, db, err := openStore(ctx, "")
	require.NoError(t, err)
	assert.Nil(t, db)
	assert.IsType(t, &credentials.MemoryRepository{}, store)

	store, db, err = openStore(ctx, t.TempDir()+"/nested/resumefit.db")
	require.NoError(t, err)
	require.NotNil(t, db)
	t.Cleanup(func() { _ = db.Close() })
	assert.IsType(t, &credentials.SQLiteRepository{}, store)
}
