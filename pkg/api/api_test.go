package api_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"taskboard/pkg/api"
	"taskboard/pkg/auth"
	"taskboard/pkg/client"
	"taskboard/pkg/model"
	"taskboard/pkg/store"
)

type testEnv struct {
	srv   *httptest.Server
	store *store.GormStore
	auth  *auth.Manager
}

func newTestEnv(t *testing.T, limiter *api.IPLimiter) *testEnv {
	t.Helper()
	dsn := fmt.Sprintf("file:api_%s?mode=memory&cache=shared", t.Name())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, gdb.AutoMigrate(&model.User{}, &model.Task{}, &model.AuditEntry{}))

	st := store.NewGormStore(gdb)
	am := auth.NewManager("test-secret", time.Hour)
	srv := httptest.NewServer(api.New(st, am, limiter).Handler())
	t.Cleanup(srv.Close)
	return &testEnv{srv: srv, store: st, auth: am}
}

// registerAndLogin creates a USER account through the API and returns a
// logged-in client for it.
func (e *testEnv) registerAndLogin(t *testing.T, username string) *client.Client {
	t.Helper()
	c := client.New(e.srv.URL)
	require.NoError(t, c.Register(username, username+"@example.com", "pw-"+username))
	_, err := c.Login(username, "pw-"+username)
	require.NoError(t, err)
	return c
}

// loginAdmin seeds an ADMIN directly in the store (registration never
// grants the role) and logs in through the API.
func (e *testEnv) loginAdmin(t *testing.T, username string) *client.Client {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("pw-"+username), bcrypt.DefaultCost)
	require.NoError(t, err)
	_, err = e.store.CreateUser(model.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: string(hash),
		Role:         model.RoleAdmin,
	})
	require.NoError(t, err)

	c := client.New(e.srv.URL)
	_, err = c.Login(username, "pw-"+username)
	require.NoError(t, err)
	return c
}

func apiStatus(t *testing.T, err error) int {
	t.Helper()
	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	return apiErr.Status
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	e := newTestEnv(t, nil)
	c := client.New(e.srv.URL)
	require.NoError(t, c.Register("alice", "alice@example.com", "secret"))

	// Same username, different email.
	err := c.Register("alice", "fresh@example.com", "secret")
	assert.Equal(t, http.StatusBadRequest, apiStatus(t, err))

	// Same email, different username.
	err = c.Register("fresh", "alice@example.com", "secret")
	assert.Equal(t, http.StatusBadRequest, apiStatus(t, err))
}

func TestRegisterRequiresAllFields(t *testing.T) {
	e := newTestEnv(t, nil)
	c := client.New(e.srv.URL)
	for _, args := range [][3]string{
		{"", "a@example.com", "pw"},
		{"a", "", "pw"},
		{"a", "a@example.com", ""},
	} {
		err := c.Register(args[0], args[1], args[2])
		assert.Equal(t, http.StatusBadRequest, apiStatus(t, err))
	}
}

func TestLoginFailures(t *testing.T) {
	e := newTestEnv(t, nil)
	c := client.New(e.srv.URL)
	require.NoError(t, c.Register("alice", "alice@example.com", "secret"))

	_, err := c.Login("nobody", "secret")
	assert.Equal(t, http.StatusBadRequest, apiStatus(t, err))

	_, err = c.Login("alice", "wrong")
	assert.Equal(t, http.StatusBadRequest, apiStatus(t, err))
}

func TestLoginReturnsTokenAndRole(t *testing.T) {
	e := newTestEnv(t, nil)
	c := client.New(e.srv.URL)
	require.NoError(t, c.Register("alice", "alice@example.com", "secret"))

	role, err := c.Login("alice", "secret")
	require.NoError(t, err)
	assert.Equal(t, model.RoleUser, role)
	require.NotEmpty(t, c.Token)

	ident, err := e.auth.Parse(c.Token)
	require.NoError(t, err)
	assert.Equal(t, model.RoleUser, ident.Role)
}

func TestMe(t *testing.T) {
	e := newTestEnv(t, nil)
	c := e.registerAndLogin(t, "alice")

	user, err := c.Me()
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.Equal(t, model.RoleUser, user.Role)
}

func TestUnauthenticatedListLeaksNothing(t *testing.T) {
	e := newTestEnv(t, nil)
	seeded := e.registerAndLogin(t, "alice")
	_, err := seeded.CreateTask("hidden from strangers")
	require.NoError(t, err)

	resp, err := http.Get(e.srv.URL + "/tasks")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	buf := make([]byte, 4096)
	n, _ := resp.Body.Read(buf)
	assert.NotContains(t, string(buf[:n]), "hidden from strangers")
}

func TestBadTokenIsForbidden(t *testing.T) {
	e := newTestEnv(t, nil)

	req, err := http.NewRequest(http.MethodGet, e.srv.URL+"/tasks", nil)
	require.NoError(t, err)
	req.AddCookie(&http.Cookie{Name: "token", Value: "bogus"})
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestTaskLifecycle(t *testing.T) {
	e := newTestEnv(t, nil)
	alice := e.registerAndLogin(t, "alice")
	bob := e.registerAndLogin(t, "bob")
	admin := e.loginAdmin(t, "root")

	// Alice creates a task; it appears at the head of the list with her
	// as owner.
	created, err := alice.CreateTask("Buy milk")
	require.NoError(t, err)
	assert.Equal(t, "Buy milk", created.Title)
	assert.Equal(t, "alice", created.User.Username)
	assert.False(t, created.EditedByAdmin)

	tasks, err := bob.Tasks()
	require.NoError(t, err)
	require.NotEmpty(t, tasks)
	assert.Equal(t, created.ID, tasks[0].ID)

	// Bob is neither owner nor admin.
	_, err = bob.UpdateTask(created.ID, "Bob was here")
	assert.Equal(t, http.StatusForbidden, apiStatus(t, err))
	err = bob.DeleteTask(created.ID)
	assert.Equal(t, http.StatusForbidden, apiStatus(t, err))

	// Admin override: edit succeeds and marks the task.
	updated, err := admin.UpdateTask(created.ID, "Buy oat milk")
	require.NoError(t, err)
	assert.Equal(t, "Buy oat milk", updated.Title)
	assert.True(t, updated.EditedByAdmin)
	assert.Equal(t, "alice", updated.User.Username)

	// The owner's later edit keeps the admin marker.
	updated, err = alice.UpdateTask(created.ID, "Buy soy milk")
	require.NoError(t, err)
	assert.True(t, updated.EditedByAdmin)

	// Owner deletes; the task is gone from the list and directly.
	require.NoError(t, alice.DeleteTask(created.ID))
	tasks, err = alice.Tasks()
	require.NoError(t, err)
	for _, task := range tasks {
		assert.NotEqual(t, created.ID, task.ID)
	}
	_, err = alice.UpdateTask(created.ID, "ghost")
	assert.Equal(t, http.StatusNotFound, apiStatus(t, err))
}

func TestCreateTaskRequiresTitle(t *testing.T) {
	e := newTestEnv(t, nil)
	alice := e.registerAndLogin(t, "alice")

	_, err := alice.CreateTask("")
	assert.Equal(t, http.StatusBadRequest, apiStatus(t, err))
}

func TestUpdateValidatesBeforeAuthorizing(t *testing.T) {
	e := newTestEnv(t, nil)
	alice := e.registerAndLogin(t, "alice")
	bob := e.registerAndLogin(t, "bob")

	created, err := alice.CreateTask("mine")
	require.NoError(t, err)

	// Missing title wins over the ownership check.
	_, err = bob.UpdateTask(created.ID, "")
	assert.Equal(t, http.StatusBadRequest, apiStatus(t, err))
}

func TestLogoutClearsCookie(t *testing.T) {
	e := newTestEnv(t, nil)
	alice := e.registerAndLogin(t, "alice")

	require.NoError(t, alice.Logout())
	assert.Empty(t, alice.Token)

	// The jar now holds an expired cookie, so the gate sees no token.
	_, err := alice.Tasks()
	assert.Equal(t, http.StatusUnauthorized, apiStatus(t, err))
}

func TestAuditAdminOnly(t *testing.T) {
	e := newTestEnv(t, nil)
	alice := e.registerAndLogin(t, "alice")
	admin := e.loginAdmin(t, "root")

	_, err := alice.CreateTask("tracked")
	require.NoError(t, err)

	_, err = alice.Audit(10)
	assert.Equal(t, http.StatusForbidden, apiStatus(t, err))

	entries, err := admin.Audit(10)
	require.NoError(t, err)
	require.NotEmpty(t, entries)

	actions := make(map[string]bool)
	for _, entry := range entries {
		actions[entry.Action] = true
	}
	assert.True(t, actions["task_create"])
	assert.True(t, actions["register"])
}

func TestLoginRateLimit(t *testing.T) {
	e := newTestEnv(t, api.NewIPLimiter(0.01, 2))
	c := client.New(e.srv.URL)
	require.NoError(t, c.Register("alice", "alice@example.com", "secret"))

	for i := 0; i < 2; i++ {
		_, err := c.Login("alice", "wrong")
		assert.Equal(t, http.StatusBadRequest, apiStatus(t, err))
	}
	_, err := c.Login("alice", "secret")
	assert.Equal(t, http.StatusTooManyRequests, apiStatus(t, err))
}
