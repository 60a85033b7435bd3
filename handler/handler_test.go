package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/kochabx/campus/auth"
	"github.com/kochabx/campus/auth/revoke"
	"github.com/kochabx/campus/model"
	"github.com/kochabx/campus/repository"
)

const testInviteCode = "campus-admin-invite"

func init() {
	gin.SetMode(gin.TestMode)
}

func testServer(t *testing.T) *gin.Engine {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "campus.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, model.Migrate(db))
	require.NoError(t, model.SeedRoles(db))

	issuer, err := auth.NewIssuer(&auth.TokenConfig{
		Secret:   "handler-test-secret-1234",
		TokenTTL: 3600,
		Issuer:   "campus-test",
	})
	require.NoError(t, err)

	sessions := auth.NewSessions(issuer, revoke.NewMemoryStore(2*time.Hour))
	users := repository.NewUserRepo(db)

	return NewRouter(RouterConfig{
		Auth:     NewAuthHandler(users, sessions, testInviteCode),
		Users:    NewUserHandler(users, sessions),
		Sessions: sessions,
	})
}

type request struct {
	method string
	path   string
	body   any
	token  string
	agent  string
}

func do(t *testing.T, engine *gin.Engine, r request) *httptest.ResponseRecorder {
	t.Helper()

	var body *bytes.Buffer
	if r.body != nil {
		raw, err := json.Marshal(r.body)
		require.NoError(t, err)
		body = bytes.NewBuffer(raw)
	} else {
		body = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(r.method, r.path, body)
	req.Header.Set("Content-Type", "application/json")
	if r.token != "" {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}
	if r.agent == "" {
		r.agent = "campus-test/1.0"
	}
	req.Header.Set("User-Agent", r.agent)

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func registerBody(handle, role string) map[string]any {
	return map[string]any{
		"handle":     handle,
		"email":      handle + "@campus.test",
		"password":   "correct horse battery",
		"role":       role,
		"first_name": "Test",
		"last_name":  "User",
	}
}

func register(t *testing.T, engine *gin.Engine, handle, role string) {
	t.Helper()
	w := do(t, engine, request{method: http.MethodPost, path: "/auth/register", body: registerBody(handle, role)})
	require.Equal(t, http.StatusCreated, w.Code, "register %s: %s", handle, w.Body.String())
}

func registerAdmin(t *testing.T, engine *gin.Engine, handle string) {
	t.Helper()
	body := registerBody(handle, "admin")
	body["invite_code"] = testInviteCode
	w := do(t, engine, request{method: http.MethodPost, path: "/auth/register", body: body})
	require.Equal(t, http.StatusCreated, w.Code, "register admin %s: %s", handle, w.Body.String())
}

func login(t *testing.T, engine *gin.Engine, handle, agent string) string {
	t.Helper()
	w := do(t, engine, request{
		method: http.MethodPost,
		path:   "/auth/login",
		body:   map[string]string{"handle": handle, "password": "correct horse battery"},
		agent:  agent,
	})
	require.Equal(t, http.StatusOK, w.Code, "login %s: %s", handle, w.Body.String())

	var resp struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Data.Token)
	return resp.Data.Token
}

func TestRegister(t *testing.T) {
	engine := testServer(t)

	w := do(t, engine, request{method: http.MethodPost, path: "/auth/register", body: registerBody("alice", "student")})
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"handle":"alice"`)
}

func TestRegisterValidation(t *testing.T) {
	engine := testServer(t)

	short := registerBody("bob", "student")
	short["password"] = "short"

	unknownField := registerBody("bob", "student")
	unknownField["is_admin"] = true

	cases := []struct {
		name string
		body map[string]any
		want int
	}{
		{"missing email", map[string]any{"handle": "bob", "password": "correct horse battery", "role": "student", "first_name": "T", "last_name": "U"}, http.StatusBadRequest},
		{"short password", short, http.StatusBadRequest},
		{"unknown role", registerBody("bob", "superuser"), http.StatusBadRequest},
		{"unknown field", unknownField, http.StatusBadRequest},
		// Handles feed the revocation store's key scheme and must stay
		// alphanumeric.
		{"separator in handle", registerBody("a:b", "student"), http.StatusBadRequest},
		{"wildcard in handle", registerBody("ali*ce", "student"), http.StatusBadRequest},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := do(t, engine, request{method: http.MethodPost, path: "/auth/register", body: tc.body})
			assert.Equal(t, tc.want, w.Code, w.Body.String())
		})
	}
}

func TestRegisterDuplicate(t *testing.T) {
	engine := testServer(t)
	register(t, engine, "alice", "student")

	w := do(t, engine, request{method: http.MethodPost, path: "/auth/register", body: registerBody("alice", "student")})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "user already exists")

	// Same email under a different handle is also taken.
	body := registerBody("alice2", "student")
	body["email"] = "alice@campus.test"
	w = do(t, engine, request{method: http.MethodPost, path: "/auth/register", body: body})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRegisterAdminInviteCode(t *testing.T) {
	engine := testServer(t)

	w := do(t, engine, request{method: http.MethodPost, path: "/auth/register", body: registerBody("eve", "admin")})
	assert.Equal(t, http.StatusForbidden, w.Code)

	bad := registerBody("eve", "admin")
	bad["invite_code"] = "guessed"
	w = do(t, engine, request{method: http.MethodPost, path: "/auth/register", body: bad})
	assert.Equal(t, http.StatusForbidden, w.Code)

	registerAdmin(t, engine, "root")
}

func TestLoginInvalidCredentials(t *testing.T) {
	engine := testServer(t)
	register(t, engine, "alice", "student")

	// Unknown handle and wrong password answer identically.
	var bodies []string
	for _, creds := range []map[string]string{
		{"handle": "nobody", "password": "correct horse battery"},
		{"handle": "alice", "password": "wrong password"},
	} {
		w := do(t, engine, request{method: http.MethodPost, path: "/auth/login", body: creds})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		bodies = append(bodies, w.Body.String())
	}
	assert.Equal(t, bodies[0], bodies[1])
}

func TestMe(t *testing.T) {
	engine := testServer(t)
	register(t, engine, "alice", "student")
	token := login(t, engine, "alice", "")

	w := do(t, engine, request{method: http.MethodGet, path: "/users/me", token: token})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"handle":"alice"`)
	assert.Contains(t, w.Body.String(), `"first_name":"Test"`)
	// The credential hash never serializes.
	assert.NotContains(t, w.Body.String(), "password")
	assert.NotContains(t, w.Body.String(), "$2a$")

	w = do(t, engine, request{method: http.MethodGet, path: "/users/me"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLoginSupersedesSameDevice(t *testing.T) {
	engine := testServer(t)
	register(t, engine, "alice", "student")

	first := login(t, engine, "alice", "laptop/1.0")
	second := login(t, engine, "alice", "laptop/1.0")

	w := do(t, engine, request{method: http.MethodGet, path: "/users/me", token: first, agent: "laptop/1.0"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "please re-authenticate")

	w = do(t, engine, request{method: http.MethodGet, path: "/users/me", token: second, agent: "laptop/1.0"})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestLoginIndependentDevices(t *testing.T) {
	engine := testServer(t)
	register(t, engine, "alice", "student")

	laptop := login(t, engine, "alice", "laptop/1.0")
	phone := login(t, engine, "alice", "phone/2.0")

	for _, tc := range []struct{ token, agent string }{
		{laptop, "laptop/1.0"},
		{phone, "phone/2.0"},
	} {
		w := do(t, engine, request{method: http.MethodGet, path: "/users/me", token: tc.token, agent: tc.agent})
		assert.Equal(t, http.StatusOK, w.Code)
	}
}

func TestLogout(t *testing.T) {
	engine := testServer(t)
	register(t, engine, "alice", "student")
	token := login(t, engine, "alice", "")

	w := do(t, engine, request{method: http.MethodPost, path: "/auth/logout", token: token})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "successfully logged out")

	// The token is dead from this point on, for every route.
	w = do(t, engine, request{method: http.MethodGet, path: "/users/me", token: token})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w = do(t, engine, request{method: http.MethodPost, path: "/auth/logout", token: token})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestListUsersAdminOnly(t *testing.T) {
	engine := testServer(t)
	registerAdmin(t, engine, "root")
	register(t, engine, "alice", "student")

	adminToken := login(t, engine, "root", "")
	studentToken := login(t, engine, "alice", "")

	w := do(t, engine, request{method: http.MethodGet, path: "/users", token: adminToken})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"handle":"alice"`)
	assert.Contains(t, w.Body.String(), `"handle":"root"`)

	w = do(t, engine, request{method: http.MethodGet, path: "/users", token: studentToken})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = do(t, engine, request{method: http.MethodGet, path: "/users"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestDeleteUser(t *testing.T) {
	engine := testServer(t)
	registerAdmin(t, engine, "root")
	register(t, engine, "alice", "student")

	adminToken := login(t, engine, "root", "")
	studentToken := login(t, engine, "alice", "")

	// Students cannot delete anyone, themselves included.
	w := do(t, engine, request{method: http.MethodDelete, path: "/users/alice", token: studentToken})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = do(t, engine, request{method: http.MethodDelete, path: "/users/alice", token: adminToken})
	assert.Equal(t, http.StatusOK, w.Code)

	// The deleted principal's outstanding token stops working immediately.
	w = do(t, engine, request{method: http.MethodGet, path: "/users/me", token: studentToken})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(t, engine, request{method: http.MethodDelete, path: "/users/alice", token: adminToken})
	assert.Equal(t, http.StatusNotFound, w.Code)
}
