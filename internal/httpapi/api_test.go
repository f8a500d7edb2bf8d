package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/voxlive/vox-backend/internal/auth"
	"github.com/voxlive/vox-backend/internal/mailer"
	"github.com/voxlive/vox-backend/internal/store"
)

type testEnv struct {
	handler http.Handler
	store   *store.Store
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "opening in-memory sqlite")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	st, err := store.New(db)
	require.NoError(t, err)

	api := New(st, auth.New("test-secret", 24), mailer.Discard{}, "http://localhost:3000", zap.NewNop())
	ws := func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNotImplemented) }
	return &testEnv{handler: api.Routes(ws), store: st}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

// register creates an account and returns its bearer token.
func (e *testEnv) register(t *testing.T, name, email string) string {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/users", "", map[string]string{
		"name": name, "email": email, "password": "hunter2",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	resp := decodeBody[map[string]any](t, rec)
	token, _ := resp["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestRegisterLoginFlow(t *testing.T) {
	env := setupTestEnv(t)

	env.register(t, "Ana", "ana@example.com")

	// Duplicate email is rejected.
	rec := env.do(t, http.MethodPost, "/users", "", map[string]string{
		"name": "Other", "email": "ana@example.com", "password": "x",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPost, "/users/login", "", map[string]string{
		"email": "ana@example.com", "password": "hunter2",
	})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodPost, "/users/login", "", map[string]string{
		"email": "ana@example.com", "password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.do(t, http.MethodPost, "/users/login", "", map[string]string{
		"email": "nobody@example.com", "password": "x",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProtectedRoutesNeedAToken(t *testing.T) {
	env := setupTestEnv(t)

	for _, path := range []string{"/users/me", "/groups", "/groups/views/leaves"} {
		rec := env.do(t, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
	}

	rec := env.do(t, http.MethodGet, "/users/me", "garbage-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestEmailValidationFlow(t *testing.T) {
	env := setupTestEnv(t)
	token := env.register(t, "Ana", "ana@example.com")

	rec := env.do(t, http.MethodGet, "/users/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	me := decodeBody[map[string]any](t, rec)
	assert.Equal(t, false, me["emailValid"])

	// The registration token doubles as the validation link's token.
	rec = env.do(t, http.MethodGet, "/users/validate/"+token, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")

	rec = env.do(t, http.MethodGet, "/users/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	me = decodeBody[map[string]any](t, rec)
	assert.Equal(t, true, me["emailValid"])

	// Validating again reports the account as already validated.
	rec = env.do(t, http.MethodGet, "/users/validate/"+token, "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGroupCRUDAndViews(t *testing.T) {
	env := setupTestEnv(t)
	token := env.register(t, "Ana", "ana@example.com")

	rec := env.do(t, http.MethodPost, "/groups", token, map[string]any{"name": "Root"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	root := decodeBody[map[string]any](t, rec)
	rootID, _ := root["id"].(string)
	require.NotEmpty(t, rootID)

	rec = env.do(t, http.MethodPost, "/groups", token, map[string]any{"name": "Child", "parent": rootID})
	require.Equal(t, http.StatusCreated, rec.Code)
	child := decodeBody[map[string]any](t, rec)
	childID, _ := child["id"].(string)

	// Unknown parent is rejected.
	rec = env.do(t, http.MethodPost, "/groups", token, map[string]any{"name": "X", "parent": "missing"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// One participant in Child, none in Root.
	rec = env.do(t, http.MethodPost, "/participants", token, map[string]any{"name": "Ana", "group": childID})
	require.Equal(t, http.StatusCreated, rec.Code)

	type view struct {
		ID         string `json:"id"`
		Name       string `json:"name"`
		Parent     string `json:"parent"`
		IsSubgroup bool   `json:"isSubgroup"`
	}

	rec = env.do(t, http.MethodGet, "/groups/views/leaves", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	leaves := decodeBody[[]view](t, rec)
	require.Len(t, leaves, 1)
	assert.Equal(t, childID, leaves[0].ID)
	assert.Equal(t, "Root", leaves[0].Parent)
	assert.True(t, leaves[0].IsSubgroup)

	rec = env.do(t, http.MethodGet, "/groups/views/without-participants", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	empty := decodeBody[[]view](t, rec)
	require.Len(t, empty, 1)
	assert.Equal(t, rootID, empty[0].ID)

	rec = env.do(t, http.MethodGet, "/groups/views/with-participants", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	populated := decodeBody[[]view](t, rec)
	require.Len(t, populated, 1)
	assert.Equal(t, childID, populated[0].ID)

	rec = env.do(t, http.MethodGet, "/groups/"+rootID+"/subgroups", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	subs := decodeBody[[]view](t, rec)
	require.Len(t, subs, 1)

	rec = env.do(t, http.MethodDelete, "/groups/"+childID, token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = env.do(t, http.MethodGet, "/groups/"+childID, token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestVoteAndResult(t *testing.T) {
	env := setupTestEnv(t)
	token := env.register(t, "Ana", "ana@example.com")

	rec := env.do(t, http.MethodPost, "/groups", token, map[string]any{"name": "Finals"})
	require.Equal(t, http.StatusCreated, rec.Code)
	groupID, _ := decodeBody[map[string]any](t, rec)["id"].(string)

	var ids []string
	for _, name := range []string{"Bia", "Caio", "Ana"} {
		rec = env.do(t, http.MethodPost, "/participants", token, map[string]any{"name": name, "group": groupID})
		require.Equal(t, http.StatusCreated, rec.Code)
		id, _ := decodeBody[map[string]any](t, rec)["id"].(string)
		ids = append(ids, id)
	}
	bia, caio := ids[0], ids[1]

	// Bia and Caio tie on 3 votes each, Ana has none.
	for i := 0; i < 3; i++ {
		rec = env.do(t, http.MethodPost, "/votes", token, map[string]string{"participant": bia})
		require.Equal(t, http.StatusCreated, rec.Code)
		rec = env.do(t, http.MethodPost, "/votes", token, map[string]string{"participant": caio})
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec = env.do(t, http.MethodPost, "/votes", token, map[string]string{"participant": "missing"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	type result struct {
		Group struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"group"`
		Participants []struct {
			Name  string `json:"name"`
			Votes int    `json:"votes"`
		} `json:"participants"`
	}

	rec = env.do(t, http.MethodGet, "/groups/"+groupID+"/result", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	res := decodeBody[result](t, rec)
	assert.Equal(t, "Finals", res.Group.Name)
	require.Len(t, res.Participants, 3)
	assert.Equal(t, "Bia", res.Participants[0].Name)
	assert.Equal(t, 3, res.Participants[0].Votes)
	assert.Equal(t, "Caio", res.Participants[1].Name)
	assert.Equal(t, "Ana", res.Participants[2].Name)
	assert.Equal(t, 0, res.Participants[2].Votes)

	rec = env.do(t, http.MethodGet, "/groups/missing/result", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// A group without participants yields an empty list, not an error.
	rec = env.do(t, http.MethodPost, "/groups", token, map[string]any{"name": "Empty"})
	require.Equal(t, http.StatusCreated, rec.Code)
	emptyID, _ := decodeBody[map[string]any](t, rec)["id"].(string)

	rec = env.do(t, http.MethodGet, "/groups/"+emptyID+"/result", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	res = decodeBody[result](t, rec)
	assert.NotNil(t, res.Participants)
	assert.Empty(t, res.Participants)
}

func TestParticipantUpdateAndListing(t *testing.T) {
	env := setupTestEnv(t)
	token := env.register(t, "Ana", "ana@example.com")

	rec := env.do(t, http.MethodPost, "/groups", token, map[string]any{"name": "G"})
	require.Equal(t, http.StatusCreated, rec.Code)
	groupID, _ := decodeBody[map[string]any](t, rec)["id"].(string)

	rec = env.do(t, http.MethodPost, "/participants", token, map[string]any{"name": "Ana", "group": groupID})
	require.Equal(t, http.StatusCreated, rec.Code)
	pid, _ := decodeBody[map[string]any](t, rec)["id"].(string)

	rec = env.do(t, http.MethodPatch, "/participants/"+pid, token, map[string]string{"name": "Ana Maria"})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodGet, "/participants/"+pid, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decodeBody[map[string]any](t, rec)
	assert.Equal(t, "Ana Maria", got["name"])

	rec = env.do(t, http.MethodGet, "/groups/"+groupID+"/participants", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decodeBody[[]map[string]any](t, rec)
	assert.Len(t, list, 1)

	// Creating a participant in an unknown group fails.
	rec = env.do(t, http.MethodPost, "/participants", token, map[string]any{"name": "X", "group": "missing"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
