package handler

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/passforge/passforge-go/internal/crypto"
	"github.com/passforge/passforge-go/internal/generator"
	"github.com/passforge/passforge-go/internal/middleware"
	"github.com/passforge/passforge-go/internal/model"
	"github.com/passforge/passforge-go/internal/repository"
	"github.com/passforge/passforge-go/internal/service"
)

type testServer struct {
	handler http.Handler
	mock    sqlmock.Sqlmock
	token   string
}

func newTestServer(t *testing.T, withDB bool) *testServer {
	t.Helper()

	gen := generator.NewGenerator(generator.WithSource(generator.NewSeededSource(3)))
	genSvc := service.NewGeneratorService(gen)
	tokens := crypto.NewTokenIssuer("test-secret", time.Hour)

	rt := Routes{
		Generator: NewGeneratorHandler(genSvc),
		Tokens:    tokens,
		Limiter:   middleware.NewRateLimiter(1000, 1000),
	}

	ts := &testServer{}
	if withDB {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		t.Cleanup(func() {
			assert.NoError(t, mock.ExpectationsWereMet())
			db.Close()
		})

		hasher := crypto.NewHasher(crypto.HashParams{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 8, KeyLength: 16})
		rt.Auth = NewAuthHandler(service.NewAuthService(repository.NewUserRepository(db), hasher, tokens))
		rt.Presets = NewPresetHandler(service.NewPresetService(repository.NewPresetRepository(db), genSvc))

		ts.mock = mock
		ts.token, err = tokens.Issue(1)
		require.NoError(t, err)
	}

	ts.handler = NewRouter(rt)
	return ts
}

func (ts *testServer) do(method, path, body string, auth bool) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	if auth {
		req.Header.Set("Authorization", "Bearer "+ts.token)
	}
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, false)
	rec := ts.do(http.MethodGet, "/health", "", false)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestHandleGenerate(t *testing.T) {
	ts := newTestServer(t, false)

	rec := ts.do(http.MethodPost, "/api/v1/generate",
		`{"length": 8, "lowercase": true, "uppercase": true, "numbers": true, "symbols": false}`, false)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	resp := decodeBody[model.GenerateResponse](t, rec)
	assert.Equal(t, 8, resp.Length)
	assert.Len(t, resp.Password, 8)
	assert.Equal(t, 62, resp.AlphabetSize)
	for _, c := range resp.Password {
		assert.Contains(t, generator.BuildAlphabet(generator.Selection{Lowercase: true, Uppercase: true, Numbers: true}), string(c))
	}
}

func TestHandleGenerateErrors(t *testing.T) {
	ts := newTestServer(t, false)

	tests := []struct {
		name    string
		body    string
		status  int
		message string
	}{
		{"empty body", "", http.StatusBadRequest, "length is required"},
		{"missing length", `{"uppercase": true}`, http.StatusBadRequest, "length is required"},
		{"non-numeric", `{"length": "eight"}`, http.StatusBadRequest, "length must be a number"},
		{"zero", `{"length": 0}`, http.StatusBadRequest, "at least 4"},
		{"negative", `{"length": -1}`, http.StatusBadRequest, "at least 4"},
		{"too long", `{"length": 17}`, http.StatusBadRequest, "at most 16"},
		{"no classes", `{"length": 8, "lowercase": false}`, http.StatusBadRequest, generator.ErrEmptyAlphabet.Error()},
		{"malformed json", `{"length":`, http.StatusBadRequest, "invalid request body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := ts.do(http.MethodPost, "/api/v1/generate", tt.body, false)

			assert.Equal(t, tt.status, rec.Code)
			assert.Contains(t, decodeBody[map[string]string](t, rec)["error"], tt.message)
		})
	}
}

func TestHandleGenerateIntegralForms(t *testing.T) {
	ts := newTestServer(t, false)

	for body, want := range map[string]int{
		`{"length": 8.0}`:  8,
		`{"length": 1e1}`:  10,
		`{"length": "12"}`: 12,
	} {
		rec := ts.do(http.MethodPost, "/api/v1/generate", body, false)
		require.Equal(t, http.StatusOK, rec.Code, body)
		assert.Equal(t, want, decodeBody[model.GenerateResponse](t, rec).Length, body)
	}

	rec := ts.do(http.MethodPost, "/api/v1/generate", `{"length": "99999999999999999999"}`, false)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeBody[map[string]string](t, rec)["error"], "at most 16")
}

func TestRateLimitIgnoresForwardedFor(t *testing.T) {
	gen := generator.NewGenerator()
	h := NewRouter(Routes{
		Generator: NewGeneratorHandler(service.NewGeneratorService(gen)),
		Tokens:    crypto.NewTokenIssuer("test-secret", time.Hour),
		Limiter:   middleware.NewRateLimiter(0.001, 1),
	})

	codes := map[int]int{}
	for i := 0; i < 5; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/generate", strings.NewReader(`{"length": 8}`))
		req.RemoteAddr = "10.0.0.1:4000"
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("203.0.113.%d", i+1))
		req.Header.Set("X-Real-IP", fmt.Sprintf("198.51.100.%d", i+1))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		codes[rec.Code]++
	}

	assert.Equal(t, 1, codes[http.StatusOK])
	assert.Equal(t, 4, codes[http.StatusTooManyRequests])
}

func TestHandleGenerateBodyTooLarge(t *testing.T) {
	ts := newTestServer(t, false)
	body := `{"length": 8, "pad": "` + strings.Repeat("x", maxBodyBytes) + `"}`

	rec := ts.do(http.MethodPost, "/api/v1/generate", body, false)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestHandleOptions(t *testing.T) {
	ts := newTestServer(t, false)

	rec := ts.do(http.MethodGet, "/api/v1/generate/options", "", false)
	require.Equal(t, http.StatusOK, rec.Code)

	opts := decodeBody[model.OptionsResponse](t, rec)
	assert.Equal(t, 4, opts.MinLength)
	assert.Equal(t, 16, opts.MaxLength)
	assert.Len(t, opts.Classes, 4)
	assert.True(t, opts.DefaultSelection.Lowercase)
}

func TestAuthRoutesDisabledWithoutDB(t *testing.T) {
	ts := newTestServer(t, false)

	assert.Equal(t, http.StatusNotFound, ts.do(http.MethodGet, "/api/v1/presets", "", false).Code)
	assert.Equal(t, http.StatusNotFound, ts.do(http.MethodPost, "/api/v1/auth/login", "{}", false).Code)
}

func TestPresetsRequireAuth(t *testing.T) {
	ts := newTestServer(t, true)

	rec := ts.do(http.MethodGet, "/api/v1/presets", "", false)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

var presetCols = []string{
	"id", "user_id", "name", "length", "lowercase", "uppercase", "numbers", "symbols", "created_at", "updated_at",
}

func TestPresetLifecycle(t *testing.T) {
	ts := newTestServer(t, true)
	now := time.Now()

	ts.mock.ExpectExec("INSERT INTO presets").
		WithArgs(int64(1), "pin", 6, false, false, true, false).
		WillReturnResult(sqlmock.NewResult(10, 1))

	rec := ts.do(http.MethodPost, "/api/v1/presets",
		`{"name": "pin", "length": 6, "selection": {"numbers": true}}`, true)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, int64(10), decodeBody[model.PresetResponse](t, rec).ID)

	ts.mock.ExpectQuery("SELECT (.+) FROM presets WHERE id").
		WithArgs(int64(10), int64(1)).
		WillReturnRows(sqlmock.NewRows(presetCols).AddRow(10, 1, "pin", 6, false, false, true, false, now, now))

	rec = ts.do(http.MethodPost, "/api/v1/presets/10/generate", "", true)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	gen := decodeBody[model.GenerateResponse](t, rec)
	assert.Len(t, gen.Password, 6)
	assert.Empty(t, strings.Trim(gen.Password, "0123456789"))

	ts.mock.ExpectExec("DELETE FROM presets").
		WithArgs(int64(10), int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	rec = ts.do(http.MethodDelete, "/api/v1/presets/10", "", true)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	ts.mock.ExpectExec("DELETE FROM presets").WillReturnResult(sqlmock.NewResult(0, 0))
	rec = ts.do(http.MethodDelete, "/api/v1/presets/10", "", true)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPresetValidationErrors(t *testing.T) {
	ts := newTestServer(t, true)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
	}{
		{"empty selection", http.MethodPost, "/api/v1/presets", `{"name": "x", "length": 8}`, http.StatusBadRequest},
		{"bad length", http.MethodPost, "/api/v1/presets", `{"name": "x", "length": 2, "selection": {"lowercase": true}}`, http.StatusBadRequest},
		{"missing name", http.MethodPost, "/api/v1/presets", `{"length": 8, "selection": {"lowercase": true}}`, http.StatusBadRequest},
		{"bad id", http.MethodPut, "/api/v1/presets/abc", `{}`, http.StatusBadRequest},
		{"zero id", http.MethodPost, "/api/v1/presets/0/generate", "", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := ts.do(tt.method, tt.path, tt.body, true)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
		})
	}
}

func TestRegisterAndMe(t *testing.T) {
	ts := newTestServer(t, true)
	now := time.Now()

	ts.mock.ExpectExec("INSERT INTO users").
		WithArgs("new@example.com", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	rec := ts.do(http.MethodPost, "/api/v1/auth/register", `{"email": "new@example.com", "password": "password123"}`, false)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.NotEmpty(t, decodeBody[model.AuthResponse](t, rec).Token)

	rec = ts.do(http.MethodPost, "/api/v1/auth/register", `{"email": "new@example.com", "password": "short"}`, false)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	ts.mock.ExpectQuery("SELECT (.+) FROM users WHERE id").
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "password_hash", "created_at", "updated_at"}).
			AddRow(1, "new@example.com", "hash", now, now))

	rec = ts.do(http.MethodGet, "/api/v1/auth/me", "", true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "new@example.com", decodeBody[model.UserResponse](t, rec).Email)
	assert.NotContains(t, rec.Body.String(), "hash")
}

func TestMeForDeletedAccount(t *testing.T) {
	ts := newTestServer(t, true)

	ts.mock.ExpectQuery("SELECT (.+) FROM users WHERE id").
		WithArgs(int64(1)).
		WillReturnError(sql.ErrNoRows)

	rec := ts.do(http.MethodGet, "/api/v1/auth/me", "", true)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, service.ErrAccountNotFound.Error(), decodeBody[map[string]string](t, rec)["error"])
}
