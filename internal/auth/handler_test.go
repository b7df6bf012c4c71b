package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redmonkez12/account-api/internal/httputil"
	"github.com/redmonkez12/account-api/internal/ratelimit"
	"github.com/redmonkez12/account-api/internal/user"
)

// countingLimiter allows max requests per ip+purpose.
type countingLimiter struct {
	max    int
	counts map[string]int
	err    error
}

func newCountingLimiter(max int) *countingLimiter {
	return &countingLimiter{max: max, counts: map[string]int{}}
}

func (l *countingLimiter) AllowIPRequestWithPurpose(_ context.Context, ip, purpose string) (bool, error) {
	if l.err != nil {
		return false, l.err
	}
	l.counts[purpose+"|"+ip]++
	return l.counts[purpose+"|"+ip] <= l.max, nil
}

func newTestHandler(t *testing.T, limiter RateLimiter) (*Handler, *user.MemoryRepository) {
	t.Helper()
	repo := user.NewMemoryRepository()
	svc, _ := newTestService(t, repo)
	return NewHandler(svc, limiter), repo
}

func post(t *testing.T, h http.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.RemoteAddr = "192.0.2.10:51234"
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body httputil.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Code
}

func TestHandler_Register(t *testing.T) {
	h, _ := newTestHandler(t, ratelimit.Disabled{})

	rec := post(t, h.Register, `{"name":"A","email":"a@x.com","password":"p1"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.NotContains(t, rec.Body.String(), "password")
	assert.NotContains(t, rec.Body.String(), "$2a$")

	var body struct {
		User map[string]any `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, float64(1), body.User["id"])
	assert.Equal(t, "a@x.com", body.User["email"])
	assert.Equal(t, "active", body.User["status"])
	assert.Nil(t, body.User["last_login"])

	rec = post(t, h.Register, `{"name":"B","email":"a@x.com","password":"p2"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, httputil.CodeEmailAlreadyExists, errorCode(t, rec))
}

func TestHandler_Register_BadRequests(t *testing.T) {
	h, _ := newTestHandler(t, ratelimit.Disabled{})

	rec := post(t, h.Register, `{"name":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, httputil.CodeInvalidRequestBody, errorCode(t, rec))

	rec = post(t, h.Register, `{"name":"A","email":"nope","password":"p1"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, httputil.CodeInvalidInput, errorCode(t, rec))
}

func TestHandler_Login(t *testing.T) {
	h, repo := newTestHandler(t, ratelimit.Disabled{})

	require.Equal(t, http.StatusCreated, post(t, h.Register, `{"name":"A","email":"a@x.com","password":"p1"}`).Code)

	rec := post(t, h.Login, `{"email":"a@x.com","password":"p1"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var res LoginResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, int64(1), res.User.ID)
	assert.Equal(t, "A", res.User.Name)

	wrong := post(t, h.Login, `{"email":"a@x.com","password":"bad"}`)
	unknown := post(t, h.Login, `{"email":"z@x.com","password":"p1"}`)
	assert.Equal(t, http.StatusUnauthorized, wrong.Code)
	assert.Equal(t, http.StatusUnauthorized, unknown.Code)
	assert.JSONEq(t, wrong.Body.String(), unknown.Body.String())

	_, err := repo.UpdateStatus(context.Background(), []int64{1}, user.StatusBlocked)
	require.NoError(t, err)

	rec = post(t, h.Login, `{"email":"a@x.com","password":"p1"}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, httputil.CodeAccountBlocked, errorCode(t, rec))

	rec = post(t, h.Login, `[]`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_RateLimited(t *testing.T) {
	limiter := newCountingLimiter(2)
	h, _ := newTestHandler(t, limiter)

	for i := 0; i < 2; i++ {
		rec := post(t, h.Login, `{"email":"a@x.com","password":"p1"}`)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	}

	rec := post(t, h.Login, `{"email":"a@x.com","password":"p1"}`)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, httputil.CodeTooManyRequests, errorCode(t, rec))
	assert.Equal(t, 3, limiter.counts["login|192.0.2.10"])

	// register has its own budget
	rec = post(t, h.Register, `{"name":"A","email":"a@x.com","password":"p1"}`)
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestHandler_RateLimiterFailureFailsOpen(t *testing.T) {
	limiter := newCountingLimiter(0)
	limiter.err = errBoom{}
	h, _ := newTestHandler(t, limiter)

	rec := post(t, h.Register, `{"name":"A","email":"a@x.com","password":"p1"}`)
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestGetClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	req.RemoteAddr = "203.0.113.5:1234"
	assert.Equal(t, "203.0.113.5", getClientIP(req))

	req.RemoteAddr = "[2001:db8::1]:443"
	assert.Equal(t, "2001:db8::1", getClientIP(req))

	req.RemoteAddr = "203.0.113.5"
	assert.Equal(t, "203.0.113.5", getClientIP(req))
}
