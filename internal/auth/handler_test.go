package auth

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/2beens/gymprofile/internal/telemetry/metrics"

	"github.com/go-redis/redis_rate/v9"
	"github.com/go-redis/redismock/v8"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testRequestRateLimiter struct {
	remaining int
}

func (l *testRequestRateLimiter) Allow(_ context.Context, _ string, limit redis_rate.Limit) (*redis_rate.Result, error) {
	res := &redis_rate.Result{Limit: limit}
	if l.remaining > 0 {
		res.Allowed = 1
		l.remaining--
	}
	return res, nil
}

func TestHandler_LoginLogout(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()

	authService := NewAuthService(testAdmin, time.Hour, db)
	authService.RandStringFunc = func(s int) (string, error) {
		return "tkn", nil
	}
	loggedIn := make(chan string, 1)
	authService.OnLogin(func(_ context.Context, userID string) {
		loggedIn <- userID
	})

	metricsManager := metrics.NewTestManager()
	r := mux.NewRouter()
	NewHandler(authService, "v1", metricsManager).SetupRoutes(r, &testRequestRateLimiter{remaining: 10}, 10)

	mock.Regexp().ExpectSet(sessionKeyPrefix+"tkn", `\d+`, 0).SetVal("OK")
	mock.ExpectSAdd(tokensSetKey, "tkn").SetVal(1)

	form := url.Values{}
	form.Add("username", testUsername)
	form.Add("password", testPassword)
	req := httptest.NewRequest("POST", "/a/login", strings.NewReader(form.Encode()))
	req.Header.Add("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.JSONEq(t, `{"token": "tkn"}`, rr.Body.String())
	assert.Equal(t, testUsername, <-loggedIn)
	assert.Equal(t, float64(1), testutil.ToFloat64(metricsManager.CounterLogins))

	// json body with a wrong password
	req = httptest.NewRequest("POST", "/a/login", strings.NewReader(`{"username":"testuser","password":"nope"}`))
	req.Header.Add("Content-Type", "application/json")
	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "wrong credentials")

	mock.ExpectGet(sessionKeyPrefix + "tkn").SetVal(fmt.Sprintf("%d", time.Now().Unix()))
	mock.ExpectDel(sessionKeyPrefix + "tkn").SetVal(1)
	mock.ExpectSRem(tokensSetKey, "tkn").SetVal(1)
	req = httptest.NewRequest("GET", "/a/logout", nil)
	req.Header.Add("X-SERJ-TOKEN", "tkn")
	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "logged-out", rr.Body.String())

	req = httptest.NewRequest("GET", "/a/logout", nil)
	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_LoginRateLimited(t *testing.T) {
	db, _ := redismock.NewClientMock()
	defer db.Close()

	metricsManager := metrics.NewTestManager()
	r := mux.NewRouter()
	NewHandler(NewAuthService(testAdmin, time.Hour, db), "v1", metricsManager).
		SetupRoutes(r, &testRequestRateLimiter{remaining: 0}, 1)

	req := httptest.NewRequest("POST", "/a/login", strings.NewReader(`{}`))
	req.Header.Add("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusTooEarly, rr.Code)
	assert.Equal(t, float64(1), testutil.ToFloat64(metricsManager.CounterRateLimitedRequests))

	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest("GET", "/version", nil))
	assert.Equal(t, "v1", rr.Body.String())
}
