package auth

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redismock/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

var (
	testUsername     = "testuser"
	testPassword     = "testpass"
	testPasswordHash = "$2a$14$6Gmhg85si2etd3K9oB8nYu1cxfbrdmhkg6wI6OXsa88IF4L2r/L9i" // testpass
	testAdmin        = &Admin{
		Username:     testUsername,
		PasswordHash: testPasswordHash,
	}
	testCredentials = Credentials{
		Username: testUsername,
		Password: testPassword,
	}
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		// INFO: https://github.com/go-redis/redis/issues/1029
		goleak.IgnoreTopFunction(
			"github.com/go-redis/redis/v8/internal/pool.(*ConnPool).reaper",
		),
	)
}

func TestAuthService_Login(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()

	authService := NewAuthService(testAdmin, time.Hour, db)
	require.NotNil(t, authService)
	assert.NotNil(t, authService.redisClient)
	assert.Equal(t, time.Hour, authService.ttl)

	testToken := "test_token"
	authService.RandStringFunc = func(s int) (string, error) {
		return testToken, nil
	}

	var hookedUsers []string
	authService.OnLogin(func(_ context.Context, userID string) {
		hookedUsers = append(hookedUsers, userID)
	})

	now := time.Now()
	sessionKey := sessionKeyPrefix + testToken
	mock.ExpectSet(sessionKey, now.Unix(), 0).SetVal("OK")
	mock.ExpectSAdd(tokensSetKey, testToken).SetVal(1)
	token, err := authService.Login(context.Background(), testCredentials, now)
	require.NoError(t, err)
	assert.Equal(t, testToken, token)
	assert.Equal(t, []string{testUsername}, hookedUsers)

	// failed logins do not touch redis nor fire hooks
	token, err = authService.Login(context.Background(), Credentials{
		Username: testUsername,
		Password: "invalid_pass",
	}, now)
	assert.ErrorIs(t, err, ErrWrongPassword)
	assert.Empty(t, token)

	token, err = authService.Login(context.Background(), Credentials{
		Username: "someone",
		Password: testPassword,
	}, now)
	assert.ErrorIs(t, err, ErrWrongPassword)
	assert.Empty(t, token)

	_, err = authService.Login(context.Background(), Credentials{Username: testUsername}, now)
	assert.ErrorIs(t, err, ErrEmptyField)

	assert.Len(t, hookedUsers, 1)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthService_Login_RedisDown(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()

	authService := NewAuthService(testAdmin, time.Hour, db)
	authService.RandStringFunc = func(s int) (string, error) {
		return "tkn", nil
	}
	hooked := false
	authService.OnLogin(func(context.Context, string) { hooked = true })

	now := time.Now()
	mock.ExpectSet(sessionKeyPrefix+"tkn", now.Unix(), 0).SetErr(fmt.Errorf("connection refused"))
	_, err := authService.Login(context.Background(), testCredentials, now)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
	assert.False(t, hooked)
}

func TestAuthService_Logout(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()

	authService := NewAuthService(testAdmin, time.Hour, db)
	ctx := context.Background()

	now := time.Now()
	mock.ExpectGet(sessionKeyPrefix + "tkn").SetVal(fmt.Sprintf("%d", now.Unix()))
	mock.ExpectDel(sessionKeyPrefix + "tkn").SetVal(1)
	mock.ExpectSRem(tokensSetKey, "tkn").SetVal(1)
	loggedOut, err := authService.Logout(ctx, "tkn")
	require.NoError(t, err)
	assert.True(t, loggedOut)

	mock.ExpectGet(sessionKeyPrefix + "gone").SetErr(redis.Nil)
	loggedOut, err = authService.Logout(ctx, "gone")
	require.Error(t, err)
	assert.False(t, loggedOut)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthService_ScanAndClean(t *testing.T) {
	ttl := time.Hour
	now := time.Now()
	then := now.Add(-2 * time.Hour)

	rdb, mock := redismock.NewClientMock()
	defer rdb.Close()

	authService := NewAuthService(testAdmin, ttl, rdb)
	require.NotNil(t, authService)

	t1, t2, t3 := "token1", "token2", "token3"
	mock.ExpectSMembers(tokensSetKey).SetVal([]string{t1, t2, t3})
	mock.ExpectGet(sessionKeyPrefix + t1).SetVal(fmt.Sprintf("%d", then.Unix()))
	mock.ExpectGet(sessionKeyPrefix + t2).SetVal(fmt.Sprintf("%d", now.Unix()))
	mock.ExpectGet(sessionKeyPrefix + t3).SetErr(redis.Nil)
	// t1 is too old, t3 lost its session key
	mock.ExpectDel(sessionKeyPrefix + t1).SetVal(1)
	mock.ExpectSRem(tokensSetKey, t1).SetVal(1)
	mock.ExpectDel(sessionKeyPrefix + t3).SetVal(0)
	mock.ExpectSRem(tokensSetKey, t3).SetVal(1)

	removed := authService.ScanAndClean(context.Background(), now)
	assert.Equal(t, 2, removed)
	require.NoError(t, mock.ExpectationsWereMet())
}
