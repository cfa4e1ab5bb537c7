package auth

import (
	"context"
	"testing"
	"time"

	"github.com/go-redis/redismock/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

const (
	testToken  = "test_token"
	testUserID = "b49d5c69-2ae6-458a-b447-0e936eee1af3"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		// INFO: https://github.com/go-redis/redis/issues/1029
		goleak.IgnoreTopFunction(
			"github.com/go-redis/redis/v8/internal/pool.(*ConnPool).reaper",
		),
	)
}

func newTestService(t *testing.T) (*Service, redismock.ClientMock) {
	t.Helper()

	rdb, mock := redismock.NewClientMock()
	t.Cleanup(func() {
		_ = rdb.Close()
	})

	service := NewService(time.Hour, rdb)
	require.NotNil(t, service)
	service.RandStringFunc = func(s int) (string, error) {
		return testToken, nil
	}

	return service, mock
}

func TestService_NewSession(t *testing.T) {
	service, mock := newTestService(t)

	sessionKey := sessionKeyPrefix + testToken
	mock.ExpectSet(sessionKey, testUserID, time.Hour).SetVal("OK")
	mock.ExpectSAdd(tokensSetKey, testToken).SetVal(1)

	token, err := service.NewSession(context.Background(), testUserID)
	require.NoError(t, err)
	assert.Equal(t, testToken, token)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Logout(t *testing.T) {
	service, mock := newTestService(t)

	sessionKey := sessionKeyPrefix + testToken
	mock.ExpectGet(sessionKey).SetVal(testUserID)
	mock.ExpectDel(sessionKey).SetVal(1)
	mock.ExpectSRem(tokensSetKey, testToken).SetVal(1)

	loggedOut, err := service.Logout(context.Background(), testToken)
	require.NoError(t, err)
	assert.True(t, loggedOut)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Logout_UnknownToken(t *testing.T) {
	service, mock := newTestService(t)

	sessionKey := sessionKeyPrefix + testToken
	mock.ExpectGet(sessionKey).RedisNil()

	loggedOut, err := service.Logout(context.Background(), testToken)
	require.NoError(t, err)
	assert.False(t, loggedOut)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestService_ScanAndClean(t *testing.T) {
	service, mock := newTestService(t)

	staleToken := "stale_token"
	mock.ExpectSMembers(tokensSetKey).SetVal([]string{testToken, staleToken})
	mock.ExpectExists(sessionKeyPrefix + testToken).SetVal(1)
	mock.ExpectExists(sessionKeyPrefix + staleToken).SetVal(0)
	mock.ExpectSRem(tokensSetKey, staleToken).SetVal(1)

	service.ScanAndClean(context.Background())

	require.NoError(t, mock.ExpectationsWereMet())
}
