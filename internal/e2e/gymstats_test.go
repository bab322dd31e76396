//go:build integration_test || all_tests

package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/2beens/gymprofile/internal/gymstats/profile"
	"github.com/2beens/gymprofile/internal/gymstats/workouts"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (s *IntegrationTestSuite) doRequest(
	ctx context.Context,
	method, path, token string,
	body interface{},
) (int, []byte) {
	var reqBody io.Reader
	if body != nil {
		reqJson, err := json.Marshal(body)
		require.NoError(s.T(), err)
		reqBody = bytes.NewReader(reqJson)
	}

	req, err := http.NewRequestWithContext(ctx, method, serverEndpoint+path, reqBody)
	require.NoError(s.T(), err)
	req.Header.Set("User-Agent", "test-agent")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("X-SERJ-TOKEN", token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(s.T(), err)
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	require.NoError(s.T(), err)
	return resp.StatusCode, respBytes
}

func (s *IntegrationTestSuite) doLogin(ctx context.Context) string {
	status, respBytes := s.doRequest(ctx, "POST", "/a/login", "", map[string]string{
		"username": testUsername,
		"password": testPassword,
	})
	require.Equal(s.T(), http.StatusOK, status, string(respBytes))

	var loginResp struct {
		Token string `json:"token"`
	}
	require.NoError(s.T(), json.Unmarshal(respBytes, &loginResp))
	require.NotEmpty(s.T(), loginResp.Token)
	return loginResp.Token
}

func (s *IntegrationTestSuite) getProfile(ctx context.Context, token, userID string) profile.UserProfile {
	status, respBytes := s.doRequest(ctx, "GET", "/gymstats/users/"+userID+"/profile", token, nil)
	require.Equal(s.T(), http.StatusOK, status, string(respBytes))

	var p profile.UserProfile
	require.NoError(s.T(), json.Unmarshal(respBytes, &p))
	return p
}

func (s *IntegrationTestSuite) TestRecordLogsAndProfile() {
	ctx := context.Background()
	token := s.doLogin(ctx)
	userID := "user-" + gofakeit.LetterN(8)

	record := func(exercise, date string, weight float64, reps int) {
		status, respBytes := s.doRequest(ctx, "POST", "/gymstats/users/"+userID+"/logs", token, map[string]interface{}{
			"exercise": exercise,
			"date":     date,
			"sets":     []map[string]interface{}{{"weight": weight, "reps": reps}},
		})
		require.Equal(s.T(), http.StatusCreated, status, string(respBytes))
	}

	record("Bench", "2025-01-01", 100, 10)
	record("Bench", "2025-01-05", 110, 5)
	record("Squat", "2025-01-03", 140, 3)

	p := s.getProfile(ctx, token, userID)
	assert.Equal(s.T(), "2025-01-05", p.LastWorkedByExercise["Bench"])
	assert.Equal(s.T(), "2025-01-03", p.LastWorkedByExercise["Squat"])
	assert.Equal(s.T(), "2025-01-05", p.LastWorkedByCategory["Upper Body Push"])
	assert.Equal(s.T(), profile.OneRepMax{Value: 100, Reps: 10, Date: "2025-01-01"}, p.OneRepMaxByExercise["Bench"])

	// a recompute from stored logs yields the same profile
	status, respBytes := s.doRequest(ctx, "POST", "/gymstats/users/"+userID+"/profile/recompute", token, nil)
	require.Equal(s.T(), http.StatusOK, status, string(respBytes))
	var recomputed profile.UserProfile
	require.NoError(s.T(), json.Unmarshal(respBytes, &recomputed))
	assert.Equal(s.T(), p, recomputed)

	status, respBytes = s.doRequest(ctx, "GET", "/gymstats/users/"+userID+"/logs", token, nil)
	require.Equal(s.T(), http.StatusOK, status)
	var listRes profile.ListLogsResponse
	require.NoError(s.T(), json.Unmarshal(respBytes, &listRes))
	assert.Equal(s.T(), 3, listRes.Total)
}

func (s *IntegrationTestSuite) TestLoginReconcilesLegacyLogs() {
	ctx := context.Background()

	// written the way old clients did: legacy year, no schema version
	_, err := s.DB.ExecContext(ctx,
		`INSERT INTO workout_log (id, user_id, exercise, category, date, sets, legacy_id, schema_version)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		"legacy-squat", testUsername, "Squat", "", "2024-03-01", `[{"pounds": 200, "reps": 5}]`, "legacy-squat", 0,
	)
	require.NoError(s.T(), err)

	token := s.doLogin(ctx)

	require.Eventually(s.T(), func() bool {
		p := s.getProfile(ctx, token, testUsername)
		return p.LastWorkedByExercise["Squat"] == "2025-03-01"
	}, 10*time.Second, 200*time.Millisecond)

	status, respBytes := s.doRequest(ctx, "GET", "/gymstats/users/"+testUsername+"/logs", token, nil)
	require.Equal(s.T(), http.StatusOK, status)
	var listRes profile.ListLogsResponse
	require.NoError(s.T(), json.Unmarshal(respBytes, &listRes))
	require.Len(s.T(), listRes.Logs, 1)

	migrated := listRes.Logs[0]
	assert.Equal(s.T(), "2025-03-01_Squat_"+testUsername, migrated.ID)
	assert.Equal(s.T(), workouts.CurrentSchemaVersion, migrated.SchemaVersion)
	assert.Nil(s.T(), migrated.LegacyID)
	require.Len(s.T(), migrated.Sets, 1)
	require.NotNil(s.T(), migrated.Sets[0].Weight)
	assert.Equal(s.T(), float64(200), *migrated.Sets[0].Weight)

	var count int
	require.NoError(s.T(), s.DB.QueryRowContext(ctx, `SELECT count(*) FROM workout_log WHERE id = 'legacy-squat'`).Scan(&count))
	assert.Equal(s.T(), 0, count)
}

func (s *IntegrationTestSuite) TestMCPRequiresSecret() {
	ctx := context.Background()
	token := s.doLogin(ctx)

	status, _ := s.doRequest(ctx, "POST", "/mcp", token, map[string]string{})
	assert.Equal(s.T(), http.StatusUnauthorized, status)
}

func (s *IntegrationTestSuite) TestUnauthorized() {
	ctx := context.Background()
	status, _ := s.doRequest(ctx, "GET", fmt.Sprintf("/gymstats/users/%s/profile", testUsername), "", nil)
	assert.Equal(s.T(), http.StatusUnauthorized, status)

	status, _ = s.doRequest(ctx, "GET", "/gymstats/users/"+testUsername+"/profile", "not-a-token", nil)
	assert.Equal(s.T(), http.StatusUnauthorized, status)
}
