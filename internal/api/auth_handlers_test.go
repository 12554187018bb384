package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func webDeviceInfo() map[string]any {
	return map[string]any{"device_type": "web", "platform": "linux"}
}

func TestSetup_Success(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/v1/auth/setup", map[string]any{
		"email":        "admin@test.com",
		"password":     "TestPassword123!",
		"display_name": "Test Admin",
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var envelope testEnvelope[AuthResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))

	assert.True(t, envelope.Success)
	assert.Equal(t, 1, envelope.V)
	assert.NotEmpty(t, envelope.Data.AccessToken)
	assert.NotEmpty(t, envelope.Data.RefreshToken)
	assert.Equal(t, "Bearer", envelope.Data.TokenType)
	assert.True(t, envelope.Data.User.IsRoot)
	assert.Equal(t, "admin@test.com", envelope.Data.User.Email)
}

func TestSetup_AlreadyConfigured(t *testing.T) {
	ts := setupTestServer(t)
	ts.setupAdmin(t)

	resp := ts.api.Post("/api/v1/auth/setup", map[string]any{
		"email":        "admin2@test.com",
		"password":     "TestPassword123!",
		"display_name": "Second Admin",
	})
	assert.Equal(t, http.StatusConflict, resp.Code)

	var envelope testEnvelope[struct{}]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))

	assert.False(t, envelope.Success)
	assert.Equal(t, "ALREADY_CONFIGURED", envelope.Code)
}

func TestSetup_InvalidEmail(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/v1/auth/setup", map[string]any{
		"email":        "not-an-email",
		"password":     "TestPassword123!",
		"display_name": "Test Admin",
	})
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	var envelope testEnvelope[struct{}]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))

	assert.False(t, envelope.Success)
	assert.Equal(t, "VALIDATION", envelope.Code)
}

func TestRegister_BeforeSetup(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/v1/auth/register", map[string]any{
		"email":        "member@test.com",
		"password":     "MemberPassword123!",
		"display_name": "Member",
		"device_info":  webDeviceInfo(),
	})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestRegister_Success(t *testing.T) {
	ts := setupTestServer(t)
	ts.setupAdmin(t)

	token, userID := ts.registerMember(t, "member@test.com")
	assert.NotEmpty(t, token)
	assert.NotEmpty(t, userID)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	ts := setupTestServer(t)
	ts.setupAdmin(t)
	ts.registerMember(t, "member@test.com")

	resp := ts.api.Post("/api/v1/auth/register", map[string]any{
		"email":        "member@test.com",
		"password":     "MemberPassword123!",
		"display_name": "Member Again",
		"device_info":  webDeviceInfo(),
	})
	assert.Equal(t, http.StatusConflict, resp.Code)
}

func TestLogin_Success(t *testing.T) {
	ts := setupTestServer(t)
	ts.setupAdmin(t)

	resp := ts.api.Post("/api/v1/auth/login", map[string]any{
		"email":       "admin@test.com",
		"password":    "TestPassword123!",
		"device_info": webDeviceInfo(),
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var envelope testEnvelope[AuthResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))

	assert.True(t, envelope.Success)
	assert.NotEmpty(t, envelope.Data.AccessToken)
	assert.NotEmpty(t, envelope.Data.SessionID)
}

func TestLogin_WrongPassword(t *testing.T) {
	ts := setupTestServer(t)
	ts.setupAdmin(t)

	resp := ts.api.Post("/api/v1/auth/login", map[string]any{
		"email":       "admin@test.com",
		"password":    "WrongPassword123!",
		"device_info": webDeviceInfo(),
	})
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	var envelope testEnvelope[struct{}]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))

	assert.Equal(t, "INVALID_CREDENTIALS", envelope.Code)
}

func TestLogin_UnknownEmail(t *testing.T) {
	ts := setupTestServer(t)
	ts.setupAdmin(t)

	resp := ts.api.Post("/api/v1/auth/login", map[string]any{
		"email":       "nobody@test.com",
		"password":    "TestPassword123!",
		"device_info": webDeviceInfo(),
	})
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestRefresh_RotatesTokens(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/v1/auth/setup", map[string]any{
		"email":        "admin@test.com",
		"password":     "TestPassword123!",
		"display_name": "Test Admin",
	})
	require.Equal(t, http.StatusOK, resp.Code)

	var setupEnvelope testEnvelope[AuthResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &setupEnvelope))
	oldRefresh := setupEnvelope.Data.RefreshToken

	resp = ts.api.Post("/api/v1/auth/refresh", map[string]any{
		"refresh_token": oldRefresh,
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var refreshEnvelope testEnvelope[AuthResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &refreshEnvelope))

	assert.NotEmpty(t, refreshEnvelope.Data.RefreshToken)
	assert.NotEqual(t, oldRefresh, refreshEnvelope.Data.RefreshToken)
	assert.Equal(t, setupEnvelope.Data.SessionID, refreshEnvelope.Data.SessionID)

	// The old refresh token no longer works.
	resp = ts.api.Post("/api/v1/auth/refresh", map[string]any{
		"refresh_token": oldRefresh,
	})
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestRefresh_InvalidToken(t *testing.T) {
	ts := setupTestServer(t)
	ts.setupAdmin(t)

	resp := ts.api.Post("/api/v1/auth/refresh", map[string]any{
		"refresh_token": "not-a-real-token",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	var envelope testEnvelope[struct{}]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))

	assert.Equal(t, "TOKEN_EXPIRED", envelope.Code)
}

func TestLogout_RevokesSession(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/v1/auth/setup", map[string]any{
		"email":        "admin@test.com",
		"password":     "TestPassword123!",
		"display_name": "Test Admin",
	})
	require.Equal(t, http.StatusOK, resp.Code)

	var setupEnvelope testEnvelope[AuthResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &setupEnvelope))

	resp = ts.api.Post("/api/v1/auth/logout", map[string]any{
		"session_id": setupEnvelope.Data.SessionID,
	})
	assert.Equal(t, http.StatusOK, resp.Code)

	// The session's refresh token is dead after logout.
	resp = ts.api.Post("/api/v1/auth/refresh", map[string]any{
		"refresh_token": setupEnvelope.Data.RefreshToken,
	})
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestLogout_UnknownSession(t *testing.T) {
	ts := setupTestServer(t)
	ts.setupAdmin(t)

	// Logout is idempotent.
	resp := ts.api.Post("/api/v1/auth/logout", map[string]any{
		"session_id": "session-does-not-exist",
	})
	assert.Equal(t, http.StatusOK, resp.Code)
}

func TestLogoutAll_RevokesEverySession(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/v1/auth/setup", map[string]any{
		"email":        "admin@test.com",
		"password":     "TestPassword123!",
		"display_name": "Test Admin",
	})
	require.Equal(t, http.StatusOK, resp.Code)

	var first testEnvelope[AuthResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &first))

	// A second login opens a second session.
	resp = ts.api.Post("/api/v1/auth/login", map[string]any{
		"email":       "admin@test.com",
		"password":    "TestPassword123!",
		"device_info": webDeviceInfo(),
	})
	require.Equal(t, http.StatusOK, resp.Code)

	var second testEnvelope[AuthResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &second))
	require.NotEqual(t, first.Data.SessionID, second.Data.SessionID)

	resp = ts.api.Post("/api/v1/auth/logout-all",
		"Authorization: Bearer "+first.Data.AccessToken)
	assert.Equal(t, http.StatusOK, resp.Code)

	// Both refresh tokens are dead.
	for _, refresh := range []string{first.Data.RefreshToken, second.Data.RefreshToken} {
		resp = ts.api.Post("/api/v1/auth/refresh", map[string]any{
			"refresh_token": refresh,
		})
		assert.Equal(t, http.StatusUnauthorized, resp.Code)
	}
}

func TestLogoutAll_Unauthenticated(t *testing.T) {
	ts := setupTestServer(t)
	ts.setupAdmin(t)

	resp := ts.api.Post("/api/v1/auth/logout-all")
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}
