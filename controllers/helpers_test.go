package controller_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"taskpilot/config"
	"taskpilot/routes"
	"taskpilot/store"
)

func newTestApp(t *testing.T) (*fiber.App, *store.Memory) {
	t.Helper()
	config.AppConfig = config.Config{
		JWTSecretKey:       "test-secret",
		JWTExpirationHours: 1,
	}
	mem := store.NewMemory()
	app := fiber.New()
	routes.SetupRoutes(app, mem)
	return app, mem
}

type testUser struct {
	ID    string
	Token string
}

func signup(t *testing.T, app *fiber.App, email, fullName, role string) testUser {
	t.Helper()
	body := map[string]any{
		"email":     email,
		"password":  "password123",
		"full_name": fullName,
	}
	if role != "" {
		body["role"] = role
	}
	status, resp := request(t, app, http.MethodPost, "/api/auth/signup", "", body)
	require.Equal(t, http.StatusCreated, status)
	user := resp["user"].(map[string]any)
	return testUser{ID: user["user_id"].(string), Token: resp["access_token"].(string)}
}

func rawRequest(t *testing.T, app *fiber.App, method, path, token string, body any) (int, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, raw
}

func request(t *testing.T, app *fiber.App, method, path, token string, body any) (int, map[string]any) {
	t.Helper()
	status, raw := rawRequest(t, app, method, path, token, body)
	decoded := map[string]any{}
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &decoded)
	}
	return status, decoded
}

func requestList(t *testing.T, app *fiber.App, method, path, token string) (int, []map[string]any) {
	t.Helper()
	status, raw := rawRequest(t, app, method, path, token, nil)
	var decoded []map[string]any
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &decoded)
	}
	return status, decoded
}

func createProject(t *testing.T, app *fiber.App, token, title string, members []string) string {
	t.Helper()
	if members == nil {
		members = []string{}
	}
	status, resp := request(t, app, http.MethodPost, "/api/projects", token, map[string]any{
		"title":        title,
		"description":  "test project",
		"team_members": members,
	})
	require.Equal(t, http.StatusCreated, status, "create project: %v", resp)
	return resp["project_id"].(string)
}

func createTask(t *testing.T, app *fiber.App, token, projectID, title, assignedTo string) string {
	t.Helper()
	body := map[string]any{
		"title":       title,
		"description": "test task",
		"project_id":  projectID,
	}
	if assignedTo != "" {
		body["assigned_to"] = assignedTo
	}
	status, resp := request(t, app, http.MethodPost, "/api/tasks", token, body)
	require.Equal(t, http.StatusCreated, status, "create task: %v", resp)
	return resp["task_id"].(string)
}

func notificationsOf(t *testing.T, app *fiber.App, token string) []map[string]any {
	t.Helper()
	status, list := requestList(t, app, http.MethodGet, "/api/notifications", token)
	require.Equal(t, http.StatusOK, status)
	return list
}

func notificationsOfType(notifications []map[string]any, notificationType string) []map[string]any {
	matched := []map[string]any{}
	for _, n := range notifications {
		if n["type"] == notificationType {
			matched = append(matched, n)
		}
	}
	return matched
}
