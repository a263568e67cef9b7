package controller_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskpilot/models"
)

func TestCreateTaskAssignmentConstraint(t *testing.T) {
	app, _ := newTestApp(t)
	admin := signup(t, app, "admin@example.com", "Admin", "admin")
	alice := signup(t, app, "alice@example.com", "Alice", "")
	outsider := signup(t, app, "carol@example.com", "Carol", "")

	projectID := createProject(t, app, admin.Token, "Launch", []string{alice.ID})

	status, resp := request(t, app, http.MethodPost, "/api/tasks", admin.Token, map[string]any{
		"title":       "Ship it",
		"project_id":  projectID,
		"assigned_to": "no-such-user",
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Assigned user not found", resp["error"])

	// Even admins cannot assign outside the team.
	status, resp = request(t, app, http.MethodPost, "/api/tasks", admin.Token, map[string]any{
		"title":       "Ship it",
		"project_id":  projectID,
		"assigned_to": outsider.ID,
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Can only assign tasks to project team members", resp["error"])

	// The project creator is a valid assignee without being listed.
	status, _ = request(t, app, http.MethodPost, "/api/tasks", admin.Token, map[string]any{
		"title":       "Ship it",
		"project_id":  projectID,
		"assigned_to": admin.ID,
	})
	assert.Equal(t, http.StatusCreated, status)
}

func TestCreateTaskNotifiesAssignee(t *testing.T) {
	app, _ := newTestApp(t)
	admin := signup(t, app, "admin@example.com", "Admin", "admin")
	alice := signup(t, app, "alice@example.com", "Alice", "")

	projectID := createProject(t, app, admin.Token, "Launch", []string{alice.ID})
	createTask(t, app, admin.Token, projectID, "Ship it", alice.ID)

	assigned := notificationsOfType(notificationsOf(t, app, alice.Token), models.NotificationTaskAssigned)
	require.Len(t, assigned, 1)
	assert.Equal(t, `You have been assigned to task "Ship it" in project "Launch"`, assigned[0]["message"])
	assert.Equal(t, "/projects/"+projectID, assigned[0]["link"])
}

func TestSelfAssignmentDoesNotNotify(t *testing.T) {
	app, _ := newTestApp(t)
	admin := signup(t, app, "admin@example.com", "Admin", "admin")
	alice := signup(t, app, "alice@example.com", "Alice", "")

	projectID := createProject(t, app, admin.Token, "Launch", []string{alice.ID})
	createTask(t, app, alice.Token, projectID, "My task", alice.ID)

	assert.Empty(t, notificationsOfType(notificationsOf(t, app, alice.Token), models.NotificationTaskAssigned))
}

func TestAssigneeStatusOnlyUpdate(t *testing.T) {
	app, _ := newTestApp(t)
	admin := signup(t, app, "admin@example.com", "Admin", "admin")
	alice := signup(t, app, "alice@example.com", "Alice", "")

	projectID := createProject(t, app, admin.Token, "Launch", []string{alice.ID})
	taskID := createTask(t, app, admin.Token, projectID, "Ship it", alice.ID)

	// Status alone is allowed.
	status, _ := request(t, app, http.MethodPut, "/api/tasks/"+taskID, alice.Token, map[string]any{
		"status": models.StatusInProgress,
	})
	require.Equal(t, http.StatusOK, status)

	// Any other field in the payload rejects the whole update.
	status, resp := request(t, app, http.MethodPut, "/api/tasks/"+taskID, alice.Token, map[string]any{
		"status": models.StatusDone,
		"title":  "Renamed",
	})
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "Assignees can only update task status", resp["error"])

	// A payload with no status at all is the same refusal.
	status, resp = request(t, app, http.MethodPut, "/api/tasks/"+taskID, alice.Token, map[string]any{})
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "Assignees can only update task status", resp["error"])

	status, resp = request(t, app, http.MethodPut, "/api/tasks/"+taskID, alice.Token, map[string]any{
		"status": "blocked",
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Invalid task status", resp["error"])

	// The rejected updates left the task untouched.
	status, resp = request(t, app, http.MethodGet, "/api/tasks/"+taskID, alice.Token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Ship it", resp["title"])
	assert.Equal(t, models.StatusInProgress, resp["status"])
}

func TestStatusChangeFanout(t *testing.T) {
	app, _ := newTestApp(t)
	admin := signup(t, app, "admin@example.com", "Admin", "admin")
	alice := signup(t, app, "alice@example.com", "Alice", "")
	bob := signup(t, app, "bob@example.com", "Bob", "")

	projectID := createProject(t, app, admin.Token, "Launch", []string{alice.ID, bob.ID})
	taskID := createTask(t, app, admin.Token, projectID, "Ship it", alice.ID)

	status, _ := request(t, app, http.MethodPut, "/api/tasks/"+taskID, alice.Token, map[string]any{
		"status": models.StatusDone,
	})
	require.Equal(t, http.StatusOK, status)

	// Everyone with a stake hears about it except the actor.
	for _, stakeholder := range []testUser{admin, bob} {
		changed := notificationsOfType(notificationsOf(t, app, stakeholder.Token), models.NotificationStatusChanged)
		require.Len(t, changed, 1, "stakeholder %s", stakeholder.ID)
		assert.Equal(t, `Task "Ship it" status changed to Done`, changed[0]["message"])
	}
	assert.Empty(t, notificationsOfType(notificationsOf(t, app, alice.Token), models.NotificationStatusChanged))
}

func TestReassignmentNotifiesNewAssignee(t *testing.T) {
	app, _ := newTestApp(t)
	admin := signup(t, app, "admin@example.com", "Admin", "admin")
	alice := signup(t, app, "alice@example.com", "Alice", "")
	bob := signup(t, app, "bob@example.com", "Bob", "")

	projectID := createProject(t, app, admin.Token, "Launch", []string{alice.ID, bob.ID})
	taskID := createTask(t, app, admin.Token, projectID, "Ship it", alice.ID)

	status, _ := request(t, app, http.MethodPut, "/api/tasks/"+taskID, admin.Token, map[string]any{
		"assigned_to": bob.ID,
	})
	require.Equal(t, http.StatusOK, status)

	assigned := notificationsOfType(notificationsOf(t, app, bob.Token), models.NotificationTaskAssigned)
	require.Len(t, assigned, 1)
	assert.Equal(t, `You have been assigned to task "Ship it" in project "Launch"`, assigned[0]["message"])

	// Unassigning raises nothing new.
	status, _ = request(t, app, http.MethodPut, "/api/tasks/"+taskID, admin.Token, map[string]any{
		"assigned_to": "",
	})
	require.Equal(t, http.StatusOK, status)
	status, resp := request(t, app, http.MethodGet, "/api/tasks/"+taskID, admin.Token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "", resp["assigned_to"])
	assert.Nil(t, resp["assignee_details"])
}

func TestTaskListScoping(t *testing.T) {
	app, _ := newTestApp(t)
	admin := signup(t, app, "admin@example.com", "Admin", "admin")
	alice := signup(t, app, "alice@example.com", "Alice", "")
	bob := signup(t, app, "bob@example.com", "Bob", "")

	alpha := createProject(t, app, admin.Token, "Alpha", []string{alice.ID})
	beta := createProject(t, app, admin.Token, "Beta", []string{bob.ID})
	createTask(t, app, admin.Token, alpha, "Alpha task", "")
	createTask(t, app, admin.Token, beta, "Beta task", "")

	status, list := requestList(t, app, http.MethodGet, "/api/tasks", admin.Token)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, list, 2)

	// Members see tasks in their projects plus anything assigned to them.
	status, list = requestList(t, app, http.MethodGet, "/api/tasks", alice.Token)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, list, 1)
	assert.Equal(t, "Alpha task", list[0]["title"])
	project := list[0]["project_details"].(map[string]any)
	assert.Equal(t, "Alpha", project["title"])

	status, list = requestList(t, app, http.MethodGet, "/api/tasks?status=todo&project_id="+beta, admin.Token)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, list, 1)
	assert.Equal(t, "Beta task", list[0]["title"])
}

func TestTaskAccessDenied(t *testing.T) {
	app, _ := newTestApp(t)
	admin := signup(t, app, "admin@example.com", "Admin", "admin")
	alice := signup(t, app, "alice@example.com", "Alice", "")
	outsider := signup(t, app, "carol@example.com", "Carol", "")

	projectID := createProject(t, app, admin.Token, "Launch", []string{alice.ID})
	taskID := createTask(t, app, admin.Token, projectID, "Ship it", alice.ID)

	status, resp := request(t, app, http.MethodGet, "/api/tasks/"+taskID, outsider.Token, nil)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "Access denied to this task", resp["error"])

	// A member who is neither creator nor assignee cannot rename it.
	bob := signup(t, app, "bob@example.com", "Bob", "")
	status, _ = request(t, app, http.MethodPut, "/api/projects/"+projectID, admin.Token, map[string]any{
		"team_members": []string{alice.ID, bob.ID},
	})
	require.Equal(t, http.StatusOK, status)
	title := "Renamed"
	status, resp = request(t, app, http.MethodPut, "/api/tasks/"+taskID, bob.Token, map[string]any{
		"title": title,
	})
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "Permission denied to update this task", resp["error"])

	status, _ = request(t, app, http.MethodDelete, "/api/tasks/"+taskID, bob.Token, nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = request(t, app, http.MethodGet, "/api/tasks/no-such-task", admin.Token, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestDeleteTaskCascadesComments(t *testing.T) {
	app, _ := newTestApp(t)
	admin := signup(t, app, "admin@example.com", "Admin", "admin")
	alice := signup(t, app, "alice@example.com", "Alice", "")

	projectID := createProject(t, app, admin.Token, "Launch", []string{alice.ID})
	taskID := createTask(t, app, admin.Token, projectID, "Ship it", alice.ID)

	status, _ := request(t, app, http.MethodPost, "/api/comments", alice.Token, map[string]any{
		"task_id": taskID,
		"content": "On it",
	})
	require.Equal(t, http.StatusCreated, status)

	status, _ = request(t, app, http.MethodDelete, "/api/tasks/"+taskID, admin.Token, nil)
	require.Equal(t, http.StatusOK, status)

	status, _ = request(t, app, http.MethodGet, "/api/tasks/"+taskID, admin.Token, nil)
	assert.Equal(t, http.StatusNotFound, status)
	status, _ = request(t, app, http.MethodGet, "/api/comments/"+taskID, admin.Token, nil)
	assert.Equal(t, http.StatusNotFound, status)
}
