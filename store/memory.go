package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"taskpilot/models"
)

var _ Store = (*Memory)(nil)

// Memory is an in-memory Store used as the test substitute for the
// Mongo implementation. It enforces the same email uniqueness the
// Mongo index does.
type Memory struct {
	mu            sync.RWMutex
	users         map[string]models.User
	projects      map[string]models.Project
	tasks         map[string]models.Task
	comments      map[string]models.Comment
	notifications map[string]models.Notification
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		users:         make(map[string]models.User),
		projects:      make(map[string]models.Project),
		tasks:         make(map[string]models.Task),
		comments:      make(map[string]models.Comment),
		notifications: make(map[string]models.Notification),
	}
}

func (m *Memory) CreateUser(ctx context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Email == user.Email {
			return ErrDuplicateEmail
		}
	}
	m.users[user.ID] = *user
	return nil
}

func (m *Memory) UserByID(ctx context.Context, id string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	user, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &user, nil
}

func (m *Memory) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, user := range m.users {
		if user.Email == email {
			u := user
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (m *Memory) UsersByIDs(ctx context.Context, ids []string) ([]models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	users := []models.User{}
	for _, id := range ids {
		if user, ok := m.users[id]; ok {
			users = append(users, user)
		}
	}
	return users, nil
}

func (m *Memory) ListUsers(ctx context.Context) ([]models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	users := []models.User{}
	for _, user := range m.users {
		users = append(users, user)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].CreatedAt.Before(users[j].CreatedAt) })
	return users, nil
}

func (m *Memory) CountUsers(ctx context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.users)), nil
}

func (m *Memory) CreateProject(ctx context.Context, project *models.Project) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.projects[project.ID] = *project
	return nil
}

func (m *Memory) ProjectByID(ctx context.Context, id string) (*models.Project, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	project, ok := m.projects[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &project, nil
}

func (m *Memory) UpdateProject(ctx context.Context, project *models.Project) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.projects[project.ID]; !ok {
		return ErrNotFound
	}
	m.projects[project.ID] = *project
	return nil
}

func (m *Memory) DeleteProject(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.projects[id]; !ok {
		return ErrNotFound
	}
	delete(m.projects, id)
	return nil
}

func (m *Memory) ListProjects(ctx context.Context) ([]models.Project, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	projects := []models.Project{}
	for _, project := range m.projects {
		projects = append(projects, project)
	}
	sort.Slice(projects, func(i, j int) bool { return projects[i].CreatedAt.Before(projects[j].CreatedAt) })
	return projects, nil
}

func (m *Memory) ProjectsByMember(ctx context.Context, userID string) ([]models.Project, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	projects := []models.Project{}
	for _, project := range m.projects {
		if project.HasMember(userID) {
			projects = append(projects, project)
		}
	}
	sort.Slice(projects, func(i, j int) bool { return projects[i].CreatedAt.Before(projects[j].CreatedAt) })
	return projects, nil
}

func (m *Memory) CountProjects(ctx context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.projects)), nil
}

func matchesTask(task models.Task, filter TaskFilter) bool {
	if filter.Status != "" && task.Status != filter.Status {
		return false
	}
	if filter.ProjectID != "" && task.ProjectID != filter.ProjectID {
		return false
	}
	if filter.AssignedTo != "" && task.AssignedTo != filter.AssignedTo {
		return false
	}
	if filter.Scope != nil {
		if task.AssignedTo == filter.Scope.UserID {
			return true
		}
		for _, id := range filter.Scope.ProjectIDs {
			if task.ProjectID == id {
				return true
			}
		}
		return false
	}
	return true
}

func (m *Memory) CreateTask(ctx context.Context, task *models.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tasks[task.ID] = *task
	return nil
}

func (m *Memory) TaskByID(ctx context.Context, id string) (*models.Task, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	task, ok := m.tasks[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &task, nil
}

func (m *Memory) UpdateTask(ctx context.Context, task *models.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tasks[task.ID]; !ok {
		return ErrNotFound
	}
	m.tasks[task.ID] = *task
	return nil
}

func (m *Memory) DeleteTask(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tasks[id]; !ok {
		return ErrNotFound
	}
	delete(m.tasks, id)
	return nil
}

func (m *Memory) ListTasks(ctx context.Context, filter TaskFilter) ([]models.Task, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	tasks := []models.Task{}
	for _, task := range m.tasks {
		if matchesTask(task, filter) {
			tasks = append(tasks, task)
		}
	}
	sort.Slice(tasks, func(i, j int) bool { return tasks[i].CreatedAt.Before(tasks[j].CreatedAt) })
	return tasks, nil
}

func (m *Memory) CountTasks(ctx context.Context, filter TaskFilter) (int64, error) {
	tasks, _ := m.ListTasks(ctx, filter)
	return int64(len(tasks)), nil
}

func (m *Memory) TaskStatusCounts(ctx context.Context, filter TaskFilter) (models.TaskStatusCounts, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var counts models.TaskStatusCounts
	for _, task := range m.tasks {
		if !matchesTask(task, filter) {
			continue
		}
		switch task.Status {
		case models.StatusTodo:
			counts.Todo++
		case models.StatusInProgress:
			counts.InProgress++
		case models.StatusDone:
			counts.Done++
		}
	}
	return counts, nil
}

func (m *Memory) CountTasksDueBetween(ctx context.Context, assignedTo string, start, end time.Time) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var count int64
	for _, task := range m.tasks {
		if task.DueDate == nil || task.Status == models.StatusDone {
			continue
		}
		if assignedTo != "" && task.AssignedTo != assignedTo {
			continue
		}
		if task.DueDate.Before(start) || task.DueDate.After(end) {
			continue
		}
		count++
	}
	return count, nil
}

func (m *Memory) DeleteTasksByProject(ctx context.Context, projectID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, task := range m.tasks {
		if task.ProjectID == projectID {
			delete(m.tasks, id)
		}
	}
	return nil
}

func (m *Memory) CreateComment(ctx context.Context, comment *models.Comment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.comments[comment.ID] = *comment
	return nil
}

func (m *Memory) CommentByID(ctx context.Context, id string) (*models.Comment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	comment, ok := m.comments[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &comment, nil
}

func (m *Memory) CommentsByTask(ctx context.Context, taskID string) ([]models.Comment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	comments := []models.Comment{}
	for _, comment := range m.comments {
		if comment.TaskID == taskID {
			comments = append(comments, comment)
		}
	}
	sort.Slice(comments, func(i, j int) bool { return comments[i].CreatedAt.Before(comments[j].CreatedAt) })
	return comments, nil
}

func (m *Memory) DeleteComment(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.comments[id]; !ok {
		return ErrNotFound
	}
	delete(m.comments, id)
	return nil
}

func (m *Memory) DeleteCommentsByTask(ctx context.Context, taskID string) error {
	return m.DeleteCommentsByTasks(ctx, []string{taskID})
}

func (m *Memory) DeleteCommentsByTasks(ctx context.Context, taskIDs []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, comment := range m.comments {
		for _, taskID := range taskIDs {
			if comment.TaskID == taskID {
				delete(m.comments, id)
				break
			}
		}
	}
	return nil
}

func (m *Memory) CreateNotifications(ctx context.Context, notifications []models.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, notification := range notifications {
		m.notifications[notification.ID] = notification
	}
	return nil
}

func (m *Memory) NotificationByID(ctx context.Context, id string) (*models.Notification, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	notification, ok := m.notifications[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &notification, nil
}

func (m *Memory) NotificationsByUser(ctx context.Context, userID string, limit int64, unreadOnly bool) ([]models.Notification, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	notifications := []models.Notification{}
	for _, notification := range m.notifications {
		if notification.UserID != userID {
			continue
		}
		if unreadOnly && notification.IsRead {
			continue
		}
		notifications = append(notifications, notification)
	}
	sort.Slice(notifications, func(i, j int) bool {
		return notifications[i].CreatedAt.After(notifications[j].CreatedAt)
	})
	if limit > 0 && int64(len(notifications)) > limit {
		notifications = notifications[:limit]
	}
	return notifications, nil
}

func (m *Memory) MarkNotificationRead(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	notification, ok := m.notifications[id]
	if !ok {
		return ErrNotFound
	}
	notification.IsRead = true
	m.notifications[id] = notification
	return nil
}

func (m *Memory) MarkAllNotificationsRead(ctx context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, notification := range m.notifications {
		if notification.UserID == userID && !notification.IsRead {
			notification.IsRead = true
			m.notifications[id] = notification
		}
	}
	return nil
}

func (m *Memory) CountUnreadNotifications(ctx context.Context, userID string) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var count int64
	for _, notification := range m.notifications {
		if notification.UserID == userID && !notification.IsRead {
			count++
		}
	}
	return count, nil
}

func (m *Memory) DeleteNotificationsByLinkPrefix(ctx context.Context, prefix string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, notification := range m.notifications {
		if strings.HasPrefix(notification.Link, prefix) {
			delete(m.notifications, id)
		}
	}
	return nil
}

func (m *Memory) DeleteReadNotificationsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var deleted int64
	for id, notification := range m.notifications {
		if notification.IsRead && notification.CreatedAt.Before(cutoff) {
			delete(m.notifications, id)
			deleted++
		}
	}
	return deleted, nil
}
