package controller

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"taskpilot/access"
	"taskpilot/middleware"
	"taskpilot/models"
	"taskpilot/notify"
	"taskpilot/store"
	"taskpilot/utils"
)

type TaskController struct {
	Store  store.Store
	Fanout *notify.Fanout
	Logger *log.Logger
}

func NewTaskController(s store.Store, f *notify.Fanout, logger *log.Logger) *TaskController {
	return &TaskController{Store: s, Fanout: f, Logger: logger}
}

type CreateTaskRequest struct {
	Title       string     `json:"title" validate:"required"`
	Description string     `json:"description"`
	ProjectID   string     `json:"project_id" validate:"required"`
	AssignedTo  string     `json:"assigned_to"`
	DueDate     *time.Time `json:"due_date"`
}

// UpdateTaskRequest distinguishes absent fields from cleared ones:
// a nil AssignedTo leaves the assignee alone, an empty string unassigns.
type UpdateTaskRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	AssignedTo  *string    `json:"assigned_to"`
	Status      *string    `json:"status"`
	DueDate     *time.Time `json:"due_date"`
}

// ProjectRef is the project subset joined onto task reads.
type ProjectRef struct {
	ProjectID string `json:"project_id"`
	Title     string `json:"title"`
}

type TaskListItem struct {
	models.Task
	ProjectDetails  *ProjectRef         `json:"project_details,omitempty"`
	AssigneeDetails *models.UserDetails `json:"assignee_details"`
	CreatorDetails  *models.UserDetails `json:"creator_details,omitempty"`
}

type CommentItem struct {
	models.Comment
	AuthorDetails *models.UserDetails `json:"author_details"`
}

type TaskDetail struct {
	models.Task
	ProjectDetails  *ProjectRef         `json:"project_details"`
	AssigneeDetails *models.UserDetails `json:"assignee_details"`
	CreatorDetails  *models.UserDetails `json:"creator_details"`
	Comments        []CommentItem       `json:"comments"`
}

// validateAssignee checks the assignment constraint: the assignee must
// exist and be a team member or the project creator. Applies to admins
// too. Returns a client-facing message when the constraint fails.
func (tc *TaskController) validateAssignee(c *fiber.Ctx, project *models.Project, assigneeID string) string {
	if _, err := tc.Store.UserByID(c.Context(), assigneeID); err != nil {
		return "Assigned user not found"
	}
	if !access.CanAssign(project, assigneeID) {
		return "Can only assign tasks to project team members"
	}
	return ""
}

func (tc *TaskController) CreateTask(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	var req CreateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if err := utils.ValidateStruct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	project, err := tc.Store.ProjectByID(c.Context(), req.ProjectID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Project not found",
		})
	}
	if !access.CanViewProject(user, project) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Access denied to this project",
		})
	}

	if req.AssignedTo != "" {
		if msg := tc.validateAssignee(c, project, req.AssignedTo); msg != "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
		}
	}

	now := time.Now().UTC()
	task := &models.Task{
		ID:          uuid.NewString(),
		ProjectID:   req.ProjectID,
		Title:       req.Title,
		Description: req.Description,
		AssignedTo:  req.AssignedTo,
		Status:      models.StatusTodo,
		DueDate:     req.DueDate,
		CreatedBy:   user.ID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := tc.Store.CreateTask(c.Context(), task); err != nil {
		tc.Logger.Printf("failed to create task: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create task",
		})
	}

	tc.Fanout.TaskAssigned(c.Context(), user.ID, project, task)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"task_id": task.ID,
		"message": "Task created successfully",
	})
}

func (tc *TaskController) GetTasks(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	filter := store.TaskFilter{
		Status:    c.Query("status"),
		ProjectID: c.Query("project_id"),
	}
	if !user.IsAdmin() {
		memberProjects, err := tc.Store.ProjectsByMember(c.Context(), user.ID)
		if err != nil {
			tc.Logger.Printf("failed to list member projects: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to fetch tasks",
			})
		}
		projectIDs := make([]string, 0, len(memberProjects))
		for i := range memberProjects {
			projectIDs = append(projectIDs, memberProjects[i].ID)
		}
		filter.Scope = &store.TaskScope{UserID: user.ID, ProjectIDs: projectIDs}
	}

	tasks, err := tc.Store.ListTasks(c.Context(), filter)
	if err != nil {
		tc.Logger.Printf("failed to list tasks: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch tasks",
		})
	}

	items := []TaskListItem{}
	for i := range tasks {
		task := tasks[i]
		var projectRef *ProjectRef
		if project, err := tc.Store.ProjectByID(c.Context(), task.ProjectID); err == nil {
			projectRef = &ProjectRef{ProjectID: project.ID, Title: project.Title}
		}
		items = append(items, TaskListItem{
			Task:            task,
			ProjectDetails:  projectRef,
			AssigneeDetails: userDetails(c.Context(), tc.Store, task.AssignedTo),
			CreatorDetails:  userDetails(c.Context(), tc.Store, task.CreatedBy),
		})
	}

	return c.JSON(items)
}

func (tc *TaskController) GetTask(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	task, err := tc.Store.TaskByID(c.Context(), c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Task not found",
		})
	}
	project, err := tc.Store.ProjectByID(c.Context(), task.ProjectID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Project not found",
		})
	}
	if !access.CanViewTask(user, project, task) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Access denied to this task",
		})
	}

	comments, err := tc.Store.CommentsByTask(c.Context(), task.ID)
	if err != nil {
		tc.Logger.Printf("failed to list comments for task %s: %v", task.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch task",
		})
	}
	commentItems := []CommentItem{}
	for i := range comments {
		commentItems = append(commentItems, CommentItem{
			Comment:       comments[i],
			AuthorDetails: userDetails(c.Context(), tc.Store, comments[i].AuthorID),
		})
	}

	return c.JSON(TaskDetail{
		Task:            *task,
		ProjectDetails:  &ProjectRef{ProjectID: project.ID, Title: project.Title},
		AssigneeDetails: userDetails(c.Context(), tc.Store, task.AssignedTo),
		CreatorDetails:  userDetails(c.Context(), tc.Store, task.CreatedBy),
		Comments:        commentItems,
	})
}

func (tc *TaskController) UpdateTask(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	task, err := tc.Store.TaskByID(c.Context(), c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Task not found",
		})
	}
	project, err := tc.Store.ProjectByID(c.Context(), task.ProjectID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Project not found",
		})
	}

	var req UpdateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	previous := *task
	assigneeOnly := task.AssignedTo == user.ID && !access.CanManageTask(user, project, task)

	if assigneeOnly {
		// Assignees may change the status and nothing else. Any other
		// field in the payload rejects the whole update.
		if req.Title != nil || req.Description != nil || req.AssignedTo != nil || req.DueDate != nil {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Assignees can only update task status",
			})
		}
		if req.Status == nil {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Assignees can only update task status",
			})
		}
		if !models.ValidStatus(*req.Status) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid task status",
			})
		}
		task.Status = *req.Status
	} else {
		if !access.CanManageTask(user, project, task) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Permission denied to update this task",
			})
		}

		if req.Title != nil {
			task.Title = *req.Title
		}
		if req.Description != nil {
			task.Description = *req.Description
		}
		if req.DueDate != nil {
			task.DueDate = req.DueDate
		}
		if req.Status != nil {
			if !models.ValidStatus(*req.Status) {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"error": "Invalid task status",
				})
			}
			task.Status = *req.Status
		}
		if req.AssignedTo != nil {
			if *req.AssignedTo != "" {
				if msg := tc.validateAssignee(c, project, *req.AssignedTo); msg != "" {
					return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
				}
			}
			task.AssignedTo = *req.AssignedTo
		}
	}

	task.UpdatedAt = time.Now().UTC()
	if err := tc.Store.UpdateTask(c.Context(), task); err != nil {
		tc.Logger.Printf("failed to update task %s: %v", task.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update task",
		})
	}

	// Fanout runs after the write is durable. The stakeholder set for a
	// status change is built from the pre-update assignee.
	if task.Status != previous.Status {
		tc.Fanout.StatusChanged(c.Context(), user.ID, project, &previous, task.Status)
	}
	if task.AssignedTo != previous.AssignedTo {
		tc.Fanout.TaskAssigned(c.Context(), user.ID, project, task)
	}

	return c.JSON(fiber.Map{"message": "Task updated successfully"})
}

func (tc *TaskController) DeleteTask(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	task, err := tc.Store.TaskByID(c.Context(), c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Task not found",
		})
	}
	project, err := tc.Store.ProjectByID(c.Context(), task.ProjectID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Project not found",
		})
	}
	if !access.CanManageTask(user, project, task) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Permission denied to delete this task",
		})
	}

	if err := tc.Store.DeleteCommentsByTask(c.Context(), task.ID); err != nil {
		tc.Logger.Printf("failed to delete comments for task %s: %v", task.ID, err)
	}
	if err := tc.Store.DeleteTask(c.Context(), task.ID); err != nil {
		tc.Logger.Printf("failed to delete task %s: %v", task.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete task",
		})
	}

	return c.JSON(fiber.Map{"message": "Task deleted successfully"})
}
