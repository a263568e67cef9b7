package controller

import (
	"fmt"
	"log"
	"math"
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

type ProjectController struct {
	Store  store.Store
	Fanout *notify.Fanout
	Logger *log.Logger
}

func NewProjectController(s store.Store, f *notify.Fanout, logger *log.Logger) *ProjectController {
	return &ProjectController{Store: s, Fanout: f, Logger: logger}
}

type CreateProjectRequest struct {
	Title       string   `json:"title" validate:"required"`
	Description string   `json:"description"`
	TeamMembers []string `json:"team_members"`
}

type UpdateProjectRequest struct {
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	TeamMembers *[]string `json:"team_members"`
}

type TaskStats struct {
	Total      int64 `json:"total"`
	Todo       int64 `json:"todo"`
	InProgress int64 `json:"in_progress"`
	Done       int64 `json:"done"`
}

type ProjectListItem struct {
	models.Project
	TeamMemberDetails []models.UserDetails `json:"team_member_details"`
	CreatorDetails    *models.UserDetails  `json:"creator_details"`
	TaskStats         TaskStats            `json:"task_stats"`
}

type ProjectDetail struct {
	models.Project
	TeamMemberDetails []models.UserDetails `json:"team_member_details"`
	CreatorDetails    *models.UserDetails  `json:"creator_details"`
	Tasks             []TaskListItem       `json:"tasks"`
	Progress          float64              `json:"progress"`
}

func (pc *ProjectController) CreateProject(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	if !user.IsAdmin() {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Admin access required",
		})
	}

	var req CreateProjectRequest
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

	invalid, err := invalidMemberIDs(c.Context(), pc.Store, req.TeamMembers)
	if err != nil {
		pc.Logger.Printf("failed to verify team members: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create project",
		})
	}
	if len(invalid) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fmt.Sprintf("Invalid user IDs: %v", invalid),
		})
	}

	if req.TeamMembers == nil {
		req.TeamMembers = []string{}
	}
	now := time.Now().UTC()
	project := &models.Project{
		ID:          uuid.NewString(),
		Title:       req.Title,
		Description: req.Description,
		CreatedBy:   user.ID,
		TeamMembers: req.TeamMembers,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := pc.Store.CreateProject(c.Context(), project); err != nil {
		pc.Logger.Printf("failed to create project: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create project",
		})
	}

	pc.Fanout.MembersAdded(c.Context(), user.ID, project, project.TeamMembers)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"project_id": project.ID,
		"message":    "Project created successfully",
	})
}

func (pc *ProjectController) GetProjects(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	var projects []models.Project
	var err error
	if user.IsAdmin() {
		projects, err = pc.Store.ListProjects(c.Context())
	} else {
		projects, err = pc.Store.ProjectsByMember(c.Context(), user.ID)
	}
	if err != nil {
		pc.Logger.Printf("failed to list projects: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch projects",
		})
	}

	items := []ProjectListItem{}
	for i := range projects {
		project := projects[i]
		counts, err := pc.Store.TaskStatusCounts(c.Context(), store.TaskFilter{ProjectID: project.ID})
		if err != nil {
			pc.Logger.Printf("failed to count tasks for project %s: %v", project.ID, err)
		}
		items = append(items, ProjectListItem{
			Project:           project,
			TeamMemberDetails: usersDetails(c.Context(), pc.Store, project.TeamMembers),
			CreatorDetails:    userDetails(c.Context(), pc.Store, project.CreatedBy),
			TaskStats: TaskStats{
				Total:      counts.Total(),
				Todo:       counts.Todo,
				InProgress: counts.InProgress,
				Done:       counts.Done,
			},
		})
	}

	return c.JSON(items)
}

func (pc *ProjectController) GetProject(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	project, err := pc.Store.ProjectByID(c.Context(), c.Params("id"))
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

	tasks, err := pc.Store.ListTasks(c.Context(), store.TaskFilter{ProjectID: project.ID})
	if err != nil {
		pc.Logger.Printf("failed to list tasks for project %s: %v", project.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch project",
		})
	}

	taskItems := []TaskListItem{}
	var done int
	for i := range tasks {
		task := tasks[i]
		if task.Status == models.StatusDone {
			done++
		}
		taskItems = append(taskItems, TaskListItem{
			Task:            task,
			AssigneeDetails: userDetails(c.Context(), pc.Store, task.AssignedTo),
		})
	}

	progress := 0.0
	if len(tasks) > 0 {
		progress = math.Round(float64(done)/float64(len(tasks))*1000) / 10
	}

	return c.JSON(ProjectDetail{
		Project:           *project,
		TeamMemberDetails: usersDetails(c.Context(), pc.Store, project.TeamMembers),
		CreatorDetails:    userDetails(c.Context(), pc.Store, project.CreatedBy),
		Tasks:             taskItems,
		Progress:          progress,
	})
}

func (pc *ProjectController) UpdateProject(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	project, err := pc.Store.ProjectByID(c.Context(), c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Project not found",
		})
	}
	if !access.CanManageProject(user, project) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Only admin or project creator can update projects",
		})
	}

	var req UpdateProjectRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.Title != nil {
		project.Title = *req.Title
	}
	if req.Description != nil {
		project.Description = *req.Description
	}

	var addedMembers []string
	if req.TeamMembers != nil {
		invalid, err := invalidMemberIDs(c.Context(), pc.Store, *req.TeamMembers)
		if err != nil {
			pc.Logger.Printf("failed to verify team members: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to update project",
			})
		}
		if len(invalid) > 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": fmt.Sprintf("Invalid user IDs: %v", invalid),
			})
		}

		previous := make(map[string]bool, len(project.TeamMembers))
		for _, id := range project.TeamMembers {
			previous[id] = true
		}
		for _, id := range *req.TeamMembers {
			if !previous[id] {
				addedMembers = append(addedMembers, id)
			}
		}
		project.TeamMembers = *req.TeamMembers
	}

	project.UpdatedAt = time.Now().UTC()
	if err := pc.Store.UpdateProject(c.Context(), project); err != nil {
		pc.Logger.Printf("failed to update project %s: %v", project.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update project",
		})
	}

	pc.Fanout.MembersAdded(c.Context(), user.ID, project, addedMembers)

	return c.JSON(fiber.Map{"message": "Project updated successfully"})
}

func (pc *ProjectController) DeleteProject(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	project, err := pc.Store.ProjectByID(c.Context(), c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Project not found",
		})
	}
	if !access.CanManageProject(user, project) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Only admin or project creator can delete projects",
		})
	}

	// Cascade: the project's tasks, their comments, and notifications
	// linking into the project.
	tasks, err := pc.Store.ListTasks(c.Context(), store.TaskFilter{ProjectID: project.ID})
	if err != nil {
		pc.Logger.Printf("failed to list tasks for project %s: %v", project.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete project",
		})
	}
	taskIDs := make([]string, 0, len(tasks))
	for i := range tasks {
		taskIDs = append(taskIDs, tasks[i].ID)
	}

	if err := pc.Store.DeleteCommentsByTasks(c.Context(), taskIDs); err != nil {
		pc.Logger.Printf("failed to delete comments for project %s: %v", project.ID, err)
	}
	if err := pc.Store.DeleteTasksByProject(c.Context(), project.ID); err != nil {
		pc.Logger.Printf("failed to delete tasks for project %s: %v", project.ID, err)
	}
	if err := pc.Store.DeleteNotificationsByLinkPrefix(c.Context(), "/projects/"+project.ID); err != nil {
		pc.Logger.Printf("failed to purge notifications for project %s: %v", project.ID, err)
	}

	if err := pc.Store.DeleteProject(c.Context(), project.ID); err != nil {
		pc.Logger.Printf("failed to delete project %s: %v", project.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete project",
		})
	}

	return c.JSON(fiber.Map{"message": "Project deleted successfully"})
}
