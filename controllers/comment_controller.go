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

type CommentController struct {
	Store  store.Store
	Fanout *notify.Fanout
	Logger *log.Logger
}

func NewCommentController(s store.Store, f *notify.Fanout, logger *log.Logger) *CommentController {
	return &CommentController{Store: s, Fanout: f, Logger: logger}
}

type CreateCommentRequest struct {
	TaskID  string `json:"task_id" validate:"required"`
	Content string `json:"content" validate:"required"`
}

func (cc *CommentController) CreateComment(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	var req CreateCommentRequest
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

	task, err := cc.Store.TaskByID(c.Context(), req.TaskID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Task not found",
		})
	}
	project, err := cc.Store.ProjectByID(c.Context(), task.ProjectID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Project not found",
		})
	}
	if !access.CanViewTask(user, project, task) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Access denied to comment on this task",
		})
	}

	comment := &models.Comment{
		ID:        uuid.NewString(),
		TaskID:    req.TaskID,
		AuthorID:  user.ID,
		Content:   req.Content,
		CreatedAt: time.Now().UTC(),
	}

	if err := cc.Store.CreateComment(c.Context(), comment); err != nil {
		cc.Logger.Printf("failed to create comment: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create comment",
		})
	}

	cc.Fanout.CommentAdded(c.Context(), user, project, task)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"comment_id": comment.ID,
		"message":    "Comment added successfully",
	})
}

func (cc *CommentController) GetTaskComments(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	task, err := cc.Store.TaskByID(c.Context(), c.Params("task_id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Task not found",
		})
	}
	project, err := cc.Store.ProjectByID(c.Context(), task.ProjectID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Project not found",
		})
	}
	if !access.CanViewTask(user, project, task) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Access denied to view comments on this task",
		})
	}

	comments, err := cc.Store.CommentsByTask(c.Context(), task.ID)
	if err != nil {
		cc.Logger.Printf("failed to list comments for task %s: %v", task.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch comments",
		})
	}

	items := []CommentItem{}
	for i := range comments {
		items = append(items, CommentItem{
			Comment:       comments[i],
			AuthorDetails: userDetails(c.Context(), cc.Store, comments[i].AuthorID),
		})
	}
	return c.JSON(items)
}

func (cc *CommentController) DeleteComment(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	comment, err := cc.Store.CommentByID(c.Context(), c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Comment not found",
		})
	}
	if !access.CanDeleteComment(user, comment) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Permission denied to delete this comment",
		})
	}

	if err := cc.Store.DeleteComment(c.Context(), comment.ID); err != nil {
		cc.Logger.Printf("failed to delete comment %s: %v", comment.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete comment",
		})
	}

	return c.JSON(fiber.Map{"message": "Comment deleted successfully"})
}
