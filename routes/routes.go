package routes

import (
	"log"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"

	controller "taskpilot/controllers"
	"taskpilot/middleware"
	"taskpilot/notify"
	"taskpilot/store"
)

// SetupRoutes registers the API surface against the injected store.
func SetupRoutes(app *fiber.App, s store.Store) {
	fanout := notify.New(s)

	authController := controller.NewAuthController(s, log.New(os.Stdout, "AUTH: ", log.LstdFlags))
	userController := controller.NewUserController(s, log.New(os.Stdout, "USER: ", log.LstdFlags))
	projectController := controller.NewProjectController(s, fanout, log.New(os.Stdout, "PROJECT: ", log.LstdFlags))
	taskController := controller.NewTaskController(s, fanout, log.New(os.Stdout, "TASK: ", log.LstdFlags))
	commentController := controller.NewCommentController(s, fanout, log.New(os.Stdout, "COMMENT: ", log.LstdFlags))
	notificationController := controller.NewNotificationController(s, log.New(os.Stdout, "NOTIFY: ", log.LstdFlags))
	dashboardController := controller.NewDashboardController(s, log.New(os.Stdout, "DASHBOARD: ", log.LstdFlags))

	api := app.Group("/api", logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "healthy"})
	})

	// Public auth endpoints
	auth := api.Group("/auth")
	auth.Post("/signup", authController.Signup)
	auth.Post("/login", authController.Login)
	auth.Get("/me", middleware.Protected(s), authController.Me)

	// Everything below requires a valid bearer token
	protected := api.Group("", middleware.Protected(s))

	protected.Get("/users", userController.GetUsers)

	protected.Post("/projects", projectController.CreateProject)
	protected.Get("/projects", projectController.GetProjects)
	protected.Get("/projects/:id", projectController.GetProject)
	protected.Put("/projects/:id", projectController.UpdateProject)
	protected.Delete("/projects/:id", projectController.DeleteProject)

	protected.Post("/tasks", taskController.CreateTask)
	protected.Get("/tasks", taskController.GetTasks)
	protected.Get("/tasks/:id", taskController.GetTask)
	protected.Put("/tasks/:id", taskController.UpdateTask)
	protected.Delete("/tasks/:id", taskController.DeleteTask)

	protected.Post("/comments", commentController.CreateComment)
	protected.Get("/comments/:task_id", commentController.GetTaskComments)
	protected.Delete("/comments/:id", commentController.DeleteComment)

	// Fixed paths registered before the :id parameter route
	protected.Get("/notifications", notificationController.GetNotifications)
	protected.Put("/notifications/mark-all-read", notificationController.MarkAllRead)
	protected.Get("/notifications/unread-count", notificationController.UnreadCount)
	protected.Put("/notifications/:id/read", notificationController.MarkRead)

	protected.Get("/dashboard/stats", dashboardController.GetStats)

	// Setup 404 handler
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error":   "Not Found",
			"message": "The requested resource was not found",
		})
	})
}
