package controller

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	"taskpilot/middleware"
	"taskpilot/models"
	"taskpilot/store"
)

type DashboardController struct {
	Store  store.Store
	Logger *log.Logger
}

func NewDashboardController(s store.Store, logger *log.Logger) *DashboardController {
	return &DashboardController{Store: s, Logger: logger}
}

type AdminStats struct {
	TotalProjects       int64                   `json:"total_projects"`
	TotalTasks          int64                   `json:"total_tasks"`
	TotalUsers          int64                   `json:"total_users"`
	TasksByStatus       models.TaskStatusCounts `json:"tasks_by_status"`
	TasksDueToday       int64                   `json:"tasks_due_today"`
	UnreadNotifications int64                   `json:"unread_notifications"`
}

type MemberStats struct {
	MyProjects          int                     `json:"my_projects"`
	MyTotalTasks        int64                   `json:"my_total_tasks"`
	MyTasksByStatus     models.TaskStatusCounts `json:"my_tasks_by_status"`
	MyTasksDueToday     int64                   `json:"my_tasks_due_today"`
	UnreadNotifications int64                   `json:"unread_notifications"`
}

// todayBounds returns the current UTC day's start and end instants.
func todayBounds() (time.Time, time.Time) {
	now := time.Now().UTC()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	end := start.Add(24*time.Hour - time.Nanosecond)
	return start, end
}

func (dc *DashboardController) GetStats(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	ctx := c.Context()
	start, end := todayBounds()

	unread, err := dc.Store.CountUnreadNotifications(ctx, user.ID)
	if err != nil {
		return dc.fail(c, err)
	}

	if user.IsAdmin() {
		totalProjects, err := dc.Store.CountProjects(ctx)
		if err != nil {
			return dc.fail(c, err)
		}
		totalTasks, err := dc.Store.CountTasks(ctx, store.TaskFilter{})
		if err != nil {
			return dc.fail(c, err)
		}
		totalUsers, err := dc.Store.CountUsers(ctx)
		if err != nil {
			return dc.fail(c, err)
		}
		counts, err := dc.Store.TaskStatusCounts(ctx, store.TaskFilter{})
		if err != nil {
			return dc.fail(c, err)
		}
		dueToday, err := dc.Store.CountTasksDueBetween(ctx, "", start, end)
		if err != nil {
			return dc.fail(c, err)
		}

		return c.JSON(AdminStats{
			TotalProjects:       totalProjects,
			TotalTasks:          totalTasks,
			TotalUsers:          totalUsers,
			TasksByStatus:       counts,
			TasksDueToday:       dueToday,
			UnreadNotifications: unread,
		})
	}

	memberProjects, err := dc.Store.ProjectsByMember(ctx, user.ID)
	if err != nil {
		return dc.fail(c, err)
	}
	myTasks, err := dc.Store.CountTasks(ctx, store.TaskFilter{AssignedTo: user.ID})
	if err != nil {
		return dc.fail(c, err)
	}
	counts, err := dc.Store.TaskStatusCounts(ctx, store.TaskFilter{AssignedTo: user.ID})
	if err != nil {
		return dc.fail(c, err)
	}
	dueToday, err := dc.Store.CountTasksDueBetween(ctx, user.ID, start, end)
	if err != nil {
		return dc.fail(c, err)
	}

	return c.JSON(MemberStats{
		MyProjects:          len(memberProjects),
		MyTotalTasks:        myTasks,
		MyTasksByStatus:     counts,
		MyTasksDueToday:     dueToday,
		UnreadNotifications: unread,
	})
}

func (dc *DashboardController) fail(c *fiber.Ctx, err error) error {
	dc.Logger.Printf("failed to build dashboard stats: %v", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "Failed to fetch dashboard stats",
	})
}
