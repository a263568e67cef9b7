package controller

import (
	"context"
	"log"

	"github.com/gofiber/fiber/v2"

	"taskpilot/models"
	"taskpilot/store"
)

type UserController struct {
	Store  store.Store
	Logger *log.Logger
}

func NewUserController(s store.Store, logger *log.Logger) *UserController {
	return &UserController{Store: s, Logger: logger}
}

// GetUsers lists every account. The password hash never serializes.
func (uc *UserController) GetUsers(c *fiber.Ctx) error {
	users, err := uc.Store.ListUsers(c.Context())
	if err != nil {
		uc.Logger.Printf("failed to list users: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch users",
		})
	}
	return c.JSON(users)
}

// userDetails resolves the read-time projection for a single user id.
// Returns nil for empty or dangling ids.
func userDetails(ctx context.Context, s store.Store, id string) *models.UserDetails {
	if id == "" {
		return nil
	}
	user, err := s.UserByID(ctx, id)
	if err != nil {
		return nil
	}
	return user.Details()
}

// usersDetails resolves projections for a list of ids in one $in query.
// Dangling ids are silently skipped.
func usersDetails(ctx context.Context, s store.Store, ids []string) []models.UserDetails {
	details := []models.UserDetails{}
	if len(ids) == 0 {
		return details
	}
	users, err := s.UsersByIDs(ctx, ids)
	if err != nil {
		return details
	}
	for i := range users {
		details = append(details, *users[i].Details())
	}
	return details
}

// invalidMemberIDs returns the ids that resolve to no existing user.
func invalidMemberIDs(ctx context.Context, s store.Store, ids []string) ([]string, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	users, err := s.UsersByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	known := make(map[string]bool, len(users))
	for i := range users {
		known[users[i].ID] = true
	}
	invalid := []string{}
	seen := map[string]bool{}
	for _, id := range ids {
		if !known[id] && !seen[id] {
			invalid = append(invalid, id)
			seen[id] = true
		}
	}
	return invalid, nil
}
