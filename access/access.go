// Package access consolidates the per-resource authorization rules so
// every handler gates through the same predicates. Admins pass every
// check.
package access

import "taskpilot/models"

// CanViewProject allows team members, the project creator and admins.
func CanViewProject(user *models.User, project *models.Project) bool {
	if user.IsAdmin() {
		return true
	}
	return project.HasMember(user.ID) || project.CreatedBy == user.ID
}

// CanManageProject allows the project creator and admins to update or
// delete the project.
func CanManageProject(user *models.User, project *models.Project) bool {
	return user.IsAdmin() || project.CreatedBy == user.ID
}

// CanViewTask extends project visibility to the task assignee.
func CanViewTask(user *models.User, project *models.Project, task *models.Task) bool {
	if CanViewProject(user, project) {
		return true
	}
	return task.AssignedTo != "" && task.AssignedTo == user.ID
}

// CanManageTask allows full task edits and deletion: admins, the task
// creator and the project creator. Assignees are not included; they get
// the status-only path in the task handler.
func CanManageTask(user *models.User, project *models.Project, task *models.Task) bool {
	if user.IsAdmin() {
		return true
	}
	return task.CreatedBy == user.ID || project.CreatedBy == user.ID
}

// CanDeleteComment allows the author and admins.
func CanDeleteComment(user *models.User, comment *models.Comment) bool {
	return user.IsAdmin() || comment.AuthorID == user.ID
}

// CanAssign reports whether assigneeID may hold tasks in the project:
// it must be a team member or the project creator. Applies to admins'
// assignments too.
func CanAssign(project *models.Project, assigneeID string) bool {
	return project.HasMember(assigneeID) || project.CreatedBy == assigneeID
}
