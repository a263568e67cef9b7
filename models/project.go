package models

import "time"

// Project groups tasks under a creator and a set of team members.
// Members are stored as user ids; referential integrity is enforced in
// the handlers before every write, not by the store.
type Project struct {
	ID          string    `bson:"project_id" json:"project_id"`
	Title       string    `bson:"title" json:"title"`
	Description string    `bson:"description" json:"description"`
	CreatedBy   string    `bson:"created_by" json:"created_by"`
	TeamMembers []string  `bson:"team_members" json:"team_members"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at" json:"updated_at"`
}

// HasMember reports whether the user id appears in team_members.
func (p *Project) HasMember(userID string) bool {
	for _, id := range p.TeamMembers {
		if id == userID {
			return true
		}
	}
	return false
}
