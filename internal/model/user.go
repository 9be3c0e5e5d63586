package model

import "time"

// Role is one of the four fixed account categories.
type Role string

const (
	RoleAdmin       Role = "Admin"
	RolePlayer      Role = "Player"
	RoleAgent       Role = "Agent"
	RoleClubManager Role = "Club Manager"
)

// AllRoles lists every role in a fixed order, used for per-role aggregation.
var AllRoles = []Role{RoleAdmin, RolePlayer, RoleAgent, RoleClubManager}

// Valid reports whether r is one of the four known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RolePlayer, RoleAgent, RoleClubManager:
		return true
	}
	return false
}

// User represents a registered user in the system.
type User struct {
	ID           uint       `json:"user_id" gorm:"primaryKey"`
	Name         string     `json:"name" gorm:"size:100;not null"`
	Email        string     `json:"email" gorm:"uniqueIndex;size:255;not null"`
	Role         Role       `json:"role" gorm:"size:50;not null;check:role IN ('Admin','Player','Agent','Club Manager')"`
	PasswordHash string     `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	CreatedAt    time.Time  `json:"created_at" gorm:"autoCreateTime"`
	LastLogin    *time.Time `json:"last_login"`
	// No column default: a `default` tag makes GORM omit the zero value from
	// inserts, turning Create(IsActive=false) into an active row. Creation
	// paths set IsActive explicitly instead.
	IsActive bool `json:"is_active"`
}
