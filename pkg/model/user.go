package model

import "time"

// Role separates regular users from administrators. New accounts always
// start as RoleUser; no endpoint changes a role afterwards.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"uniqueIndex;size:64" json:"username"`
	Email        string    `gorm:"uniqueIndex;size:128" json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `gorm:"size:16;default:USER" json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Owner is the projection of a user embedded in task payloads. Only id and
// username are exposed there.
type Owner struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
}

func (u User) Owner() Owner {
	return Owner{ID: u.ID, Username: u.Username}
}
