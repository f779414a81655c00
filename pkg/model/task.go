package model

import "time"

// Task is a shared to-do item. UserID is fixed at creation; EditedByAdmin
// only ever moves from false to true, as a side effect of an admin edit.
type Task struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Title         string    `gorm:"size:255" json:"title"`
	UserID        uint      `gorm:"index" json:"userId"`
	User          User      `json:"-"`
	EditedByAdmin bool      `json:"editedByAdmin"`
	CreatedAt     time.Time `json:"createdAt"`
}
