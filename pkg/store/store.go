package store

import (
	"errors"

	"taskboard/pkg/model"
)

// ErrNotFound is returned when a looked-up user or task does not exist.
var ErrNotFound = errors.New("not found")

// Store defines the persistence layer for users, tasks and the audit
// trail. Backed by gorm against a relational database; handlers never
// touch the database directly.
type Store interface {
	CreateUser(u model.User) (model.User, error)
	GetUser(id uint) (model.User, error)
	GetUserByUsername(username string) (model.User, error)
	// UserExists checks username and email in one query, matching on either.
	UserExists(username, email string) (bool, error)

	CreateTask(t model.Task) (model.Task, error)
	GetTask(id uint) (model.Task, error)
	// ListTasks returns every task, newest first, owner preloaded.
	ListTasks() ([]model.Task, error)
	SaveTask(t model.Task) (model.Task, error)
	DeleteTask(id uint) error

	AppendAudit(e model.AuditEntry) error
	ListAudit(limit int) ([]model.AuditEntry, error)
}
