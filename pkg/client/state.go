package client

import (
	"taskboard/pkg/api"
	"taskboard/pkg/model"
)

// State is the client shell's entire UI state. It is never mutated in
// place; Update derives the next state from the previous one and a
// message, and views render from it without state of their own.
type State struct {
	User  *model.User
	Role  model.Role
	Tasks []api.TaskResponse
	Err   string
}

type Msg interface{ isMsg() }

type LoggedIn struct{ Role model.Role }
type LoggedOut struct{}
type UserLoaded struct{ User model.User }
type TasksLoaded struct{ Tasks []api.TaskResponse }
type TaskAdded struct{ Task api.TaskResponse }
type TaskUpdated struct{ Task api.TaskResponse }
type TaskRemoved struct{ ID uint }
type Failed struct{ Msg string }

func (LoggedIn) isMsg()    {}
func (LoggedOut) isMsg()   {}
func (UserLoaded) isMsg()  {}
func (TasksLoaded) isMsg() {}
func (TaskAdded) isMsg()   {}
func (TaskUpdated) isMsg() {}
func (TaskRemoved) isMsg() {}
func (Failed) isMsg()      {}

// Update is the single state transition function. Every message clears
// any previous error except Failed, which records one.
func Update(s State, m Msg) State {
	s.Err = ""
	switch msg := m.(type) {
	case LoggedIn:
		s.Role = msg.Role
	case LoggedOut:
		return State{}
	case UserLoaded:
		u := msg.User
		s.User = &u
		s.Role = u.Role
	case TasksLoaded:
		s.Tasks = append([]api.TaskResponse(nil), msg.Tasks...)
	case TaskAdded:
		// Server lists newest first; mirror that locally.
		s.Tasks = append([]api.TaskResponse{msg.Task}, s.Tasks...)
	case TaskUpdated:
		tasks := append([]api.TaskResponse(nil), s.Tasks...)
		for i, t := range tasks {
			if t.ID == msg.Task.ID {
				tasks[i] = msg.Task
			}
		}
		s.Tasks = tasks
	case TaskRemoved:
		tasks := make([]api.TaskResponse, 0, len(s.Tasks))
		for _, t := range s.Tasks {
			if t.ID != msg.ID {
				tasks = append(tasks, t)
			}
		}
		s.Tasks = tasks
	case Failed:
		s.Err = msg.Msg
	}
	return s
}
