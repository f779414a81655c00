package client

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"taskboard/pkg/api"
	"taskboard/pkg/model"
)

func task(id uint, title string) api.TaskResponse {
	return api.TaskResponse{ID: id, Title: title}
}

func TestUpdateIsPure(t *testing.T) {
	before := State{Tasks: []api.TaskResponse{task(1, "one"), task(2, "two")}}
	_ = Update(before, TaskRemoved{ID: 1})
	_ = Update(before, TaskUpdated{Task: task(2, "changed")})

	// The input state is untouched by either transition.
	assert.Equal(t, "one", before.Tasks[0].Title)
	assert.Equal(t, "two", before.Tasks[1].Title)
	assert.Len(t, before.Tasks, 2)
}

func TestTaskMessages(t *testing.T) {
	s := State{}
	s = Update(s, TasksLoaded{Tasks: []api.TaskResponse{task(1, "one")}})
	s = Update(s, TaskAdded{Task: task(2, "two")})

	// Newest first, same as the server's list.
	assert.Equal(t, uint(2), s.Tasks[0].ID)
	assert.Equal(t, uint(1), s.Tasks[1].ID)

	s = Update(s, TaskUpdated{Task: task(1, "one, edited")})
	assert.Equal(t, "one, edited", s.Tasks[1].Title)

	s = Update(s, TaskRemoved{ID: 2})
	assert.Len(t, s.Tasks, 1)
	assert.Equal(t, uint(1), s.Tasks[0].ID)
}

func TestSessionMessages(t *testing.T) {
	s := Update(State{}, LoggedIn{Role: model.RoleAdmin})
	assert.Equal(t, model.RoleAdmin, s.Role)

	s = Update(s, UserLoaded{User: model.User{Username: "alice", Role: model.RoleUser}})
	assert.Equal(t, "alice", s.User.Username)
	assert.Equal(t, model.RoleUser, s.Role)

	s = Update(s, Failed{Msg: "boom"})
	assert.Equal(t, "boom", s.Err)
	assert.NotNil(t, s.User)

	// Any later message clears the error.
	s = Update(s, TasksLoaded{})
	assert.Empty(t, s.Err)

	s = Update(s, LoggedOut{})
	assert.Equal(t, State{}, s)
}
