package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"taskboard/pkg/auth"
	"taskboard/pkg/model"
	"taskboard/pkg/policy"
	"taskboard/pkg/store"
)

func (a *API) handleTasks(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		a.listTasks(w, r)
	case http.MethodPost:
		a.createTask(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (a *API) handleTaskByID(w http.ResponseWriter, r *http.Request) {
	idStr := strings.TrimPrefix(r.URL.Path, "/tasks/")
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid task id")
		return
	}
	switch r.Method {
	case http.MethodPut:
		a.updateTask(w, r, uint(id))
	case http.MethodDelete:
		a.deleteTask(w, r, uint(id))
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// listTasks returns every task, newest first. Reads are open to any
// authenticated identity regardless of ownership.
func (a *API) listTasks(w http.ResponseWriter, _ *http.Request) {
	tasks, err := a.Store.ListTasks()
	if err != nil {
		a.internalError(w, "list tasks", err)
		return
	}
	out := make([]TaskResponse, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, toTaskResponse(t))
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"tasks": out})
}

func (a *API) createTask(w http.ResponseWriter, r *http.Request) {
	var req taskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Title == "" {
		writeError(w, http.StatusBadRequest, "Title required")
		return
	}
	ident := identityFrom(r)
	task, err := a.Store.CreateTask(model.Task{
		Title:  req.Title,
		UserID: ident.UserID,
	})
	if err != nil {
		a.internalError(w, "create task", err)
		return
	}
	_ = a.Store.AppendAudit(model.AuditEntry{
		Actor:  task.User.Username,
		Action: "task_create",
		Target: fmt.Sprintf("task/%d", task.ID),
		Detail: task.Title,
	})
	writeJSON(w, http.StatusOK, map[string]interface{}{"task": toTaskResponse(task)})
}

func (a *API) updateTask(w http.ResponseWriter, r *http.Request, id uint) {
	var req taskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Title == "" {
		writeError(w, http.StatusBadRequest, "Title required")
		return
	}

	task, err := a.Store.GetTask(id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Task not found")
		return
	}
	if err != nil {
		a.internalError(w, "update task lookup", err)
		return
	}

	ident := identityFrom(r)
	if !policy.CanModify(task, ident) {
		writeError(w, http.StatusForbidden, "Unauthorized")
		return
	}

	task.Title = req.Title
	task.EditedByAdmin = policy.NextEditedByAdmin(task.EditedByAdmin, ident)
	updated, err := a.Store.SaveTask(task)
	if err != nil {
		a.internalError(w, "update task save", err)
		return
	}
	_ = a.Store.AppendAudit(model.AuditEntry{
		Actor:  actorName(a, ident),
		Action: "task_update",
		Target: fmt.Sprintf("task/%d", updated.ID),
		Detail: updated.Title,
	})
	writeJSON(w, http.StatusOK, map[string]interface{}{"task": toTaskResponse(updated)})
}

func (a *API) deleteTask(w http.ResponseWriter, r *http.Request, id uint) {
	task, err := a.Store.GetTask(id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Task not found")
		return
	}
	if err != nil {
		a.internalError(w, "delete task lookup", err)
		return
	}

	ident := identityFrom(r)
	if !policy.CanModify(task, ident) {
		writeError(w, http.StatusForbidden, "Unauthorized")
		return
	}

	if err := a.Store.DeleteTask(id); err != nil && !errors.Is(err, store.ErrNotFound) {
		a.internalError(w, "delete task", err)
		return
	}
	_ = a.Store.AppendAudit(model.AuditEntry{
		Actor:  actorName(a, ident),
		Action: "task_delete",
		Target: fmt.Sprintf("task/%d", id),
		Detail: task.Title,
	})
	writeJSON(w, http.StatusOK, map[string]string{"msg": "Task deleted successfully"})
}

// actorName resolves the acting user's name for the audit trail; the id
// is still usable when the user row is gone.
func actorName(a *API, ident auth.Identity) string {
	if u, err := a.Store.GetUser(ident.UserID); err == nil {
		return u.Username
	}
	return fmt.Sprintf("user/%d", ident.UserID)
}
