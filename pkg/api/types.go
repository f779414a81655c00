package api

import (
	"encoding/json"
	"net/http"
	"time"

	"taskboard/pkg/model"
)

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type taskRequest struct {
	Title string `json:"title"`
}

// TaskResponse is the wire shape of a task, owner trimmed to id+username.
type TaskResponse struct {
	ID            uint        `json:"id"`
	Title         string      `json:"title"`
	EditedByAdmin bool        `json:"editedByAdmin"`
	CreatedAt     time.Time   `json:"createdAt"`
	User          model.Owner `json:"user"`
}

func toTaskResponse(t model.Task) TaskResponse {
	return TaskResponse{
		ID:            t.ID,
		Title:         t.Title,
		EditedByAdmin: t.EditedByAdmin,
		CreatedAt:     t.CreatedAt,
		User:          t.User.Owner(),
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError emits the uniform {error_msg} body every failure uses.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error_msg": msg})
}
