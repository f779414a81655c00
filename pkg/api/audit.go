package api

import (
	"net/http"
	"strconv"

	"taskboard/pkg/model"
)

// handleAudit lists recent audit entries, admins only.
func (a *API) handleAudit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if identityFrom(r).Role != model.RoleAdmin {
		writeError(w, http.StatusForbidden, "Admin only")
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	entries, err := a.Store.ListAudit(limit)
	if err != nil {
		a.internalError(w, "list audit", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"items": entries})
}
