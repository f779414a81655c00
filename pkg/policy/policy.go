// Package policy holds the task access rules: who may touch a task, and
// what an edit does to the admin-edited marker.
package policy

import (
	"taskboard/pkg/auth"
	"taskboard/pkg/model"
)

// CanModify reports whether the identity may update or delete the task:
// the owner always can, an admin always can, nobody else ever can. Reads
// are not gated here; any authenticated identity may list all tasks.
func CanModify(t model.Task, ident auth.Identity) bool {
	return ident.UserID == t.UserID || ident.Role == model.RoleAdmin
}

// NextEditedByAdmin returns the marker value after an edit by the given
// identity. Admin edits set it; everyone else leaves it as found, so the
// flag only ever moves from false to true.
func NextEditedByAdmin(current bool, ident auth.Identity) bool {
	if ident.Role == model.RoleAdmin {
		return true
	}
	return current
}
