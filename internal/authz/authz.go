// Package authz decides which employee-profile sections a viewer may edit.
//
// Every profile-editing surface calls CanEdit before submitting a section
// PATCH, so the rule lives in exactly one place.
package authz

import "github.com/alfredjeanlab/hrms/internal/model"

// RestrictedSections are the sections a self-service viewer may never edit,
// even on their own record.
var RestrictedSections = map[model.Section]bool{
	model.SectionAttendance:        true,
	model.SectionEmploymentDetails: true,
}

// CanEdit reports whether a viewer with the given role and id may submit
// edits to section of the employee identified by subjectID.
//
//   - HR_Manager may edit every section of every record.
//   - Team_Leader and Employee may edit their own record except the
//     RestrictedSections.
//   - Everything else is denied.
func CanEdit(section model.Section, role model.Role, viewerID, subjectID string) bool {
	if role.IsAdmin() {
		return true
	}
	if !role.IsSelfService() {
		return false
	}
	if viewerID == "" || viewerID != subjectID {
		return false
	}
	return !RestrictedSections[section]
}

// EditableSections returns the sections of model.AllSections that CanEdit
// allows, in display order.
func EditableSections(role model.Role, viewerID, subjectID string) []model.Section {
	var out []model.Section
	for _, s := range model.AllSections {
		if CanEdit(s, role, viewerID, subjectID) {
			out = append(out, s)
		}
	}
	return out
}

// DeniedError is returned by Check when an edit is not allowed.
type DeniedError struct {
	Section model.Section
	Role    model.Role
}

func (e *DeniedError) Error() string {
	return "role " + string(e.Role) + " may not edit section " + string(e.Section) + " of this record"
}

// Check is CanEdit returning a *DeniedError instead of false.
func Check(section model.Section, role model.Role, viewerID, subjectID string) error {
	if CanEdit(section, role, viewerID, subjectID) {
		return nil
	}
	return &DeniedError{Section: section, Role: role}
}
