package models

import (
	"time"

	"github.com/avasilenko/snapdiary/internal/common"
)

// ActionType discriminates the pending-action union. The enumeration is
// closed; no fourth value is ever produced or expected.
type ActionType string

const (
	ActionCreate ActionType = "create"
	ActionUpdate ActionType = "update"
	ActionDelete ActionType = "delete"
)

// CreatePayload carries the full entry plus the sharing destinations the
// user selected when the create could not be confirmed remotely.
type CreatePayload struct {
	Entry        DiaryEntry `json:"entry"`
	TargetGroups []string   `json:"targetGroups"`
}

// UpdatePayload carries the entry id and the field patch. Group-scoped
// copies are not retrospectively updated; TargetGroups is kept for
// diagnostics only.
type UpdatePayload struct {
	EntryID      string     `json:"id"`
	Patch        EntryPatch `json:"payload"`
	TargetGroups []string   `json:"targetGroups,omitempty"`
}

// DeletePayload carries only the id of the entry to delete remotely.
type DeletePayload struct {
	EntryID string `json:"id"`
}

// PendingAction is a durable record of a mutation that could not be
// confirmed against the remote service. Exactly one payload pointer is set,
// matching Type. Actions are created when a mutation fails or connectivity
// is absent, removed only after the corresponding remote call succeeds
// during replay, and never mutated in place.
type PendingAction struct {
	// ID is assigned by the durable queue on insert and used only to
	// dequeue the action after a successful replay.
	ID int64

	Type ActionType

	Create *CreatePayload
	Update *UpdatePayload
	Delete *DeletePayload

	// CreatedAt is diagnostic ordering information for the user; replay
	// order is the queue's insertion order, not this timestamp.
	CreatedAt time.Time
}

// NewCreateAction builds a pending create for the given entry and targets.
func NewCreateAction(entry DiaryEntry, targetGroups []string) PendingAction {
	return PendingAction{
		Type:      ActionCreate,
		Create:    &CreatePayload{Entry: entry, TargetGroups: targetGroups},
		CreatedAt: time.Now().UTC(),
	}
}

// NewUpdateAction builds a pending update of the private-scope record.
func NewUpdateAction(entryID string, patch EntryPatch, targetGroups []string) PendingAction {
	return PendingAction{
		Type:      ActionUpdate,
		Update:    &UpdatePayload{EntryID: entryID, Patch: patch, TargetGroups: targetGroups},
		CreatedAt: time.Now().UTC(),
	}
}

// NewDeleteAction builds a pending delete for the given entry id.
func NewDeleteAction(entryID string) PendingAction {
	return PendingAction{
		Type:      ActionDelete,
		Delete:    &DeletePayload{EntryID: entryID},
		CreatedAt: time.Now().UTC(),
	}
}

// Validate checks that exactly the payload matching Type is present.
func (a *PendingAction) Validate() error {
	switch a.Type {
	case ActionCreate:
		if a.Create == nil || a.Update != nil || a.Delete != nil {
			return common.ErrInvalidAction
		}
		if a.Create.Entry.ID == "" {
			return common.ErrMissingID
		}
	case ActionUpdate:
		if a.Update == nil || a.Create != nil || a.Delete != nil {
			return common.ErrInvalidAction
		}
		if a.Update.EntryID == "" {
			return common.ErrMissingID
		}
	case ActionDelete:
		if a.Delete == nil || a.Create != nil || a.Update != nil {
			return common.ErrInvalidAction
		}
		if a.Delete.EntryID == "" {
			return common.ErrMissingID
		}
	default:
		return common.ErrUnknownAction
	}
	return nil
}

// EntryID returns the id of the entry the action targets.
func (a *PendingAction) EntryID() string {
	switch a.Type {
	case ActionCreate:
		if a.Create != nil {
			return a.Create.Entry.ID
		}
	case ActionUpdate:
		if a.Update != nil {
			return a.Update.EntryID
		}
	case ActionDelete:
		if a.Delete != nil {
			return a.Delete.EntryID
		}
	}
	return ""
}
