package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avasilenko/snapdiary/internal/common"
)

func TestNewCreateAction_ShapeAndValidation(t *testing.T) {
	entry := DiaryEntry{ID: "e1", Mood: MoodHappy}
	a := NewCreateAction(entry, []string{common.ScopePrivate, "g1"})

	require.NoError(t, a.Validate())
	assert.Equal(t, ActionCreate, a.Type)
	assert.Equal(t, "e1", a.EntryID())
	assert.Nil(t, a.Update)
	assert.Nil(t, a.Delete)
	assert.False(t, a.CreatedAt.IsZero())
}

func TestNewUpdateAction_ShapeAndValidation(t *testing.T) {
	caption := "new"
	a := NewUpdateAction("e2", EntryPatch{Caption: &caption}, []string{common.ScopePrivate})

	require.NoError(t, a.Validate())
	assert.Equal(t, ActionUpdate, a.Type)
	assert.Equal(t, "e2", a.EntryID())
}

func TestNewDeleteAction_ShapeAndValidation(t *testing.T) {
	a := NewDeleteAction("e3")

	require.NoError(t, a.Validate())
	assert.Equal(t, ActionDelete, a.Type)
	assert.Equal(t, "e3", a.EntryID())
	assert.Nil(t, a.Create)
	assert.Nil(t, a.Update)
}

func TestPendingAction_Validate_RejectsInvalidStates(t *testing.T) {
	// wrong payload for the declared type
	a := PendingAction{Type: ActionCreate, Delete: &DeletePayload{EntryID: "x"}}
	require.ErrorIs(t, a.Validate(), common.ErrInvalidAction)

	// two payloads at once
	b := NewCreateAction(DiaryEntry{ID: "e1", Mood: MoodHappy}, nil)
	b.Delete = &DeletePayload{EntryID: "e1"}
	require.ErrorIs(t, b.Validate(), common.ErrInvalidAction)

	// unknown discriminant
	c := PendingAction{Type: "upsert"}
	require.ErrorIs(t, c.Validate(), common.ErrUnknownAction)

	// missing target id
	d := PendingAction{Type: ActionDelete, Delete: &DeletePayload{}}
	require.ErrorIs(t, d.Validate(), common.ErrMissingID)
}
