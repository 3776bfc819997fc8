package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidStatus(t *testing.T) {
	assert.True(t, ValidStatus(StatusPending))
	assert.True(t, ValidStatus(StatusInProgress))
	assert.True(t, ValidStatus(StatusCompleted))
	assert.False(t, ValidStatus(""))
	assert.False(t, ValidStatus("pending"))
	assert.False(t, ValidStatus("Done"))
}

func TestTaskVisibleTo(t *testing.T) {
	task := &Task{
		OwnerID:    "alice",
		AssigneeID: "bob",
		SharedWith: []string{"carol"},
	}

	assert.True(t, task.VisibleTo("alice"))
	assert.True(t, task.VisibleTo("bob"))
	assert.True(t, task.VisibleTo("carol"))
	assert.False(t, task.VisibleTo("dave"))
	assert.False(t, task.VisibleTo(""))

	var nilTask *Task
	assert.False(t, nilTask.VisibleTo("alice"))
}

func TestTaskIsOwner(t *testing.T) {
	task := &Task{OwnerID: "alice", SharedWith: []string{"bob"}}

	assert.True(t, task.IsOwner("alice"))
	assert.False(t, task.IsOwner("bob"))
	assert.False(t, task.IsOwner(""))
	assert.True(t, task.IsSharedWith("bob"))
	assert.False(t, task.IsSharedWith("alice"))
}
