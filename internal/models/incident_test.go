package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransitionIncident(t *testing.T) {
	cases := []struct {
		name    string
		from    string
		to      string
		allowed bool
	}{
		{"unassigned to assigned", IncidentStatusUnassigned, IncidentStatusAssigned, true},
		{"assigned to in-progress", IncidentStatusAssigned, IncidentStatusInProgress, true},
		{"in-progress to resolved", IncidentStatusInProgress, IncidentStatusResolved, true},
		{"skip a step", IncidentStatusUnassigned, IncidentStatusInProgress, false},
		{"skip to resolved", IncidentStatusAssigned, IncidentStatusResolved, false},
		{"backwards", IncidentStatusResolved, IncidentStatusInProgress, false},
		{"same status", IncidentStatusAssigned, IncidentStatusAssigned, false},
		{"unknown from", "archived", IncidentStatusAssigned, false},
		{"unknown to", IncidentStatusAssigned, "archived", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.allowed, CanTransitionIncident(tc.from, tc.to))
		})
	}
}

func TestCanTransitionTask(t *testing.T) {
	cases := []struct {
		name    string
		from    string
		to      string
		allowed bool
	}{
		{"assigned to in-progress", TaskStatusAssigned, TaskStatusInProgress, true},
		{"in-progress to completed", TaskStatusInProgress, TaskStatusCompleted, true},
		{"skip a step", TaskStatusAssigned, TaskStatusCompleted, false},
		{"backwards", TaskStatusCompleted, TaskStatusInProgress, false},
		{"unknown status", TaskStatusAssigned, "cancelled", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.allowed, CanTransitionTask(tc.from, tc.to))
		})
	}
}
