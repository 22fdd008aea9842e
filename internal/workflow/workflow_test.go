package workflow

import (
	"testing"

	"hr-system/pkg/constants"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	P = constants.StatusPending
	A = constants.StatusApproved
	R = constants.StatusRejected
)

func stages(statuses ...constants.Status) []StageState {
	names := []string{"MANAGER", "HR", "ACCOUNTS"}
	out := make([]StageState, len(statuses))
	for i, s := range statuses {
		out[i] = StageState{Stage: i + 1, Name: names[i], Status: s}
	}
	return out
}

func TestEntryStatus(t *testing.T) {
	tests := []struct {
		name     string
		stages   []StageState
		expected constants.Status
	}{
		{"no stages", nil, P},
		{"all pending", stages(P, P), P},
		{"first approved", stages(A, P), P},
		{"all approved", stages(A, A), A},
		{"first rejected", stages(R, P), R},
		{"second rejected", stages(A, R), R},
		{"single stage approved", stages(A), A},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, EntryStatus(tt.stages))
		})
	}
}

func TestCurrentStage(t *testing.T) {
	idx, ok := CurrentStage(stages(P, P))
	assert.True(t, ok)
	assert.Equal(t, 0, idx)

	idx, ok = CurrentStage(stages(A, P, P))
	assert.True(t, ok)
	assert.Equal(t, 1, idx)

	_, ok = CurrentStage(stages(A, A))
	assert.False(t, ok)

	_, ok = CurrentStage(stages(R, P))
	assert.False(t, ok)
}

func TestDecideApprovesStagesInOrder(t *testing.T) {
	st := stages(P, P)

	tr, err := Decide(st, constants.DecisionApprove, "")
	require.NoError(t, err)
	assert.Equal(t, 0, tr.Index)
	assert.Equal(t, A, tr.StageStatus)
	assert.Equal(t, P, tr.EntryStatus)
	assert.False(t, tr.IsLastStage)
	assert.Equal(t, P, st[0].Status, "input must not be mutated")

	st[0].Status = A
	tr, err = Decide(st, constants.DecisionApprove, "")
	require.NoError(t, err)
	assert.Equal(t, 1, tr.Index)
	assert.Equal(t, A, tr.EntryStatus)
	assert.True(t, tr.IsLastStage)
}

func TestDecideRejectEndsWorkflow(t *testing.T) {
	tr, err := Decide(stages(P, P), constants.DecisionReject, "нет замены")
	require.NoError(t, err)
	assert.Equal(t, 0, tr.Index)
	assert.Equal(t, R, tr.StageStatus)
	assert.Equal(t, R, tr.EntryStatus)

	_, err = Decide(stages(R, P), constants.DecisionApprove, "")
	assert.ErrorIs(t, err, ErrAlreadyFinal)
}

func TestDecideErrors(t *testing.T) {
	_, err := Decide(nil, constants.DecisionApprove, "")
	assert.ErrorIs(t, err, ErrNoStages)

	for _, note := range []string{"", "   ", "\t\n"} {
		_, err = Decide(stages(P), constants.DecisionReject, note)
		assert.ErrorIs(t, err, ErrNoteRequired, "причина %q", note)
	}

	_, err = Decide(stages(P), "MAYBE", "")
	assert.ErrorIs(t, err, ErrInvalidDecision)

	_, err = Decide(stages(A, A), constants.DecisionApprove, "")
	assert.ErrorIs(t, err, ErrAlreadyFinal)
}

func TestProgress(t *testing.T) {
	approved, total := Progress(stages(A, P, P))
	assert.Equal(t, 1, approved)
	assert.Equal(t, 3, total)
}
