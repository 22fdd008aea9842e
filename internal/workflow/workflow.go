// Package workflow - переходы статусов многоэтапного согласования.
package workflow

import (
	"errors"
	"strings"

	"hr-system/pkg/constants"
)

var (
	ErrNoStages        = errors.New("у записи нет этапов согласования")
	ErrAlreadyFinal    = errors.New("решение по записи уже принято")
	ErrInvalidDecision = errors.New("неизвестное решение")
	ErrNoteRequired    = errors.New("при отклонении нужно указать причину")
)

// StageState - минимально необходимое о этапе для расчёта переходов.
type StageState struct {
	Stage  int
	Name   string
	Status constants.Status
}

// EntryStatus: любой отказ отклоняет запись, все одобрения одобряют.
// Этапы должны быть отсортированы по Stage.
func EntryStatus(stages []StageState) constants.Status {
	if len(stages) == 0 {
		return constants.StatusPending
	}
	approved := 0
	for _, st := range stages {
		switch st.Status {
		case constants.StatusRejected:
			return constants.StatusRejected
		case constants.StatusApproved:
			approved++
		}
	}
	if approved == len(stages) {
		return constants.StatusApproved
	}
	return constants.StatusPending
}

// CurrentStage - индекс первого ожидающего этапа, все предыдущие которого одобрены.
func CurrentStage(stages []StageState) (int, bool) {
	for i, st := range stages {
		switch st.Status {
		case constants.StatusApproved:
			continue
		case constants.StatusPending:
			return i, true
		default:
			return -1, false
		}
	}
	return -1, false
}

// Transition - результат применения решения.
type Transition struct {
	Index       int
	StageStatus constants.Status
	EntryStatus constants.Status
	IsLastStage bool
}

// Decide применяет решение к текущему этапу. Срез stages не изменяется.
func Decide(stages []StageState, decision constants.Decision, note string) (Transition, error) {
	if len(stages) == 0 {
		return Transition{}, ErrNoStages
	}

	var stageStatus constants.Status
	switch decision {
	case constants.DecisionApprove:
		stageStatus = constants.StatusApproved
	case constants.DecisionReject:
		if strings.TrimSpace(note) == "" {
			return Transition{}, ErrNoteRequired
		}
		stageStatus = constants.StatusRejected
	default:
		return Transition{}, ErrInvalidDecision
	}

	idx, ok := CurrentStage(stages)
	if !ok {
		return Transition{}, ErrAlreadyFinal
	}

	next := make([]StageState, len(stages))
	copy(next, stages)
	next[idx].Status = stageStatus

	return Transition{
		Index:       idx,
		StageStatus: stageStatus,
		EntryStatus: EntryStatus(next),
		IsLastStage: idx == len(stages)-1,
	}, nil
}

// Progress - сколько этапов уже одобрено.
func Progress(stages []StageState) (approved, total int) {
	for _, st := range stages {
		if st.Status == constants.StatusApproved {
			approved++
		}
	}
	return approved, len(stages)
}
