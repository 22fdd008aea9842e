package config

import (
	"errors"
	"fmt"
	"os"

	"hr-system/pkg/constants"

	"gopkg.in/yaml.v3"
)

// ApproverType - кто может принять решение на этапе.
type ApproverType string

const (
	ApproverReportingManager ApproverType = "reporting_manager"
	ApproverPermission       ApproverType = "permission"
)

type StageDef struct {
	Name       string       `yaml:"name"`
	Approver   ApproverType `yaml:"approver"`
	Permission string       `yaml:"permission,omitempty"`
}

type Workflow struct {
	Flows map[constants.EntryKind][]StageDef
}

type workflowFile struct {
	Flows map[string][]StageDef `yaml:"flows"`
}

var defaultFlows = map[constants.EntryKind][]StageDef{
	constants.KindLeave: {
		{Name: "MANAGER", Approver: ApproverReportingManager},
		{Name: "HR", Approver: ApproverPermission, Permission: "approvals:hr"},
	},
	constants.KindPermission: {
		{Name: "MANAGER", Approver: ApproverReportingManager},
	},
	constants.KindCompOff: {
		{Name: "MANAGER", Approver: ApproverReportingManager},
		{Name: "HR", Approver: ApproverPermission, Permission: "approvals:hr"},
	},
	constants.KindTravel: {
		{Name: "MANAGER", Approver: ApproverReportingManager},
		{Name: "ACCOUNTS", Approver: ApproverPermission, Permission: "approvals:accounts"},
	},
}

// DefaultWorkflow - маршруты согласования, если файл не задан.
func DefaultWorkflow() *Workflow {
	flows := make(map[constants.EntryKind][]StageDef, len(defaultFlows))
	for kind, stages := range defaultFlows {
		flows[kind] = append([]StageDef(nil), stages...)
	}
	return &Workflow{Flows: flows}
}

// LoadWorkflow читает YAML; отсутствующий файл означает маршруты по умолчанию.
func LoadWorkflow(path string) (*Workflow, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return DefaultWorkflow(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("чтение %s: %w", path, err)
	}
	return ParseWorkflow(data)
}

// ParseWorkflow переопределяет маршруты только для видов, указанных в файле.
func ParseWorkflow(data []byte) (*Workflow, error) {
	var file workflowFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("разбор маршрутов согласования: %w", err)
	}

	wf := DefaultWorkflow()
	for rawKind, stages := range file.Flows {
		kind, ok := constants.ParseEntryKind(rawKind)
		if !ok {
			return nil, fmt.Errorf("неизвестный вид записи %q", rawKind)
		}
		if err := validateStages(kind, stages); err != nil {
			return nil, err
		}
		wf.Flows[kind] = stages
	}
	return wf, nil
}

func validateStages(kind constants.EntryKind, stages []StageDef) error {
	if len(stages) == 0 {
		return fmt.Errorf("%s: маршрут должен содержать хотя бы один этап", kind)
	}
	seen := make(map[string]bool, len(stages))
	for _, st := range stages {
		if st.Name == "" {
			return fmt.Errorf("%s: у этапа нет имени", kind)
		}
		if seen[st.Name] {
			return fmt.Errorf("%s: этап %s указан дважды", kind, st.Name)
		}
		seen[st.Name] = true
		switch st.Approver {
		case ApproverReportingManager:
		case ApproverPermission:
			if st.Permission == "" {
				return fmt.Errorf("%s/%s: для approver=permission нужна привилегия", kind, st.Name)
			}
		default:
			return fmt.Errorf("%s/%s: неизвестный тип согласующего %q", kind, st.Name, st.Approver)
		}
	}
	return nil
}

// Stages возвращает этапы вида записи по порядку.
func (w *Workflow) Stages(kind constants.EntryKind) []StageDef {
	return w.Flows[kind]
}

// Stage - описание этапа по имени.
func (w *Workflow) Stage(kind constants.EntryKind, name string) (StageDef, bool) {
	for _, st := range w.Flows[kind] {
		if st.Name == name {
			return st, true
		}
	}
	return StageDef{}, false
}
