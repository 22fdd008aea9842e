package config

import (
	"os"
	"path/filepath"
	"testing"

	"hr-system/pkg/constants"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultWorkflow(t *testing.T) {
	wf := DefaultWorkflow()

	leave := wf.Stages(constants.KindLeave)
	require.Len(t, leave, 2)
	assert.Equal(t, "MANAGER", leave[0].Name)
	assert.Equal(t, ApproverReportingManager, leave[0].Approver)
	assert.Equal(t, "approvals:hr", leave[1].Permission)

	assert.Len(t, wf.Stages(constants.KindPermission), 1)
	assert.Equal(t, "ACCOUNTS", wf.Stages(constants.KindTravel)[1].Name)
}

func TestDefaultWorkflowIsACopy(t *testing.T) {
	wf := DefaultWorkflow()
	wf.Flows[constants.KindLeave][0].Name = "CHANGED"

	assert.Equal(t, "MANAGER", DefaultWorkflow().Stages(constants.KindLeave)[0].Name)
}

func TestParseWorkflowOverridesOnlyListedKinds(t *testing.T) {
	data := []byte(`
flows:
  PERMISSION:
    - name: MANAGER
      approver: reporting_manager
    - name: HR
      approver: permission
      permission: approvals:hr
`)
	wf, err := ParseWorkflow(data)
	require.NoError(t, err)

	assert.Len(t, wf.Stages(constants.KindPermission), 2)
	assert.Len(t, wf.Stages(constants.KindLeave), 2)

	st, ok := wf.Stage(constants.KindPermission, "HR")
	require.True(t, ok)
	assert.Equal(t, ApproverPermission, st.Approver)
}

func TestParseWorkflowErrors(t *testing.T) {
	cases := map[string]string{
		"unknown kind":       "flows:\n  OVERTIME:\n    - name: A\n      approver: reporting_manager\n",
		"empty flow":         "flows:\n  LEAVE: []\n",
		"duplicate stage":    "flows:\n  LEAVE:\n    - name: A\n      approver: reporting_manager\n    - name: A\n      approver: reporting_manager\n",
		"missing permission": "flows:\n  LEAVE:\n    - name: HR\n      approver: permission\n",
		"unknown approver":   "flows:\n  LEAVE:\n    - name: HR\n      approver: boss\n",
		"broken yaml":        "flows: [",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseWorkflow([]byte(body))
			assert.Error(t, err)
		})
	}
}

func TestLoadWorkflowMissingFileFallsBack(t *testing.T) {
	wf, err := LoadWorkflow(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Len(t, wf.Stages(constants.KindCompOff), 2)
}

func TestLoadWorkflowShippedFile(t *testing.T) {
	wf, err := LoadWorkflow("workflow.yaml")
	require.NoError(t, err)
	for _, kind := range constants.ApprovableKinds {
		assert.NotEmpty(t, wf.Stages(kind), kind)
	}
}

func TestLoadWorkflowUnreadable(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "flows.yaml"), 0o755))

	_, err := LoadWorkflow(filepath.Join(dir, "flows.yaml"))
	assert.Error(t, err)
}
