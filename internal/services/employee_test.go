package services

import (
	"context"
	"net/http"
	"testing"

	"hr-system/internal/entities"

	"github.com/aarondl/null/v8"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

// IsInManagerChain поднимается по руководителям от startManagerID.
func (r *fakeEmployeeRepo) IsInManagerChain(ctx context.Context, startManagerID, employeeID uint64) (bool, error) {
	for id, depth := startManagerID, 0; id != 0 && depth < len(r.byID)+1; depth++ {
		if id == employeeID {
			return true, nil
		}
		e, ok := r.byID[id]
		if !ok {
			return false, nil
		}
		id = e.ManagerID()
	}
	return false, nil
}

func reportsTo(id, managerID uint64) *entities.Employee {
	e := &entities.Employee{ID: id, CompanyID: 1, IsActive: true}
	if managerID != 0 {
		e.ReportingManagerID = null.Int64From(int64(managerID))
	}
	return e
}

func TestValidateManager(t *testing.T) {
	repo := &fakeEmployeeRepo{byID: map[uint64]*entities.Employee{
		1: reportsTo(1, 0),
		2: reportsTo(2, 1),
		3: reportsTo(3, 2),
	}}
	svc := &EmployeeService{repo: repo, logger: zap.NewNop()}

	cases := []struct {
		name    string
		emp     *entities.Employee
		wantErr string
	}{
		{"без руководителя", reportsTo(2, 0), ""},
		{"новый сотрудник", reportsTo(0, 3), ""},
		{"перевод к другому руководителю", reportsTo(3, 1), ""},
		{"сам себе руководитель", reportsTo(2, 2), "сам себе"},
		{"руководитель не найден", reportsTo(2, 99), "не найден"},
		{"цикл подчинения", reportsTo(1, 3), "цикл"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := svc.validateManager(context.Background(), tc.emp)
			if tc.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			requireHTTPCode(t, err, http.StatusBadRequest)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}
