package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"hr-system/internal/dto"
	"hr-system/internal/services"
	"hr-system/pkg/constants"
	apperrors "hr-system/pkg/errors"
	"hr-system/pkg/validation"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type response struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Body    json.RawMessage `json:"body"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) response {
	t.Helper()
	var r response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &r), rec.Body.String())
	return r
}

func newEcho() *echo.Echo {
	e := echo.New()
	e.Validator = validation.New()
	return e
}

func TestHealth(t *testing.T) {
	up := PingerFunc(func(ctx context.Context) error { return nil })
	down := PingerFunc(func(ctx context.Context) error { return errors.New("connection refused") })

	cases := []struct {
		name   string
		checks map[string]Pinger
		code   int
	}{
		{"все доступны", map[string]Pinger{"postgres": up, "redis": up}, http.StatusOK},
		{"redis недоступен", map[string]Pinger{"postgres": up, "redis": down}, http.StatusServiceUnavailable},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := newEcho()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/health", nil), rec)

			require.NoError(t, NewHealthController(tc.checks, zap.NewNop()).Health(c))
			assert.Equal(t, tc.code, rec.Code)

			var body struct {
				Status bool              `json:"status"`
				Body   map[string]string `json:"body"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tc.code == http.StatusOK, body.Status)
			assert.Equal(t, "up", body.Body["postgres"])
		})
	}
}

type fakeApprovalService struct {
	services.ApprovalServiceInterface
	kind    constants.EntryKind
	entryID uint64
	payload dto.DecisionDTO
	err     error
}

func (s *fakeApprovalService) Decide(ctx context.Context, kind constants.EntryKind, entryID uint64, payload dto.DecisionDTO) (*dto.DecisionResultDTO, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.kind, s.entryID, s.payload = kind, entryID, payload
	return &dto.DecisionResultDTO{Kind: kind, EntryID: entryID, Stage: 1, StageName: "MANAGER",
		StageStatus: constants.StatusApproved, EntryStatus: constants.StatusPending}, nil
}

func decideRequest(e *echo.Echo, kind, entryID, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/api/approvals/:kind/:entryId/decision")
	c.SetParamNames("kind", "entryId")
	c.SetParamValues(kind, entryID)
	return c, rec
}

func TestDecide(t *testing.T) {
	svc := &fakeApprovalService{}
	ctrl := NewApprovalController(svc, zap.NewNop())

	c, rec := decideRequest(newEcho(), "leave", "12", `{"decision":"APPROVE","note":"ок"}`)
	require.NoError(t, ctrl.Decide(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, constants.KindLeave, svc.kind)
	assert.Equal(t, uint64(12), svc.entryID)
	assert.Equal(t, "ок", svc.payload.Note)

	var result dto.DecisionResultDTO
	require.NoError(t, json.Unmarshal(decode(t, rec).Body, &result))
	assert.Equal(t, "MANAGER", result.StageName)
	assert.Equal(t, constants.StatusPending, result.EntryStatus)
}

func TestDecideBadRequests(t *testing.T) {
	cases := []struct {
		name    string
		kind    string
		entryID string
		body    string
	}{
		{"неизвестный вид", "vacation", "1", `{"decision":"APPROVE"}`},
		{"нулевой id", "leave", "0", `{"decision":"APPROVE"}`},
		{"нечисловой id", "leave", "abc", `{"decision":"APPROVE"}`},
		{"битый json", "leave", "1", `{"decision":`},
		{"неизвестное решение", "leave", "1", `{"decision":"MAYBE"}`},
		{"без решения", "leave", "1", `{}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &fakeApprovalService{}
			c, rec := decideRequest(newEcho(), tc.kind, tc.entryID, tc.body)
			require.NoError(t, NewApprovalController(svc, zap.NewNop()).Decide(c))

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.False(t, decode(t, rec).Status)
			assert.Zero(t, svc.entryID, "сервис не должен вызываться")
		})
	}
}

func TestDecideServiceErrors(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
	}{
		{"чужой этап", apperrors.ErrForbidden, http.StatusForbidden},
		{"уже решено", apperrors.NewConflict("Заявка уже согласована"), http.StatusConflict},
		{"нет заявки", apperrors.ErrNotFound, http.StatusNotFound},
		{"сбой", errors.New("db down"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &fakeApprovalService{err: tc.err}
			c, rec := decideRequest(newEcho(), "TRAVEL", "3", `{"decision":"REJECT","note":"нет чеков"}`)
			require.NoError(t, NewApprovalController(svc, zap.NewNop()).Decide(c))
			assert.Equal(t, tc.code, rec.Code)
		})
	}
}
