package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	apperrors "github.com/target/odoo-school-client/internal/errors"
	"github.com/target/odoo-school-client/internal/odoo"
	"github.com/target/odoo-school-client/internal/testutil"
)

type staticHealth bool

func (h staticHealth) CheckServerHealth(context.Context) bool { return bool(h) }

func newStudentService(t *testing.T, healthy bool) (*stack, *RecordService) {
	t.Helper()
	s := newStack(t)
	s.creds.Set(context.Background(), "tok-1")
	svc, err := NewStudentService(RecordServiceOptions{Gateway: s.client, Health: staticHealth(healthy)})
	require.NoError(t, err)
	return s, svc
}

func TestNewRecordService_Validation(t *testing.T) {
	s := newStack(t)

	_, err := NewRecordService("", nil, RecordServiceOptions{Gateway: s.client, Health: staticHealth(true)})
	require.Error(t, err)
	_, err = NewRecordService(ModelStudent, nil, RecordServiceOptions{Health: staticHealth(true)})
	require.Error(t, err)
	_, err = NewRecordService(ModelStudent, nil, RecordServiceOptions{Gateway: s.client})
	require.Error(t, err)

	for _, ctor := range []func(RecordServiceOptions) (*RecordService, error){
		NewSectionService, NewStudentService, NewEvaluationService, NewPartnerService,
	} {
		svc, err := ctor(RecordServiceOptions{Gateway: s.client, Health: staticHealth(true)})
		require.NoError(t, err)
		assert.NotEmpty(t, svc.Model())
	}
}

func TestRecordService_ListUsesDefaultFields(t *testing.T) {
	s, svc := newStudentService(t, true)
	s.server.HandleKW(ModelStudent, "search_read", func(testutil.RPCCall) testutil.Reply {
		return testutil.Result([]map[string]any{{"id": 1, "name": "Luis"}})
	})

	recs, err := svc.List(context.Background(), odoo.Domain{[]any{"state", "=", "active"}}, ListOptions{Limit: 20})
	require.NoError(t, err)
	require.Len(t, recs, 1)

	kwargs := s.server.Calls()[0].Params["kwargs"].(map[string]any)
	assert.Equal(t, []any{"name", "code", "section_id", "partner_id", "state"}, kwargs["fields"])
	assert.Equal(t, float64(20), kwargs["limit"])
}

func TestRecordService_Get(t *testing.T) {
	s, svc := newStudentService(t, true)
	s.server.HandleKW(ModelStudent, "read", func(call testutil.RPCCall) testutil.Reply {
		ids := call.Params["args"].([]any)[0].([]any)
		if ids[0].(float64) == 42 {
			return testutil.Result([]map[string]any{{"id": 42, "name": "Ana"}})
		}
		return testutil.Result([]map[string]any{})
	})
	ctx := context.Background()

	rec, err := svc.Get(ctx, 42, "name")
	require.NoError(t, err)
	assert.Equal(t, "Ana", rec["name"])

	_, err = svc.Get(ctx, 43)
	assert.True(t, apperrors.IsNotFound(err))

	_, err = svc.Get(ctx, 0)
	assert.True(t, apperrors.IsValidation(err))
}

func TestRecordService_WritesRefusedWhileOffline(t *testing.T) {
	s, svc := newStudentService(t, false)
	ctx := context.Background()

	_, err := svc.Create(ctx, map[string]any{"name": "Luis"})
	assert.True(t, apperrors.IsOffline(err))
	assert.Equal(t, MsgOffline, apperrors.Message(err))

	assert.True(t, apperrors.IsOffline(svc.Update(ctx, []int64{1}, map[string]any{"name": "x"})))
	assert.True(t, apperrors.IsOffline(svc.Delete(ctx, []int64{1})))
	_, err = svc.Action(ctx, "action_confirm", []int64{1}, nil)
	assert.True(t, apperrors.IsOffline(err))

	assert.Zero(t, s.server.CallCount(""))
}

func TestRecordService_Writes(t *testing.T) {
	s, svc := newStudentService(t, true)
	ctx := context.Background()
	s.server.HandleKW(ModelStudent, "create", func(testutil.RPCCall) testutil.Reply { return testutil.Result(7) })
	s.server.HandleKW(ModelStudent, "write", func(testutil.RPCCall) testutil.Reply { return testutil.Result(true) })
	s.server.HandleKW(ModelStudent, "unlink", func(testutil.RPCCall) testutil.Reply { return testutil.Result(false) })
	s.server.HandleKW(ModelStudent, "action_enroll", func(testutil.RPCCall) testutil.Reply { return testutil.Result(true) })

	id, err := svc.Create(ctx, map[string]any{"name": "Luis"})
	require.NoError(t, err)
	assert.Equal(t, int64(7), id)

	require.NoError(t, svc.Update(ctx, []int64{7}, map[string]any{"name": "Luis M."}))

	err = svc.Delete(ctx, []int64{7})
	assert.True(t, apperrors.IsInternal(err))

	raw, err := svc.Action(ctx, "action_enroll", []int64{7}, nil)
	require.NoError(t, err)
	assert.JSONEq(t, `true`, string(raw))

	_, err = svc.Create(ctx, nil)
	assert.True(t, apperrors.IsValidation(err))
	assert.True(t, apperrors.IsValidation(svc.Update(ctx, nil, map[string]any{"x": 1})))
}

func TestRecordService_ErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		reply    testutil.Reply
		noToken  bool
		wantCode apperrors.ErrorCode
		wantMsg  string
	}{
		{
			name:     "business error keeps backend detail",
			reply:    testutil.RPCError(200, "Odoo Server Error", "odoo.exceptions.UserError", "No se puede eliminar: tiene matrículas activas"),
			wantCode: apperrors.ErrCodeInternal,
			wantMsg:  "No se puede eliminar: tiene matrículas activas",
		},
		{
			name:     "expired",
			reply:    testutil.RPCError(100, "Odoo Session Expired", "odoo.http.SessionExpiredException", "Session expired"),
			wantCode: apperrors.ErrCodeSessionExpired,
			wantMsg:  odoo.MsgSessionExpired,
		},
		{
			name:     "server down",
			reply:    testutil.HTTPStatus(http.StatusServiceUnavailable),
			wantCode: apperrors.ErrCodeOffline,
			wantMsg:  MsgOffline,
		},
		{
			name:     "no session",
			noToken:  true,
			wantCode: apperrors.ErrCodeNoSession,
			wantMsg:  odoo.MsgNoSession,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, svc := newStudentService(t, true)
			if tt.noToken {
				s.creds.Clear(context.Background())
			}
			s.server.Reply(odoo.PathCallKW, tt.reply)

			_, err := svc.Count(context.Background(), nil)
			require.Error(t, err)
			assert.Equal(t, tt.wantCode, apperrors.GetCode(err))
			assert.Equal(t, tt.wantMsg, apperrors.Message(err))
		})
	}
}
