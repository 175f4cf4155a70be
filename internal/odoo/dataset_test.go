package odoo

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/target/odoo-school-client/internal/testutil"
)

func TestDataset_PayloadShapes(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		method     string
		result     any
		invoke     func(c *Client) (any, error)
		wantArgs   []any
		wantKwargs map[string]any
		want       any
	}{
		{
			name:   "search with paging",
			method: "search",
			result: []int{3, 4},
			invoke: func(c *Client) (any, error) {
				return c.Search(ctx, "school.student", Domain{[]any{"active", "=", true}}, SearchOptions{Limit: 10, Offset: 20})
			},
			wantArgs:   []any{[]any{[]any{"active", "=", true}}},
			wantKwargs: map[string]any{"limit": float64(10), "offset": float64(20)},
			want:       []int64{3, 4},
		},
		{
			name:   "search_read puts everything in kwargs",
			method: "search_read",
			result: []map[string]any{{"id": 1, "name": "1A"}},
			invoke: func(c *Client) (any, error) {
				return c.SearchRead(ctx, "school.student", nil, SearchReadOptions{Fields: []string{"name"}, Limit: 5, Order: "name asc"})
			},
			wantArgs: []any{},
			wantKwargs: map[string]any{
				"domain": []any{},
				"fields": []any{"name"},
				"limit":  float64(5),
				"order":  "name asc",
			},
			want: []Record{{"id": float64(1), "name": "1A"}},
		},
		{
			name:       "search_count",
			method:     "search_count",
			result:     12,
			invoke:     func(c *Client) (any, error) { return c.SearchCount(ctx, "school.student", nil) },
			wantArgs:   []any{[]any{}},
			wantKwargs: map[string]any{},
			want:       int64(12),
		},
		{
			name:   "create returns scalar id",
			method: "create",
			result: 77,
			invoke: func(c *Client) (any, error) {
				return c.Create(ctx, "school.student", map[string]any{"name": "Luis"})
			},
			wantArgs:   []any{map[string]any{"name": "Luis"}},
			wantKwargs: map[string]any{},
			want:       int64(77),
		},
		{
			name:   "create accepts id list",
			method: "create",
			result: []int{78},
			invoke: func(c *Client) (any, error) {
				return c.Create(ctx, "school.student", map[string]any{"name": "Eva"})
			},
			wantArgs:   []any{map[string]any{"name": "Eva"}},
			wantKwargs: map[string]any{},
			want:       int64(78),
		},
		{
			name:   "write",
			method: "write",
			result: true,
			invoke: func(c *Client) (any, error) {
				return c.Update(ctx, "school.student", []int64{7}, map[string]any{"name": "Eva M."})
			},
			wantArgs:   []any{[]any{float64(7)}, map[string]any{"name": "Eva M."}},
			wantKwargs: map[string]any{},
			want:       true,
		},
		{
			name:       "unlink",
			method:     "unlink",
			result:     true,
			invoke:     func(c *Client) (any, error) { return c.DeleteRecords(ctx, "school.student", []int64{7, 8}) },
			wantArgs:   []any{[]any{float64(7), float64(8)}},
			wantKwargs: map[string]any{},
			want:       true,
		},
		{
			name:   "custom method",
			method: "action_confirm",
			result: map[string]any{"type": "ir.actions.act_window_close"},
			invoke: func(c *Client) (any, error) {
				raw, err := c.CallMethod(ctx, "school.student", "action_confirm", []any{[]int64{7}}, nil)
				if err != nil {
					return nil, err
				}
				var out map[string]any
				return out, json.Unmarshal(raw, &out)
			},
			wantArgs:   []any{[]any{float64(7)}},
			wantKwargs: map[string]any{},
			want:       map[string]any{"type": "ir.actions.act_window_close"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newClientFixture(t, "tok-1")
			f.server.HandleKW("school.student", tt.method, func(testutil.RPCCall) testutil.Reply {
				return testutil.Result(tt.result)
			})

			got, err := tt.invoke(f.client)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			calls := f.server.Calls()
			require.Len(t, calls, 1)
			assert.Equal(t, "school.student", calls[0].Model())
			assert.Equal(t, tt.method, calls[0].Method())
			assert.Equal(t, tt.wantArgs, calls[0].Params["args"])
			assert.Equal(t, tt.wantKwargs, calls[0].Params["kwargs"])
		})
	}
}

func TestDataset_DecodeMismatchIsMalformed(t *testing.T) {
	f := newClientFixture(t, "tok-1")
	f.server.HandleKW("school.student", "search_count", func(testutil.RPCCall) testutil.Reply {
		return testutil.Result("twelve")
	})

	_, err := f.client.SearchCount(context.Background(), "school.student", nil)
	require.Error(t, err)
	assert.Equal(t, KindMalformed, KindOf(err))
	assert.Contains(t, err.Error(), "school.student.search_count")
}

func TestDataset_CreateWithEmptyIDList(t *testing.T) {
	f := newClientFixture(t, "tok-1")
	f.server.HandleKW("school.student", "create", func(testutil.RPCCall) testutil.Reply {
		return testutil.Result([]int{})
	})

	_, err := f.client.Create(context.Background(), "school.student", map[string]any{"name": "x"})
	require.Error(t, err)
	assert.Equal(t, KindMalformed, KindOf(err))
}

func TestTypes_Decode(t *testing.T) {
	var payload struct {
		Partner ID   `json:"partner"`
		Company ID   `json:"company"`
		Missing ID   `json:"missing"`
		Plain   ID   `json:"plain"`
		Email   Text `json:"email"`
		Name    Text `json:"name"`
	}
	err := json.Unmarshal([]byte(`{"partner":[12,"Ana Pérez"],"company":false,"missing":null,"plain":3,"email":false,"name":"Ana"}`), &payload)
	require.NoError(t, err)

	assert.Equal(t, ID(12), payload.Partner)
	assert.Zero(t, payload.Company)
	assert.Zero(t, payload.Missing)
	assert.Equal(t, ID(3), payload.Plain)
	assert.Empty(t, payload.Email)
	assert.Equal(t, Text("Ana"), payload.Name)

	var bad ID
	assert.Error(t, json.Unmarshal([]byte(`"x"`), &bad))
}
