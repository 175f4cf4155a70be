package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/target/odoo-school-client/internal/odoo"
	"github.com/target/odoo-school-client/internal/service"
	"github.com/target/odoo-school-client/internal/testutil"
)

type cliResult struct {
	code   int
	stdout string
	stderr string
}

// cliEnv points the CLI at a fake server and a throwaway session file.
func cliEnv(t *testing.T) *testutil.FakeOdoo {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)

	server := testutil.NewFakeOdoo(t)
	t.Setenv("ODOO_HOST", server.URL())
	t.Setenv("ODOO_DATABASE", "school")
	t.Setenv("STORAGE_BACKEND", "file")
	t.Setenv("STORAGE_FILE_PATH", filepath.Join(dir, "session.json"))
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv(passwordEnv, "")
	t.Setenv(envFileEnv, "")
	return server
}

func runCLI(t *testing.T, args ...string) cliResult {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, &stdout, &stderr)
	return cliResult{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

func authenticateReply(role any) testutil.Reply {
	return testutil.Reply{
		Result: map[string]any{
			"uid":          5,
			"username":     "ana@colegio.edu",
			"name":         "Ana Pérez",
			"partner_id":   []any{12, "Ana Pérez"},
			"company_id":   []any{1, "Colegio"},
			"user_context": map[string]any{"lang": "es_ES"},
			"role":         role,
		},
		SessionID: "0123456789abcdef",
	}
}

func login(t *testing.T, server *testutil.FakeOdoo) {
	t.Helper()
	server.Reply(odoo.PathAuthenticate, authenticateReply("profesor"))
	res := runCLI(t, "login", "-u", "ana@colegio.edu", "-p", "secret")
	require.Equal(t, exitOK, res.code, res.stderr)
}

func TestRun_Usage(t *testing.T) {
	res := runCLI(t)
	assert.Equal(t, exitUsage, res.code)
	assert.Contains(t, res.stderr, "Usage: odoo-school <command>")
	assert.Contains(t, res.stderr, "search-read")

	res = runCLI(t, "frobnicate")
	assert.Equal(t, exitUsage, res.code)
	assert.Contains(t, res.stderr, `unknown command "frobnicate"`)
}

func TestRun_HelpFlag(t *testing.T) {
	cliEnv(t)
	res := runCLI(t, "count", "-h")
	assert.Equal(t, exitOK, res.code)
	assert.Contains(t, res.stderr, "-model")
}

func TestRun_MissingEnvFile(t *testing.T) {
	cliEnv(t)
	t.Setenv(envFileEnv, filepath.Join(t.TempDir(), "nope.env"))

	res := runCLI(t, "health")
	assert.Equal(t, exitFailure, res.code)
	assert.Contains(t, res.stderr, "load config")
}

func TestLoginWhoamiLogout(t *testing.T) {
	server := cliEnv(t)
	login(t, server)

	server.Reply(odoo.PathSessionInfo, testutil.Result(map[string]any{"uid": 5, "name": "Ana Pérez"}))
	res := runCLI(t, "whoami", "-query", "[username, role, token]")
	require.Equal(t, exitOK, res.code, res.stderr)
	assert.JSONEq(t, `["ana@colegio.edu", "professor", "0123************"]`, res.stdout)
	assert.Equal(t, "0123456789abcdef", server.Calls()[1].Header.Get(odoo.SessionHeader))

	server.Reply(odoo.PathDestroy, testutil.Result(nil))
	res = runCLI(t, "logout")
	require.Equal(t, exitOK, res.code, res.stderr)
	assert.Equal(t, 1, server.CallCount(odoo.PathDestroy))

	res = runCLI(t, "whoami", "-local")
	assert.Equal(t, exitFailure, res.code)
	assert.Contains(t, res.stderr, odoo.MsgNoSession)
}

func TestLogin_Failures(t *testing.T) {
	tests := []struct {
		name     string
		reply    testutil.Reply
		args     []string
		wantCode int
		wantErr  string
	}{
		{
			name:     "wrong password",
			reply:    testutil.RPCError(200, "Odoo Server Error", "odoo.exceptions.AccessDenied", "Access Denied"),
			args:     []string{"-u", "ana", "-p", "bad"},
			wantCode: exitFailure,
			wantErr:  service.MsgInvalidCredentials,
		},
		{
			name:     "missing password",
			reply:    authenticateReply("profesor"),
			args:     []string{"-u", "ana"},
			wantCode: exitFailure,
			wantErr:  service.MsgCredentialsRequired,
		},
		{
			name:     "no role",
			reply:    authenticateReply(false),
			args:     []string{"-u", "ana", "-p", "secret"},
			wantCode: exitFailure,
			wantErr:  "no tiene un rol",
		},
		{
			name:     "server down",
			reply:    testutil.HTTPStatus(502),
			args:     []string{"-u", "ana", "-p", "secret"},
			wantCode: exitFailure,
			wantErr:  "No se pudo iniciar sesión",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := cliEnv(t)
			server.Reply(odoo.PathAuthenticate, tt.reply)
			server.Reply(odoo.PathDestroy, testutil.Result(nil))

			res := runCLI(t, append([]string{"login"}, tt.args...)...)
			assert.Equal(t, tt.wantCode, res.code)
			assert.Contains(t, res.stderr, tt.wantErr)
			assert.Empty(t, res.stdout)
		})
	}
}

func TestLogin_PasswordFromEnv(t *testing.T) {
	server := cliEnv(t)
	t.Setenv(passwordEnv, "from-env")
	server.Reply(odoo.PathAuthenticate, authenticateReply("administrador"))

	res := runCLI(t, "login", "-u", "ana@colegio.edu", "-query", "role")
	require.Equal(t, exitOK, res.code, res.stderr)
	assert.JSONEq(t, `"admin"`, res.stdout)
	assert.Equal(t, "from-env", server.Calls()[0].Params["password"])
}

func TestHealth(t *testing.T) {
	server := cliEnv(t)
	server.Reply(odoo.PathDatabaseList, testutil.Result([]string{"school"}))

	res := runCLI(t, "health")
	require.Equal(t, exitOK, res.code, res.stderr)
	assert.Contains(t, res.stdout, `"reachable": true`)

	server.Reply(odoo.PathDatabaseList, testutil.HTTPStatus(503))
	res = runCLI(t, "health")
	assert.Equal(t, exitFailure, res.code)
	assert.Contains(t, res.stdout, `"reachable": false`)
	assert.Contains(t, res.stderr, service.MsgOffline)
}

func TestDatabases(t *testing.T) {
	server := cliEnv(t)
	server.Reply(odoo.PathDatabaseList, testutil.Result([]string{"school", "demo"}))

	res := runCLI(t, "databases", "-query", "[0]")
	require.Equal(t, exitOK, res.code, res.stderr)
	assert.JSONEq(t, `"school"`, res.stdout)
}

func TestSearchRead(t *testing.T) {
	server := cliEnv(t)

	res := runCLI(t, "search-read", "-model", service.ModelStudent)
	assert.Equal(t, exitFailure, res.code)
	assert.Contains(t, res.stderr, odoo.MsgNoSession)
	assert.Zero(t, server.CallCount(odoo.PathCallKW))

	login(t, server)
	var seen testutil.RPCCall
	server.HandleKW(service.ModelStudent, "search_read", func(call testutil.RPCCall) testutil.Reply {
		seen = call
		return testutil.Result([]map[string]any{
			{"id": 1, "name": "Luis"},
			{"id": 2, "name": "Marta"},
		})
	})

	res = runCLI(t, "search-read",
		"-model", service.ModelStudent,
		"-domain", `[["active","=",true]]`,
		"-fields", "name, id",
		"-limit", "2",
		"-query", "[].name",
	)
	require.Equal(t, exitOK, res.code, res.stderr)
	assert.JSONEq(t, `["Luis", "Marta"]`, res.stdout)

	kwargs, ok := seen.Params["kwargs"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, []any{"name", "id"}, kwargs["fields"])
	assert.EqualValues(t, 2, kwargs["limit"])
	assert.Equal(t, []any{[]any{"active", "=", true}}, kwargs["domain"])
}

func TestSearchRead_ExpiredSession(t *testing.T) {
	server := cliEnv(t)
	login(t, server)
	server.HandleKW(service.ModelSection, "search_read", func(testutil.RPCCall) testutil.Reply {
		return testutil.RPCError(100, "Odoo Session Expired", "odoo.http.SessionExpiredException", "Session expired")
	})

	res := runCLI(t, "search-read", "-model", service.ModelSection)
	assert.Equal(t, exitFailure, res.code)
	assert.Contains(t, res.stderr, odoo.MsgSessionExpired)

	// The credential was cleared, so the next call never reaches the server.
	before := server.CallCount(odoo.PathCallKW)
	res = runCLI(t, "count", "-model", service.ModelSection)
	assert.Equal(t, exitFailure, res.code)
	assert.Contains(t, res.stderr, odoo.MsgNoSession)
	assert.Equal(t, before, server.CallCount(odoo.PathCallKW))
}

func TestReadCountCall(t *testing.T) {
	server := cliEnv(t)
	login(t, server)

	server.HandleKW(service.ModelPartner, "read", func(call testutil.RPCCall) testutil.Reply {
		args, _ := call.Params["args"].([]any)
		ids, _ := args[0].([]any)
		recs := make([]map[string]any, 0, len(ids))
		for _, id := range ids {
			recs = append(recs, map[string]any{"id": id, "name": "P"})
		}
		return testutil.Result(recs)
	})
	server.HandleKW(service.ModelPartner, "search_count", func(testutil.RPCCall) testutil.Reply {
		return testutil.Result(7)
	})
	server.HandleKW(service.ModelPartner, "name_get", func(testutil.RPCCall) testutil.Reply {
		return testutil.Result([]any{[]any{3, "Colegio"}})
	})

	res := runCLI(t, "read", "-model", service.ModelPartner, "-ids", "3", "-query", "id")
	require.Equal(t, exitOK, res.code, res.stderr)
	assert.JSONEq(t, `3`, res.stdout)

	res = runCLI(t, "read", "-model", service.ModelPartner, "-ids", "3,4", "-query", "length(@)")
	require.Equal(t, exitOK, res.code, res.stderr)
	assert.JSONEq(t, `2`, res.stdout)

	res = runCLI(t, "count", "-model", service.ModelPartner)
	require.Equal(t, exitOK, res.code, res.stderr)
	assert.JSONEq(t, `{"model": "res.partner", "count": 7}`, res.stdout)

	res = runCLI(t, "call", "-model", service.ModelPartner, "-method", "name_get", "-args", "[[3]]")
	require.Equal(t, exitOK, res.code, res.stderr)
	assert.JSONEq(t, `[[3, "Colegio"]]`, res.stdout)
}

func TestRecordCommands_UsageErrors(t *testing.T) {
	cliEnv(t)

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{name: "missing model", args: []string{"count"}, wantErr: "-model is required"},
		{name: "bad domain", args: []string{"count", "-model", "x", "-domain", "{"}, wantErr: "-domain must be a JSON array"},
		{name: "missing ids", args: []string{"read", "-model", "x"}, wantErr: "-ids must list"},
		{name: "bad ids", args: []string{"read", "-model", "x", "-ids", "1,zero"}, wantErr: "-ids must list"},
		{name: "missing method", args: []string{"call", "-model", "x"}, wantErr: "-method is required"},
		{name: "bad args", args: []string{"call", "-model", "x", "-method", "m", "-args", "{}"}, wantErr: "-args must be a JSON array"},
		{name: "unknown flag", args: []string{"health", "-verbose"}, wantErr: "flag provided but not defined"},
		{name: "stray argument", args: []string{"logout", "now"}, wantErr: "unexpected arguments: now"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := runCLI(t, tt.args...)
			assert.Equal(t, exitUsage, res.code)
			assert.Contains(t, res.stderr, tt.wantErr)
		})
	}
}

func TestPrintResult_InvalidQuery(t *testing.T) {
	var buf bytes.Buffer
	err := printResult(&buf, map[string]any{"a": 1}, "[[")
	require.Error(t, err)
	assert.ErrorIs(t, err, errUsage)
	assert.Empty(t, buf.String())
}

func TestPrintResult_Plain(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printResult(&buf, map[string]any{"a": 1}, ""))
	assert.Equal(t, "{\n  \"a\": 1\n}\n", buf.String())
}

func TestPrintResult_QueryProjectsTypedValues(t *testing.T) {
	type row struct {
		Name  string `json:"name"`
		Grade int    `json:"grade"`
	}
	var buf bytes.Buffer
	rows := []row{{Name: "Ana", Grade: 3}, {Name: "Luis", Grade: 4}}
	require.NoError(t, printResult(&buf, rows, "[?grade > `3`].name"))
	assert.JSONEq(t, `["Luis"]`, buf.String())
}

func TestHelpers(t *testing.T) {
	ids, err := parseIDs(" 1, 2 ,,3")
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3}, ids)

	_, err = parseIDs("1,-2")
	assert.Error(t, err)

	assert.Nil(t, splitList(" , "))
	assert.Equal(t, "****", maskToken("abcd"))
	assert.Equal(t, "abcd"+strings.Repeat("*", 6), maskToken("abcdefghij"))
}
