package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
)

// RPCCall is one request observed by FakeOdoo.
type RPCCall struct {
	Path   string
	Header http.Header
	ID     any
	Params map[string]any
}

// Model returns params.model for call_kw requests.
func (c RPCCall) Model() string {
	s, _ := c.Params["model"].(string)
	return s
}

// Method returns params.method for call_kw requests.
func (c RPCCall) Method() string {
	s, _ := c.Params["method"].(string)
	return s
}

// Reply describes how FakeOdoo answers a request.
// Status other than 0/200 short-circuits with that status and Body.
// RawBody replaces the JSON-RPC envelope entirely.
type Reply struct {
	Status    int
	Body      string
	RawBody   string
	Result    any
	Error     any
	SessionID string
}

// Result answers with a JSON-RPC result.
func Result(v any) Reply { return Reply{Result: v} }

// RPCError answers with a structured Odoo JSON-RPC error.
func RPCError(code int, message, dataName, dataMessage string) Reply {
	errObj := map[string]any{
		"code":    code,
		"message": message,
	}
	if dataName != "" || dataMessage != "" {
		errObj["data"] = map[string]any{
			"name":      dataName,
			"message":   dataMessage,
			"arguments": []any{dataMessage},
			"debug":     "Traceback (most recent call last): ...",
		}
	}
	return Reply{Error: errObj}
}

// HTTPStatus answers with a bare HTTP status.
func HTTPStatus(code int) Reply {
	return Reply{Status: code, Body: http.StatusText(code)}
}

// HandlerFunc produces the reply for a recorded call.
type HandlerFunc func(call RPCCall) Reply

// FakeOdoo is an httptest-backed Odoo JSON-RPC server with per-path and
// per-model-method handlers. It records every request it receives.
type FakeOdoo struct {
	Server *httptest.Server

	mu       sync.Mutex
	handlers map[string]HandlerFunc
	calls    []RPCCall
}

// NewFakeOdoo starts a server that is closed on test cleanup.
func NewFakeOdoo(t TestingTB) *FakeOdoo {
	t.Helper()
	f := &FakeOdoo{handlers: make(map[string]HandlerFunc)}
	f.Server = httptest.NewServer(http.HandlerFunc(f.serveHTTP))
	t.Cleanup(f.Server.Close)
	return f
}

// URL returns the server base URL.
func (f *FakeOdoo) URL() string { return f.Server.URL }

// Handle registers h for every request to path.
func (f *FakeOdoo) Handle(path string, h HandlerFunc) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handlers[path] = h
}

// Reply registers a fixed reply for path.
func (f *FakeOdoo) Reply(path string, r Reply) {
	f.Handle(path, func(RPCCall) Reply { return r })
}

// HandleKW registers h for call_kw requests targeting model.method.
func (f *FakeOdoo) HandleKW(model, method string, h HandlerFunc) {
	f.Handle(kwKey(model, method), h)
}

// Calls returns a copy of the recorded calls.
func (f *FakeOdoo) Calls() []RPCCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]RPCCall(nil), f.calls...)
}

// CallCount returns how many requests hit path; an empty path counts all requests.
func (f *FakeOdoo) CallCount(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	if path == "" {
		return len(f.calls)
	}
	n := 0
	for _, c := range f.calls {
		if c.Path == path {
			n++
		}
	}
	return n
}

func (f *FakeOdoo) serveHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	var req struct {
		ID     any            `json:"id"`
		Params map[string]any `json:"params"`
	}
	_ = json.Unmarshal(body, &req)

	call := RPCCall{Path: r.URL.Path, Header: r.Header.Clone(), ID: req.ID, Params: req.Params}

	f.mu.Lock()
	f.calls = append(f.calls, call)
	h, ok := f.handlers[kwKey(call.Model(), call.Method())]
	if !ok || call.Model() == "" {
		h, ok = f.handlers[call.Path]
	}
	f.mu.Unlock()

	if !ok {
		http.NotFound(w, r)
		return
	}
	writeReply(w, req.ID, h(call))
}

func writeReply(w http.ResponseWriter, id any, reply Reply) {
	if reply.SessionID != "" {
		http.SetCookie(w, &http.Cookie{Name: "session_id", Value: reply.SessionID, Path: "/", HttpOnly: true})
	}
	if reply.Status != 0 && reply.Status != http.StatusOK {
		w.WriteHeader(reply.Status)
		_, _ = io.WriteString(w, reply.Body)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if reply.RawBody != "" {
		_, _ = io.WriteString(w, reply.RawBody)
		return
	}

	env := map[string]any{"jsonrpc": "2.0", "id": id}
	if reply.Error != nil {
		env["error"] = reply.Error
	} else {
		env["result"] = reply.Result
	}
	_ = json.NewEncoder(w).Encode(env)
}

func kwKey(model, method string) string {
	return "call_kw#" + model + "." + method
}
