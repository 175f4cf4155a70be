package odoo

// Package odoo is a JSON-RPC client for the Odoo web API. It owns the session
// credential lifecycle: it attaches the stored credential to authenticated calls,
// detects expired sessions, clears the credential, and notifies a single subscriber.

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/target/odoo-school-client/internal/ports"
)

// Endpoint paths.
const (
	PathAuthenticate = "/web/session/authenticate"
	PathCallKW       = "/web/dataset/call_kw"
	PathSessionInfo  = "/web/session/get_session_info"
	PathDestroy      = "/web/session/destroy"
	PathDatabaseList = "/web/database/list"
)

// SessionHeader carries the session credential on authenticated requests.
const SessionHeader = "X-Openerp-Session-Id"

// maxSnippet bounds the raw body excerpt attached to malformed-response errors.
const maxSnippet = 200

// Config groups the Odoo endpoint and collaborators for Client.
type Config struct {
	// Host is scheme + authority, e.g. https://erp.example.com.
	Host string
	// Database is sent on authenticate.
	Database string
	// HTTPClient defaults to a client with no timeout.
	HTTPClient *http.Client
	// Credentials stores the session credential. Required.
	Credentials ports.CredentialStore
	// Notifier is fired after an expired session is cleared. Optional.
	Notifier *ExpiryNotifier
	// Logger defaults to a discard logger.
	Logger *slog.Logger
	// Metrics receives per-call counters and timings. Optional.
	Metrics MetricsSink
}

// MetricsSink receives RPC counters and timings, e.g. a StatsD client.
type MetricsSink interface {
	Count(name string, value int64, tags map[string]string)
	Timing(name string, value time.Duration, tags map[string]string)
}

type nopMetrics struct{}

func (nopMetrics) Count(string, int64, map[string]string)         {}
func (nopMetrics) Timing(string, time.Duration, map[string]string) {}

// Client talks JSON-RPC 2.0 to a single Odoo database.
// It is safe for concurrent use; callers needing ordering must serialize themselves.
type Client struct {
	host     string
	database string
	http     *http.Client
	creds    ports.CredentialStore
	notifier *ExpiryNotifier
	logger   *slog.Logger
	metrics  MetricsSink
	lastID   atomic.Int64
}

// NewClient builds a Client. Host and Credentials are required.
func NewClient(cfg Config) (*Client, error) {
	host := strings.TrimRight(strings.TrimSpace(cfg.Host), "/")
	if host == "" {
		return nil, errors.New("odoo host is required")
	}
	if cfg.Credentials == nil {
		return nil, errors.New("odoo credential store is required")
	}

	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	metrics := cfg.Metrics
	if metrics == nil {
		metrics = nopMetrics{}
	}

	c := &Client{
		host:     host,
		database: cfg.Database,
		http:     hc,
		creds:    cfg.Credentials,
		notifier: cfg.Notifier,
		logger:   logger,
		metrics:  metrics,
	}
	c.lastID.Store(time.Now().UnixMilli())
	return c, nil
}

// Database returns the configured database name.
func (c *Client) Database() string { return c.database }

// Request is the JSON-RPC 2.0 request envelope.
type Request struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int64  `json:"id"`
	Method  string `json:"method"`
	Params  any    `json:"params"`
}

// Response is the JSON-RPC 2.0 response envelope.
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      any             `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   json.RawMessage `json:"error,omitempty"`
}

type callResult struct {
	result json.RawMessage
	header http.Header
}

// Call posts params to path and returns the raw JSON-RPC result.
// With requiresAuth and no stored credential it fails with KindNoSession without
// touching the network. Every failure is an *Error.
func (c *Client) Call(ctx context.Context, path string, params any, requiresAuth bool) (json.RawMessage, error) {
	res, err := c.call(ctx, path, params, requiresAuth)
	if err != nil {
		return nil, err
	}
	return res.result, nil
}

func (c *Client) call(ctx context.Context, path string, params any, requiresAuth bool) (*callResult, error) {
	logger := c.logger.With("call_id", uuid.NewString(), "path", path)

	var token string
	if requiresAuth {
		token = c.creds.Get(ctx)
		if token == "" {
			logger.DebugContext(ctx, "no stored session, request skipped")
			return nil, errNoSession()
		}
	}

	started := time.Now()
	env, header, err := c.roundTrip(ctx, path, params, token)
	if err != nil {
		logger.DebugContext(ctx, "odoo request failed",
			"kind", KindOf(err),
			"error", err,
			"duration", time.Since(started),
		)
		c.observe(path, KindOf(err), time.Since(started))
		return nil, err
	}

	if hasError(env.Error) {
		rpcErr := decodeRPCError(env.Error)
		err := c.handleRPCError(ctx, logger, rpcErr, requiresAuth)
		c.observe(path, KindOf(err), time.Since(started))
		return nil, err
	}

	logger.DebugContext(ctx, "odoo request completed", "duration", time.Since(started))
	c.observe(path, "", time.Since(started))
	return &callResult{result: env.Result, header: header}, nil
}

// observe records one finished round trip; an empty kind means success.
func (c *Client) observe(path string, kind ErrorKind, d time.Duration) {
	outcome := "ok"
	if kind != "" {
		outcome = string(kind)
	}
	tags := map[string]string{"path": path, "outcome": outcome}
	c.metrics.Count("rpc.calls", 1, tags)
	c.metrics.Timing("rpc.duration", d, map[string]string{"path": path})
}

func (c *Client) roundTrip(ctx context.Context, path string, params any, token string) (*Response, http.Header, error) {
	body, err := json.Marshal(Request{
		JSONRPC: "2.0",
		ID:      c.lastID.Add(1),
		Method:  "call",
		Params:  params,
	})
	if err != nil {
		return nil, nil, transportError("encode request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.host+path, bytes.NewReader(body))
	if err != nil {
		return nil, nil, transportError("create request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set(SessionHeader, token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, nil, transportError("odoo request failed", err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			c.logger.DebugContext(ctx, "close response body failed", "error", cerr)
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Drain so the connection can be reused; the body is not classified.
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, nil, &Error{
			Kind:    KindHTTP,
			Status:  resp.StatusCode,
			Message: fmt.Sprintf("HTTP Error: %d %s", resp.StatusCode, http.StatusText(resp.StatusCode)),
		}
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, transportError("read response", err)
	}

	var env Response
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, nil, &Error{
			Kind:    KindMalformed,
			Message: "invalid JSON response: " + snippet(raw),
			Cause:   err,
		}
	}

	return &env, resp.Header, nil
}

func (c *Client) handleRPCError(ctx context.Context, logger *slog.Logger, rpcErr *Error, requiresAuth bool) error {
	rpcErr.Kind = ClassifyError(rpcErr)

	switch rpcErr.Kind {
	case KindSessionExpired, KindAccessDenied:
		// Unauthenticated calls clear and notify too; the returned Kind still tells
		// a rejected login apart from an expired session.
		logger.InfoContext(ctx, "odoo session rejected, clearing credential",
			"kind", rpcErr.Kind,
			"code", rpcErr.Code,
			"authenticated", requiresAuth,
		)
		c.creds.Clear(ctx)
		c.metrics.Count("session.expired", 1, map[string]string{"kind": string(rpcErr.Kind)})
		c.notifier.Notify()
		return &Error{
			Kind:           rpcErr.Kind,
			Code:           rpcErr.Code,
			Message:        MsgSessionExpired,
			Data:           rpcErr.Data,
			SessionExpired: true,
			Cause:          rpcErr,
		}
	default:
		logger.DebugContext(ctx, "odoo returned an error", "code", rpcErr.Code, "message", rpcErr.Message)
		return rpcErr
	}
}

func hasError(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null"))
}

// decodeRPCError accepts the structured Odoo error object and, failing that,
// any other JSON value as the message.
func decodeRPCError(raw json.RawMessage) *Error {
	e := &Error{}
	if err := json.Unmarshal(raw, e); err != nil {
		var s string
		if json.Unmarshal(raw, &s) == nil {
			e = &Error{Message: s}
		} else {
			e = &Error{Message: string(raw)}
		}
	}
	e.raw = bytes.Clone(raw)
	return e
}

func snippet(raw []byte) string {
	s := strings.TrimSpace(string(raw))
	if len(s) <= maxSnippet {
		return s
	}
	cut := maxSnippet
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "…"
}
