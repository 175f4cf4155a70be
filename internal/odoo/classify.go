package odoo

import (
	"encoding/json"
	"fmt"
	"strings"
)

// The backend does not document its error vocabulary; these substrings are the contract.
// A change in wording on the server side silently stops expiry handling.
var (
	sessionExpiredPatterns = []string{
		"session expired",
		"session_expired",
		"sessionexpiredexception",
	}
	accessDeniedPatterns = []string{
		"access denied",
		"access_denied",
		"accessdenied",
	}
)

// ClassifyError decides whether a backend JSON-RPC error means the session expired,
// access was denied, or something else went wrong.
func ClassifyError(e *Error) ErrorKind {
	if e == nil {
		return KindBackend
	}

	blob := strings.ToLower(stringify(e))

	if containsAny(blob, sessionExpiredPatterns) ||
		e.Code == InvalidSessionCode ||
		(e.Data != nil && strings.Contains(e.Data.Name, "SessionExpired")) {
		return KindSessionExpired
	}
	if containsAny(blob, accessDeniedPatterns) {
		return KindAccessDenied
	}
	return KindBackend
}

// stringify prefers the payload as received so unmodelled backend fields still match.
func stringify(e *Error) string {
	if len(e.raw) > 0 {
		return string(e.raw)
	}
	b, err := json.Marshal(e)
	if err != nil {
		return fmt.Sprintf("%d %s %+v", e.Code, e.Message, e.Data)
	}
	return string(b)
}

func containsAny(s string, patterns []string) bool {
	for _, p := range patterns {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}
