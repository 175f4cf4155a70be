// Package mocks provides mock implementations for testing the odoo school client.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for the
// service-level gateway interfaces. Hand-written doubles for storage ports live in
// the auth subpackage.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	gw := mocks.NewMockOdooSession(ctrl)
//	gw.EXPECT().SessionInfo(gomock.Any()).Return(info, nil)
package mocks

// Generate mock for OdooSession interface from internal/service package.
// This creates MockOdooSession with methods for all OdooSession interface methods:
// Authenticate, DestroySession, SessionInfo, ListDatabases
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=odoo_session_mock.go github.com/target/odoo-school-client/internal/service OdooSession
