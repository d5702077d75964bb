// Package service contains the business logic layer for FlowScope.
//
// Services sit between handlers (transport) and repositories (storage).
// Each service declares the repository interfaces it depends on, so
// tests can substitute mocks without touching a database.
package service
