// Package services implements the business logic layer of SueldoReal. It
// sits between the HTTP handlers and the numeric pipeline, owning input
// loading, window defaulting and warning collection so handlers stay thin.
//
// # Architecture
//
// Services follow these architectural principles:
//
//	1. Interface-driven design for testability
//	2. Context propagation for cancellation and tracing
//	3. Dependency injection for loose coupling
//
// # Available Services
//
// The package provides these services:
//
//	- SalaryService: runs the full deflation pipeline for one request
//	- HealthService: provides system health checks and version info
//
// # Error Handling
//
// Services return domain-specific errors that handlers transform into RFC
// 7807 problems: SchemaError halts with a message, fetch failures degrade
// to warnings, empty windows and underivable series come back as typed,
// recoverable errors.
package services
