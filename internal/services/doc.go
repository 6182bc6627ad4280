// Package services implements the business logic layer between the HTTP
// handlers and the parsing core.
//
// # Architecture
//
// Services follow these architectural principles:
//
//	1. Context propagation for cancellation and tracing
//	2. Dependency injection for loose coupling
//	3. Domain-focused methods that encapsulate business rules
//
// # Service Layer Responsibilities
//
// The service layer is responsible for:
//
//	- Resolving report names against the configured directories
//	- Assembling parse options from caller requests and shipped profiles
//	- Driving the dataprocessing core and recording metrics
//	- Writing normalized outputs through the exporter
//	- Error transformation into the API error taxonomy
//
// ReportService orchestrates export discovery, parsing and output writing.
// HealthService reports process and dependency health for the health
// endpoints.
package services
